package models

// Vendor identifies the supplier an invoice came from and which handler
// variant processes its lines.
type Vendor struct {
	Name string `json:"name"`          // e.g. "Carrousel Emballage Inc."
	Type string `json:"type"`          // "packaging", "food_supply", "generic"
	GST  string `json:"gst,omitempty"` // TPS/GST registration
	QST  string `json:"qst,omitempty"` // TVQ/QST registration
}

// InvoiceTotals carries the invoice-level amounts used for cascade validation.
// Quebec invoices tax the subtotal plus delivery charges, apply TPS/GST first,
// then TVQ/QST on the TPS-inclusive base.
type InvoiceTotals struct {
	Subtotal      float64 `json:"subtotal"`
	Freight       float64 `json:"freight,omitempty"`
	FuelSurcharge float64 `json:"fuelSurcharge,omitempty"`
	TPS           float64 `json:"tps"`
	TVQ           float64 `json:"tvq"`
	Total         float64 `json:"total"`
}

// InventoryItem is a catalog entry lines are matched against.
type InventoryItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SKU        string   `json:"sku,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	VendorName string   `json:"vendorName,omitempty"`
	Category   string   `json:"category,omitempty"` // e.g. "PACKAGING"

	// BaseUnit is set for piece-tracked items; StockWeightUnit for weight-tracked.
	BaseUnit        *string  `json:"baseUnit,omitempty"`
	StockWeightUnit *string  `json:"stockWeightUnit,omitempty"`
	PricePerG       *float64 `json:"pricePerG,omitempty"`
	PricePerML      *float64 `json:"pricePerML,omitempty"`
}
