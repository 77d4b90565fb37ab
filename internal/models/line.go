package models

// RawLine is a vendor-supplied line item as it comes out of extraction.
// It is never mutated by the engine; every stage works on copies.
type RawLine struct {
	Description string  `json:"description"`
	Format      string  `json:"format,omitempty"` // packaging notation column, e.g. "2/5LB"
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
	Unit        string  `json:"unit,omitempty"`
	Code        string  `json:"code,omitempty"` // vendor item code, e.g. "SF-10425"

	// Columns holds the raw spreadsheet cells for profile-driven access.
	Columns []string `json:"columns,omitempty"`
}

// FormatKind identifies which packaging/weight/volume shape a format string decoded to.
type FormatKind string

const (
	FormatPackWeight       FormatKind = "pack_weight"       // "2/5LB": 2 sub-packs of 5 lb
	FormatMultiplier       FormatKind = "multiplier"        // "4X5LB": 4 units of 5 lb
	FormatSimpleWeight     FormatKind = "simple_weight"     // "5KG"
	FormatWeightRange      FormatKind = "weight_range"      // "10-12LB": avg drives totals
	FormatBareUnit         FormatKind = "bare_unit"         // "KG": quantity column IS the weight
	FormatUnitWeight       FormatKind = "unit_weight"       // "2.5KG EA": per-piece, informational
	FormatPieceWeight      FormatKind = "piece_weight"      // "8OZ PC": weight of one piece
	FormatApproxWeight     FormatKind = "approx_weight"     // "2/~5LB": nominal, never totals
	FormatPackVolume       FormatKind = "pack_volume"       // "4/4L"
	FormatVolumeMultiplier FormatKind = "volume_multiplier" // "6X750ML"
	FormatSimpleVolume     FormatKind = "simple_volume"     // "750ML"
	FormatUnitVolume       FormatKind = "unit_volume"       // "500ML EA"
	FormatCountPack        FormatKind = "count_pack"        // "100CT", "1/500", "12PK"
	FormatUnknown          FormatKind = "unknown"
)

// ParsedFormat is the decoded form of a packaging notation. Exactly one kind is
// produced per parse; which fields are meaningful depends on the kind.
type ParsedFormat struct {
	Kind FormatKind `json:"kind"`

	PackCount float64 `json:"packCount,omitempty"` // sub-packs per case (pack, multiplier, approx)
	UnitValue float64 `json:"unitValue,omitempty"` // weight/volume of one sub-pack
	Value     float64 `json:"value,omitempty"`     // simple/unit/piece weight or volume

	MinValue float64 `json:"minValue,omitempty"` // weight range bounds
	MaxValue float64 `json:"maxValue,omitempty"`
	AvgValue float64 `json:"avgValue,omitempty"`

	Count int `json:"count,omitempty"` // pieces per case for count packs

	Unit string `json:"unit,omitempty"` // canonical lowercase unit ("lb", "kg", "ml", ...)
	Raw  string `json:"raw,omitempty"`  // the matched source text
}

// IsWeight reports whether the variant carries a weight measure.
func (f ParsedFormat) IsWeight() bool {
	switch f.Kind {
	case FormatPackWeight, FormatMultiplier, FormatSimpleWeight, FormatWeightRange,
		FormatBareUnit, FormatUnitWeight, FormatPieceWeight, FormatApproxWeight:
		return true
	}
	return false
}

// IsVolume reports whether the variant carries a volume measure.
func (f ParsedFormat) IsVolume() bool {
	switch f.Kind {
	case FormatPackVolume, FormatVolumeMultiplier, FormatSimpleVolume, FormatUnitVolume:
		return true
	}
	return false
}

// ContainerCapacity asserts a numeric value is what a container holds, not the
// weight of the product itself. Detection requires a container keyword in the
// description; the two readings are mutually exclusive.
type ContainerCapacity struct {
	Capacity      float64 `json:"capacity"`
	Unit          string  `json:"unit"`
	IsCapacity    bool    `json:"isCapacity"`
	ContainerType string  `json:"containerType"` // "container", "lid", "bowl", "cup", "plate"
}

// ProductDimensions carries descriptive size/spec data. Never quantity-bearing.
type ProductDimensions struct {
	Width      float64 `json:"width,omitempty"`
	WidthUnit  string  `json:"widthUnit,omitempty"`
	Dimensions string  `json:"dimensions,omitempty"` // e.g. "35X50", "8X12"
	Specs      string  `json:"specs,omitempty"`      // e.g. "2PLY", "3COMP"
}

// LineType classifies what a line represents for routing purposes.
type LineType string

const (
	LineTypeProduct LineType = "product"
	LineTypeDeposit LineType = "deposit"
	LineTypeFee     LineType = "fee"
	LineTypeCredit  LineType = "credit"
	LineTypeZero    LineType = "zero"
)

// MathValidation is the result of reconciling quantity x unit price against the
// line total. Confidence is a step function of the dollar difference.
type MathValidation struct {
	Valid      bool    `json:"valid"`
	Expected   float64 `json:"expected"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
	Confidence int     `json:"confidence"` // 0-100
	Tier       string  `json:"tier"`       // "exact", "rounding", "tolerance", "minor", "review", "error"
	Formula    string  `json:"formula"`
}

// AnomalySeverity ranks how much attention an anomaly needs.
type AnomalySeverity string

const (
	SeverityInfo    AnomalySeverity = "info"
	SeverityWarning AnomalySeverity = "warning"
	SeverityError   AnomalySeverity = "error"
)

// Anomaly is a data-quality finding attached to a line. Anomalies are data,
// not errors: they never abort a batch.
type Anomaly struct {
	Severity AnomalySeverity `json:"severity"`
	Code     string          `json:"code"`
	Field    string          `json:"field,omitempty"`
	Message  string          `json:"message"`
}

// MatchedBy records who decided an inventory match.
type MatchedBy string

const (
	MatchedByAI   MatchedBy = "ai"
	MatchedByUser MatchedBy = "user"
)

// ProcessedLine is a raw line after parsing, classification, validation and
// optional matching. Optional fields are pointers so "absent" is structurally
// distinct from "zero".
type ProcessedLine struct {
	// ID identifies this line within its processing pass; the inventory
	// application ledger keys on it.
	ID string `json:"id"`

	Raw RawLine `json:"raw"`

	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`

	LineType          LineType `json:"lineType"`
	InventoryEligible bool     `json:"inventoryEligible"` // only product lines
	CountsTowardTotal bool     `json:"countsTowardTotal"` // product, fee, credit

	Format     *ParsedFormat      `json:"format,omitempty"`
	Capacity   *ContainerCapacity `json:"capacity,omitempty"`
	Dimensions *ProductDimensions `json:"dimensions,omitempty"`

	// Normalized measures. Set only when the format variant defines a per-case measure.
	WeightPerCase *float64 `json:"weightPerCase,omitempty"` // in WeightUnit
	WeightUnit    string   `json:"weightUnit,omitempty"`
	TotalWeightG  *float64 `json:"totalWeightG,omitempty"`
	TotalVolumeML *float64 `json:"totalVolumeML,omitempty"`
	PricePerG     *float64 `json:"pricePerG,omitempty"`
	PricePerML    *float64 `json:"pricePerML,omitempty"`

	// BaseUnit is the countable unit for piece-tracked items ("pc"). Set by the
	// packaging handler only.
	BaseUnit *string `json:"baseUnit,omitempty"`

	// TotalPieces is the piece count across the whole line (count-pack
	// formats only): pieces per case times quantity.
	TotalPieces *int `json:"totalPieces,omitempty"`

	Math      *MathValidation `json:"math,omitempty"`
	Anomalies []Anomaly       `json:"anomalies,omitempty"`

	InventoryItemID *string          `json:"inventoryItemId,omitempty"`
	MatchConfidence *int             `json:"matchConfidence,omitempty"`
	MatchedBy       MatchedBy        `json:"matchedBy,omitempty"`
	Candidates      []MatchCandidate `json:"candidates,omitempty"`
}

// MatchCandidate is one scored catalog candidate for a line.
type MatchCandidate struct {
	InventoryItemID string `json:"inventoryItemId"`
	Score           int    `json:"score"`
	Name            string `json:"name"`
	SKU             string `json:"sku,omitempty"`
	VendorName      string `json:"vendorName,omitempty"`
}

// MatchResult is the outcome of an auto-match attempt.
type MatchResult struct {
	Matched    bool             `json:"matched"`
	ItemID     string           `json:"itemId,omitempty"`
	Confidence int              `json:"confidence"`
	MatchedBy  MatchedBy        `json:"matchedBy,omitempty"`
	Candidates []MatchCandidate `json:"candidates"`
}

// Summary aggregates a processing pass over one invoice's lines.
type Summary struct {
	TotalLines    int                     `json:"totalLines"`
	CountsByType  map[LineType]int        `json:"countsByType"`
	LineSubtotal  float64                 `json:"lineSubtotal"` // sum over lines that count toward totals
	AnomalyCounts map[AnomalySeverity]int `json:"anomalyCounts"`
	MatchedLines  int                     `json:"matchedLines"`
}
