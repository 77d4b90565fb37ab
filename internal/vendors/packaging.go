package vendors

import (
	"github.com/kitchencommand/invoice-line-engine/internal/format"
	"github.com/kitchencommand/invoice-line-engine/internal/ingest"
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
)

// PackagingHandler processes packaging-distributor invoices (containers,
// lids, bags, rolls). Everything is piece-tracked: baseUnit is always "pc"
// and weight-based pricing is never set, because a "2.25LB" on a container
// line is the capacity the container holds, not a product weight.
type PackagingHandler struct {
	base
}

// NewPackagingHandler builds the packaging-distributor handler.
func NewPackagingHandler(validator *services.MathValidator) *PackagingHandler {
	return &PackagingHandler{base{validator: validator}}
}

func (h *PackagingHandler) Type() string  { return "packaging" }
func (h *PackagingHandler) Label() string { return "Packaging distributor" }

// ProcessLines adds piece counts, container capacity and dimensions on top
// of the shared base extraction.
func (h *PackagingHandler) ProcessLines(lines []models.RawLine, profile ingest.Profile) ([]models.ProcessedLine, models.Summary) {
	out := make([]models.ProcessedLine, 0, len(lines))
	for _, raw := range lines {
		line := h.processBase(raw, profile)

		pc := "pc"
		line.BaseUnit = &pc

		f := format.ParseFormat(formatText(raw, profile))
		if f.Kind != models.FormatUnknown {
			line.Format = &f
		}
		if f.Kind == models.FormatCountPack && f.Count > 0 && line.Quantity > 0 {
			pieces := int(float64(f.Count) * line.Quantity)
			line.TotalPieces = &pieces
		}

		line.Capacity = format.ExtractContainerCapacity(line.Description)
		line.Dimensions = format.ExtractDimensions(line.Description)

		if line.LineType == models.LineTypeProduct && f.Kind == models.FormatUnknown {
			line.Anomalies = append(line.Anomalies, models.Anomaly{
				Severity: models.SeverityInfo,
				Code:     "format_unknown",
				Field:    "format",
				Message:  "packaging notation not recognized",
			})
		}

		out = append(out, line)
	}
	return out, summarize(out)
}

// CreateInventoryItem maps a packaging line to a piece-tracked catalog item.
// Packaging items never carry weight pricing.
func (h *PackagingHandler) CreateInventoryItem(line models.ProcessedLine, vendor models.Vendor) models.InventoryItem {
	pc := "pc"
	return models.InventoryItem{
		Name:       line.Description,
		SKU:        line.Raw.Code,
		VendorName: vendor.Name,
		Category:   "PACKAGING",
		BaseUnit:   &pc,
		// StockWeightUnit and PricePerG stay nil by contract.
	}
}
