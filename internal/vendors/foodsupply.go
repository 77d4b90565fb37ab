package vendors

import (
	"github.com/kitchencommand/invoice-line-engine/internal/format"
	"github.com/kitchencommand/invoice-line-engine/internal/ingest"
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
	"github.com/kitchencommand/invoice-line-engine/internal/units"
)

// FoodSupplyHandler processes food-supplier invoices (seafood, meat,
// produce). Lines are weight- or volume-tracked: the handler extracts the
// packaging format, normalizes to grams/millilitres and derives
// price-per-gram or price-per-millilitre. It never sets baseUnit.
type FoodSupplyHandler struct {
	base
}

// NewFoodSupplyHandler builds the food-supplier handler.
func NewFoodSupplyHandler(validator *services.MathValidator) *FoodSupplyHandler {
	return &FoodSupplyHandler{base{validator: validator}}
}

func (h *FoodSupplyHandler) Type() string  { return "food_supply" }
func (h *FoodSupplyHandler) Label() string { return "Food supplier" }

// ProcessLines layers weight/volume extraction on the shared base. The
// format column wins when present; otherwise the description is scanned
// with the same pattern precedence.
func (h *FoodSupplyHandler) ProcessLines(lines []models.RawLine, profile ingest.Profile) ([]models.ProcessedLine, models.Summary) {
	out := make([]models.ProcessedLine, 0, len(lines))
	for _, raw := range lines {
		line := h.processBase(raw, profile)

		f := format.ParseFormat(formatText(raw, profile))
		if f.Kind == models.FormatUnknown {
			f = format.ExtractFormatFromDescription(line.Description)
		}
		if f.Kind != models.FormatUnknown {
			line.Format = &f
		}

		if f.IsWeight() {
			line.WeightUnit = f.Unit
			line.WeightPerCase = format.WeightPerCase(f)
			line.TotalWeightG = format.TotalWeightGrams(f, line.Quantity)
			line.PricePerG = format.PricePerGram(line.TotalPrice, line.TotalWeightG)
		} else if f.IsVolume() {
			line.TotalVolumeML = format.TotalVolumeML(f, line.Quantity)
			line.PricePerML = format.PricePerML(line.TotalPrice, line.TotalVolumeML)
		} else if f.Kind == models.FormatCountPack && f.Count > 0 && line.Quantity > 0 {
			pieces := int(float64(f.Count) * line.Quantity)
			line.TotalPieces = &pieces
		}

		if f.Kind == models.FormatApproxWeight {
			line.Anomalies = append(line.Anomalies, models.Anomaly{
				Severity: models.SeverityInfo,
				Code:     "approximate_weight",
				Field:    "format",
				Message:  "nominal weight only; no computed total",
			})
		}
		if line.LineType == models.LineTypeProduct && line.TotalWeightG == nil &&
			line.TotalVolumeML == nil && line.TotalPieces == nil {
			line.Anomalies = append(line.Anomalies, models.Anomaly{
				Severity: models.SeverityWarning,
				Code:     "no_measure",
				Message:  "no weight, volume or piece count could be derived",
			})
		}

		out = append(out, line)
	}
	return out, summarize(out)
}

// CreateInventoryItem maps a food line to a weight- or volume-tracked
// catalog item. Food items never get a baseUnit.
func (h *FoodSupplyHandler) CreateInventoryItem(line models.ProcessedLine, vendor models.Vendor) models.InventoryItem {
	item := models.InventoryItem{
		Name:       line.Description,
		SKU:        line.Raw.Code,
		VendorName: vendor.Name,
		Category:   "FOOD",
	}
	if line.WeightUnit != "" && units.Classify(line.WeightUnit) == units.CategoryWeight {
		u := line.WeightUnit
		item.StockWeightUnit = &u
		item.PricePerG = line.PricePerG
	} else if line.PricePerML != nil {
		item.PricePerML = line.PricePerML
	}
	return item
}
