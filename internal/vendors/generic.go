package vendors

import (
	"github.com/kitchencommand/invoice-line-engine/internal/ingest"
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
)

// GenericHandler performs only the shared base extraction: classification
// and math validation, no vendor-specific enrichment. It is the fallback
// for vendors with no dedicated handler.
type GenericHandler struct {
	base
}

// NewGenericHandler builds the fallback handler.
func NewGenericHandler(validator *services.MathValidator) *GenericHandler {
	return &GenericHandler{base{validator: validator}}
}

func (h *GenericHandler) Type() string  { return "generic" }
func (h *GenericHandler) Label() string { return "Generic vendor" }

func (h *GenericHandler) ProcessLines(lines []models.RawLine, profile ingest.Profile) ([]models.ProcessedLine, models.Summary) {
	out := make([]models.ProcessedLine, 0, len(lines))
	for _, raw := range lines {
		out = append(out, h.processBase(raw, profile))
	}
	return out, summarize(out)
}

func (h *GenericHandler) CreateInventoryItem(line models.ProcessedLine, vendor models.Vendor) models.InventoryItem {
	return models.InventoryItem{
		Name:       line.Description,
		SKU:        line.Raw.Code,
		VendorName: vendor.Name,
	}
}
