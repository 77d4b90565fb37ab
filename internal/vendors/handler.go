// Package vendors routes invoice lines through vendor-type handlers. Every
// handler shares the same classification and math-validation core; only the
// field extraction and catalog mapping differ per vendor type.
package vendors

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kitchencommand/invoice-line-engine/internal/ingest"
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
)

// Handler processes one vendor type's lines and maps them to catalog items.
type Handler interface {
	// Type is the registry key, e.g. "packaging".
	Type() string
	// Label is the human-readable vendor-type name.
	Label() string
	// ProcessLines runs shared base extraction then type-specific enrichment
	// over a batch. Input lines are never mutated.
	ProcessLines(lines []models.RawLine, profile ingest.Profile) ([]models.ProcessedLine, models.Summary)
	// CreateInventoryItem maps a processed line into a new catalog entry.
	CreateInventoryItem(line models.ProcessedLine, vendor models.Vendor) models.InventoryItem
}

// Registry looks handlers up by vendor type.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry with the built-in handlers registered.
func NewRegistry(validator *services.MathValidator) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(NewPackagingHandler(validator))
	r.Register(NewFoodSupplyHandler(validator))
	r.Register(NewGenericHandler(validator))
	return r
}

// Register adds a handler; later registrations replace earlier ones.
func (r *Registry) Register(h Handler) {
	r.handlers[h.Type()] = h
}

// Get returns the handler for a vendor type.
func (r *Registry) Get(vendorType string) (Handler, error) {
	h, ok := r.handlers[vendorType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownVendorType, vendorType)
	}
	return h, nil
}

// Types lists the registered vendor types, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// base carries the extraction logic every handler shares.
type base struct {
	validator *services.MathValidator
}

// processBase classifies a line, validates its arithmetic and assembles the
// ProcessedLine skeleton the handler variants enrich.
func (b base) processBase(raw models.RawLine, profile ingest.Profile) models.ProcessedLine {
	line := models.ProcessedLine{
		ID:          uuid.NewString(),
		Raw:         raw,
		Description: ingest.Sanitize(raw.Description),
		Quantity:    raw.Quantity,
		UnitPrice:   raw.UnitPrice,
		TotalPrice:  raw.TotalPrice,
	}

	line.LineType = services.DetectLineType(raw)
	line.InventoryEligible, line.CountsTowardTotal = services.RoutingFlags(line.LineType)

	mv := b.validator.ValidateLine(raw.Quantity, raw.UnitPrice, raw.TotalPrice)
	line.Math = &mv
	switch {
	case mv.Tier == "error":
		line.Anomalies = append(line.Anomalies, models.Anomaly{
			Severity: models.SeverityError,
			Code:     "math_mismatch",
			Field:    "totalPrice",
			Message:  fmt.Sprintf("expected %.2f, stated %.2f", mv.Expected, mv.Actual),
		})
	case mv.Tier == "review" || mv.Tier == "minor":
		line.Anomalies = append(line.Anomalies, models.Anomaly{
			Severity: models.SeverityWarning,
			Code:     "math_discrepancy",
			Field:    "totalPrice",
			Message:  fmt.Sprintf("off by %.2f", mv.Difference),
		})
	}

	return line
}

// formatText picks the notation the parser should see: the profile-mapped
// format column when one exists, the line's own format field otherwise.
func formatText(raw models.RawLine, profile ingest.Profile) string {
	if profile != nil {
		if v := profile.ColumnValue(raw, "format"); v != "" {
			return v
		}
	}
	return ingest.Sanitize(raw.Format)
}

// summarize folds a processed batch into counts and reconciliation totals.
func summarize(lines []models.ProcessedLine) models.Summary {
	s := models.Summary{
		TotalLines:    len(lines),
		CountsByType:  make(map[models.LineType]int),
		AnomalyCounts: make(map[models.AnomalySeverity]int),
	}
	for _, line := range lines {
		s.CountsByType[line.LineType]++
		if line.CountsTowardTotal {
			s.LineSubtotal += line.TotalPrice
		}
		for _, a := range line.Anomalies {
			s.AnomalyCounts[a.Severity]++
		}
		if line.InventoryItemID != nil {
			s.MatchedLines++
		}
	}
	return s
}
