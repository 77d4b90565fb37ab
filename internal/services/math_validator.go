package services

import (
	"fmt"
	"math"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

// MathValidator reconciles line and invoice arithmetic. Tier bounds come from
// configuration so a single validation run applies one consistent policy.
type MathValidator struct {
	cfg   models.ValidationConfig
	taxes models.TaxConfig
}

// NewMathValidator creates a validator. Zero-valued config fields fall back
// to the defaults.
func NewMathValidator(cfg models.ValidationConfig, taxes models.TaxConfig) *MathValidator {
	def := models.DefaultValidationConfig()
	if cfg.RoundingMax <= 0 {
		cfg.RoundingMax = def.RoundingMax
	}
	if cfg.AcceptableMax <= 0 {
		cfg.AcceptableMax = def.AcceptableMax
	}
	if cfg.MinorMax <= 0 {
		cfg.MinorMax = def.MinorMax
	}
	if cfg.ReviewMax <= 0 {
		cfg.ReviewMax = def.ReviewMax
	}
	if taxes.TPSRate <= 0 || taxes.TVQRate <= 0 {
		taxes = models.DefaultTaxConfig()
	}
	return &MathValidator{cfg: cfg, taxes: taxes}
}

// ValidateLine checks quantity x unit price against the stated line total.
// Confidence steps down with the dollar difference; inclusive upper bounds,
// lowest tier wins. A missing stated total cannot be falsified, so it
// validates clean.
func (v *MathValidator) ValidateLine(quantity, unitPrice, totalPrice float64) models.MathValidation {
	expected := round2(quantity * unitPrice)
	formula := fmt.Sprintf("%.4g x %.2f = %.2f", quantity, unitPrice, expected)

	if totalPrice == 0 && expected != 0 {
		return models.MathValidation{
			Valid:      true,
			Expected:   expected,
			Confidence: 100,
			Tier:       "exact",
			Formula:    formula + " (no stated total)",
		}
	}

	diff := round2(math.Abs(expected - totalPrice))
	tier, confidence := v.tierFor(diff)

	return models.MathValidation{
		Valid:      confidence >= 50,
		Expected:   expected,
		Actual:     totalPrice,
		Difference: diff,
		Confidence: confidence,
		Tier:       tier,
		Formula:    formula,
	}
}

func (v *MathValidator) tierFor(diff float64) (string, int) {
	switch {
	case diff == 0:
		return "exact", 100
	case diff <= v.cfg.RoundingMax:
		return "rounding", 95
	case diff <= v.cfg.AcceptableMax:
		return "tolerance", 85
	case diff <= v.cfg.MinorMax:
		return "minor", 70
	case diff <= v.cfg.ReviewMax:
		return "review", 50
	default:
		return "error", 20
	}
}

// CascadeStage is one step of the invoice-total cascade.
type CascadeStage struct {
	Name       string  `json:"name"`
	Expected   float64 `json:"expected"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
	IsValid    bool    `json:"isValid"`
}

// CascadeResult reports each stage of subtotal -> TPS -> TVQ -> grand total.
type CascadeResult struct {
	Subtotal   CascadeStage `json:"subtotal"`
	TPS        CascadeStage `json:"tps"`
	TVQ        CascadeStage `json:"tvq"`
	GrandTotal CascadeStage `json:"grandTotal"`
	AllValid   bool         `json:"allValid"`
}

// ValidateCascade checks the invoice totals as a sequence. The taxable base
// is the subtotal plus delivery charges. TPS applies to the taxable base;
// TVQ compounds on the TPS-inclusive base — (taxable + TPS), never taxable
// alone. Swapping that base produces a plausible but wrong total.
func (v *MathValidator) ValidateCascade(lineTotals []float64, totals models.InvoiceTotals) CascadeResult {
	var result CascadeResult

	expectedSubtotal := totals.Subtotal
	if len(lineTotals) > 0 {
		sum := 0.0
		for _, t := range lineTotals {
			sum += t
		}
		expectedSubtotal = round2(sum)
	}
	result.Subtotal = v.stage("subtotal", expectedSubtotal, totals.Subtotal)

	taxable := totals.Subtotal + totals.Freight + totals.FuelSurcharge

	expectedTPS := round2(taxable * v.taxes.TPSRate)
	result.TPS = v.stage("tps", expectedTPS, totals.TPS)

	// Compounding: the declared TPS joins the base before TVQ applies.
	expectedTVQ := round2((taxable + totals.TPS) * v.taxes.TVQRate)
	result.TVQ = v.stage("tvq", expectedTVQ, totals.TVQ)

	expectedTotal := round2(taxable + totals.TPS + totals.TVQ)
	result.GrandTotal = v.stage("grand_total", expectedTotal, totals.Total)

	result.AllValid = result.Subtotal.IsValid && result.TPS.IsValid &&
		result.TVQ.IsValid && result.GrandTotal.IsValid
	return result
}

func (v *MathValidator) stage(name string, expected, actual float64) CascadeStage {
	diff := round2(math.Abs(expected - actual))
	return CascadeStage{
		Name:       name,
		Expected:   expected,
		Actual:     actual,
		Difference: diff,
		IsValid:    diff <= v.cfg.RoundingMax,
	}
}

// round2 rounds to 2 decimal places
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
