package format

import (
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/units"
)

// WeightPerCase returns the per-case weight in the format's own unit, or nil
// when the variant does not define one. Approximate weights are nominal and
// never drive totals; piece and unit weights describe one piece, not a case.
func WeightPerCase(f models.ParsedFormat) *float64 {
	switch f.Kind {
	case models.FormatPackWeight, models.FormatMultiplier:
		w := f.PackCount * f.UnitValue
		return &w
	case models.FormatSimpleWeight:
		w := f.Value
		return &w
	case models.FormatWeightRange:
		w := f.AvgValue
		return &w
	}
	return nil
}

// VolumePerCase returns the per-case volume in the format's own unit, or nil.
func VolumePerCase(f models.ParsedFormat) *float64 {
	switch f.Kind {
	case models.FormatPackVolume, models.FormatVolumeMultiplier:
		v := f.PackCount * f.UnitValue
		return &v
	case models.FormatSimpleVolume:
		v := f.Value
		return &v
	}
	return nil
}

// TotalWeight returns quantity cases worth of product weight in the format's
// unit. For bare-unit formats the quantity column already is the weight.
// Multiplication happens before any rounding.
func TotalWeight(f models.ParsedFormat, quantity float64) *float64 {
	if f.Kind == models.FormatBareUnit && units.Classify(f.Unit) == units.CategoryWeight {
		w := quantity
		return &w
	}
	perCase := WeightPerCase(f)
	if perCase == nil {
		return nil
	}
	w := *perCase * quantity
	return &w
}

// TotalVolume returns quantity cases worth of product volume in the format's unit.
func TotalVolume(f models.ParsedFormat, quantity float64) *float64 {
	if f.Kind == models.FormatBareUnit && units.Classify(f.Unit) == units.CategoryVolume {
		v := quantity
		return &v
	}
	perCase := VolumePerCase(f)
	if perCase == nil {
		return nil
	}
	v := *perCase * quantity
	return &v
}

// TotalWeightGrams converts the total weight to grams for price normalization.
func TotalWeightGrams(f models.ParsedFormat, quantity float64) *float64 {
	total := TotalWeight(f, quantity)
	if total == nil {
		return nil
	}
	g, ok := units.ToGrams(*total, f.Unit)
	if !ok {
		return nil
	}
	return &g
}

// TotalVolumeML converts the total volume to millilitres.
func TotalVolumeML(f models.ParsedFormat, quantity float64) *float64 {
	total := TotalVolume(f, quantity)
	if total == nil {
		return nil
	}
	ml, ok := units.ToML(*total, f.Unit)
	if !ok {
		return nil
	}
	return &ml
}

// PricePerGram divides the line total by the total grams, guarding against
// missing or zero weights.
func PricePerGram(totalPrice float64, totalGrams *float64) *float64 {
	if totalGrams == nil || *totalGrams <= 0 {
		return nil
	}
	p := totalPrice / *totalGrams
	return &p
}

// PricePerML divides the line total by the total millilitres.
func PricePerML(totalPrice float64, totalML *float64) *float64 {
	if totalML == nil || *totalML <= 0 {
		return nil
	}
	p := totalPrice / *totalML
	return &p
}
