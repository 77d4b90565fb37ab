// Package format decodes vendor packaging notations ("2/5LB", "10/100",
// "6/RL", "4X5KG") into typed shapes, recovers OCR-mangled decimals, and
// separates container capacity from product weight.
package format

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/units"
)

// Unit alternations used inside the patterns. Weight before volume matters:
// "OZ" is weight unless written as fluid ounces.
const (
	weightUnits = `LBS?|KG|GR?|OZ|LIVRE|#`
	volumeUnits = `ML|CL|LT?R?|GAL(?:LON)?|QT|PT|FL\.? ?OZ`
	countUnits  = `CT|PK|PCS?|CS|DZ(?:N)?|UN|EA|BX|RL`
	number      = `\d+(?:[.,]\d+)?`
)

// pattern is one entry in the precedence list. First match wins, so the
// order of the patterns slice is load-bearing: a weight range "10-12LB"
// must be tried before simple weight "12LB", and "2/5LB" before any bare
// count reading.
type pattern struct {
	kind  models.FormatKind
	re    *regexp.Regexp
	build func(m []string) models.ParsedFormat
}

var patterns = []pattern{
	{
		// "2/~5LB": nominal per-pack weight, informational only.
		kind: models.FormatApproxWeight,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*/\s*~\s*(` + number + `)\s*(` + weightUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:      models.FormatApproxWeight,
				PackCount: mustFloat(m[1]),
				UnitValue: mustFloat(m[2]),
				Unit:      units.Normalize(m[3]),
			}
		},
	},
	{
		// "2/5LB", "1/10KG": pack count and per-pack weight.
		kind: models.FormatPackWeight,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*/\s*(` + number + `)\s*(` + weightUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:      models.FormatPackWeight,
				PackCount: mustFloat(m[1]),
				UnitValue: mustFloat(m[2]),
				Unit:      units.Normalize(m[3]),
			}
		},
	},
	{
		// "4X5LB", "4 x 2.5KG".
		kind: models.FormatMultiplier,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(` + number + `)\s*(` + weightUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:      models.FormatMultiplier,
				PackCount: mustFloat(m[1]),
				UnitValue: mustFloat(m[2]),
				Unit:      units.Normalize(m[3]),
			}
		},
	},
	{
		// "10-12LB": a catch-weight range; the average drives totals.
		kind: models.FormatWeightRange,
		re:   regexp.MustCompile(`(?i)^(` + number + `)\s*-\s*(` + number + `)\s*(` + weightUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			lo, hi := mustFloat(m[1]), mustFloat(m[2])
			return models.ParsedFormat{
				Kind:     models.FormatWeightRange,
				MinValue: lo,
				MaxValue: hi,
				AvgValue: (lo + hi) / 2,
				Unit:     units.Normalize(m[3]),
			}
		},
	},
	{
		// "8OZ PC", "8 OZ/PC": weight of one piece.
		kind: models.FormatPieceWeight,
		re:   regexp.MustCompile(`(?i)^(` + number + `)\s*(` + weightUnits + `)\s*/?\s*(?:PCS?)$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:  models.FormatPieceWeight,
				Value: mustFloat(m[1]),
				Unit:  units.Normalize(m[2]),
			}
		},
	},
	{
		// "2.5KG EA", "500G/UN": per-unit weight, informational.
		kind: models.FormatUnitWeight,
		re:   regexp.MustCompile(`(?i)^(` + number + `)\s*(` + weightUnits + `)\s*/?\s*(?:EA|UN|CH)$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:  models.FormatUnitWeight,
				Value: mustFloat(m[1]),
				Unit:  units.Normalize(m[2]),
			}
		},
	},
	{
		// "KG", "LB": the quantity column itself is the weight.
		kind: models.FormatBareUnit,
		re:   regexp.MustCompile(`(?i)^(` + weightUnits + `|` + volumeUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind: models.FormatBareUnit,
				Unit: units.Normalize(m[1]),
			}
		},
	},
	{
		// "5KG", "2.25LB".
		kind: models.FormatSimpleWeight,
		re:   regexp.MustCompile(`(?i)^(` + number + `)\s*(` + weightUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:  models.FormatSimpleWeight,
				Value: mustFloat(m[1]),
				Unit:  units.Normalize(m[2]),
			}
		},
	},
	{
		// "6X750ML".
		kind: models.FormatVolumeMultiplier,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(` + number + `)\s*(` + volumeUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:      models.FormatVolumeMultiplier,
				PackCount: mustFloat(m[1]),
				UnitValue: mustFloat(m[2]),
				Unit:      units.Normalize(m[3]),
			}
		},
	},
	{
		// "4/4L".
		kind: models.FormatPackVolume,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*/\s*(` + number + `)\s*(` + volumeUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:      models.FormatPackVolume,
				PackCount: mustFloat(m[1]),
				UnitValue: mustFloat(m[2]),
				Unit:      units.Normalize(m[3]),
			}
		},
	},
	{
		// "500ML EA": per-unit volume, informational.
		kind: models.FormatUnitVolume,
		re:   regexp.MustCompile(`(?i)^(` + number + `)\s*(` + volumeUnits + `)\s*/?\s*(?:EA|UN|PCS?)$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:  models.FormatUnitVolume,
				Value: mustFloat(m[1]),
				Unit:  units.Normalize(m[2]),
			}
		},
	},
	{
		// "750ML".
		kind: models.FormatSimpleVolume,
		re:   regexp.MustCompile(`(?i)^(` + number + `)\s*(` + volumeUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{
				Kind:  models.FormatSimpleVolume,
				Value: mustFloat(m[1]),
				Unit:  units.Normalize(m[2]),
			}
		},
	},
	{
		// "100CT", "12PK", "2DZ". Dozens multiply by 12.
		kind: models.FormatCountPack,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*(` + countUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			n := mustInt(m[1])
			if units.Normalize(m[2]) == "dz" {
				n *= 12
			}
			return models.ParsedFormat{Kind: models.FormatCountPack, Count: n}
		},
	},
	{
		// "1/24CT", "4/12PC": packs of counted pieces.
		kind: models.FormatCountPack,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*/\s*(\d+)\s*(` + countUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			n := mustInt(m[1]) * mustInt(m[2])
			if units.Normalize(m[3]) == "dz" {
				n *= 12
			}
			return models.ParsedFormat{Kind: models.FormatCountPack, Count: n}
		},
	},
	{
		// "1/500", "10/100": bare pack-of-count, common on packaging invoices.
		kind: models.FormatCountPack,
		re:   regexp.MustCompile(`^(\d+)\s*/\s*(\d+)$`),
		build: func(m []string) models.ParsedFormat {
			return models.ParsedFormat{Kind: models.FormatCountPack, Count: mustInt(m[1]) * mustInt(m[2])}
		},
	},
	{
		// "6/RL", "1/PC": count of tool or piece units per case.
		kind: models.FormatCountPack,
		re:   regexp.MustCompile(`(?i)^(\d+)\s*/\s*(` + countUnits + `)\.?$`),
		build: func(m []string) models.ParsedFormat {
			n := mustInt(m[1])
			if units.Normalize(m[2]) == "dz" {
				n *= 12
			}
			return models.ParsedFormat{Kind: models.FormatCountPack, Count: n}
		},
	},
}

// ocrDecimalRe spots a lost decimal point: a single digit, whitespace, then
// exactly two digits glued to a weight suffix ("2 25LB" was "2.25LB"). The
// suffix scoping keeps genuine two-number sequences intact.
var ocrDecimalRe = regexp.MustCompile(`(?i)\b(\d)\s+(\d{2})(LBS?|OZ)\b`)

// RecoverDecimals reconstructs decimals the OCR pass dropped.
func RecoverDecimals(text string) string {
	return ocrDecimalRe.ReplaceAllString(text, "$1.$2$3")
}

// ParseFormat decodes a format-column value into a ParsedFormat. Malformed
// or empty input yields FormatUnknown; this function never fails.
func ParseFormat(text string) models.ParsedFormat {
	s := strings.TrimSpace(RecoverDecimals(text))
	if s == "" {
		return models.ParsedFormat{Kind: models.FormatUnknown, Raw: text}
	}
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(s); m != nil {
			f := p.build(m)
			f.Raw = s
			return f
		}
	}
	return models.ParsedFormat{Kind: models.FormatUnknown, Raw: s}
}

// descWeightRe and friends are the free-text forms of the anchored patterns
// above, tried in the same precedence order. Weight shapes are preferred
// over bare volume shapes because descriptions like "BOL SOUPE 16OZ" would
// otherwise read as product volume.
var (
	descRangeRe   = regexp.MustCompile(`(?i)\b(` + number + `)\s*-\s*(` + number + `)\s*(` + weightUnits + `)\b`)
	descPackRe    = regexp.MustCompile(`(?i)\b(\d+)\s*/\s*(` + number + `)\s*(` + weightUnits + `)\b`)
	descMultRe    = regexp.MustCompile(`(?i)\b(\d+)\s*[x×]\s*(` + number + `)\s*(` + weightUnits + `)\b`)
	descWeightRe  = regexp.MustCompile(`(?i)\b(` + number + `)\s*(` + weightUnits + `)\b`)
	descVolPackRe = regexp.MustCompile(`(?i)\b(\d+)\s*/\s*(` + number + `)\s*(` + volumeUnits + `)\b`)
	descVolumeRe  = regexp.MustCompile(`(?i)\b(` + number + `)\s*(` + volumeUnits + `)\b`)
	descCountRe   = regexp.MustCompile(`(?i)\b(\d+)\s*(` + countUnits + `)\b`)
)

// ExtractFormatFromDescription applies the parser's precedence to free text.
// Used when the vendor sheet has no format column. Container descriptions are
// excluded here: their trailing weights are capacities, not product weights.
func ExtractFormatFromDescription(desc string) models.ParsedFormat {
	s := RecoverDecimals(desc)
	if s == "" {
		return models.ParsedFormat{Kind: models.FormatUnknown}
	}
	if IsContainerDescription(s) {
		return models.ParsedFormat{Kind: models.FormatUnknown, Raw: strings.TrimSpace(s)}
	}

	if m := descRangeRe.FindStringSubmatch(s); m != nil {
		lo, hi := mustFloat(m[1]), mustFloat(m[2])
		return models.ParsedFormat{
			Kind:     models.FormatWeightRange,
			MinValue: lo, MaxValue: hi, AvgValue: (lo + hi) / 2,
			Unit: units.Normalize(m[3]), Raw: m[0],
		}
	}
	if m := descPackRe.FindStringSubmatch(s); m != nil {
		return models.ParsedFormat{
			Kind:      models.FormatPackWeight,
			PackCount: mustFloat(m[1]), UnitValue: mustFloat(m[2]),
			Unit: units.Normalize(m[3]), Raw: m[0],
		}
	}
	if m := descMultRe.FindStringSubmatch(s); m != nil {
		return models.ParsedFormat{
			Kind:      models.FormatMultiplier,
			PackCount: mustFloat(m[1]), UnitValue: mustFloat(m[2]),
			Unit: units.Normalize(m[3]), Raw: m[0],
		}
	}
	if m := descWeightRe.FindStringSubmatch(s); m != nil {
		return models.ParsedFormat{
			Kind:  models.FormatSimpleWeight,
			Value: mustFloat(m[1]),
			Unit:  units.Normalize(m[2]), Raw: m[0],
		}
	}
	if m := descVolPackRe.FindStringSubmatch(s); m != nil {
		return models.ParsedFormat{
			Kind:      models.FormatPackVolume,
			PackCount: mustFloat(m[1]), UnitValue: mustFloat(m[2]),
			Unit: units.Normalize(m[3]), Raw: m[0],
		}
	}
	if m := descVolumeRe.FindStringSubmatch(s); m != nil {
		return models.ParsedFormat{
			Kind:  models.FormatSimpleVolume,
			Value: mustFloat(m[1]),
			Unit:  units.Normalize(m[2]), Raw: m[0],
		}
	}
	if m := descCountRe.FindStringSubmatch(s); m != nil {
		n := mustInt(m[1])
		if units.Normalize(m[2]) == "dz" {
			n *= 12
		}
		return models.ParsedFormat{Kind: models.FormatCountPack, Count: n, Raw: m[0]}
	}
	return models.ParsedFormat{Kind: models.FormatUnknown, Raw: strings.TrimSpace(s)}
}

func mustFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return f
}

func mustInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
