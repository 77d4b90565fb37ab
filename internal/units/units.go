// Package units provides the canonical unit conversion tables and the
// unit-category classifier. Everything here is a pure lookup: no state,
// no errors, safe for concurrent use.
package units

import "strings"

// Category groups units by what they measure.
type Category string

const (
	CategoryWeight  Category = "weight"
	CategoryVolume  Category = "volume"
	CategoryCount   Category = "count"
	CategoryTool    Category = "tool"
	CategoryUnknown Category = "unknown"
)

// gramsPerUnit maps canonical weight units to grams.
var gramsPerUnit = map[string]float64{
	"g":  1,
	"kg": 1000,
	"lb": 453.592,
	"oz": 28.3495,
}

// mlPerUnit maps canonical volume units to millilitres.
var mlPerUnit = map[string]float64{
	"ml":   1,
	"cl":   10,
	"l":    1000,
	"gal":  3785.41,
	"qt":   946.353,
	"pt":   473.176,
	"floz": 29.5735,
}

// weightAliases maps vendor spellings to canonical weight units.
var weightAliases = map[string]string{
	"g":     "g",
	"gr":    "g",
	"gram":  "g",
	"grams": "g",
	"kg":    "kg",
	"kilo":  "kg",
	"lb":    "lb",
	"lbs":   "lb",
	"livre": "lb",
	"#":     "lb",
	"oz":    "oz",
	"once":  "oz",
}

// volumeAliases maps vendor spellings to canonical volume units.
var volumeAliases = map[string]string{
	"ml":     "ml",
	"cl":     "cl",
	"l":      "l",
	"lt":     "l",
	"ltr":    "l",
	"litre":  "l",
	"liter":  "l",
	"gal":    "gal",
	"gallon": "gal",
	"qt":     "qt",
	"quart":  "qt",
	"pt":     "pt",
	"pint":   "pt",
	"floz":   "floz",
	"fl oz":  "floz",
	"fl.oz":  "floz",
}

// countAliases covers piece/pack notations. "dz" multiplies by 12 at parse time.
var countAliases = map[string]string{
	"pc":    "pc",
	"pcs":   "pc",
	"piece": "pc",
	"un":    "pc",
	"unite": "pc",
	"ea":    "pc",
	"ct":    "ct",
	"cs":    "cs",
	"pk":    "pk",
	"pqt":   "pk",
	"bx":    "bx",
	"dz":    "dz",
	"dzn":   "dz",
	"douz":  "dz",
	"dozen": "dz",
}

// toolAliases covers dispensed-tool notations like film and paper rolls.
var toolAliases = map[string]string{
	"rl":     "rl",
	"roll":   "rl",
	"rlx":    "rl",
	"rou":    "rl",
	"feuil":  "sheet",
	"sheet":  "sheet",
	"sheets": "sheet",
}

// Normalize lowercases and trims a unit token and resolves vendor aliases to
// the canonical spelling. Unknown input comes back lowercased but otherwise
// untouched.
func Normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	u = strings.TrimSuffix(u, ".")
	if c, ok := weightAliases[u]; ok {
		return c
	}
	if c, ok := volumeAliases[u]; ok {
		return c
	}
	if c, ok := countAliases[u]; ok {
		return c
	}
	if c, ok := toolAliases[u]; ok {
		return c
	}
	return u
}

// Classify reports which category a unit token belongs to. Unknown input
// yields CategoryUnknown, never a guess.
func Classify(unit string) Category {
	u := Normalize(unit)
	if _, ok := gramsPerUnit[u]; ok {
		return CategoryWeight
	}
	if _, ok := mlPerUnit[u]; ok {
		return CategoryVolume
	}
	for _, c := range countAliases {
		if u == c {
			return CategoryCount
		}
	}
	for _, c := range toolAliases {
		if u == c {
			return CategoryTool
		}
	}
	return CategoryUnknown
}

// GramsPerUnit returns the grams factor for a weight unit, ok=false if the
// unit is not a weight unit.
func GramsPerUnit(unit string) (float64, bool) {
	f, ok := gramsPerUnit[Normalize(unit)]
	return f, ok
}

// MLPerUnit returns the millilitre factor for a volume unit, ok=false if the
// unit is not a volume unit.
func MLPerUnit(unit string) (float64, bool) {
	f, ok := mlPerUnit[Normalize(unit)]
	return f, ok
}

// ToGrams converts an amount in the given weight unit to grams.
func ToGrams(amount float64, unit string) (float64, bool) {
	f, ok := GramsPerUnit(unit)
	if !ok {
		return 0, false
	}
	return amount * f, true
}

// ToML converts an amount in the given volume unit to millilitres.
func ToML(amount float64, unit string) (float64, bool) {
	f, ok := MLPerUnit(unit)
	if !ok {
		return 0, false
	}
	return amount * f, true
}
