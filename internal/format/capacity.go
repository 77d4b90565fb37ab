package format

import (
	"regexp"
	"strings"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/units"
)

// containerKeywords maps description keywords (French and English, as they
// appear on Quebec packaging invoices) to a container type. Keyword presence
// is the sole discriminator between capacity and product weight: no keyword,
// no capacity.
var containerKeywords = []struct {
	keyword       string
	containerType string
}{
	{"contenant", "container"},
	{"container", "container"},
	{"couvercle", "lid"},
	{"couv", "lid"},
	{"lid", "lid"},
	{"bol", "bowl"},
	{"bowl", "bowl"},
	{"tasse", "cup"},
	{"verre", "cup"},
	{"cup", "cup"},
	{"assiette", "plate"},
	{"plate", "plate"},
}

// capacityRe finds a numeric+unit token anywhere in a container description.
// Both weight capacities ("2.25LB" aluminum pans) and volume capacities
// ("16OZ" soup bowls, "32OZ") appear; OZ on a container reads as fluid ounces.
var capacityRe = regexp.MustCompile(`(?i)\b(` + number + `)\s*(` + weightUnits + `|` + volumeUnits + `)\b`)

// IsContainerDescription reports whether the description names a container,
// lid, bowl, cup or plate.
func IsContainerDescription(desc string) bool {
	_, ok := containerType(desc)
	return ok
}

func containerType(desc string) (string, bool) {
	d := strings.ToLower(desc)
	for _, k := range containerKeywords {
		if containsWord(d, k.keyword) {
			return k.containerType, true
		}
	}
	return "", false
}

// containsWord matches a keyword at word granularity so short keywords like
// "bol" do not fire inside unrelated words ("BOLOGNE"). Punctuation
// ("COUVERCLE ALUM.") still delimits.
func containsWord(s, word string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isLetter(s[start-1])
		afterOK := end == len(s) || !isLetter(s[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ExtractContainerCapacity reads the stated capacity off a container
// description ("COUVERCLE ALUM. 2.25LB" holds 2.25 lb; it does not weigh
// 2.25 lb). Returns nil when the description has no container keyword or no
// numeric capacity. Lost decimals are recovered first, so "CONTENANT ALUM
// 2 25LB RECT" yields 2.25, not 25.
func ExtractContainerCapacity(desc string) *models.ContainerCapacity {
	ctype, ok := containerType(desc)
	if !ok {
		return nil
	}
	s := RecoverDecimals(desc)
	m := capacityRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	return &models.ContainerCapacity{
		Capacity:      mustFloat(m[1]),
		Unit:          units.Normalize(m[2]),
		IsCapacity:    true,
		ContainerType: ctype,
	}
}

var (
	dimensionsRe = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)\b`)
	widthRe      = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:"|''|PO\b|IN\b)`)
	specsRe      = regexp.MustCompile(`(?i)\b(\d+\s?(?:PLY|COMP|MIL|GA))\b`)
)

// ExtractDimensions pulls descriptive size data ("SAC POUBELLE 35X50",
// `FILM ÉTIRABLE 18"`, "SERVIETTE 2PLY") out of a description. Dimensions
// never carry quantity and may coexist with any format variant.
func ExtractDimensions(desc string) *models.ProductDimensions {
	var d models.ProductDimensions
	found := false

	if m := dimensionsRe.FindStringSubmatch(desc); m != nil {
		d.Dimensions = strings.ToUpper(m[1] + "X" + m[2])
		found = true
	}
	if m := widthRe.FindStringSubmatch(desc); m != nil {
		d.Width = mustFloat(m[1])
		d.WidthUnit = "in"
		found = true
	}
	if m := specsRe.FindStringSubmatch(desc); m != nil {
		d.Specs = strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
		found = true
	}

	if !found {
		return nil
	}
	return &d
}
