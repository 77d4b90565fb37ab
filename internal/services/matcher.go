package services

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

var punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// NormalizeName lowers, strips punctuation and accents-insensitive noise, and
// collapses whitespace so "COUVERCLE ALUM. 2.25LB" and "couvercle alum 2.25lb"
// compare equal.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = punctuationRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// MatchConfidence scores how well a line description matches a catalog item,
// 0-100. Checks run in a fixed precedence: exact name, SKU, alias exact,
// alias substring, prefix/suffix, containment, then word overlap capped at 70.
func MatchConfidence(description string, item models.InventoryItem) int {
	desc := NormalizeName(description)
	name := NormalizeName(item.Name)
	if desc == "" || name == "" {
		return 0
	}

	if desc == name {
		return 100
	}

	if item.SKU != "" {
		sku := NormalizeName(item.SKU)
		if sku != "" && strings.Contains(desc, sku) {
			return 95
		}
	}

	for _, alias := range item.Aliases {
		a := NormalizeName(alias)
		if a == "" {
			continue
		}
		if a == desc {
			return 95
		}
		if strings.Contains(desc, a) || strings.Contains(a, desc) {
			return 80
		}
	}

	if strings.HasPrefix(desc, name) || strings.HasSuffix(desc, name) ||
		strings.HasPrefix(name, desc) || strings.HasSuffix(name, desc) {
		return 90
	}

	if strings.Contains(desc, name) || strings.Contains(name, desc) {
		return 85
	}

	return wordOverlapScore(desc, name)
}

// wordOverlapScore scales the shared-word fraction onto a 0-70 ceiling:
// overlap over the larger word count, times 70, rounded.
func wordOverlapScore(a, b string) int {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	set := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		set[w] = true
	}
	overlap := 0
	seen := make(map[string]bool)
	for _, w := range wordsB {
		if set[w] && !seen[w] {
			overlap++
			seen[w] = true
		}
	}

	maxWords := len(wordsA)
	if len(wordsB) > maxWords {
		maxWords = len(wordsB)
	}
	return int(math.Round(float64(overlap) / float64(maxWords) * 70))
}

// Matcher scores catalog candidates and gates automatic matching.
type Matcher struct {
	threshold     int
	maxCandidates int
}

// NewMatcher builds a matcher; zero config falls back to threshold 80, top 5.
func NewMatcher(cfg models.MatchingConfig) *Matcher {
	threshold := cfg.AutoMatchThreshold
	if threshold <= 0 {
		threshold = 80
	}
	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 5
	}
	return &Matcher{threshold: threshold, maxCandidates: maxCandidates}
}

// AutoMatch scores the externally generated candidates against the line
// description. The top candidates are always retained for audit; the match
// is recorded only when the best score clears the threshold. Ties keep the
// first candidate in input order.
func (m *Matcher) AutoMatch(description string, candidates []models.InventoryItem) models.MatchResult {
	scored := make([]models.MatchCandidate, 0, len(candidates))
	for _, item := range candidates {
		scored = append(scored, models.MatchCandidate{
			InventoryItemID: item.ID,
			Score:           MatchConfidence(description, item),
			Name:            item.Name,
			SKU:             item.SKU,
			VendorName:      item.VendorName,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > m.maxCandidates {
		scored = scored[:m.maxCandidates]
	}

	result := models.MatchResult{Candidates: scored}
	if len(scored) > 0 && scored[0].Score >= m.threshold {
		result.Matched = true
		result.ItemID = scored[0].InventoryItemID
		result.Confidence = scored[0].Score
		result.MatchedBy = models.MatchedByAI
	}
	return result
}

// ManualMatch records a human decision. A person overrides the heuristic, so
// confidence is always 100.
func (m *Matcher) ManualMatch(itemID string) models.MatchResult {
	return models.MatchResult{
		Matched:    true,
		ItemID:     itemID,
		Confidence: 100,
		MatchedBy:  models.MatchedByUser,
	}
}
