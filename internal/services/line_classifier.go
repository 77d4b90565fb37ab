package services

import (
	"strings"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

// Keyword lists for the non-product line categories, French first since the
// supplier invoices are Quebec ones.
var (
	depositKeywords = []string{
		"consigne", "depot", "dépôt", "deposit", "container fee", "frais de contenant",
	}
	feeKeywords = []string{
		"livraison", "transport", "freight", "carburant", "fuel", "surcharge",
		"delivery", "frais de service", "service charge", "admin",
	}
)

// DetectLineType classifies a raw line. The sign check runs first: a negative
// quantity or amount is a credit no matter what the description says.
func DetectLineType(line models.RawLine) models.LineType {
	if line.Quantity < 0 || line.UnitPrice < 0 || line.TotalPrice < 0 {
		return models.LineTypeCredit
	}

	desc := strings.ToLower(line.Description)
	for _, k := range depositKeywords {
		if strings.Contains(desc, k) {
			return models.LineTypeDeposit
		}
	}
	for _, k := range feeKeywords {
		if strings.Contains(desc, k) {
			return models.LineTypeFee
		}
	}

	if line.Quantity == 0 && line.TotalPrice == 0 && line.UnitPrice == 0 {
		return models.LineTypeZero
	}
	return models.LineTypeProduct
}

// RoutingFlags reports where a line type is allowed to flow: only products
// reach inventory; deposits are flagged but excluded from accounting totals
// unless explicitly handled.
func RoutingFlags(t models.LineType) (inventoryEligible, countsTowardTotal bool) {
	switch t {
	case models.LineTypeProduct:
		return true, true
	case models.LineTypeFee, models.LineTypeCredit:
		return false, true
	default: // deposit, zero
		return false, false
	}
}
