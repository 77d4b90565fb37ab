package vendors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
)

func newTestRegistry() *Registry {
	v := services.NewMathValidator(models.DefaultValidationConfig(), models.DefaultTaxConfig())
	return NewRegistry(v)
}

func TestRegistry(t *testing.T) {
	r := newTestRegistry()

	assert.Equal(t, []string{"food_supply", "generic", "packaging"}, r.Types())

	h, err := r.Get("packaging")
	require.NoError(t, err)
	assert.Equal(t, "packaging", h.Type())

	_, err = r.Get("unheard_of")
	assert.ErrorIs(t, err, models.ErrUnknownVendorType)
}

func TestFoodSupplyHandler(t *testing.T) {
	r := newTestRegistry()
	h, err := r.Get("food_supply")
	require.NoError(t, err)

	t.Run("weight line gets normalized measures", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "FILET SAUMON ATL", Format: "2/5LB", Quantity: 3, UnitPrice: 15, TotalPrice: 45},
		}, nil)
		require.Len(t, lines, 1)
		line := lines[0]

		assert.Equal(t, models.LineTypeProduct, line.LineType)
		assert.True(t, line.InventoryEligible)
		require.NotNil(t, line.Format)
		assert.Equal(t, models.FormatPackWeight, line.Format.Kind)

		require.NotNil(t, line.WeightPerCase)
		assert.Equal(t, 10.0, *line.WeightPerCase)
		assert.Equal(t, "lb", line.WeightUnit)

		require.NotNil(t, line.TotalWeightG)
		assert.InDelta(t, 30*453.592, *line.TotalWeightG, 0.001)

		require.NotNil(t, line.PricePerG)
		assert.InDelta(t, 45.0/(30*453.592), *line.PricePerG, 1e-12)

		// Food lines are weight-tracked, never piece-tracked.
		assert.Nil(t, line.BaseUnit)
	})

	t.Run("format falls back to the description", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "LONGE PORC 10-12LB", Quantity: 2, UnitPrice: 40, TotalPrice: 80},
		}, nil)
		line := lines[0]
		require.NotNil(t, line.Format)
		assert.Equal(t, models.FormatWeightRange, line.Format.Kind)
		require.NotNil(t, line.TotalWeightG)
		assert.InDelta(t, 22*453.592, *line.TotalWeightG, 0.001)
	})

	t.Run("volume line", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "HUILE CANOLA", Format: "4/4L", Quantity: 2, UnitPrice: 30, TotalPrice: 60},
		}, nil)
		line := lines[0]
		require.NotNil(t, line.TotalVolumeML)
		assert.Equal(t, 32000.0, *line.TotalVolumeML)
		require.NotNil(t, line.PricePerML)
		assert.Nil(t, line.TotalWeightG)
	})

	t.Run("bare unit weight uses the quantity column", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "BOEUF HACHE MI-MAIGRE", Format: "KG", Quantity: 7.32, UnitPrice: 12.50, TotalPrice: 91.50},
		}, nil)
		line := lines[0]
		require.NotNil(t, line.TotalWeightG)
		assert.Equal(t, 7320.0, *line.TotalWeightG)
	})

	t.Run("approximate weight is flagged and has no total", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "DINDE ENTIERE", Format: "2/~5LB", Quantity: 1, UnitPrice: 20, TotalPrice: 20},
		}, nil)
		line := lines[0]
		assert.Nil(t, line.TotalWeightG)
		var codes []string
		for _, a := range line.Anomalies {
			codes = append(codes, a.Code)
		}
		assert.Contains(t, codes, "approximate_weight")
	})

	t.Run("product with no measure warns", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "ARTICLE MYSTERE", Quantity: 1, UnitPrice: 10, TotalPrice: 10},
		}, nil)
		line := lines[0]
		var codes []string
		for _, a := range line.Anomalies {
			codes = append(codes, a.Code)
		}
		assert.Contains(t, codes, "no_measure")
	})

	t.Run("catalog item is weight tracked", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "FILET SAUMON ATL", Format: "2/5LB", Quantity: 3, UnitPrice: 15, TotalPrice: 45},
		}, nil)
		item := h.CreateInventoryItem(lines[0], models.Vendor{Name: "Norref", Type: "food_supply"})
		assert.Equal(t, "FOOD", item.Category)
		require.NotNil(t, item.StockWeightUnit)
		assert.Equal(t, "lb", *item.StockWeightUnit)
		assert.NotNil(t, item.PricePerG)
		assert.Nil(t, item.BaseUnit)
	})
}

func TestPackagingHandler(t *testing.T) {
	r := newTestRegistry()
	h, err := r.Get("packaging")
	require.NoError(t, err)

	t.Run("every line is piece tracked", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "CONTENANT ALUM 2.25LB RECT", Format: "1/500", Quantity: 2, UnitPrice: 55, TotalPrice: 110},
		}, nil)
		require.Len(t, lines, 1)
		line := lines[0]

		require.NotNil(t, line.BaseUnit)
		assert.Equal(t, "pc", *line.BaseUnit)

		require.NotNil(t, line.TotalPieces)
		assert.Equal(t, 1000, *line.TotalPieces)

		// The 2.25LB on a container is capacity, never product weight.
		require.NotNil(t, line.Capacity)
		assert.Equal(t, 2.25, line.Capacity.Capacity)
		assert.Equal(t, "container", line.Capacity.ContainerType)
		assert.Nil(t, line.TotalWeightG)
		assert.Nil(t, line.PricePerG)
	})

	t.Run("lost decimal recovered inside capacity", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "CONTENANT ALUM 2 25LB RECT", Format: "1/500", Quantity: 1, UnitPrice: 55, TotalPrice: 55},
		}, nil)
		line := lines[0]
		require.NotNil(t, line.Capacity)
		assert.Equal(t, 2.25, line.Capacity.Capacity)
	})

	t.Run("dimensions on bag lines", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "SAC POUBELLE 35X50 FORT", Format: "1/100", Quantity: 1, UnitPrice: 30, TotalPrice: 30},
		}, nil)
		line := lines[0]
		require.NotNil(t, line.Dimensions)
		assert.Equal(t, "35X50", line.Dimensions.Dimensions)
	})

	t.Run("unparsed product format is an info anomaly", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "ARTICLE DIVERS", Format: "SPECIAL", Quantity: 1, UnitPrice: 5, TotalPrice: 5},
		}, nil)
		line := lines[0]
		var found bool
		for _, a := range line.Anomalies {
			if a.Code == "format_unknown" {
				found = true
				assert.Equal(t, models.SeverityInfo, a.Severity)
			}
		}
		assert.True(t, found)
	})

	t.Run("catalog item contract", func(t *testing.T) {
		lines, _ := h.ProcessLines([]models.RawLine{
			{Description: "COUVERCLE ALUM. 2.25LB", Format: "1/500", Quantity: 1, UnitPrice: 40, TotalPrice: 40},
		}, nil)
		item := h.CreateInventoryItem(lines[0], models.Vendor{Name: "Distrobec", Type: "packaging"})
		assert.Equal(t, "PACKAGING", item.Category)
		require.NotNil(t, item.BaseUnit)
		assert.Equal(t, "pc", *item.BaseUnit)
		assert.Nil(t, item.StockWeightUnit)
		assert.Nil(t, item.PricePerG)
	})
}

func TestGenericHandler(t *testing.T) {
	r := newTestRegistry()
	h, err := r.Get("generic")
	require.NoError(t, err)

	lines, summary := h.ProcessLines([]models.RawLine{
		{Description: "PRODUIT QUELCONQUE", Quantity: 2, UnitPrice: 10, TotalPrice: 20},
		{Description: "FRAIS DE LIVRAISON", Quantity: 1, UnitPrice: 25, TotalPrice: 25},
		{Description: "CONSIGNE BOUTEILLE", Quantity: 12, UnitPrice: 0.10, TotalPrice: 1.20},
	}, nil)
	require.Len(t, lines, 3)

	assert.Equal(t, models.LineTypeProduct, lines[0].LineType)
	assert.Equal(t, models.LineTypeFee, lines[1].LineType)
	assert.Equal(t, models.LineTypeDeposit, lines[2].LineType)

	// Deposits stay out of the reconciliation subtotal.
	assert.Equal(t, 3, summary.TotalLines)
	assert.Equal(t, 45.0, summary.LineSubtotal)
	assert.Equal(t, 1, summary.CountsByType[models.LineTypeDeposit])
}

func TestProcessLinesMathAnomalies(t *testing.T) {
	r := newTestRegistry()
	h, err := r.Get("generic")
	require.NoError(t, err)

	lines, summary := h.ProcessLines([]models.RawLine{
		{Description: "PRODUIT A", Quantity: 5, UnitPrice: 10, TotalPrice: 56}, // off by 6
		{Description: "PRODUIT B", Quantity: 5, UnitPrice: 10, TotalPrice: 50.50},
	}, nil)

	require.NotNil(t, lines[0].Math)
	assert.Equal(t, "error", lines[0].Math.Tier)
	assert.False(t, lines[0].Math.Valid)
	require.NotEmpty(t, lines[0].Anomalies)
	assert.Equal(t, "math_mismatch", lines[0].Anomalies[0].Code)
	assert.Equal(t, models.SeverityError, lines[0].Anomalies[0].Severity)

	assert.Equal(t, "minor", lines[1].Math.Tier)
	assert.Equal(t, "math_discrepancy", lines[1].Anomalies[0].Code)

	assert.Equal(t, 1, summary.AnomalyCounts[models.SeverityError])
	assert.Equal(t, 1, summary.AnomalyCounts[models.SeverityWarning])
}

func TestProcessLinesIsRepeatable(t *testing.T) {
	r := newTestRegistry()
	h, err := r.Get("food_supply")
	require.NoError(t, err)

	raw := []models.RawLine{
		{Description: "FILET SAUMON ATL", Format: "2/5LB", Quantity: 3, UnitPrice: 15, TotalPrice: 45},
	}
	first, _ := h.ProcessLines(raw, nil)
	second, _ := h.ProcessLines(raw, nil)

	// Everything except the per-pass line ID must come out identical.
	first[0].ID, second[0].ID = "", ""
	assert.Equal(t, first, second)

	// The inputs are never mutated.
	assert.Equal(t, "2/5LB", raw[0].Format)
}
