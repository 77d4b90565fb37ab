package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

func TestWeightPerCase(t *testing.T) {
	t.Run("pack weight multiplies out", func(t *testing.T) {
		w := WeightPerCase(ParseFormat("2/5LB"))
		require.NotNil(t, w)
		assert.Equal(t, 10.0, *w)
	})

	t.Run("multiplier", func(t *testing.T) {
		w := WeightPerCase(ParseFormat("4X2.5KG"))
		require.NotNil(t, w)
		assert.Equal(t, 10.0, *w)
	})

	t.Run("simple weight", func(t *testing.T) {
		w := WeightPerCase(ParseFormat("5KG"))
		require.NotNil(t, w)
		assert.Equal(t, 5.0, *w)
	})

	t.Run("range uses the average", func(t *testing.T) {
		w := WeightPerCase(ParseFormat("10-12LB"))
		require.NotNil(t, w)
		assert.Equal(t, 11.0, *w)
	})

	t.Run("approximate weight never drives totals", func(t *testing.T) {
		assert.Nil(t, WeightPerCase(ParseFormat("2/~5LB")))
	})

	t.Run("piece weight describes one piece, not a case", func(t *testing.T) {
		assert.Nil(t, WeightPerCase(ParseFormat("8OZ PC")))
	})

	t.Run("count packs have no weight", func(t *testing.T) {
		assert.Nil(t, WeightPerCase(ParseFormat("100CT")))
	})
}

func TestTotalWeight(t *testing.T) {
	t.Run("cases multiply the per-case weight", func(t *testing.T) {
		w := TotalWeight(ParseFormat("2/5LB"), 3)
		require.NotNil(t, w)
		assert.Equal(t, 30.0, *w)
	})

	t.Run("bare unit means quantity is the weight", func(t *testing.T) {
		w := TotalWeight(ParseFormat("KG"), 7.32)
		require.NotNil(t, w)
		assert.Equal(t, 7.32, *w)
	})

	t.Run("unknown format has no total", func(t *testing.T) {
		assert.Nil(t, TotalWeight(ParseFormat("garbage"), 3))
	})
}

func TestTotalWeightGrams(t *testing.T) {
	g := TotalWeightGrams(ParseFormat("2/5LB"), 3)
	require.NotNil(t, g)
	assert.InDelta(t, 30*453.592, *g, 0.001)

	g = TotalWeightGrams(ParseFormat("2KG"), 2)
	require.NotNil(t, g)
	assert.Equal(t, 4000.0, *g)
}

func TestTotalVolumeML(t *testing.T) {
	ml := TotalVolumeML(ParseFormat("4/4L"), 2)
	require.NotNil(t, ml)
	assert.Equal(t, 32000.0, *ml)

	ml = TotalVolumeML(ParseFormat("6X750ML"), 1)
	require.NotNil(t, ml)
	assert.Equal(t, 4500.0, *ml)

	assert.Nil(t, TotalVolumeML(ParseFormat("2/5LB"), 2))
}

func TestPricePerGram(t *testing.T) {
	grams := 13607.76
	p := PricePerGram(45.0, &grams)
	require.NotNil(t, p)
	assert.InDelta(t, 45.0/13607.76, *p, 1e-12)

	zero := 0.0
	assert.Nil(t, PricePerGram(45.0, &zero))
	assert.Nil(t, PricePerGram(45.0, nil))
}

func TestPricePerML(t *testing.T) {
	ml := 4500.0
	p := PricePerML(90.0, &ml)
	require.NotNil(t, p)
	assert.Equal(t, 0.02, *p)

	assert.Nil(t, PricePerML(90.0, nil))
}

func TestVolumePerCase(t *testing.T) {
	v := VolumePerCase(models.ParsedFormat{Kind: models.FormatSimpleVolume, Value: 750, Unit: "ml"})
	require.NotNil(t, v)
	assert.Equal(t, 750.0, *v)

	assert.Nil(t, VolumePerCase(models.ParsedFormat{Kind: models.FormatSimpleWeight, Value: 5, Unit: "kg"}))
}
