package inventory

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore([]models.InventoryItem{
		{ID: "salmon", Name: "Filet Saumon Atlantique", SKU: "SF-10425", VendorName: "Norref"},
		{ID: "bags", Name: "Sac Poubelle Noir 35X50", VendorName: "Carrousel"},
		{ID: "oil", Name: "Huile Olive", Aliases: []string{"olive oil"}},
	}, nil)
}

func productLine(id, itemID string, weightG float64, price float64) *models.ProcessedLine {
	line := &models.ProcessedLine{
		ID:                id,
		Description:       "FILET SAUMON ATL 2/5LB",
		Quantity:          3,
		TotalPrice:        price,
		LineType:          models.LineTypeProduct,
		InventoryEligible: true,
		CountsTowardTotal: true,
	}
	if itemID != "" {
		line.InventoryItemID = &itemID
	}
	if weightG > 0 {
		line.TotalWeightG = &weightG
	}
	return line
}

func TestAddItemAndGet(t *testing.T) {
	s := newTestStore(t)

	item, err := s.AddItem(models.InventoryItem{Name: "Nouveau Produit"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)

	got, err := s.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nouveau Produit", got.Name)

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.AddItem(models.InventoryItem{})
	assert.ErrorIs(t, err, models.ErrInvalidLine)
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)

	t.Run("exact name ranks first", func(t *testing.T) {
		hits := s.Search("Filet Saumon Atlantique")
		require.NotEmpty(t, hits)
		assert.Equal(t, "salmon", hits[0].ID)
	})

	t.Run("SKU inside the query", func(t *testing.T) {
		hits := s.Search("FILET SF-10425 FRAIS")
		require.NotEmpty(t, hits)
		assert.Equal(t, "salmon", hits[0].ID)
	})

	t.Run("alias hit", func(t *testing.T) {
		hits := s.Search("olive oil extra virgin")
		require.NotEmpty(t, hits)
		assert.Equal(t, "oil", hits[0].ID)
	})

	t.Run("no hits", func(t *testing.T) {
		assert.Empty(t, s.Search("zzz qqq"))
		assert.Empty(t, s.Search(""))
	})
}

func TestApplyPurchase(t *testing.T) {
	s := newTestStore(t)

	t.Run("weight purchase converts to grams and sets price per gram", func(t *testing.T) {
		tx, err := s.ApplyPurchase("salmon", 10, 150.0, "kg")
		require.NoError(t, err)
		assert.NotEmpty(t, tx)

		stock, err := s.Stock("salmon")
		require.NoError(t, err)
		assert.True(t, stock.Equal(decimal.NewFromFloat(10000)), "stock = %s", stock)

		item, err := s.Get("salmon")
		require.NoError(t, err)
		require.NotNil(t, item.PricePerG)
		assert.InDelta(t, 0.015, *item.PricePerG, 1e-9)
	})

	t.Run("piece purchase keeps the raw quantity", func(t *testing.T) {
		_, err := s.ApplyPurchase("bags", 4, 80.0, "cs")
		require.NoError(t, err)

		stock, err := s.Stock("bags")
		require.NoError(t, err)
		assert.True(t, stock.Equal(decimal.NewFromInt(4)))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := s.ApplyPurchase("missing", 1, 1, "kg")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, err := s.ApplyPurchase("salmon", 0, 1, "kg")
		assert.ErrorIs(t, err, models.ErrInvalidLine)
	})
}

func TestApplyLineAtMostOnce(t *testing.T) {
	s := newTestStore(t)
	line := productLine("line-1", "salmon", 13607.76, 45.0)

	record, err := s.ApplyLine(line)
	require.NoError(t, err)
	assert.True(t, record.AddedToInventory)
	assert.Equal(t, "line-1", record.LineID)
	assert.True(t, record.PreviousStock.IsZero())

	stockAfterFirst, err := s.Stock("salmon")
	require.NoError(t, err)
	assert.True(t, stockAfterFirst.Equal(decimal.NewFromFloat(13607.76)))

	// Second application of the same line must fail and leave stock untouched.
	_, err = s.ApplyLine(line)
	assert.ErrorIs(t, err, models.ErrAlreadyApplied)

	stockAfterSecond, err := s.Stock("salmon")
	require.NoError(t, err)
	assert.True(t, stockAfterSecond.Equal(stockAfterFirst))
}

func TestApplyLineConcurrent(t *testing.T) {
	s := newTestStore(t)
	line := productLine("line-rush", "salmon", 1000, 10.0)

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ApplyLine(line)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrAlreadyApplied)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one application may win")

	stock, err := s.Stock("salmon")
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(1000)), "stock = %s", stock)
}

func TestApplyLineValidation(t *testing.T) {
	s := newTestStore(t)

	t.Run("nil line", func(t *testing.T) {
		_, err := s.ApplyLine(nil)
		assert.ErrorIs(t, err, models.ErrInvalidLine)
	})

	t.Run("unmatched line", func(t *testing.T) {
		_, err := s.ApplyLine(productLine("line-2", "", 100, 10))
		assert.ErrorIs(t, err, models.ErrNotMatched)
	})

	t.Run("ineligible line", func(t *testing.T) {
		line := productLine("line-3", "salmon", 100, 10)
		line.LineType = models.LineTypeFee
		line.InventoryEligible = false
		_, err := s.ApplyLine(line)
		assert.ErrorIs(t, err, models.ErrInvalidLine)
	})
}

func TestApplyBatch(t *testing.T) {
	s := newTestStore(t)

	good := productLine("b-1", "salmon", 4535.92, 15.0)
	unmatched := productLine("b-2", "", 100, 10)
	duplicate := productLine("b-1", "salmon", 4535.92, 15.0)

	applied, failures := s.ApplyBatch([]*models.ProcessedLine{good, unmatched, duplicate})
	assert.Len(t, applied, 1)
	require.Len(t, failures, 2)
	assert.ErrorIs(t, failures[0].Err, models.ErrNotMatched)
	assert.ErrorIs(t, failures[1].Err, models.ErrAlreadyApplied)

	stock, err := s.Stock("salmon")
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromFloat(4535.92)))
}
