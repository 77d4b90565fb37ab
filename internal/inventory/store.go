// Package inventory is the application collaborator: an in-memory catalog
// with candidate search and at-most-once purchase application. Stock and
// cost arithmetic use decimals so repeated applications cannot drift.
package inventory

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
	"github.com/kitchencommand/invoice-line-engine/internal/units"
)

// AppliedLine records one purchase application. The ProcessedLine itself is
// never mutated; post-application facts live here.
type AppliedLine struct {
	LineID           string          `json:"lineId"`
	ItemID           string          `json:"itemId"`
	TransactionID    string          `json:"transactionId"`
	AddedToInventory bool            `json:"addedToInventory"`
	PreviousStock    decimal.Decimal `json:"previousStock"`
	NewStock         decimal.Decimal `json:"newStock"`
	Quantity         decimal.Decimal `json:"quantity"` // in the item's stock unit
	TotalCost        decimal.Decimal `json:"totalCost"`
}

// LineFailure pairs a failed line with its error for batch reporting.
type LineFailure struct {
	LineID string `json:"lineId"`
	Err    error  `json:"-"`
	Reason string `json:"reason"`
}

// Store is the in-memory inventory. The single mutex makes the
// check-then-set on the application ledger atomic; concurrent applications
// of the same line cannot both pass the check.
type Store struct {
	mu      sync.RWMutex
	items   map[string]*models.InventoryItem
	stock   map[string]decimal.Decimal
	applied map[string]AppliedLine // by line ID
	logger  *slog.Logger
}

// NewStore builds a store over a catalog snapshot.
func NewStore(items []models.InventoryItem, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		items:   make(map[string]*models.InventoryItem, len(items)),
		stock:   make(map[string]decimal.Decimal, len(items)),
		applied: make(map[string]AppliedLine),
		logger:  logger,
	}
	for i := range items {
		item := items[i]
		s.items[item.ID] = &item
		s.stock[item.ID] = decimal.Zero
	}
	return s
}

// AddItem inserts a catalog entry created from a processed line.
func (s *Store) AddItem(item models.InventoryItem) (models.InventoryItem, error) {
	if item.Name == "" {
		return item, fmt.Errorf("add item: %w: empty name", models.ErrInvalidLine)
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = &item
	if _, ok := s.stock[item.ID]; !ok {
		s.stock[item.ID] = decimal.Zero
	}
	return item, nil
}

// Get returns a catalog item by ID.
func (s *Store) Get(itemID string) (models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[itemID]
	if !ok {
		return models.InventoryItem{}, fmt.Errorf("get %q: %w", itemID, models.ErrNotFound)
	}
	return *item, nil
}

// Stock returns the current stock level for an item.
func (s *Store) Stock(itemID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.items[itemID]; !ok {
		return decimal.Zero, fmt.Errorf("stock %q: %w", itemID, models.ErrNotFound)
	}
	return s.stock[itemID], nil
}

// Search generates match candidates for a query: normalized prefix and
// substring hits on names, SKUs and aliases, best-first. The fuzzy matcher
// scores them afterwards.
func (s *Store) Search(query string) []models.InventoryItem {
	q := services.NormalizeName(query)
	if q == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type ranked struct {
		item models.InventoryItem
		rank int
	}
	var hits []ranked
	for _, item := range s.items {
		name := services.NormalizeName(item.Name)
		switch {
		case name == q:
			hits = append(hits, ranked{*item, 0})
		case strings.HasPrefix(name, q) || strings.HasPrefix(q, name):
			hits = append(hits, ranked{*item, 1})
		case strings.Contains(q, name) || strings.Contains(name, q):
			hits = append(hits, ranked{*item, 2})
		case item.SKU != "" && strings.Contains(q, services.NormalizeName(item.SKU)):
			hits = append(hits, ranked{*item, 2})
		default:
			aliasHit := false
			for _, alias := range item.Aliases {
				a := services.NormalizeName(alias)
				if a != "" && (strings.Contains(q, a) || strings.Contains(a, q)) {
					hits = append(hits, ranked{*item, 3})
					aliasHit = true
					break
				}
			}
			if !aliasHit && wordHit(q, name) {
				hits = append(hits, ranked{*item, 4})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rank != hits[j].rank {
			return hits[i].rank < hits[j].rank
		}
		return hits[i].item.Name < hits[j].item.Name
	})

	out := make([]models.InventoryItem, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

func wordHit(q, name string) bool {
	nameWords := make(map[string]bool)
	for _, w := range strings.Fields(name) {
		nameWords[w] = true
	}
	for _, w := range strings.Fields(q) {
		if nameWords[w] {
			return true
		}
	}
	return false
}

// ApplyPurchase records a received purchase against an item and returns the
// transaction ID. Weight and volume units convert to grams/millilitres with
// the same tables the engine uses, so price-per-gram is computed once, here,
// with no double conversion.
func (s *Store) ApplyPurchase(itemID string, quantity, totalCost float64, unit string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyPurchaseLocked(itemID, quantity, totalCost, unit)
}

func (s *Store) applyPurchaseLocked(itemID string, quantity, totalCost float64, unit string) (string, error) {
	item, ok := s.items[itemID]
	if !ok {
		return "", fmt.Errorf("apply purchase %q: %w", itemID, models.ErrNotFound)
	}
	if quantity <= 0 {
		return "", fmt.Errorf("apply purchase %q: %w: non-positive quantity", itemID, models.ErrInvalidLine)
	}

	// Stock is tracked in grams, millilitres or pieces depending on the unit.
	stockDelta := decimal.NewFromFloat(quantity)
	switch units.Classify(unit) {
	case units.CategoryWeight:
		grams, _ := units.ToGrams(quantity, unit)
		stockDelta = decimal.NewFromFloat(grams)
		if grams > 0 && totalCost > 0 {
			ppg := totalCost / grams
			item.PricePerG = &ppg
		}
	case units.CategoryVolume:
		ml, _ := units.ToML(quantity, unit)
		stockDelta = decimal.NewFromFloat(ml)
		if ml > 0 && totalCost > 0 {
			ppml := totalCost / ml
			item.PricePerML = &ppml
		}
	}

	s.stock[itemID] = s.stock[itemID].Add(stockDelta)

	txID := uuid.NewString()
	s.logger.Info("inventory.apply_purchase",
		"item", itemID, "qty", quantity, "unit", unit, "cost", totalCost, "tx", txID)
	return txID, nil
}

// ApplyLine applies one processed line to inventory, at most once. The line
// must be matched and inventory-eligible. A second application of the same
// line fails with ErrAlreadyApplied and leaves stock untouched.
func (s *Store) ApplyLine(line *models.ProcessedLine) (AppliedLine, error) {
	if line == nil || line.ID == "" {
		return AppliedLine{}, fmt.Errorf("apply line: %w", models.ErrInvalidLine)
	}
	if !line.InventoryEligible {
		return AppliedLine{}, fmt.Errorf("apply line %s: %w: %s line is not inventory-eligible", line.ID, models.ErrInvalidLine, line.LineType)
	}
	if line.InventoryItemID == nil {
		return AppliedLine{}, fmt.Errorf("apply line %s: %w", line.ID, models.ErrNotMatched)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check-and-set under the lock: this is the at-most-once gate.
	if prev, done := s.applied[line.ID]; done && prev.AddedToInventory {
		return prev, fmt.Errorf("apply line %s: %w", line.ID, models.ErrAlreadyApplied)
	}

	itemID := *line.InventoryItemID
	prevStock := s.stock[itemID]

	quantity, unit := applicationQuantity(line)
	txID, err := s.applyPurchaseLocked(itemID, quantity, line.TotalPrice, unit)
	if err != nil {
		return AppliedLine{}, err
	}

	record := AppliedLine{
		LineID:           line.ID,
		ItemID:           itemID,
		TransactionID:    txID,
		AddedToInventory: true,
		PreviousStock:    prevStock,
		NewStock:         s.stock[itemID],
		Quantity:         decimal.NewFromFloat(quantity),
		TotalCost:        decimal.NewFromFloat(line.TotalPrice),
	}
	s.applied[line.ID] = record
	return record, nil
}

// applicationQuantity picks what to add to stock: total grams/millilitres
// when the line has a normalized measure, otherwise the counted quantity.
func applicationQuantity(line *models.ProcessedLine) (float64, string) {
	if line.TotalWeightG != nil && *line.TotalWeightG > 0 {
		return *line.TotalWeightG, "g"
	}
	if line.TotalVolumeML != nil && *line.TotalVolumeML > 0 {
		return *line.TotalVolumeML, "ml"
	}
	return line.Quantity, "pc"
}

// ApplyBatch applies many lines, collecting per-line failures instead of
// aborting. Successes are recorded individually so a mid-batch failure
// leaves an exact account of which lines went through.
func (s *Store) ApplyBatch(lines []*models.ProcessedLine) ([]AppliedLine, []LineFailure) {
	var applied []AppliedLine
	var failures []LineFailure
	for _, line := range lines {
		record, err := s.ApplyLine(line)
		if err != nil {
			id := ""
			if line != nil {
				id = line.ID
			}
			failures = append(failures, LineFailure{LineID: id, Err: err, Reason: err.Error()})
			continue
		}
		applied = append(applied, record)
	}
	if len(failures) > 0 {
		s.logger.Warn("inventory.apply_batch", "applied", len(applied), "failed", len(failures))
	}
	return applied, failures
}
