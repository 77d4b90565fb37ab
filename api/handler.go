package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"

	"github.com/kitchencommand/invoice-line-engine/internal/ingest"
	"github.com/kitchencommand/invoice-line-engine/internal/inventory"
	"github.com/kitchencommand/invoice-line-engine/internal/models"
	"github.com/kitchencommand/invoice-line-engine/internal/services"
	"github.com/kitchencommand/invoice-line-engine/internal/vendors"
)

const (
	MaxRequestSize = 10 * 1024 * 1024 // 10MB
	Version        = "1.2.0"
)

// Handler handles HTTP requests for invoice line processing
type Handler struct {
	config    *models.Config
	registry  *vendors.Registry
	validator *services.MathValidator
	matcher   *services.Matcher
	store     *inventory.Store
}

// NewHandler creates a new API handler
func NewHandler(config *models.Config, registry *vendors.Registry, validator *services.MathValidator, matcher *services.Matcher, store *inventory.Store) *Handler {
	return &Handler{
		config:    config,
		registry:  registry,
		validator: validator,
		matcher:   matcher,
		store:     store,
	}
}

// SetupRoutes configures the HTTP routes
func (h *Handler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	// Line processing
	router.HandleFunc("/api/process-lines", h.ProcessLines).Methods("POST")
	router.HandleFunc("/api/validate-invoice", h.ValidateInvoice).Methods("POST")
	router.HandleFunc("/api/match-line", h.MatchLine).Methods("POST")
	router.HandleFunc("/api/apply-lines", h.ApplyLines).Methods("POST")

	// Catalog
	router.HandleFunc("/api/items", h.CreateItem).Methods("POST")
	router.HandleFunc("/api/items/{id}", h.GetItem).Methods("GET")

	// Vendor types
	router.HandleFunc("/api/vendors", h.GetVendorTypes).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET")

	return router
}

// ProcessLinesRequest is the input for a processing pass.
type ProcessLinesRequest struct {
	Vendor  models.Vendor    `json:"vendor"`
	Lines   []models.RawLine `json:"lines"`
	Profile ingest.Profile   `json:"profile,omitempty"`
}

// ProcessLinesResponse carries the processed batch and its summary.
type ProcessLinesResponse struct {
	Lines   []models.ProcessedLine `json:"lines"`
	Summary models.Summary         `json:"summary"`
}

// ProcessLines routes a batch of raw lines through the vendor handler.
func (h *Handler) ProcessLines(w http.ResponseWriter, r *http.Request) {
	var req ProcessLinesRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "no lines provided")
		return
	}

	vendorType := req.Vendor.Type
	if vendorType == "" {
		vendorType = "generic"
	}
	handler, err := h.registry.Get(vendorType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines, summary := handler.ProcessLines(req.Lines, req.Profile)
	writeJSON(w, http.StatusOK, ProcessLinesResponse{Lines: lines, Summary: summary})
}

// ValidateInvoiceRequest is the input for cascade validation.
type ValidateInvoiceRequest struct {
	LineTotals []float64            `json:"lineTotals,omitempty"`
	Totals     models.InvoiceTotals `json:"totals"`
}

// ValidateInvoice runs the subtotal/TPS/TVQ/total cascade.
func (h *Handler) ValidateInvoice(w http.ResponseWriter, r *http.Request) {
	var req ValidateInvoiceRequest
	if !h.decode(w, r, &req) {
		return
	}
	result := h.validator.ValidateCascade(req.LineTotals, req.Totals)
	writeJSON(w, http.StatusOK, result)
}

// MatchLineRequest asks for a catalog match. ManualItemID records a human
// decision instead of scoring.
type MatchLineRequest struct {
	Description  string `json:"description"`
	ManualItemID string `json:"manualItemId,omitempty"`
}

// MatchLine scores catalog candidates for a description, or records a
// manual match.
func (h *Handler) MatchLine(w http.ResponseWriter, r *http.Request) {
	var req MatchLineRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.ManualItemID != "" {
		if _, err := h.store.Get(req.ManualItemID); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, h.matcher.ManualMatch(req.ManualItemID))
		return
	}

	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	candidates := h.store.Search(req.Description)
	writeJSON(w, http.StatusOK, h.matcher.AutoMatch(req.Description, candidates))
}

// ApplyLinesRequest applies processed lines to inventory.
type ApplyLinesRequest struct {
	Lines []*models.ProcessedLine `json:"lines"`
}

// ApplyLinesResponse reports per-line outcomes.
type ApplyLinesResponse struct {
	Applied  []inventory.AppliedLine `json:"applied"`
	Failures []inventory.LineFailure `json:"failures"`
}

// ApplyLines applies a batch to inventory. Per-line failures are reported,
// not fatal.
func (h *Handler) ApplyLines(w http.ResponseWriter, r *http.Request) {
	var req ApplyLinesRequest
	if !h.decode(w, r, &req) {
		return
	}
	applied, failures := h.store.ApplyBatch(req.Lines)
	writeJSON(w, http.StatusOK, ApplyLinesResponse{Applied: applied, Failures: failures})
}

// CreateItemRequest creates a catalog item from a processed line.
type CreateItemRequest struct {
	Vendor models.Vendor        `json:"vendor"`
	Line   models.ProcessedLine `json:"line"`
}

// CreateItem maps a processed line to a new catalog item via the vendor handler.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	vendorType := req.Vendor.Type
	if vendorType == "" {
		vendorType = "generic"
	}
	handler, err := h.registry.Get(vendorType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.AddItem(handler.CreateInventoryItem(req.Line, req.Vendor))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// GetItem returns a catalog item.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, err := h.store.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// VendorTypeInfo describes one registered handler.
type VendorTypeInfo struct {
	Type  string `json:"type"`
	Label string `json:"label"`
}

// GetVendorTypes lists the registered vendor handlers.
func (h *Handler) GetVendorTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]VendorTypeInfo, 0)
	for _, t := range h.registry.Types() {
		handler, err := h.registry.Get(t)
		if err != nil {
			continue
		}
		out = append(out, VendorTypeInfo{Type: handler.Type(), Label: handler.Label()})
	}
	writeJSON(w, http.StatusOK, out)
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string      `json:"status"`
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Uptime    string      `json:"uptime"`
	Memory    MemoryStats `json:"memory"`
	Vendors   []string    `json:"vendors"`
}

// MemoryStats represents memory usage statistics
type MemoryStats struct {
	Allocated string `json:"allocated"`
	Total     string `json:"total"`
	System    string `json:"system"`
}

var startTime = time.Now()

// Health endpoint - enhanced for monitoring
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			Allocated: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024),
			Total:     fmt.Sprintf("%.2f MB", float64(m.TotalAlloc)/1024/1024),
			System:    fmt.Sprintf("%.2f MB", float64(m.Sys)/1024/1024),
		},
		Vendors: h.registry.Types(),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
