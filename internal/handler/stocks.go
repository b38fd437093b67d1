// This file implements the issuer catalog endpoint.
//
// Route:
//   - GET /api/stocks -> HandleListStocks (public)
package handler

import (
	"log/slog"
	"net/http"

	"github.com/profitscout/profitscout/internal/service"
)

// StockHandler serves the issuer catalog the frontend uses to populate its
// stock pickers.
type StockHandler struct {
	stocks service.StockService
	logger *slog.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stocks service.StockService, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		stocks: stocks,
		logger: logger,
	}
}

// RegisterRoutes registers catalog routes on the provided mux.
func (h *StockHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stocks", h.HandleListStocks)
}

type stockResponse struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
	BundleRef   string `json:"bundleRef"`
}

// HandleListStocks returns the full catalog ordered by ticker.
func (h *StockHandler) HandleListStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.stocks.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]stockResponse, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, stockResponse{
			Ticker:      s.Ticker,
			CompanyName: s.CompanyName,
			BundleRef:   s.BundlePath,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"stocks": out})
}
