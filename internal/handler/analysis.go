// This file implements the analysis endpoints.
//
// Routes:
//   - POST /api/recommendations -> HandleRecommend (metered)
//   - POST /api/followups       -> HandleFollowUp  (identity required, unmetered)
package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/profitscout/profitscout/internal/advisor"
	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/middleware"
	"github.com/profitscout/profitscout/internal/service"
)

// AnalysisHandler serves recommendation and follow-up requests.
type AnalysisHandler struct {
	advisor *advisor.Service
	quota   service.QuotaService
	stocks  service.StockService
	logger  *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(adv *advisor.Service, quota service.QuotaService, stocks service.StockService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		advisor: adv,
		quota:   quota,
		stocks:  stocks,
		logger:  logger,
	}
}

// RegisterRoutes registers analysis routes on the provided mux. Both routes
// expect the identity middleware stack.
func (h *AnalysisHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/recommendations", h.HandleRecommend)
	mux.HandleFunc("POST /api/followups", h.HandleFollowUp)
}

// recommendResponse is the wire shape of a granted recommendation.
type recommendResponse struct {
	Recommendation   string   `json:"recommendation"`
	Reasoning        []string `json:"reasoning"`
	SectionsOverview []string `json:"sectionsOverview,omitempty"`
	Mode             string   `json:"mode"`
	RemainingFree    int32    `json:"remainingFree"`
	Subscribed       bool     `json:"subscribed"`
}

// HandleRecommend runs one metered analysis: the usage gate admits the
// request first, then the advisor routes it to the matching pipeline.
func (h *AnalysisHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	// One trace id follows the request through the gate and the advisor logs.
	log := h.logger.With(slog.String("trace_id", uuid.NewString()))

	var req domain.AnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, log, err)
		return
	}
	if err := req.Validate(); err != nil {
		ErrorResponse(w, r, log, err)
		return
	}

	identity := middleware.GetIdentity(r.Context())
	user, err := h.quota.CheckAndConsume(r.Context(), identity)
	if err != nil {
		ErrorResponse(w, r, log, err)
		return
	}

	result, mode, err := h.advisor.Recommend(r.Context(), &req)
	if err != nil {
		ErrorResponse(w, r, log, err)
		return
	}

	log.Info("recommendation served",
		slog.String("user_id", user.ID),
		slog.String("mode", string(mode)),
		slog.Int("remaining_free", int(user.Remaining())),
	)

	writeJSON(w, http.StatusOK, recommendResponse{
		Recommendation:   result.Recommendation,
		Reasoning:        result.Reasoning,
		SectionsOverview: result.SectionsOverview,
		Mode:             string(mode),
		RemainingFree:    user.Remaining(),
		Subscribed:       user.IsSubscribed,
	})
}

// HandleFollowUp answers a question about a prior recommendation. Follow-ups
// require an identity but do not consume quota.
func (h *AnalysisHandler) HandleFollowUp(w http.ResponseWriter, r *http.Request) {
	var req domain.FollowUpRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	refs, err := h.stocks.BundleRefs(r.Context(), req.Tickers)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	answer, err := h.advisor.FollowUp(r.Context(), &req, refs)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
