// This file implements the feedback endpoint.
//
// Route:
//   - POST /api/feedback -> HandleSubmitFeedback (public)
package handler

import (
	"log/slog"
	"net/http"

	"github.com/profitscout/profitscout/internal/service"
)

// FeedbackHandler accepts free-form product feedback.
type FeedbackHandler struct {
	feedback service.FeedbackService
	logger   *slog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedback service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedback: feedback,
		logger:   logger,
	}
}

// RegisterRoutes registers feedback routes on the provided mux.
func (h *FeedbackHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/feedback", h.HandleSubmitFeedback)
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

// HandleSubmitFeedback stores a submission and its triage summary.
func (h *FeedbackHandler) HandleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	fb, err := h.feedback.Submit(r.Context(), req.Feedback)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":      fb.ID.String(),
		"summary": fb.Summary,
	})
}
