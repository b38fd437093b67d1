// This file implements feedback intake with AI-assisted triage summaries.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/profitscout/profitscout/internal/advisor"
	"github.com/profitscout/profitscout/internal/ai"
	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/metrics"
	"github.com/profitscout/profitscout/internal/repository"
)

// maxFeedbackLength bounds a single submission.
const maxFeedbackLength = 5000

// =============================================================================
// Interface Definition
// =============================================================================

// FeedbackService stores user feedback alongside a model-generated summary.
type FeedbackService interface {
	// Submit persists a feedback submission. Summarization is best effort:
	// if the model call fails the raw feedback is still stored.
	Submit(ctx context.Context, text string) (*domain.Feedback, error)
}

// =============================================================================
// Implementation
// =============================================================================

type feedbackService struct {
	queries  *repository.Queries
	provider ai.Provider
	logger   *slog.Logger
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(queries *repository.Queries, provider ai.Provider, logger *slog.Logger) FeedbackService {
	return &feedbackService{
		queries:  queries,
		provider: provider,
		logger:   logger,
	}
}

func (s *feedbackService) Submit(ctx context.Context, text string) (*domain.Feedback, error) {
	const op = "feedback.submit"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Invalid(op, "feedback text is required")
	}
	if len(text) > maxFeedbackLength {
		return nil, domain.Invalid(op, "feedback text is too long")
	}

	summary := ""
	resp, err := s.provider.Complete(ctx, ai.CompleteParams{
		Prompt:      advisor.BuildFeedbackSummaryPrompt(text),
		MaxTokens:   256,
		Temperature: 0.2,
	})
	if err != nil {
		s.logger.Warn("feedback summarization failed, storing raw only",
			slog.String("error", err.Error()))
	} else {
		summary = strings.TrimSpace(resp.Text)
	}

	feedback := domain.Feedback{
		ID:               uuid.New(),
		OriginalFeedback: text,
		Summary:          summary,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.queries.CreateFeedback(ctx, feedback); err != nil {
		return nil, domain.Internal(err, op, "failed to store feedback")
	}

	metrics.FeedbackSubmissions.Inc()
	return &feedback, nil
}
