package repository

import (
	"context"

	"github.com/profitscout/profitscout/internal/domain"
)

const createFeedbackQuery = `
INSERT INTO feedback (id, original_feedback, summary, created_at)
VALUES ($1, $2, $3, $4)`

// CreateFeedback persists a feedback submission and its model summary.
func (q *Queries) CreateFeedback(ctx context.Context, f domain.Feedback) error {
	_, err := q.db.ExecContext(ctx, createFeedbackQuery, f.ID, f.OriginalFeedback, f.Summary, f.CreatedAt)
	return err
}
