package domain

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a persisted user feedback submission together with the
// model-generated summary used for triage.
type Feedback struct {
	ID               uuid.UUID
	OriginalFeedback string
	Summary          string
	CreatedAt        time.Time
}
