// This file implements the usage gate guarding metered AI analyses.
package service

import (
	"context"
	"log/slog"

	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/metrics"
	"github.com/profitscout/profitscout/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// QuotaService enforces the free-analysis quota for non-subscribed users.
type QuotaService interface {
	// CheckAndConsume admits one analysis for the identity, lazily creating
	// its user record. Subscribed users pass without consuming anything.
	// Non-subscribed users atomically consume one quota slot; when none
	// remain the call fails with a payment-required error and the counter is
	// left unchanged.
	CheckAndConsume(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

// =============================================================================
// Implementation
// =============================================================================

type quotaService struct {
	queries *repository.Queries
	users   UserService
	logger  *slog.Logger
}

// NewQuotaService creates a new QuotaService.
func NewQuotaService(queries *repository.Queries, users UserService, logger *slog.Logger) QuotaService {
	return &quotaService{
		queries: queries,
		users:   users,
		logger:  logger,
	}
}

func (s *quotaService) CheckAndConsume(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	const op = "quota.check_and_consume"

	user, err := s.users.GetOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	if user.IsSubscribed {
		return user, nil
	}

	// The increment and its precondition execute as one statement, so two
	// concurrent requests can never both take the last free slot.
	count, ok, err := s.queries.ConsumeUsage(ctx, user.ID, domain.FreeAnalysisQuota)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to consume usage quota")
	}
	if ok {
		user.UsageCount = count
		return user, nil
	}

	// The precondition failed: either the quota is spent, or a webhook
	// flipped the subscription flag between the upsert and the increment.
	user, err = s.users.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user.IsSubscribed {
		return user, nil
	}

	s.logger.Info("analysis refused, quota exhausted",
		slog.String("user_id", user.ID),
		slog.Int("usage_count", int(user.UsageCount)),
	)
	metrics.QuotaDenialsTotal.Inc()

	return nil, domain.QuotaExceeded(op, user.UsageCount, domain.FreeAnalysisQuota)
}
