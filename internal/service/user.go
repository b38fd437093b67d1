// Package service contains the business logic layer.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/repository"
)

// =============================================================================
// Interface Definition
// =============================================================================

// UserService manages per-identity user records. Records are created lazily:
// the first gated request from an identity upserts its record with defaults.
type UserService interface {
	// GetOrCreate upserts the user record for an identity and returns it.
	GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.User, error)

	// Get retrieves a user by identity id.
	Get(ctx context.Context, id string) (*domain.User, error)

	// LinkStripeCustomer records the Stripe customer id for a user.
	LinkStripeCustomer(ctx context.Context, id, customerID string) error

	// ApplySubscriptionStatus sets the subscription flag on the user linked
	// to a Stripe customer. Only the webhook path calls this. Returns a
	// not-found error when no user is linked to the customer.
	ApplySubscriptionStatus(ctx context.Context, stripeCustomerID string, subscribed bool) (*domain.User, error)
}

// =============================================================================
// Implementation
// =============================================================================

type userService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(queries *repository.Queries, logger *slog.Logger) UserService {
	return &userService{
		queries: queries,
		logger:  logger,
	}
}

func (s *userService) GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	const op = "user.get_or_create"

	if identity.UID == "" {
		return nil, domain.Unauthorized(op, "caller identity is required")
	}

	user, err := s.queries.UpsertUser(ctx, identity.UID, identity.Email, identity.DisplayName, identity.IsAnonymous())
	if err != nil {
		return nil, domain.Internal(err, op, "failed to upsert user record")
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	const op = "user.get"

	user, err := s.queries.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "user", id)
		}
		return nil, domain.Internal(err, op, "failed to load user record")
	}
	return user, nil
}

func (s *userService) LinkStripeCustomer(ctx context.Context, id, customerID string) error {
	const op = "user.link_stripe_customer"

	if err := s.queries.SetStripeCustomerID(ctx, id, customerID); err != nil {
		return domain.Internal(err, op, "failed to link stripe customer")
	}
	return nil
}

func (s *userService) ApplySubscriptionStatus(ctx context.Context, stripeCustomerID string, subscribed bool) (*domain.User, error) {
	const op = "user.apply_subscription_status"

	user, err := s.queries.GetUserByStripeCustomerID(ctx, stripeCustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "user for stripe customer", stripeCustomerID)
		}
		return nil, domain.Internal(err, op, "failed to look up user by stripe customer")
	}

	if user.IsSubscribed == subscribed {
		// Replayed event; nothing to change.
		return user, nil
	}

	if err := s.queries.UpdateSubscription(ctx, user.ID, subscribed); err != nil {
		return nil, domain.Internal(err, op, "failed to update subscription flag")
	}
	user.IsSubscribed = subscribed

	s.logger.Info("subscription status updated",
		slog.String("user_id", user.ID),
		slog.Bool("subscribed", subscribed),
	)
	return user, nil
}
