package repository

import (
	"context"
	"database/sql"

	"github.com/profitscout/profitscout/internal/domain"
)

const userColumns = `id, email, display_name, is_anonymous, is_subscribed, usage_count, stripe_customer_id, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	var customerID sql.NullString
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.IsAnonymous,
		&u.IsSubscribed,
		&u.UsageCount,
		&customerID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.StripeCustomerID = customerID.String
	return &u, nil
}

const upsertUserQuery = `
INSERT INTO users (id, email, display_name, is_anonymous)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    email        = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END,
    display_name = CASE WHEN excluded.display_name <> '' THEN excluded.display_name ELSE users.display_name END,
    is_anonymous = users.is_anonymous AND excluded.is_anonymous,
    updated_at   = now()
RETURNING ` + userColumns

// UpsertUser lazily creates the user record for an identity, or refreshes the
// identity attributes on an existing record. An anonymous identity never
// downgrades a named one.
func (q *Queries) UpsertUser(ctx context.Context, id, email, displayName string, isAnonymous bool) (*domain.User, error) {
	row := q.db.QueryRowContext(ctx, upsertUserQuery, id, email, displayName, isAnonymous)
	return scanUser(row)
}

const getUserQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

// GetUser retrieves a user by identity id. Returns sql.ErrNoRows if absent.
func (q *Queries) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserQuery, id))
}

const getUserByStripeCustomerQuery = `SELECT ` + userColumns + ` FROM users WHERE stripe_customer_id = $1`

// GetUserByStripeCustomerID retrieves the user linked to a Stripe customer.
func (q *Queries) GetUserByStripeCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByStripeCustomerQuery, customerID))
}

const consumeUsageQuery = `
UPDATE users
SET usage_count = usage_count + 1, updated_at = now()
WHERE id = $1 AND is_subscribed = false AND usage_count < $2
RETURNING usage_count`

// ConsumeUsage atomically increments the usage counter iff the user is not
// subscribed and still under the limit. The precondition is evaluated at
// commit time, so two concurrent callers cannot both take the last slot.
// Returns (newCount, true) when the increment applied, (0, false) when the
// precondition did not hold.
func (q *Queries) ConsumeUsage(ctx context.Context, id string, limit int32) (int32, bool, error) {
	var count int32
	err := q.db.QueryRowContext(ctx, consumeUsageQuery, id, limit).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

const updateSubscriptionQuery = `
UPDATE users SET is_subscribed = $2, updated_at = now() WHERE id = $1`

// UpdateSubscription sets the subscription flag for a user. This is only
// called from the webhook path; the request path never flips the flag.
func (q *Queries) UpdateSubscription(ctx context.Context, id string, subscribed bool) error {
	_, err := q.db.ExecContext(ctx, updateSubscriptionQuery, id, subscribed)
	return err
}

const setStripeCustomerQuery = `
UPDATE users SET stripe_customer_id = $2, updated_at = now() WHERE id = $1`

// SetStripeCustomerID links a Stripe customer to a user record. Called once,
// lazily, when the first checkout session is created.
func (q *Queries) SetStripeCustomerID(ctx context.Context, id, customerID string) error {
	_, err := q.db.ExecContext(ctx, setStripeCustomerQuery, id, customerID)
	return err
}
