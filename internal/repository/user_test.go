package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRows(usageCount int32, subscribed bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "email", "display_name", "is_anonymous", "is_subscribed",
		"usage_count", "stripe_customer_id", "created_at", "updated_at",
	}).AddRow("uid-1", "u@example.com", "U", false, subscribed, usageCount, nil, now, now)
}

func TestUpsertUser_CreatesRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("uid-1", "u@example.com", "U", false).
		WillReturnRows(userRows(0, false))

	q := New(db)
	user, err := q.UpsertUser(context.Background(), "uid-1", "u@example.com", "U", false)
	require.NoError(t, err)

	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, int32(0), user.UsageCount)
	assert.False(t, user.IsSubscribed)
	assert.Empty(t, user.StripeCustomerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeUsage_IncrementApplies(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("UPDATE users").
		WithArgs("uid-1", int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"usage_count"}).AddRow(3))

	q := New(db)
	count, ok, err := q.ConsumeUsage(context.Background(), "uid-1", 5)
	require.NoError(t, err)

	assert.True(t, ok)
	assert.Equal(t, int32(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeUsage_PreconditionFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// No rows returned means the conditional update did not match: the user
	// is either subscribed or already at the limit.
	mock.ExpectQuery("UPDATE users").
		WithArgs("uid-1", int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"usage_count"}))

	q := New(db)
	_, ok, err := q.ConsumeUsage(context.Background(), "uid-1", 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSubscription(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET is_subscribed").
		WithArgs("uid-1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	q := New(db)
	require.NoError(t, q.UpdateSubscription(context.Background(), "uid-1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
