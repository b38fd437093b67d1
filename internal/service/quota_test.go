package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/repository"
)

var userCols = []string{
	"id", "email", "display_name", "is_anonymous", "is_subscribed",
	"usage_count", "stripe_customer_id", "created_at", "updated_at",
}

func userRow(id string, subscribed bool, usage int32) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userCols).
		AddRow(id, "u@example.com", "U", false, subscribed, usage, nil, now, now)
}

func newQuotaFixture(t *testing.T) (QuotaService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.DiscardHandler)
	queries := repository.New(db)
	users := NewUserService(queries, logger)
	return NewQuotaService(queries, users, logger), mock
}

func identity() domain.Identity {
	return domain.Identity{UID: "uid-1", Email: "u@example.com", DisplayName: "U"}
}

func TestCheckAndConsume_SubscribedIsUnmetered(t *testing.T) {
	svc, mock := newQuotaFixture(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnRows(userRow("uid-1", true, 3))

	user, err := svc.CheckAndConsume(context.Background(), identity())
	require.NoError(t, err)
	assert.True(t, user.IsSubscribed)
	// Usage counter untouched for subscribed users.
	assert.Equal(t, int32(3), user.UsageCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndConsume_UnderQuotaIncrements(t *testing.T) {
	svc, mock := newQuotaFixture(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnRows(userRow("uid-1", false, 2))
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("uid-1", int32(domain.FreeAnalysisQuota)).
		WillReturnRows(sqlmock.NewRows([]string{"usage_count"}).AddRow(3))

	user, err := svc.CheckAndConsume(context.Background(), identity())
	require.NoError(t, err)
	assert.Equal(t, int32(3), user.UsageCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndConsume_ExhaustedIsRefused(t *testing.T) {
	svc, mock := newQuotaFixture(t)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnRows(userRow("uid-1", false, 5))
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("uid-1", int32(domain.FreeAnalysisQuota)).
		WillReturnRows(sqlmock.NewRows([]string{"usage_count"}))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WillReturnRows(userRow("uid-1", false, 5))

	_, err := svc.CheckAndConsume(context.Background(), identity())
	require.Error(t, err)
	assert.Equal(t, domain.EPAYMENT, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndConsume_SubscriptionRaceIsGranted(t *testing.T) {
	svc, mock := newQuotaFixture(t)

	// The webhook flips the flag between the upsert and the increment, so
	// the conditional update matches no row but the re-read grants access.
	mock.ExpectQuery(`INSERT INTO users`).WillReturnRows(userRow("uid-1", false, 5))
	mock.ExpectQuery(`UPDATE users`).
		WillReturnRows(sqlmock.NewRows([]string{"usage_count"}))
	mock.ExpectQuery(`SELECT .+ FROM users WHERE id`).
		WillReturnRows(userRow("uid-1", true, 5))

	user, err := svc.CheckAndConsume(context.Background(), identity())
	require.NoError(t, err)
	assert.True(t, user.IsSubscribed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAndConsume_RequiresIdentity(t *testing.T) {
	svc, mock := newQuotaFixture(t)

	_, err := svc.CheckAndConsume(context.Background(), domain.Identity{})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
