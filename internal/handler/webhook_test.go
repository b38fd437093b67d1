package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"

	"github.com/profitscout/profitscout/internal/domain"
)

// fakeBilling is a billing.Service stub. Signature verification succeeds
// when the request carries the "valid" signature and returns the prepared
// event.
type fakeBilling struct {
	event stripe.Event
	sub   *stripe.Subscription
}

func (f *fakeBilling) CreateCustomer(uid, email, name string) (string, error) {
	return "cus_new", nil
}

func (f *fakeBilling) CreateCheckoutSession(customerID, successURL, cancelURL string) (string, string, error) {
	return "cs_new", "https://checkout.example/cs_new", nil
}

func (f *fakeBilling) GetSubscription(subscriptionID string) (*stripe.Subscription, error) {
	if f.sub == nil {
		return nil, errors.New("no such subscription")
	}
	return f.sub, nil
}

func (f *fakeBilling) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	if signature != "valid" {
		return stripe.Event{}, errors.New("bad signature")
	}
	return f.event, nil
}

func (f *fakeBilling) SubscriptionPriceID() string { return "price_test" }

// fakeUsers is a service.UserService stub tracking subscription updates.
type fakeUsers struct {
	known      map[string]*domain.User // stripe customer id -> user
	applied    []bool
	lastCustID string
}

func (f *fakeUsers) GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return &domain.User{ID: identity.UID, Email: identity.Email}, nil
}

func (f *fakeUsers) Get(ctx context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (f *fakeUsers) LinkStripeCustomer(ctx context.Context, id, customerID string) error {
	return nil
}

func (f *fakeUsers) ApplySubscriptionStatus(ctx context.Context, stripeCustomerID string, subscribed bool) (*domain.User, error) {
	f.lastCustID = stripeCustomerID
	user, ok := f.known[stripeCustomerID]
	if !ok {
		return nil, domain.NotFound("user.apply_subscription_status", "user for stripe customer", stripeCustomerID)
	}
	f.applied = append(f.applied, subscribed)
	user.IsSubscribed = subscribed
	return user, nil
}

func subscriptionEvent(t *testing.T, eventType, customerID, status string) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"id":       "sub_1",
		"status":   status,
		"customer": map[string]any{"id": customerID},
	})
	require.NoError(t, err)
	return stripe.Event{
		ID:   "evt_1",
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func postWebhook(h *WebhookHandler, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()
	h.HandleStripeWebhook(rec, req)
	return rec
}

func newWebhookFixture(event stripe.Event) (*WebhookHandler, *fakeUsers, *fakeBilling) {
	users := &fakeUsers{known: map[string]*domain.User{
		"cus_1": {ID: "uid-1", StripeCustomerID: "cus_1"},
	}}
	billing := &fakeBilling{event: event}
	h := NewWebhookHandler(billing, users, slog.New(slog.DiscardHandler))
	return h, users, billing
}

func TestWebhook_SubscriptionCreatedActivates(t *testing.T) {
	h, users, _ := newWebhookFixture(subscriptionEvent(t, "customer.subscription.created", "cus_1", "active"))

	rec := postWebhook(h, "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"received":true`)
	require.Len(t, users.applied, 1)
	assert.True(t, users.applied[0])
}

func TestWebhook_SubscriptionUpdatedInactiveDeactivates(t *testing.T) {
	h, users, _ := newWebhookFixture(subscriptionEvent(t, "customer.subscription.updated", "cus_1", "past_due"))

	rec := postWebhook(h, "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.applied, 1)
	assert.False(t, users.applied[0])
}

func TestWebhook_SubscriptionDeletedDeactivates(t *testing.T) {
	h, users, _ := newWebhookFixture(subscriptionEvent(t, "customer.subscription.deleted", "cus_1", "canceled"))

	rec := postWebhook(h, "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.applied, 1)
	assert.False(t, users.applied[0])
}

func TestWebhook_CheckoutCompletedResolvesSubscription(t *testing.T) {
	raw, err := json.Marshal(map[string]any{
		"id":           "cs_1",
		"mode":         "subscription",
		"customer":     map[string]any{"id": "cus_1"},
		"subscription": map[string]any{"id": "sub_1"},
	})
	require.NoError(t, err)

	event := stripe.Event{
		ID:   "evt_2",
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
	h, users, billing := newWebhookFixture(event)
	billing.sub = &stripe.Subscription{ID: "sub_1", Status: stripe.SubscriptionStatusActive}

	rec := postWebhook(h, "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.applied, 1)
	assert.True(t, users.applied[0])
}

func TestWebhook_UnknownCustomerIgnored(t *testing.T) {
	h, users, _ := newWebhookFixture(subscriptionEvent(t, "customer.subscription.created", "cus_stranger", "active"))

	rec := postWebhook(h, "valid")

	// Acknowledged so Stripe does not retry.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, users.applied)
	assert.Equal(t, "cus_stranger", users.lastCustID)
}

func TestWebhook_UnmappedEventTypeIgnored(t *testing.T) {
	h, users, _ := newWebhookFixture(stripe.Event{
		ID:   "evt_3",
		Type: "invoice.payment_succeeded",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	})

	rec := postWebhook(h, "valid")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"received":true`)
	assert.Empty(t, users.applied)
}

func TestWebhook_BadSignatureRejected(t *testing.T) {
	h, users, _ := newWebhookFixture(subscriptionEvent(t, "customer.subscription.created", "cus_1", "active"))

	rec := postWebhook(h, "forged")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, users.applied)
}

func TestWebhook_ReplayIsIdempotent(t *testing.T) {
	h, users, _ := newWebhookFixture(subscriptionEvent(t, "customer.subscription.created", "cus_1", "active"))

	postWebhook(h, "valid")
	postWebhook(h, "valid")

	require.Len(t, users.applied, 2)
	assert.True(t, users.applied[0])
	assert.True(t, users.applied[1])
	assert.True(t, users.known["cus_1"].IsSubscribed)
}
