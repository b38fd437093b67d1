// This file implements the Stripe webhook handler.
//
// Route:
//   - POST /webhooks/stripe -> HandleStripeWebhook
//
// This route is PUBLIC (no identity middleware) because Stripe calls it
// directly. Authentication is via the webhook signature verification.
// The webhook path is the only code allowed to flip a user's subscription
// flag; the request path only reads it.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/stripe/stripe-go/v79"

	"github.com/profitscout/profitscout/internal/billing"
	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/metrics"
	"github.com/profitscout/profitscout/internal/service"
)

// WebhookHandler handles incoming webhook events from Stripe.
type WebhookHandler struct {
	billing billing.Service
	users   service.UserService
	logger  *slog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
// billingService may be nil when Stripe is not configured.
func NewWebhookHandler(billingService billing.Service, users service.UserService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		billing: billingService,
		users:   users,
		logger:  logger,
	}
}

// RegisterRoutes registers webhook routes on the provided mux.
func (h *WebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/stripe", h.HandleStripeWebhook)
}

// HandleStripeWebhook processes incoming Stripe webhook events. Unmapped
// event types and events for unknown customers are acknowledged and ignored;
// Stripe must not retry them.
func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.billing == nil {
		h.logger.Warn("stripe webhook received but billing is not configured")
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	// Read body (limit to 64KB)
	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		h.logger.Error("failed to read webhook body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	event, err := h.billing.VerifyWebhookSignature(body, signature)
	if err != nil {
		h.logger.Warn("webhook signature verification failed", "error", err)
		metrics.WebhookEventsTotal.WithLabelValues("unknown", "bad_signature").Inc()
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.logger.Info("stripe webhook received", "type", event.Type, "id", event.ID)

	outcome := "ignored"
	switch event.Type {
	case "checkout.session.completed":
		outcome = h.handleCheckoutCompleted(r.Context(), event)
	case "customer.subscription.created", "customer.subscription.updated":
		outcome = h.handleSubscriptionChanged(r.Context(), event)
	case "customer.subscription.deleted":
		outcome = h.handleSubscriptionDeleted(r.Context(), event)
	default:
		h.logger.Debug("unhandled webhook event type", "type", event.Type)
	}
	metrics.WebhookEventsTotal.WithLabelValues(string(event.Type), outcome).Inc()

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// handleSubscriptionChanged applies the subscription's current status: the
// flag tracks whether the subscription is active, so a replayed event is a
// no-op.
func (h *WebhookHandler) handleSubscriptionChanged(ctx context.Context, event stripe.Event) string {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		h.logger.Error("failed to parse subscription event", "error", err)
		return "parse_error"
	}
	if sub.Customer == nil {
		h.logger.Warn("subscription event missing customer", "subscription_id", sub.ID)
		return "ignored"
	}

	active := sub.Status == stripe.SubscriptionStatusActive
	return h.applyStatus(ctx, sub.Customer.ID, active)
}

func (h *WebhookHandler) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) string {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		h.logger.Error("failed to parse subscription event", "error", err)
		return "parse_error"
	}
	if sub.Customer == nil {
		h.logger.Warn("subscription event missing customer", "subscription_id", sub.ID)
		return "ignored"
	}

	return h.applyStatus(ctx, sub.Customer.ID, false)
}

// handleCheckoutCompleted resolves the subscription created by a completed
// checkout session and applies its status. Non-subscription sessions are
// ignored.
func (h *WebhookHandler) handleCheckoutCompleted(ctx context.Context, event stripe.Event) string {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		h.logger.Error("failed to parse checkout session", "error", err)
		return "parse_error"
	}

	if session.Mode != stripe.CheckoutSessionModeSubscription {
		return "ignored"
	}
	if session.Customer == nil || session.Subscription == nil {
		h.logger.Warn("checkout session missing customer or subscription", "session_id", session.ID)
		return "ignored"
	}

	sub, err := h.billing.GetSubscription(session.Subscription.ID)
	if err != nil {
		h.logger.Error("failed to resolve checkout subscription",
			"subscription_id", session.Subscription.ID, "error", err)
		return "error"
	}

	active := sub.Status == stripe.SubscriptionStatusActive
	return h.applyStatus(ctx, session.Customer.ID, active)
}

// applyStatus updates the linked user's subscription flag. An unknown
// customer is logged and ignored, not retried.
func (h *WebhookHandler) applyStatus(ctx context.Context, customerID string, active bool) string {
	_, err := h.users.ApplySubscriptionStatus(ctx, customerID, active)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			h.logger.Warn("webhook for unknown stripe customer", "customer_id", customerID)
			return "unknown_customer"
		}
		h.logger.Error("failed to apply subscription status",
			"customer_id", customerID, "error", err)
		return "error"
	}
	return "applied"
}
