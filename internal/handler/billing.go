// This file implements the billing endpoints.
//
// Route:
//   - POST /api/billing/checkout -> HandleCreateCheckout (identity required)
package handler

import (
	"log/slog"
	"net/http"

	"github.com/profitscout/profitscout/internal/billing"
	"github.com/profitscout/profitscout/internal/domain"
	"github.com/profitscout/profitscout/internal/middleware"
	"github.com/profitscout/profitscout/internal/service"
)

// BillingHandler starts subscription checkout flows.
type BillingHandler struct {
	billing    billing.Service
	users      service.UserService
	successURL string
	cancelURL  string
	logger     *slog.Logger
}

// NewBillingHandler creates a new BillingHandler.
// billingService may be nil when Stripe is not configured.
func NewBillingHandler(billingService billing.Service, users service.UserService, successURL, cancelURL string, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		billing:    billingService,
		users:      users,
		successURL: successURL,
		cancelURL:  cancelURL,
		logger:     logger,
	}
}

// RegisterRoutes registers billing routes on the provided mux.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/billing/checkout", h.HandleCreateCheckout)
}

// HandleCreateCheckout creates a subscription-mode checkout session for the
// caller, lazily creating the Stripe customer on first use.
func (h *BillingHandler) HandleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	const op = "billing.create_checkout"

	if h.billing == nil || h.billing.SubscriptionPriceID() == "" {
		ErrorResponse(w, r, h.logger, domain.Config(op, "billing is not configured"))
		return
	}

	identity := middleware.GetIdentity(r.Context())
	user, err := h.users.GetOrCreate(r.Context(), identity)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = h.billing.CreateCustomer(user.ID, user.Email, user.DisplayName)
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Internal(err, op, "failed to create billing customer"))
			return
		}
		if err := h.users.LinkStripeCustomer(r.Context(), user.ID, customerID); err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
	}

	sessionID, url, err := h.billing.CreateCheckoutSession(customerID, h.successURL, h.cancelURL)
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Internal(err, op, "failed to create checkout session"))
		return
	}

	h.logger.Info("checkout session created",
		slog.String("user_id", user.ID),
		slog.String("session_id", sessionID),
	)
	writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"url":       url,
	})
}
