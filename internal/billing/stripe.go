// Package billing provides Stripe billing integration for the single
// ProfitScout subscription plan.
package billing

import (
	"fmt"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Service defines the interface for billing operations.
type Service interface {
	// CreateCustomer creates a new Stripe customer linked to an identity.
	// The uid is stored in customer metadata so support can trace records.
	CreateCustomer(uid, email, name string) (string, error)

	// CreateCheckoutSession creates a subscription-mode Checkout session.
	// Returns the session id and the hosted checkout URL.
	CreateCheckoutSession(customerID, successURL, cancelURL string) (string, string, error)

	// GetSubscription retrieves a Stripe subscription by ID.
	GetSubscription(subscriptionID string) (*stripe.Subscription, error)

	// VerifyWebhookSignature verifies the Stripe webhook signature and returns the event.
	VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error)

	// SubscriptionPriceID returns the configured price id, or empty when
	// billing is not configured.
	SubscriptionPriceID() string
}

// stripeService is the concrete implementation of Service.
type stripeService struct {
	webhookSecret string
	priceID       string
}

// NewStripeService creates a new Stripe billing service.
//
// The secretKey authenticates Stripe API calls, the webhookSecret verifies
// incoming webhook signatures, and priceID is the single subscription price.
func NewStripeService(secretKey, webhookSecret, priceID string) Service {
	stripe.Key = secretKey

	return &stripeService{
		webhookSecret: webhookSecret,
		priceID:       priceID,
	}
}

func (s *stripeService) CreateCustomer(uid, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.AddMetadata("uid", uid)

	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return c.ID, nil
}

func (s *stripeService) CreateCheckoutSession(customerID, successURL, cancelURL string) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe create checkout session: %w", err)
	}
	return sess.ID, sess.URL, nil
}

func (s *stripeService) GetSubscription(subscriptionID string) (*stripe.Subscription, error) {
	sub, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("stripe get subscription: %w", err)
	}
	return sub, nil
}

func (s *stripeService) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("stripe webhook signature verification failed: %w", err)
	}
	return event, nil
}

func (s *stripeService) SubscriptionPriceID() string {
	return s.priceID
}
