package domain

import "time"

// FreeAnalysisQuota is the number of analyses a non-subscribed identity may
// run before the usage gate refuses with a subscription-required error.
// Subscribed users are unmetered.
const FreeAnalysisQuota = 5

// User is the per-identity record shared by the request path (usage
// increment) and the webhook path (subscription flag). It is created lazily
// on the first gated request from a given identity.
type User struct {
	ID               string // Caller-supplied identity (stable uid)
	Email            string // Empty for anonymous identities
	DisplayName      string
	IsAnonymous      bool
	IsSubscribed     bool
	UsageCount       int32
	StripeCustomerID string // Empty until first checkout
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Remaining returns the number of free analyses left for this user.
// Subscribed users always have the full quota available (they are unmetered).
func (u *User) Remaining() int32 {
	if u.IsSubscribed {
		return FreeAnalysisQuota
	}
	if u.UsageCount >= FreeAnalysisQuota {
		return 0
	}
	return FreeAnalysisQuota - u.UsageCount
}

// Identity carries caller-supplied identification for lazy user creation.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// IsAnonymous reports whether the identity has no associated email.
func (i Identity) IsAnonymous() bool {
	return i.Email == ""
}
