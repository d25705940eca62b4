// Package billing abstracts the payment provider behind a small surface:
// verified webhook events in, subscription lookups out.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/resumine/resumine/internal/model"
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails
	// signature verification.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	// ErrSubscriptionLookup is returned when the provider subscription
	// lookup fails.
	ErrSubscriptionLookup = errors.New("subscription lookup failed")
)

// EventKind enumerates the provider callback types this service reacts to.
type EventKind string

const (
	EventCheckoutCompleted   EventKind = "checkout.session.completed"
	EventSubscriptionCreated EventKind = "customer.subscription.created"
	EventSubscriptionUpdated EventKind = "customer.subscription.updated"
	EventSubscriptionDeleted EventKind = "customer.subscription.deleted"
	// EventIgnored marks any callback type outside the set above.
	EventIgnored EventKind = "ignored"
)

// Event is a provider callback normalized to the fields this service
// consumes. Fields are populated per kind: checkout events carry the user
// reference, subscription events carry status and trial window.
type Event struct {
	ID             string
	Kind           EventKind
	UserID         string
	CustomerID     string
	SubscriptionID string
	Status         model.SubscriptionStatus
	TrialEnd       *time.Time
}

// Subscription is the provider's view of a subscription.
type Subscription struct {
	ID         string
	CustomerID string
	Status     model.SubscriptionStatus
	TrialEnd   *time.Time
}

type Provider interface {
	// Name identifies the provider in persisted event records.
	Name() string
	// VerifyEvent checks the payload signature and normalizes the event.
	// Returns ErrInvalidSignature before any payload field is trusted.
	VerifyEvent(payload []byte, signature string) (*Event, error)
	// GetSubscription fetches the current subscription detail by id.
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
}
