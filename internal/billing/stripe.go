package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/resumine/resumine/internal/model"
)

var _ Provider = (*Stripe)(nil)

// Stripe implements Provider on top of the stripe SDK.
type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(apiKey, webhookSecret string) *Stripe {
	api := &client.API{}
	api.Init(apiKey, nil)

	return &Stripe{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (s *Stripe) Name() string {
	return "stripe"
}

func (s *Stripe) VerifyEvent(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		logrus.Warnf("rejected stripe event: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch ev.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &session); err != nil {
			return nil, err
		}

		event := &Event{
			ID:     ev.ID,
			Kind:   EventCheckoutCompleted,
			UserID: session.ClientReferenceID,
		}
		if event.UserID == "" {
			event.UserID = session.Metadata["user_id"]
		}
		if session.Customer != nil {
			event.CustomerID = session.Customer.ID
		}
		if session.Subscription != nil {
			event.SubscriptionID = session.Subscription.ID
		}

		return event, nil

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return nil, err
		}

		event := &Event{
			ID:             ev.ID,
			Kind:           EventKind(ev.Type),
			SubscriptionID: sub.ID,
			Status:         subscriptionStatus(sub.Status),
			TrialEnd:       unixTime(sub.TrialEnd),
		}
		if sub.Customer != nil {
			event.CustomerID = sub.Customer.ID
		}

		return event, nil
	}

	return &Event{ID: ev.ID, Kind: EventIgnored}, nil
}

func (s *Stripe) GetSubscription(ctx context.Context, id string) (*Subscription, error) {
	sub, err := s.api.Subscriptions.Get(id, &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		logrus.Errorf("stripe subscription lookup failed for %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrSubscriptionLookup, err)
	}

	out := &Subscription{
		ID:       sub.ID,
		Status:   subscriptionStatus(sub.Status),
		TrialEnd: unixTime(sub.TrialEnd),
	}
	if sub.Customer != nil {
		out.CustomerID = sub.Customer.ID
	}

	return out, nil
}

func subscriptionStatus(status stripe.SubscriptionStatus) model.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive:
		return model.SubscriptionActive
	case stripe.SubscriptionStatusTrialing:
		return model.SubscriptionTrialing
	case stripe.SubscriptionStatusPastDue:
		return model.SubscriptionPastDue
	case stripe.SubscriptionStatusCanceled:
		return model.SubscriptionCanceled
	}

	return model.SubscriptionNone
}

func unixTime(ts int64) *time.Time {
	if ts == 0 {
		return nil
	}

	t := time.Unix(ts, 0)
	return &t
}
