package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/resumine/resumine/internal/billing"
	"github.com/resumine/resumine/internal/cache"
	"github.com/resumine/resumine/internal/model"
	"github.com/resumine/resumine/internal/store"
)

// NewBillingEventService creates a new BillingEventService.
func NewBillingEventService(provider billing.Provider, store store.Store, cache *cache.Redis) *BillingEventService {
	return &BillingEventService{
		provider: provider,
		store:    store,
		cache:    cache,
	}
}

// BillingEventService consumes billing provider callbacks and keeps the
// billing profile and the activation flag on the account's public links in
// step with the provider's view.
type BillingEventService struct {
	provider billing.Provider
	store    store.Store
	cache    *cache.Redis
}

// HandleWebhook verifies and applies a raw provider callback.
func (b *BillingEventService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := b.provider.VerifyEvent(payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			return ErrInvalidSignature
		}
		return err
	}

	return b.Process(ctx, event)
}

// Process applies a verified event. Each event id is applied at most once,
// a replay of an already recorded event is a no-op.
func (b *BillingEventService) Process(ctx context.Context, event *billing.Event) error {
	if event.Kind == billing.EventIgnored {
		return nil
	}

	record := &model.WebhookEvent{
		ID:              uuid.New().String(),
		Provider:        b.provider.Name(),
		ProviderEventID: event.ID,
		EventType:       string(event.Kind),
	}

	err := b.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateWebhookEvent(ctx, record); err != nil {
			return err
		}

		switch event.Kind {
		case billing.EventCheckoutCompleted:
			if err := b.applyCheckout(ctx, tx, event); err != nil {
				return err
			}
		case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated:
			if err := b.applySubscriptionChange(ctx, tx, event); err != nil {
				return err
			}
		case billing.EventSubscriptionDeleted:
			if err := b.applySubscriptionDeleted(ctx, tx, event); err != nil {
				return err
			}
		}

		return tx.MarkWebhookEventProcessed(ctx, record.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logrus.Infof("skipping replayed billing event %s", event.ID)
			return nil
		}
		return err
	}

	return nil
}

// applyCheckout writes the billing identifiers and subscription state onto
// the account referenced by the checkout session.
func (b *BillingEventService) applyCheckout(ctx context.Context, tx store.Store, event *billing.Event) error {
	if event.SubscriptionID == "" {
		// one-time payment checkout, nothing to track
		return nil
	}

	uid, err := uuid.Parse(event.UserID)
	if err != nil {
		logrus.Warnf("checkout event %s carries no usable account reference", event.ID)
		return nil
	}

	sub, err := b.provider.GetSubscription(ctx, event.SubscriptionID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	profile, err := tx.GetBillingProfileByUserID(ctx, uid)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &model.BillingProfile{
			ID:     uuid.New().String(),
			UserID: uid.String(),
		}
	}

	profile.StripeSubscriptionID = sub.ID
	profile.StripeCustomerID = event.CustomerID
	if profile.StripeCustomerID == "" {
		profile.StripeCustomerID = sub.CustomerID
	}
	profile.SubscriptionStatus = sub.Status
	profile.TrialEndDate = sub.TrialEnd

	logrus.Infof("checkout completed for user %s, subscription %s (%s)", uid, sub.ID, sub.Status)

	return tx.SaveBillingProfile(ctx, profile)
}

// applySubscriptionChange updates the matched account and reactivates its
// links when the subscription is back in good standing.
func (b *BillingEventService) applySubscriptionChange(ctx context.Context, tx store.Store, event *billing.Event) error {
	profile, err := tx.GetBillingProfileByCustomerID(ctx, event.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Warnf("billing event %s references unknown customer %s", event.ID, event.CustomerID)
			return nil
		}
		return err
	}

	profile.SubscriptionStatus = event.Status
	profile.TrialEndDate = event.TrialEnd
	if event.SubscriptionID != "" {
		profile.StripeSubscriptionID = event.SubscriptionID
	}

	if err := tx.SaveBillingProfile(ctx, profile); err != nil {
		return err
	}

	if event.Status == model.SubscriptionActive || event.Status == model.SubscriptionTrialing {
		return b.toggleLinks(ctx, tx, profile.UserID, true)
	}

	return nil
}

// applySubscriptionDeleted cancels the matched account and deactivates all
// of its links.
func (b *BillingEventService) applySubscriptionDeleted(ctx context.Context, tx store.Store, event *billing.Event) error {
	profile, err := tx.GetBillingProfileByCustomerID(ctx, event.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.Warnf("billing event %s references unknown customer %s", event.ID, event.CustomerID)
			return nil
		}
		return err
	}

	profile.SubscriptionStatus = model.SubscriptionCanceled
	if err := tx.SaveBillingProfile(ctx, profile); err != nil {
		return err
	}

	return b.toggleLinks(ctx, tx, profile.UserID, false)
}

func (b *BillingEventService) toggleLinks(ctx context.Context, tx store.Store, userID string, active bool) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return err
	}

	count, err := tx.SetLinksActive(ctx, uid, active)
	if err != nil {
		return err
	}

	logrus.Infof("toggled %d links for user %s to active=%v", count, userID, active)

	if b.cache != nil && count > 0 {
		links, err := tx.ListPublicLinksByUser(ctx, uid)
		if err != nil {
			return err
		}
		for _, link := range links {
			_ = b.cache.DeletePublicLink(ctx, link.Slug)
		}
	}

	return nil
}
