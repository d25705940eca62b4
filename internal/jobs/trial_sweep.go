package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/resumine/resumine/internal/cache"
	"github.com/resumine/resumine/internal/store"
)

// TrialSweep deactivates public links of accounts whose trial has lapsed
// without an active subscription. Trial expiry produces no provider event,
// the sweep keeps the activation flag in step with the trial window.
type TrialSweep struct {
	store    store.Store
	cache    *cache.Redis
	schedule string
}

func NewTrialSweep(store store.Store, cache *cache.Redis, schedule string) *TrialSweep {
	return &TrialSweep{
		store:    store,
		cache:    cache,
		schedule: schedule,
	}
}

func (t *TrialSweep) Name() string {
	return "trial_sweep"
}

func (t *TrialSweep) Schedule() string {
	return t.schedule
}

func (t *TrialSweep) Run() {
	if err := t.Sweep(context.Background(), time.Now()); err != nil {
		logrus.Errorf("trial sweep failed: %v", err)
	}
}

// Sweep runs one pass over all lapsed billing profiles.
func (t *TrialSweep) Sweep(ctx context.Context, now time.Time) error {
	profiles, err := t.store.ListLapsedBillingProfiles(ctx, now)
	if err != nil {
		return err
	}

	for _, profile := range profiles {
		uid, err := uuid.Parse(profile.UserID)
		if err != nil {
			logrus.Warnf("skipping billing profile %s with bad user id", profile.ID)
			continue
		}

		links, err := t.store.ListPublicLinksByUser(ctx, uid)
		if err != nil {
			return err
		}

		stale := false
		for _, link := range links {
			if link.IsActive {
				stale = true
				break
			}
		}
		if !stale {
			continue
		}

		count, err := t.store.SetLinksActive(ctx, uid, false)
		if err != nil {
			return err
		}
		logrus.Infof("trial sweep deactivated %d links for user %s", count, profile.UserID)

		if t.cache != nil {
			for _, link := range links {
				_ = t.cache.DeletePublicLink(ctx, link.Slug)
			}
		}
	}

	return nil
}
