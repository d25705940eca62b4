package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/resumine/resumine/internal/model"
)

// LinkActive derives whether an account's public links may resolve. Access
// is granted inside the trial window or while the subscription is in good
// standing. Accounts without a billing profile keep full access, matching
// how new accounts behave before their first checkout.
func LinkActive(profile *model.BillingProfile, now time.Time) bool {
	if profile == nil {
		logrus.Debug("no billing profile, link sharing allowed by default")
		return true
	}

	if profile.TrialEndDate != nil && now.Before(*profile.TrialEndDate) {
		return true
	}

	return profile.SubscriptionStatus == model.SubscriptionActive ||
		profile.SubscriptionStatus == model.SubscriptionTrialing
}
