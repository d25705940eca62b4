package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/resumine/resumine/internal/billing"
	"github.com/resumine/resumine/internal/model"
	"github.com/resumine/resumine/internal/store"
	"github.com/resumine/resumine/internal/tester"
)

const testBaseURL = "http://localhost:4001"

const janeContent = `{"personalInfo":{"fullName":"Jane Doe"},"experience":[{"jobTitle":"Senior Engineer!"}]}`

func newStore(t *testing.T) store.Store {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	return store.NewGormStore(tester.TestDB())
}

func seedResume(t *testing.T, s store.Store, userID, content string) *model.Resume {
	t.Helper()

	resume := &model.Resume{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   "Jane Doe Resume",
		Content: content,
	}
	require.NoError(t, s.CreateResume(context.TODO(), resume))

	return resume
}

func seedProfile(t *testing.T, s store.Store, userID, customerID string, status model.SubscriptionStatus, trialEnd *time.Time) *model.BillingProfile {
	t.Helper()

	profile := &model.BillingProfile{
		ID:                 uuid.New().String(),
		UserID:             userID,
		StripeCustomerID:   customerID,
		SubscriptionStatus: status,
		TrialEndDate:       trialEnd,
	}
	require.NoError(t, s.SaveBillingProfile(context.TODO(), profile))

	return profile
}

func seedLink(t *testing.T, s store.Store, userID, resumeID, slug string, active bool) *model.PublicLink {
	t.Helper()

	link := &model.PublicLink{
		ID:       uuid.New().String(),
		ResumeID: resumeID,
		UserID:   userID,
		Slug:     slug,
		LinkName: slug,
		Template: "classic",
		IsActive: active,
	}
	require.NoError(t, s.CreatePublicLink(context.TODO(), link))

	return link
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// fakeProvider decodes payloads as pre-normalized events. The signature
// "valid" passes verification, anything else fails it.
type fakeProvider struct {
	subs map[string]*billing.Subscription
}

func (f *fakeProvider) Name() string {
	return "stripe"
}

func (f *fakeProvider) VerifyEvent(payload []byte, signature string) (*billing.Event, error) {
	if signature != "valid" {
		return nil, billing.ErrInvalidSignature
	}

	var event billing.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

func (f *fakeProvider) GetSubscription(_ context.Context, id string) (*billing.Subscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, billing.ErrSubscriptionLookup
	}

	return sub, nil
}
