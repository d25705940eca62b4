package billing

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/resumine/resumine/internal/model"
)

const testSecret = "whsec_test"

func signedHeader(t *testing.T, payload []byte) string {
	t.Helper()

	now := time.Now()
	mac := webhook.ComputeSignature(now, payload, testSecret)

	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(mac))
}

func stripeEvent(eventType, dataObject string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": "2023-10-16",
		"type": %q,
		"data": {"object": %s}
	}`, eventType, dataObject))
}

func TestStripe_VerifyEventRejectsBadSignature(t *testing.T) {
	s := NewStripe("sk_test", testSecret)

	payload := stripeEvent("customer.subscription.updated", `{"id": "sub_1"}`)

	_, err := s.VerifyEvent(payload, "t=0,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = s.VerifyEvent(payload, "")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripe_VerifyEventCheckoutCompleted(t *testing.T) {
	s := NewStripe("sk_test", testSecret)

	payload := stripeEvent("checkout.session.completed", `{
		"id": "cs_1",
		"client_reference_id": "user-42",
		"customer": {"id": "cus_1"},
		"subscription": {"id": "sub_1"}
	}`)

	event, err := s.VerifyEvent(payload, signedHeader(t, payload))
	require.NoError(t, err)

	assert.Equal(t, "evt_test_1", event.ID)
	assert.Equal(t, EventCheckoutCompleted, event.Kind)
	assert.Equal(t, "user-42", event.UserID)
	assert.Equal(t, "cus_1", event.CustomerID)
	assert.Equal(t, "sub_1", event.SubscriptionID)
}

func TestStripe_VerifyEventCheckoutUserIDFromMetadata(t *testing.T) {
	s := NewStripe("sk_test", testSecret)

	payload := stripeEvent("checkout.session.completed", `{
		"id": "cs_1",
		"metadata": {"user_id": "user-7"},
		"customer": {"id": "cus_1"}
	}`)

	event, err := s.VerifyEvent(payload, signedHeader(t, payload))
	require.NoError(t, err)
	assert.Equal(t, "user-7", event.UserID)
	assert.Empty(t, event.SubscriptionID)
}

func TestStripe_VerifyEventSubscriptionUpdated(t *testing.T) {
	s := NewStripe("sk_test", testSecret)

	trialEnd := time.Now().Add(72 * time.Hour).Unix()
	payload := stripeEvent("customer.subscription.updated", fmt.Sprintf(`{
		"id": "sub_1",
		"status": "trialing",
		"trial_end": %d,
		"customer": {"id": "cus_1"}
	}`, trialEnd))

	event, err := s.VerifyEvent(payload, signedHeader(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionUpdated, event.Kind)
	assert.Equal(t, "sub_1", event.SubscriptionID)
	assert.Equal(t, "cus_1", event.CustomerID)
	assert.Equal(t, model.SubscriptionTrialing, event.Status)
	require.NotNil(t, event.TrialEnd)
	assert.Equal(t, trialEnd, event.TrialEnd.Unix())
}

func TestStripe_VerifyEventSubscriptionDeleted(t *testing.T) {
	s := NewStripe("sk_test", testSecret)

	payload := stripeEvent("customer.subscription.deleted", `{
		"id": "sub_1",
		"status": "canceled",
		"customer": {"id": "cus_1"}
	}`)

	event, err := s.VerifyEvent(payload, signedHeader(t, payload))
	require.NoError(t, err)

	assert.Equal(t, EventSubscriptionDeleted, event.Kind)
	assert.Equal(t, model.SubscriptionCanceled, event.Status)
	assert.Nil(t, event.TrialEnd)
}

func TestStripe_VerifyEventIgnoresUnknownTypes(t *testing.T) {
	s := NewStripe("sk_test", testSecret)

	payload := stripeEvent("invoice.paid", `{"id": "in_1"}`)

	event, err := s.VerifyEvent(payload, signedHeader(t, payload))
	require.NoError(t, err)
	assert.Equal(t, EventIgnored, event.Kind)
}

func TestSubscriptionStatusMapping(t *testing.T) {
	assert.Equal(t, model.SubscriptionActive, subscriptionStatus("active"))
	assert.Equal(t, model.SubscriptionTrialing, subscriptionStatus("trialing"))
	assert.Equal(t, model.SubscriptionPastDue, subscriptionStatus("past_due"))
	assert.Equal(t, model.SubscriptionCanceled, subscriptionStatus("canceled"))
	assert.Equal(t, model.SubscriptionNone, subscriptionStatus("incomplete"))
}
