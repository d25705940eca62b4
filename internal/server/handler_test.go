package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumine/resumine/internal/auth"
	"github.com/resumine/resumine/internal/billing"
	"github.com/resumine/resumine/internal/compress"
	"github.com/resumine/resumine/internal/model"
	"github.com/resumine/resumine/internal/service"
	"github.com/resumine/resumine/internal/store"
	"github.com/resumine/resumine/internal/tester"
)

const testBaseURL = "http://localhost:4001"

// tokenIdentity resolves tokens from a fixed map.
type tokenIdentity map[string]string

func (t tokenIdentity) Resolve(_ context.Context, token string) (string, error) {
	if userID, ok := t[token]; ok {
		return userID, nil
	}
	return "", auth.ErrNoSession
}

// rejectAllProvider fails signature verification for every payload.
type rejectAllProvider struct{}

func (rejectAllProvider) Name() string {
	return "stripe"
}

func (rejectAllProvider) VerifyEvent([]byte, string) (*billing.Event, error) {
	return nil, billing.ErrInvalidSignature
}

func (rejectAllProvider) GetSubscription(context.Context, string) (*billing.Subscription, error) {
	return nil, billing.ErrSubscriptionLookup
}

type fixture struct {
	mux    *http.ServeMux
	store  store.Store
	userID string
	token  string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	tester.RemoveDBFile()
	tester.Setup()

	linkStore := store.NewGormStore(tester.TestDB())
	compressor := compress.NewNop()
	userID := uuid.New().String()
	token := "tok_" + userID

	handler := NewHandler(
		service.NewPublicLinkService(compressor, linkStore, nil, testBaseURL),
		service.NewResumeService(compressor, linkStore),
		service.NewBillingEventService(rejectAllProvider{}, linkStore, nil),
		tokenIdentity{token: userID},
	)

	mux := http.NewServeMux()
	handler.Register(mux)

	return &fixture{
		mux:    mux,
		store:  linkStore,
		userID: userID,
		token:  token,
	}
}

func (f *fixture) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	return w
}

func (f *fixture) seedResume(t *testing.T) *model.Resume {
	t.Helper()

	resume := &model.Resume{
		ID:      uuid.New().String(),
		UserID:  f.userID,
		Title:   "Jane Doe Resume",
		Content: `{"personalInfo":{"fullName":"Jane Doe"},"experience":[{"jobTitle":"Senior Engineer"}]}`,
	}
	require.NoError(t, f.store.CreateResume(context.TODO(), resume))

	return resume
}

func TestHandler_EnsurePublicLink(t *testing.T) {
	f := setup(t)
	resume := f.seedResume(t)

	w := f.do(t, http.MethodPost, "/v1/public-links", f.token, `{"resumeId":"`+resume.ID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result service.PublicLinkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, testBaseURL+"/r/jane-doe-senior-engineer", result.URL)
	assert.True(t, result.IsActive)
}

func TestHandler_EnsurePublicLinkUnauthorized(t *testing.T) {
	f := setup(t)
	resume := f.seedResume(t)

	w := f.do(t, http.MethodPost, "/v1/public-links", "", `{"resumeId":"`+resume.ID+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/v1/public-links", "tok_bogus", `{"resumeId":"`+resume.ID+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_EnsurePublicLinkBadRequest(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/v1/public-links", f.token, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/v1/public-links", f.token, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_EnsurePublicLinkNotOwned(t *testing.T) {
	f := setup(t)

	other := &model.Resume{
		ID:     uuid.New().String(),
		UserID: uuid.New().String(),
	}
	require.NoError(t, f.store.CreateResume(context.TODO(), other))

	w := f.do(t, http.MethodPost, "/v1/public-links", f.token, `{"resumeId":"`+other.ID+`"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestHandler_ResolvePublicLink(t *testing.T) {
	f := setup(t)
	resume := f.seedResume(t)

	w := f.do(t, http.MethodPost, "/v1/public-links", f.token, `{"resumeId":"`+resume.ID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result service.PublicLinkResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	w = f.do(t, http.MethodGet, "/r/"+result.Slug, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resolved service.ResolvedLink
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resolved))
	assert.Equal(t, result.Slug, resolved.Slug)

	// unknown slugs are not found
	w = f.do(t, http.MethodGet, "/r/no-such-slug", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// deactivated links resolve to a blocked state
	_, err := f.store.SetLinksActive(context.TODO(), uuid.MustParse(f.userID), false)
	require.NoError(t, err)

	w = f.do(t, http.MethodGet, "/r/"+result.Slug, "", "")
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestHandler_BillingWebhookBadSignature(t *testing.T) {
	f := setup(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=0,v1=bad")

	w := httptest.NewRecorder()
	f.mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CreateAndGetResume(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodPost, "/v1/resumes", f.token,
		`{"title":"Jane Doe Resume","content":{"personalInfo":{"fullName":"Jane Doe"}}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created service.ResumeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = f.do(t, http.MethodGet, "/v1/resumes/"+created.ID, f.token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched service.ResumeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Jane Doe Resume", fetched.Title)
}

func TestHandler_Health(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
