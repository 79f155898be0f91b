package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hibiki-app/hibiki/internal/spotify"
)

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	a, err := spotify.NewAuth("client-id", "client-secret", spotify.ResponseTypeCode,
		"http://localhost:8000/callback", []spotify.Scope{spotify.ScopeStreaming}, false)
	require.NoError(t, err)
	return NewFlow(a)
}

func TestCompleteAbortsOnStateMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("token endpoint must not be called when the callback state does not match")
	}))
	defer server.Close()

	flow := newTestFlow(t)
	flow.exchanger.TokenURL = server.URL

	cb := &spotify.Callback{Code: "auth-code", State: "forged-state"}
	_, err := flow.Complete(context.Background(), cb)

	assert.ErrorIs(t, err, spotify.ErrStateMismatch)
}

func TestCompleteReportsDeniedAuthorization(t *testing.T) {
	flow := newTestFlow(t)

	cb := &spotify.Callback{ErrorCode: "access_denied", State: flow.Auth.State}
	_, err := flow.Complete(context.Background(), cb)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCompleteExchangesMatchingCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"t","token_type":"Bearer","scope":"streaming","expires_in":3600}`))
	}))
	defer server.Close()

	flow := newTestFlow(t)
	flow.exchanger.TokenURL = server.URL

	cb := &spotify.Callback{Code: "auth-code", State: flow.Auth.State}
	token, err := flow.Complete(context.Background(), cb)

	require.NoError(t, err)
	assert.Equal(t, "t", token.AccessToken)
	assert.False(t, token.IsExpired())
}

func TestCompleteRawParsesAndExchanges(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"t","token_type":"Bearer","scope":"streaming","expires_in":3600}`))
	}))
	defer server.Close()

	flow := newTestFlow(t)
	flow.exchanger.TokenURL = server.URL

	raw := "http://localhost:8000/callback?code=auth-code&state=" + flow.Auth.State
	token, err := flow.CompleteRaw(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "t", token.AccessToken)
}

func TestCompleteRawRejectsGarbage(t *testing.T) {
	flow := newTestFlow(t)

	_, err := flow.CompleteRaw(context.Background(), ":not-a-uri")
	require.Error(t, err)

	var parseErr *spotify.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestHandleCallbackSuccess(t *testing.T) {
	flow := newTestFlow(t)

	req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state="+flow.Auth.State, nil)
	rec := httptest.NewRecorder()

	flow.handleCallback(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication successful")

	select {
	case cb := <-flow.callbackCh:
		assert.Equal(t, "auth-code", cb.Code)
		assert.Equal(t, flow.Auth.State, cb.State)
	default:
		t.Fatal("expected the parsed callback on the channel")
	}
}

func TestHandleCallbackDenied(t *testing.T) {
	flow := newTestFlow(t)

	req := httptest.NewRequest(http.MethodGet, "/callback?error=access_denied&state="+flow.Auth.State, nil)
	rec := httptest.NewRecorder()

	flow.handleCallback(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not granted")

	select {
	case cb := <-flow.callbackCh:
		assert.True(t, cb.Failed())
		assert.Equal(t, "access_denied", cb.ErrorCode)
	default:
		t.Fatal("expected the parsed callback on the channel")
	}
}

func TestHandleCallbackInvalid(t *testing.T) {
	flow := newTestFlow(t)

	req := httptest.NewRequest(http.MethodGet, "/callback", nil)
	rec := httptest.NewRecorder()

	flow.handleCallback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	select {
	case <-flow.callbackCh:
		t.Fatal("an invalid callback must not be delivered")
	default:
	}
}
