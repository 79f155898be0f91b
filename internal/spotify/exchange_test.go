package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExchanger(serverURL string) *Exchanger {
	return &Exchanger{
		HTTPClient: http.DefaultClient,
		TokenURL:   serverURL,
	}
}

func testRedirectURI(t *testing.T) *url.URL {
	t.Helper()
	u, err := url.Parse("http://localhost:8000/callback")
	require.NoError(t, err)
	return u
}

func TestExchangeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code", r.PostForm.Get("code"))
		assert.Equal(t, "http://localhost:8000/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"t","token_type":"Bearer","scope":"streaming","expires_in":3600,"refresh_token":"r"}`))
	}))
	defer server.Close()

	cb := &Callback{Code: "auth-code", State: "state"}
	token, err := testExchanger(server.URL).Exchange(context.Background(), cb, "client-id", "client-secret", testRedirectURI(t))
	require.NoError(t, err)

	assert.Equal(t, "t", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, ScopeList{ScopeStreaming}, token.Scope)
	assert.Equal(t, "r", token.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
	assert.False(t, token.IsExpired())
}

func TestExchangeProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid authorization code"}`))
	}))
	defer server.Close()

	cb := &Callback{Code: "expired-code", State: "state"}
	_, err := testExchanger(server.URL).Exchange(context.Background(), cb, "client-id", "client-secret", testRedirectURI(t))
	require.Error(t, err)

	var providerErr *ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
	assert.Contains(t, providerErr.Body, "invalid_grant")
}

func TestExchangeMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	cb := &Callback{Code: "auth-code", State: "state"}
	_, err := testExchanger(server.URL).Exchange(context.Background(), cb, "client-id", "client-secret", testRedirectURI(t))
	require.Error(t, err)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestExchangeNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Close immediately so the request cannot connect

	cb := &Callback{Code: "auth-code", State: "state"}
	_, err := testExchanger(server.URL).Exchange(context.Background(), cb, "client-id", "client-secret", testRedirectURI(t))
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestExchangeRefusesFailedCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("token endpoint must not be called for a failed callback")
	}))
	defer server.Close()

	cb := &Callback{ErrorCode: "access_denied", State: "state"}
	_, err := testExchanger(server.URL).Exchange(context.Background(), cb, "client-id", "client-secret", testRedirectURI(t))
	assert.ErrorIs(t, err, ErrCallbackFailed)
}

func TestExchangeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	cb := &Callback{Code: "auth-code", State: "state"}
	_, err := testExchanger(server.URL).Exchange(ctx, cb, "client-id", "client-secret", testRedirectURI(t))

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, netErr.Err, context.Canceled)
}
