package spotify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hibiki-app/hibiki/internal/log"
)

// Exchanger swaps an authorization code for a token.  The zero value is not usable;
// construct with NewExchanger.  Timeout and cancellation policy belong to the caller
// through the context and the injected HTTP client.
type Exchanger struct {
	// HTTPClient used for the token request
	HTTPClient *http.Client
	// TokenURL of the accounts service.  Tests point this at a local server.
	TokenURL string
}

// NewExchanger creates an Exchanger targeting the real accounts service
func NewExchanger() *Exchanger {
	return &Exchanger{
		HTTPClient: http.DefaultClient,
		TokenURL:   TokenURL,
	}
}

// Exchange performs the code-for-token exchange.  This is the single network call of
// the flow.  The callback must be the success variant and must already have had its
// state verified; exchanging a failed callback returns ErrCallbackFailed without
// touching the network.
func (e *Exchanger) Exchange(ctx context.Context, cb *Callback, clientID, clientSecret string, redirectURI *url.URL) (*Token, error) {
	if cb.Failed() {
		return nil, ErrCallbackFailed
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", cb.Code)
	form.Set("redirect_uri", redirectURI.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &ParseError{Raw: e.TokenURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(clientID, clientSecret)

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn("Token endpoint rejected the exchange", "status", resp.StatusCode)
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	token := &Token{}
	if err := json.Unmarshal(body, token); err != nil {
		return nil, &DecodeError{Err: err}
	}
	token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)

	log.Info("Token exchange successful", "token_type", token.TokenType, "expires_in", token.ExpiresIn)
	return token, nil
}
