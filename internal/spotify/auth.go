package spotify

import (
	"crypto/rand"
	"net/url"
	"strconv"
)

const (
	// AuthURL is the authorize endpoint of the Spotify accounts service
	AuthURL = "https://accounts.spotify.com/authorize"
	// TokenURL is the token endpoint of the Spotify accounts service
	TokenURL = "https://accounts.spotify.com/api/token"
)

// Response types accepted by the authorize endpoint
const (
	ResponseTypeCode  = "code"
	ResponseTypeToken = "token"
)

// stateLength is the number of random characters generated for the state parameter
const stateLength = 20

// Auth holds the parameters of a single authorization flow.  It is constructed once
// per flow and not mutated afterwards.  The State value is generated at construction
// and must be verified against the state echoed back in the callback.
type Auth struct {
	ClientID     string
	ClientSecret string
	ResponseType string
	RedirectURI  *url.URL
	State        string
	Scopes       []Scope
	ShowDialog   bool
}

// NewAuth creates an Auth with a freshly generated random state.  The redirect URI
// must be an absolute URI as the accounts service will refuse anything else.
func NewAuth(clientID, clientSecret, responseType, redirectURI string, scopes []Scope, showDialog bool) (*Auth, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, &ParseError{Raw: redirectURI, Err: err}
	}
	if !u.IsAbs() {
		return nil, &FieldError{Field: "redirect_uri", Reason: "must be an absolute URI"}
	}

	return &Auth{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		ResponseType: responseType,
		RedirectURI:  u,
		State:        randomState(stateLength),
		Scopes:       scopes,
		ShowDialog:   showDialog,
	}, nil
}

// AuthorizeURL builds the URL the user needs to visit to grant (or deny) the
// requested scopes.  The redirect back to us carries the authorization code.
func (a *Auth) AuthorizeURL() (string, error) {
	if a.ClientID == "" {
		return "", &FieldError{Field: "client_id", Reason: "must not be empty"}
	}
	if a.ResponseType != ResponseTypeCode && a.ResponseType != ResponseTypeToken {
		return "", &FieldError{Field: "response_type", Reason: `must be "code" or "token"`}
	}
	if a.RedirectURI == nil || !a.RedirectURI.IsAbs() {
		return "", &FieldError{Field: "redirect_uri", Reason: "must be an absolute URI"}
	}

	u, err := url.Parse(AuthURL)
	if err != nil {
		return "", &ParseError{Raw: AuthURL, Err: err}
	}

	query := url.Values{}
	query.Set("client_id", a.ClientID)
	query.Set("response_type", a.ResponseType)
	query.Set("redirect_uri", a.RedirectURI.String())
	query.Set("state", a.State)
	query.Set("scope", JoinScopes(a.Scopes))
	query.Set("show_dialog", strconv.FormatBool(a.ShowDialog))
	u.RawQuery = query.Encode()

	return u.String(), nil
}

const stateAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomState returns a random alphanumeric string of the given length suitable for
// the CSRF state parameter
func randomState(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand reads cannot fail on supported platforms
		panic("spotify: reading random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = stateAlphabet[int(b)%len(stateAlphabet)]
	}
	return string(buf)
}
