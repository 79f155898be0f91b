package spotify

import (
	"encoding/json"
	"strings"
	"time"
)

// Token is the credential pair returned by the token endpoint
type Token struct {
	// AccessToken is sent as a bearer credential on Web API calls
	AccessToken string `json:"access_token"`
	// TokenType describes how the access token may be used.  Always "Bearer" today.
	TokenType string `json:"token_type"`
	// Scope lists the scopes the user actually granted
	Scope ScopeList `json:"scope"`
	// ExpiresIn is the validity period in seconds as reported by the provider
	ExpiresIn int `json:"expires_in"`
	// RefreshToken can be redeemed for a fresh access token.  May be empty.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is derived at exchange time as now + ExpiresIn.  It is not part of
	// the wire format.
	ExpiresAt time.Time `json:"-"`
}

// IsExpired reports whether the access token has passed its expiry time
func (t *Token) IsExpired() bool {
	return !time.Now().Before(t.ExpiresAt)
}

// ScopeList is a list of scopes that marshals to and from the space-separated
// string form the token endpoint uses
type ScopeList []Scope

func (l ScopeList) String() string {
	return JoinScopes(l)
}

// UnmarshalJSON splits the provider's space-separated scope string.  Values are not
// checked against AllScopes here: the provider is authoritative for what it granted,
// and rejecting a scope added to the API after this code shipped would be wrong.
func (l *ScopeList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := strings.Fields(raw)
	scopes := make(ScopeList, 0, len(fields))
	for _, f := range fields {
		scopes = append(scopes, Scope(f))
	}
	*l = scopes
	return nil
}

func (l ScopeList) MarshalJSON() ([]byte, error) {
	return json.Marshal(JoinScopes(l))
}
