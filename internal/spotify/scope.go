package spotify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Scope is a single permission the application asks the user to grant.
// The accounts service only recognises the values enumerated below, so
// scopes should always come from these constants rather than free-form strings.
type Scope string

const (
	ScopeUserReadRecentlyPlayed Scope = "user-read-recently-played"
	ScopeUserTopRead            Scope = "user-top-read"

	ScopeUserLibraryModify Scope = "user-library-modify"
	ScopeUserLibraryRead   Scope = "user-library-read"

	ScopePlaylistReadPrivate       Scope = "playlist-read-private"
	ScopePlaylistModifyPublic      Scope = "playlist-modify-public"
	ScopePlaylistModifyPrivate     Scope = "playlist-modify-private"
	ScopePlaylistReadCollaborative Scope = "playlist-read-collaborative"

	ScopeUserReadEmail     Scope = "user-read-email"
	ScopeUserReadBirthDate Scope = "user-read-birthdate"
	ScopeUserReadPrivate   Scope = "user-read-private"

	ScopeUserReadPlaybackState    Scope = "user-read-playback-state"
	ScopeUserModifyPlaybackState  Scope = "user-modify-playback-state"
	ScopeUserReadCurrentlyPlaying Scope = "user-read-currently-playing"

	ScopeAppRemoteControl Scope = "app-remote-control"
	ScopeStreaming        Scope = "streaming"

	ScopeUserFollowRead   Scope = "user-follow-read"
	ScopeUserFollowModify Scope = "user-follow-modify"
)

// AllScopes lists every scope the accounts service recognises
var AllScopes = []Scope{
	ScopeUserReadRecentlyPlayed,
	ScopeUserTopRead,
	ScopeUserLibraryModify,
	ScopeUserLibraryRead,
	ScopePlaylistReadPrivate,
	ScopePlaylistModifyPublic,
	ScopePlaylistModifyPrivate,
	ScopePlaylistReadCollaborative,
	ScopeUserReadEmail,
	ScopeUserReadBirthDate,
	ScopeUserReadPrivate,
	ScopeUserReadPlaybackState,
	ScopeUserModifyPlaybackState,
	ScopeUserReadCurrentlyPlaying,
	ScopeAppRemoteControl,
	ScopeStreaming,
	ScopeUserFollowRead,
	ScopeUserFollowModify,
}

// JoinScopes renders a list of scopes as the space-separated string the authorize
// endpoint expects.  Order is preserved and duplicates are not removed.
func JoinScopes(scopes []Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// ParseScope converts a raw string into a Scope, rejecting anything the accounts
// service does not recognise.  On a near miss the error suggests the closest known
// scope so config typos are easy to fix.
func ParseScope(raw string) (Scope, error) {
	for _, s := range AllScopes {
		if string(s) == raw {
			return s, nil
		}
	}

	known := make([]string, len(AllScopes))
	for i, s := range AllScopes {
		known[i] = string(s)
	}
	ranks := fuzzy.RankFindNormalizedFold(raw, known)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return "", fmt.Errorf("unknown scope %q, did you mean %q?", raw, ranks[0].Target)
	}
	return "", fmt.Errorf("unknown scope %q", raw)
}
