package common

import "strings"

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// creatorIDPrefix is stripped from identity-provider user ids before they
// are used as creator ids.
const creatorIDPrefix = "auth0|"

// CreatorID normalizes a user id into the creator id stored on decks and
// threads.
func CreatorID(userID string) string {
	return strings.TrimPrefix(userID, creatorIDPrefix)
}
