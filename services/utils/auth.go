package utils

import (
	"net/http"
	"strings"

	"github.com/lilfrag140-ops/arcane-arsenal-v3/services/api"
)

// AuthenticatedUser extracts the caller's user id from the bearer token.
// The shop's session layer sits in front of this service and swaps real
// sessions for an opaque per-user token, so the token value is the user id.
// A missing or malformed header gets an UNAUTHORIZED response and false.
func AuthenticatedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		WriteApiResponseError(w, api.ApiResStatusUnauthorized,
			"authentication required", "missing or malformed Authorization header")
		return "", false
	}
	return strings.TrimSpace(token), true
}
