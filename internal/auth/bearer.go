package auth

import (
	"net/http"
	"strings"
)

const (
	bearerScheme      = "Bearer"
	AccessTokenCookie = "access_token"
)

// BearerHeader formats a token for the Authorization header.
func BearerHeader(token string) string {
	return bearerScheme + " " + token
}

// ParseBearer returns the token of an "Authorization: Bearer <token>" value.
// The scheme is matched case-insensitively.
func ParseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ExtractAccessToken reads the caller's token, preferring the access_token
// cookie over the Authorization header.
func ExtractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token, _ := ParseBearer(r.Header.Get("Authorization"))
	return token
}
