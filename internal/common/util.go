package common

import "strings"

// WipeByteArray overwrites the contents of b with zeros. It is used to drop
// plaintext passwords read from a terminal as soon as they were sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerToken extracts the token from an "authorization" value of the form
// "Bearer <token>". The scheme is matched case-insensitively. It returns an
// empty string when the value does not carry a bearer token.
func BearerToken(value string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
