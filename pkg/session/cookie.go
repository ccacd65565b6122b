package session

import "strings"

// CookiePrefix is the fixed leading segment of every session cookie name.
// The callback page writes cookies under this prefix and the gateway reads
// them back, so both sides must agree on it.
const CookiePrefix = "CognitoIdentityServiceProvider"

// IDTokenCookie returns the name of the cookie carrying the identity token
// for an app client.
func IDTokenCookie(clientID string) string {
	return CookiePrefix + "." + clientID + ".idToken"
}

// AccessTokenCookie returns the name of the cookie carrying the access
// token for an app client. The gateway itself only consumes the identity
// token; the access token is stored for the application behind it.
func AccessTokenCookie(clientID string) string {
	return CookiePrefix + "." + clientID + ".accessToken"
}

// TokenFromCookies scans raw Cookie header values for the named cookie.
// Viewers may send several Cookie headers and a name may repeat; the first
// occurrence in header order wins. Malformed pairs are skipped.
func TokenFromCookies(headerValues []string, name string) (string, bool) {
	for _, header := range headerValues {
		for _, pair := range strings.Split(header, ";") {
			k, v, found := strings.Cut(strings.TrimSpace(pair), "=")
			if !found {
				continue
			}
			if k == name {
				return v, true
			}
		}
	}
	return "", false
}
