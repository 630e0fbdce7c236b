package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether the access token is expired at the given
// instant. It is a pure function of the token string and now, and it fails
// closed: a token with fewer than three dot-separated segments, one that
// does not decode, or one without an expiry claim is treated as expired.
//
// The signature is deliberately not verified here. The backend is the only
// party that can check it; the client only needs the exp claim to avoid
// sending requests that are guaranteed to bounce.
func TokenExpired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Time.Before(now)
}
