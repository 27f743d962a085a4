package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpired reports whether token is a JWT whose exp claim lies before
// now. The client holds no signing secret, so the claims are read without
// signature verification; this is only a boot fast-path to skip a doomed
// profile fetch. Tokens that do not parse as JWTs are treated as opaque
// and assumed live, and the server stays the authority either way.
func TokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
