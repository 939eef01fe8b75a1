package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaqueToken means the token is not a JWT and cannot be introspected.
var ErrOpaqueToken = errors.New("opaque token")

// Claims is what can be read from a JWT without its signing key.
type Claims struct {
	Subject   string
	ExpiresAt *time.Time
	Raw       jwt.MapClaims
}

// Expired reports whether the exp claim is in the past at now.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Inspect decodes a JWT payload locally. The signature is not verified: the
// backend does that, this is only for display.
func Inspect(token string) (*Claims, error) {
	token = stripBearer(token)
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrOpaqueToken
		}
		return nil, fmt.Errorf("inspect token: %w", err)
	}

	out := &Claims{Raw: claims}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		out.ExpiresAt = &t
	}
	return out, nil
}
