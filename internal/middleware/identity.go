package middleware

// identity.go defines helper functions shared across middleware files. It
// provides the user identifier extraction the rate limiter keys on: the
// user_id value stored by JWTAuth, falling back to the raw JWT claims when
// a different auth middleware populated the context. Anonymous requests
// key as "anon" so unauthenticated traffic shares one bucket per IP.

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// currentUserID extracts a user identifier from the request context for
// rate-limit bucketing. It returns "anon" when no user is authenticated.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64, int, int64, uint64:
			return fmt.Sprint(t)
		}
	}
	if u := c.Get("user"); u != nil {
		if tok, ok := u.(*jwt.Token); ok {
			if cl, ok := tok.Claims.(jwt.MapClaims); ok {
				if v, ok := cl["sub"]; ok {
					return fmt.Sprint(v)
				}
			}
		}
	}
	return "anon"
}
