package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"farmwork/entities"
)

// PrincipalKey is the echo.Context key holding the caller's *Principal.
const PrincipalKey = "principal"

// Principal is the authenticated caller.
type Principal struct {
	Subject string        `json:"sub"`
	Role    entities.Role `json:"role"`
}

// Claims is the JWT payload the service accepts.
type Claims struct {
	Role entities.Role `json:"role"`
	jwt.RegisteredClaims
}

// PrincipalFrom returns the principal set by JWT or DevLogin, if any.
func PrincipalFrom(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(PrincipalKey).(*Principal)
	return p, ok && p != nil
}

// JWT authenticates requests with an HS256 bearer token (Authorization header,
// or the "jwt" cookie as a fallback) signed with secret.
func JWT(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearer(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing bearer token")
			}

			claims := &Claims{}
			_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Token has no subject")
			}

			c.Set(PrincipalKey, &Principal{Subject: claims.Subject, Role: claims.Role})
			return next(c)
		}
	}
}

func bearer(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if ck, err := c.Cookie("jwt"); err == nil {
		return ck.Value
	}
	return ""
}

// RequireRole lets the request through only when the principal holds one of roles.
func RequireRole(roles ...entities.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not logged in")
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions to access this resource")
		}
	}
}

// IssueToken signs a token for subject/role valid for ttl.
func IssueToken(secret []byte, subject string, role entities.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
