package middleware

import (
	"net/http"
	"strings"

	"secondhand-market/internal/auth"
	"secondhand-market/internal/model"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

const (
	MsgInvalidToken = "Auth-z failed. Invalid Token"
	MsgWrongRole    = "Unauthorized action attempted"
)

// Authenticate verifies the bearer token and stores the identity on the
// context. Tokens come in the authtoken header or as Authorization: Bearer.
// Every failure is a 403; there is no 401 distinction.
func Authenticate(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := tokens.Verify(tokenFromRequest(c.Request()))
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, MsgInvalidToken).SetInternal(err)
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// RequireRole lets the request through only when the authenticated identity
// carries exactly this role. Must run after Authenticate.
func RequireRole(role model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity == nil || !identity.Roles.Has(role) {
				return echo.NewHTTPError(http.StatusForbidden, MsgWrongRole)
			}
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) *auth.Identity {
	identity, _ := c.Get(identityKey).(*auth.Identity)
	return identity
}

func tokenFromRequest(r *http.Request) string {
	if tok := r.Header.Get("authtoken"); tok != "" {
		return tok
	}

	h := r.Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}

	return ""
}
