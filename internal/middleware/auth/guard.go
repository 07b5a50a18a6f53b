// Package auth gates protected routes. Every request runs the full
// sequence again: extract bearer token, verify it, re-resolve the user
// from the store, then check the CURRENT role. There is no cross-request
// cache, so deleting a user revokes their outstanding tokens within one
// round-trip.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hoangminh-dev/streetstore/internal/logging"
	"github.com/hoangminh-dev/streetstore/internal/metrics"
	"github.com/hoangminh-dev/streetstore/internal/models"
	"github.com/hoangminh-dev/streetstore/internal/repo"
	"github.com/hoangminh-dev/streetstore/internal/service/token"
)

const userContextKey = "auth.user"

type Guard struct {
	Users  *repo.UserRepo
	Tokens *token.Service
}

// CurrentUser returns the record the guard attached for this request.
func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userContextKey).(*models.User)
	return u, ok
}

// Authenticate resolves the caller or rejects the request. A missing
// token is 401, a bad token is 403 (the client holds something and
// should re-authenticate), a token for a user who no longer exists is
// 401 again.
func (g *Guard) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context())

		raw := bearerToken(c)
		if raw == "" {
			metrics.AuthRejections.WithLabelValues("missing_token").Inc()
			l.Warn("auth rejected", "reason", "missing_token")
			return echo.NewHTTPError(http.StatusUnauthorized, "access token required")
		}

		claims, err := g.Tokens.Verify(raw)
		if err != nil {
			metrics.AuthRejections.WithLabelValues("invalid_token").Inc()
			l.Warn("auth rejected", "reason", "invalid_token", "error", err.Error())
			return echo.NewHTTPError(http.StatusForbidden, "invalid or expired token")
		}

		user, err := g.Users.FindByID(c.Request().Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				metrics.AuthRejections.WithLabelValues("user_gone").Inc()
				l.Warn("auth rejected", "reason", "user_gone", "user_id", claims.UserID)
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "could not resolve user")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// Require rejects callers whose current role does not satisfy the
// route's requirement. It must run after Authenticate; the comparison
// uses the freshly resolved record, never the token's role claim.
func (g *Guard) Require(required models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !user.Role.Satisfies(required) {
				metrics.AuthRejections.WithLabelValues("insufficient_role").Inc()
				logging.FromContext(c.Request().Context()).Warn("auth rejected",
					"reason", "insufficient_role",
					"user_id", user.ID,
					"have", user.Role.String(),
					"required", required.String(),
				)
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
