package auth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	// DoctorIDKey carries the signed-in doctor's ID on the request context.
	DoctorIDKey contextKey = "doctor_id"
	// UsernameKey carries the signed-in doctor's username for page headers.
	UsernameKey contextKey = "doctor_username"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login/"

// RequireSession resolves the session cookie and puts the acting doctor on
// the request context. Requests without a live session are redirected to the
// login page with the original path preserved in ?next=.
func RequireSession(m *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil {
				return redirectToLogin(c)
			}

			s, err := m.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				return redirectToLogin(c)
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, DoctorIDKey, s.DoctorID)
			ctx = context.WithValue(ctx, UsernameKey, s.Username)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context) error {
	next := c.Request().URL.Path
	return c.Redirect(http.StatusFound, LoginPath+"?next="+url.QueryEscape(next))
}

// DoctorIDFromContext returns the acting doctor's ID, or 0 when the request
// is unauthenticated.
func DoctorIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(DoctorIDKey).(int64)
	return id
}

// UsernameFromContext returns the acting doctor's username, or "".
func UsernameFromContext(ctx context.Context) string {
	name, _ := ctx.Value(UsernameKey).(string)
	return name
}
