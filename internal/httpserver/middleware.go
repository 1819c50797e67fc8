package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"invadmin/internal/session"
)

// RequireLogin is the auth gate: a stateless guard consulting the
// session store on every navigation. Logged-out requests are sent to
// the login page instead of the protected view.
func RequireLogin(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !sessions.Get().IsLoggedIn {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}
