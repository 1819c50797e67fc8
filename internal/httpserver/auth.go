package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"invadmin/internal/controller"
	"invadmin/internal/logging"
)

type loginPageData struct {
	PageData
	State controller.LoginState
}

// LoginPage handles GET /login. An already logged-in operator goes
// straight to the profile.
func (s *server) LoginPage(c echo.Context) error {
	if s.deps.Sessions.Get().IsLoggedIn {
		return c.Redirect(http.StatusSeeOther, "/profile")
	}

	return c.Render(http.StatusOK, "login.html", &loginPageData{
		PageData: PageData{Title: "Login", APIURL: s.deps.APIURL},
		State:    s.deps.Login.State(),
	})
}

// LoginSubmit handles POST /login.
func (s *server) LoginSubmit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login_submit")

	email := c.FormValue("email")
	password := c.FormValue("password")

	if s.deps.Login.Submit(ctx, email, password) {
		l.Info("login_successful", "email", email)
		return c.Redirect(http.StatusSeeOther, "/profile")
	}

	l.Warn("login_failed", "email", email)
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout handles POST /logout. The session clears locally even when the
// backend call fails.
func (s *server) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	s.deps.Sessions.Logout(ctx)
	logging.FromContext(ctx).Info("logout")
	return c.Redirect(http.StatusSeeOther, "/login")
}
