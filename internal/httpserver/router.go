package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"invadmin/internal/api"
	"invadmin/internal/controller"
	"invadmin/internal/session"
)

// Deps wires the console's views into the router.
type Deps struct {
	Sessions *session.Store
	Items    *controller.ItemList
	Users    *controller.UserList
	Profile  *controller.Profile
	Login    *controller.Login
	ItemAPI  *api.ItemClient
	APIURL   string
}

type server struct {
	deps *Deps
}

// Register mounts all console routes. /profile, /logout and /users sit
// behind the auth gate; /items and /login are public, and everything
// unknown lands on /login.
func Register(e *echo.Echo, d *Deps) error {
	renderer, err := NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer

	for _, m := range commonMiddleware() {
		e.Use(m)
	}

	s := &server{deps: d}
	gate := RequireLogin(d.Sessions)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/login")
	})

	e.GET("/login", s.LoginPage)
	e.POST("/login", s.LoginSubmit)
	e.POST("/logout", s.Logout, gate)

	e.GET("/items", s.ItemsPage)
	e.POST("/items", s.ItemCreate)
	e.POST("/items/:id/edit", s.ItemSaveEdit)
	e.POST("/items/:id/delete", s.ItemDelete)
	e.GET("/items/:id", s.ItemDetailPage)
	e.POST("/items/:id", s.ItemDetailUpdate)

	e.GET("/users", s.UsersPage, gate)
	e.POST("/users", s.UserCreate, gate)
	e.POST("/users/:id/save", s.UserSave, gate)
	e.POST("/users/:id/delete", s.UserDelete, gate)
	e.POST("/users/:id/image", s.UserImageUpload, gate)
	e.POST("/users/:id/image/delete", s.UserImageRemove, gate)

	e.GET("/profile", s.ProfilePage, gate)
	e.POST("/profile", s.ProfileSave, gate)
	e.POST("/profile/image", s.ProfileImageUpload, gate)
	e.POST("/profile/image/delete", s.ProfileImageRemove, gate)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/login")
	})

	return nil
}

func commonMiddleware() []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		ecM.Logger(),
		ecM.Secure(),
	}
}
