package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"invadmin/internal/api"
	"invadmin/internal/controller"
	"invadmin/internal/logging"
)

type profilePageData struct {
	PageData
	State controller.ProfileState
}

func (s *server) renderProfile(c echo.Context, status int, errMsg string) error {
	return c.Render(status, "profile.html", &profilePageData{
		PageData: PageData{
			Title:  "User Profile Management",
			Email:  s.deps.Sessions.Get().Email,
			APIURL: s.deps.APIURL,
			Error:  errMsg,
		},
		State: s.deps.Profile.State(),
	})
}

// ProfilePage handles GET /profile. A 401 from the backend drops the
// session and lands on the login page.
func (s *server) ProfilePage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_page")

	if err := s.deps.Profile.Load(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		l.Error("profile_load_failed", "error", err)
		return s.renderProfile(c, http.StatusOK, "Error loading profile.")
	}

	return s.renderProfile(c, http.StatusOK, "")
}

// ProfileSave handles POST /profile.
func (s *server) ProfileSave(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_save")

	form := controller.ProfileForm{
		Firstname: c.FormValue("firstname"),
		Lastname:  c.FormValue("lastname"),
		Email:     c.FormValue("email"),
	}

	if err := s.deps.Profile.Save(ctx, form); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		l.Warn("profile_save_failed", "error", err)
		return s.renderProfile(c, http.StatusOK, err.Error())
	}

	l.Info("profile_saved")
	return c.Redirect(http.StatusSeeOther, "/profile")
}

// ProfileImageUpload handles POST /profile/image.
func (s *server) ProfileImageUpload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_image_upload")

	header, err := c.FormFile("file")
	if err != nil {
		return s.renderProfile(c, http.StatusOK, "Please select a file.")
	}

	src, err := header.Open()
	if err != nil {
		l.Error("profile_image_open_failed", "error", err)
		return s.renderProfile(c, http.StatusOK, "Error uploading image.")
	}
	defer src.Close()

	err = s.deps.Profile.UploadImage(ctx, header.Filename, header.Header.Get("Content-Type"), src)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		l.Warn("profile_image_upload_failed", "error", err)
		return s.renderProfile(c, http.StatusOK, err.Error())
	}

	l.Info("profile_image_uploaded")
	return c.Redirect(http.StatusSeeOther, "/profile")
}

// ProfileImageRemove handles POST /profile/image/delete.
func (s *server) ProfileImageRemove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile_image_remove")

	if err := s.deps.Profile.RemoveImage(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		l.Warn("profile_image_remove_failed", "error", err)
		return s.renderProfile(c, http.StatusOK, err.Error())
	}

	l.Info("profile_image_removed")
	return c.Redirect(http.StatusSeeOther, "/profile")
}
