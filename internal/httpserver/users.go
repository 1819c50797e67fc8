package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"invadmin/internal/api"
	"invadmin/internal/controller"
	"invadmin/internal/logging"
)

type usersPageData struct {
	PageData
	State controller.UserListState
}

func (s *server) renderUsers(c echo.Context, status int, errMsg string) error {
	return c.Render(status, "users.html", &usersPageData{
		PageData: PageData{
			Title:  "User Management",
			Email:  s.deps.Sessions.Get().Email,
			APIURL: s.deps.APIURL,
			Error:  errMsg,
		},
		State: s.deps.Users.State(),
	})
}

// UsersPage handles GET /users. ?edit= opens the modal on a user; plain
// navigation closes it.
func (s *server) UsersPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_page")

	if err := s.deps.Users.Refresh(ctx); err != nil {
		l.Error("users_load_failed", "error", err)
		return s.renderUsers(c, http.StatusOK, "Error fetching users")
	}

	if edit := c.QueryParam("edit"); edit != "" {
		s.deps.Users.BeginEdit(edit)
	} else {
		s.deps.Users.CloseEdit()
	}

	return s.renderUsers(c, http.StatusOK, "")
}

// UserCreate handles POST /users.
func (s *server) UserCreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_create")

	draft := api.UserDraft{
		Username:  c.FormValue("username"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		Firstname: c.FormValue("firstname"),
		Lastname:  c.FormValue("lastname"),
	}

	if err := s.deps.Users.Create(ctx, draft); err != nil {
		l.Warn("user_create_failed", "error", err)
		return s.renderUsers(c, http.StatusOK, "Create failed: "+err.Error())
	}

	l.Info("user_created", "username", draft.Username)
	return c.Redirect(http.StatusSeeOther, "/users")
}

// UserSave handles POST /users/:id/save, the modal save. The list entry
// is patched locally, no refetch.
func (s *server) UserSave(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_save")

	form := controller.UserEditForm{
		Firstname: c.FormValue("firstname"),
		Lastname:  c.FormValue("lastname"),
		Email:     c.FormValue("email"),
	}

	if err := s.deps.Users.Save(ctx, form); err != nil {
		l.Warn("user_update_failed", "id", c.Param("id"), "error", err)
		return s.renderUsers(c, http.StatusOK, "Failed to update. "+err.Error())
	}

	l.Info("user_updated", "id", c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/users")
}

// UserDelete handles POST /users/:id/delete. The list is patched
// locally; the confirmation happened in the page.
func (s *server) UserDelete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_delete")

	if err := s.deps.Users.Delete(ctx, c.Param("id")); err != nil {
		l.Warn("user_delete_failed", "id", c.Param("id"), "error", err)
		return s.renderUsers(c, http.StatusOK, "Failed to delete user")
	}

	l.Info("user_deleted", "id", c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/users")
}

// UserImageUpload handles POST /users/:id/image.
func (s *server) UserImageUpload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_image_upload")

	header, err := c.FormFile("file")
	if err != nil {
		return s.renderUsers(c, http.StatusOK, "Please choose an image file.")
	}

	src, err := header.Open()
	if err != nil {
		l.Error("user_image_open_failed", "error", err)
		return s.renderUsers(c, http.StatusOK, "Failed to upload image.")
	}
	defer src.Close()

	err = s.deps.Users.UploadImage(ctx, header.Filename, header.Header.Get("Content-Type"), src)
	if err != nil {
		l.Warn("user_image_upload_failed", "id", c.Param("id"), "error", err)
		return s.renderUsers(c, http.StatusOK, err.Error())
	}

	l.Info("user_image_uploaded", "id", c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/users?edit="+c.Param("id"))
}

// UserImageRemove handles POST /users/:id/image/delete.
func (s *server) UserImageRemove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_image_remove")

	if err := s.deps.Users.RemoveImage(ctx); err != nil {
		l.Warn("user_image_remove_failed", "id", c.Param("id"), "error", err)
		return s.renderUsers(c, http.StatusOK, err.Error())
	}

	l.Info("user_image_removed", "id", c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/users?edit="+c.Param("id"))
}
