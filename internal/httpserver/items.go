package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"invadmin/internal/api"
	"invadmin/internal/controller"
	"invadmin/internal/logging"
)

type itemsPageData struct {
	PageData
	State       controller.ItemListState
	PrevPageNum int
	NextPageNum int
}

type itemDetailPageData struct {
	PageData
	Item api.Item
}

func (s *server) renderItems(c echo.Context, status int, errMsg string) error {
	state := s.deps.Items.State()
	return c.Render(status, "items.html", &itemsPageData{
		PageData: PageData{
			Title:  "Item Management",
			Email:  s.deps.Sessions.Get().Email,
			APIURL: s.deps.APIURL,
			Error:  errMsg,
		},
		State:       state,
		PrevPageNum: state.Page - 1,
		NextPageNum: state.Page + 1,
	})
}

// ItemsPage handles GET /items. ?page= jumps pages, ?edit= puts a row
// into edit mode; plain navigation leaves edit mode.
func (s *server) ItemsPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "items_page")

	page := s.deps.Items.State().Page
	if raw := c.QueryParam("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}
	if err := s.deps.Items.SetPage(ctx, page); err != nil {
		l.Error("items_load_failed", "error", err)
		return s.renderItems(c, http.StatusOK, "Error loading items")
	}

	if edit := c.QueryParam("edit"); edit != "" {
		s.deps.Items.BeginEdit(edit)
	} else {
		s.deps.Items.CancelEdit()
	}

	return s.renderItems(c, http.StatusOK, "")
}

// ItemCreate handles POST /items.
func (s *server) ItemCreate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item_create")

	draft := api.ItemDraft{
		Name:     c.FormValue("name"),
		Category: c.FormValue("category"),
		Price:    c.FormValue("price"),
	}

	if err := s.deps.Items.Add(ctx, draft); err != nil {
		l.Warn("item_create_failed", "error", err)
		return s.renderItems(c, http.StatusOK, err.Error())
	}

	l.Info("item_created", "name", draft.Name)
	return c.Redirect(http.StatusSeeOther, "/items")
}

// ItemSaveEdit handles POST /items/:id/edit, the inline row save.
func (s *server) ItemSaveEdit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item_save_edit")

	form := controller.ItemEditForm{
		Name:     c.FormValue("name"),
		Category: c.FormValue("category"),
		Price:    c.FormValue("price"),
		Status:   c.FormValue("status"),
	}

	if err := s.deps.Items.SaveEdit(ctx, form); err != nil {
		l.Warn("item_update_failed", "id", c.Param("id"), "error", err)
		return s.renderItems(c, http.StatusOK, err.Error())
	}

	l.Info("item_updated", "id", c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/items")
}

// ItemDelete handles POST /items/:id/delete. The confirmation happened
// in the page; the list is refetched either way.
func (s *server) ItemDelete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item_delete")

	if err := s.deps.Items.Delete(ctx, c.Param("id")); err != nil {
		l.Warn("item_delete_failed", "id", c.Param("id"), "error", err)
		return s.renderItems(c, http.StatusOK, err.Error())
	}

	l.Info("item_deleted", "id", c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/items")
}

// ItemDetailPage handles GET /items/:id, the standalone edit form.
func (s *server) ItemDetailPage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item_detail_page")

	item, err := s.deps.ItemAPI.Get(ctx, c.Param("id"))
	if err != nil {
		l.Error("item_load_failed", "id", c.Param("id"), "error", err)
		return c.Redirect(http.StatusSeeOther, "/items")
	}

	return c.Render(http.StatusOK, "item_detail.html", &itemDetailPageData{
		PageData: PageData{
			Title:  item.Name,
			Email:  s.deps.Sessions.Get().Email,
			APIURL: s.deps.APIURL,
		},
		Item: item,
	})
}

// ItemDetailUpdate handles POST /items/:id. A successful save navigates
// back to the list.
func (s *server) ItemDetailUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "item_detail_update")

	name := c.FormValue("name")
	category := c.FormValue("category")
	price := c.FormValue("price")
	patch := api.ItemPatch{Name: &name, Category: &category, Price: &price}

	if err := s.deps.ItemAPI.Update(ctx, c.Param("id"), patch); err != nil {
		l.Warn("item_update_failed", "id", c.Param("id"), "error", err)
		return c.Redirect(http.StatusSeeOther, "/items/"+c.Param("id"))
	}

	l.Info("item_updated", "id", c.Param("id"))
	return c.Redirect(http.StatusSeeOther, "/items")
}
