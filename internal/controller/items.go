// Package controller holds the per-view state machines of the console.
// Each view owns a page of entities, busy flags and at most one edit
// target; handlers drive the transitions and render from snapshots.
// Actions within one view are serialized behind its mutex; nothing
// orders independently triggered actions against each other.
package controller

import (
	"context"
	"sync"

	"invadmin/internal/api"
)

// ItemEditForm is the draft of the row currently in edit mode.
type ItemEditForm struct {
	Name     string
	Category string
	Price    string
	Status   string
}

// ItemListState is a consistent snapshot of the item list view.
type ItemListState struct {
	Items      []api.Item
	Page       int
	TotalPages int
	Loading    bool
	EditTarget string
	Draft      ItemEditForm
	CanPrev    bool
	CanNext    bool
}

// ItemList is the item management view: one page of items with inline
// row editing and pagination.
type ItemList struct {
	mu       sync.Mutex
	client   *api.ItemClient
	pageSize int

	items      []api.Item
	page       int
	totalPages int
	loading    bool
	editTarget string
	draft      ItemEditForm
}

func NewItemList(client *api.ItemClient, pageSize int) *ItemList {
	return &ItemList{
		client:     client,
		pageSize:   pageSize,
		page:       1,
		totalPages: 1,
	}
}

func (l *ItemList) State() ItemListState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return ItemListState{
		Items:      l.items,
		Page:       l.page,
		TotalPages: l.totalPages,
		Loading:    l.loading,
		EditTarget: l.editTarget,
		Draft:      l.draft,
		CanPrev:    l.page > 1,
		CanNext:    l.page < l.totalPages,
	}
}

// Refresh reloads the current page from the backend. On failure the
// previously loaded page stays on screen.
func (l *ItemList) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refreshLocked(ctx)
}

func (l *ItemList) refreshLocked(ctx context.Context) error {
	l.loading = true
	defer func() { l.loading = false }()

	page, err := l.client.List(ctx, l.page, l.pageSize)
	if err != nil {
		return err
	}
	l.items = page.Items
	l.totalPages = page.TotalPages
	return nil
}

// SetPage jumps to a page and refetches. Pages below 1 clamp to 1.
func (l *ItemList) SetPage(ctx context.Context, page int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if page < 1 {
		page = 1
	}
	l.page = page
	return l.refreshLocked(ctx)
}

func (l *ItemList) PrevPage(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.page <= 1 {
		return nil
	}
	l.page--
	return l.refreshLocked(ctx)
}

func (l *ItemList) NextPage(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.page >= l.totalPages {
		return nil
	}
	l.page++
	return l.refreshLocked(ctx)
}

// Add creates a new item and refetches the current page. Validation
// failures come back before any network call.
func (l *ItemList) Add(ctx context.Context, draft api.ItemDraft) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.client.Create(ctx, draft); err != nil {
		return err
	}
	return l.refreshLocked(ctx)
}

// Delete removes an item and refetches, so the rendered list never
// relies on the stale cached page. The caller has already confirmed.
func (l *ItemList) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.client.Delete(ctx, id)
	if refreshErr := l.refreshLocked(ctx); err == nil {
		err = refreshErr
	}
	return err
}

// BeginEdit puts a row into edit mode, seeding the draft from the
// cached entity. Entering edit on a new row while another is active
// replaces the previous draft without warning.
func (l *ItemList) BeginEdit(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range l.items {
		if item.ID == id {
			l.editTarget = id
			l.draft = ItemEditForm{
				Name:     item.Name,
				Category: item.Category,
				Price:    item.Price,
				Status:   item.Status,
			}
			return
		}
	}
}

// CancelEdit discards the draft and leaves edit mode.
func (l *ItemList) CancelEdit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.editTarget = ""
	l.draft = ItemEditForm{}
}

// SaveEdit patches the edited row, leaves edit mode and refetches.
func (l *ItemList) SaveEdit(ctx context.Context, form ItemEditForm) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.editTarget == "" {
		return nil
	}

	patch := api.ItemPatch{
		Name:     &form.Name,
		Category: &form.Category,
		Price:    &form.Price,
		Status:   &form.Status,
	}
	if err := l.client.Update(ctx, l.editTarget, patch); err != nil {
		l.draft = form
		return err
	}

	l.editTarget = ""
	l.draft = ItemEditForm{}
	return l.refreshLocked(ctx)
}
