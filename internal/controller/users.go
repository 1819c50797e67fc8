package controller

import (
	"context"
	"io"
	"sync"

	"invadmin/internal/api"
)

// UserEditForm is the editable slice of a user shown in the modal.
type UserEditForm struct {
	Firstname string
	Lastname  string
	Email     string
}

// UserListState is a consistent snapshot of the user management view.
type UserListState struct {
	Users     []api.User
	NewUser   api.UserDraft
	Editing   *api.User
	Uploading bool
}

// UserList is the user management view: a flat list, a create form and
// a modal editor. Saves and image changes patch the cached list in
// place instead of refetching.
type UserList struct {
	mu     sync.Mutex
	client *api.UserClient

	users     []api.User
	newUser   api.UserDraft
	editing   *api.User
	uploading bool
}

func NewUserList(client *api.UserClient) *UserList {
	return &UserList{client: client}
}

func (l *UserList) State() UserListState {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := UserListState{
		Users:     l.users,
		NewUser:   l.newUser,
		Uploading: l.uploading,
	}
	if l.editing != nil {
		cp := *l.editing
		st.Editing = &cp
	}
	return st
}

// Refresh reloads the full user list. On failure the cached list stays.
func (l *UserList) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.client.List(ctx)
	if err != nil {
		return err
	}
	l.users = users
	return nil
}

// Create posts a new account and refetches the list. On failure the
// submitted draft is kept so the form re-renders for correction; on
// success it resets to empty.
func (l *UserList) Create(ctx context.Context, draft api.UserDraft) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.client.Create(ctx, draft); err != nil {
		l.newUser = draft
		return err
	}

	l.newUser = api.UserDraft{}
	users, err := l.client.List(ctx)
	if err != nil {
		return err
	}
	l.users = users
	return nil
}

// Delete removes an account and patches the cached list locally instead
// of refetching. The caller has already confirmed.
func (l *UserList) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.client.Delete(ctx, id); err != nil {
		return err
	}

	kept := l.users[:0]
	for _, u := range l.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	l.users = kept
	return nil
}

// BeginEdit opens the modal on a user, seeding the draft from the
// cached entity. An already open draft is replaced without warning.
func (l *UserList) BeginEdit(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.users {
		if l.users[i].ID == id {
			cp := l.users[i]
			l.editing = &cp
			return
		}
	}
}

// CloseEdit discards the modal draft.
func (l *UserList) CloseEdit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.editing = nil
}

// Save patches the open user and syncs the cached list entry locally;
// no refetch. The modal closes on success.
func (l *UserList) Save(ctx context.Context, form UserEditForm) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.editing == nil {
		return nil
	}

	l.editing.Firstname = form.Firstname
	l.editing.Lastname = form.Lastname
	l.editing.Email = form.Email

	patch := api.UserPatch{
		Firstname: &form.Firstname,
		Lastname:  &form.Lastname,
		Email:     &form.Email,
	}
	if err := l.client.Update(ctx, l.editing.ID, patch); err != nil {
		return err
	}

	l.syncUserLocked(l.editing.ID, func(u *api.User) {
		u.Firstname = form.Firstname
		u.Lastname = form.Lastname
		u.Email = form.Email
	})
	l.editing = nil
	return nil
}

// UploadImage attaches an image to the open user and patches both the
// cached list entry and the open draft with the returned URL.
func (l *UserList) UploadImage(ctx context.Context, filename, mimeType string, file io.Reader) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.editing == nil {
		return nil
	}

	l.uploading = true
	defer func() { l.uploading = false }()

	imageURL, err := l.client.UploadUserImage(ctx, l.editing.ID, filename, mimeType, file)
	if err != nil {
		return err
	}

	l.editing.ProfileImage = imageURL
	l.syncUserLocked(l.editing.ID, func(u *api.User) { u.ProfileImage = imageURL })
	return nil
}

// RemoveImage mirrors UploadImage without the file.
func (l *UserList) RemoveImage(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.editing == nil {
		return nil
	}

	l.uploading = true
	defer func() { l.uploading = false }()

	if err := l.client.RemoveUserImage(ctx, l.editing.ID); err != nil {
		return err
	}

	l.editing.ProfileImage = ""
	l.syncUserLocked(l.editing.ID, func(u *api.User) { u.ProfileImage = "" })
	return nil
}

func (l *UserList) syncUserLocked(id string, apply func(*api.User)) {
	for i := range l.users {
		if l.users[i].ID == id {
			apply(&l.users[i])
			return
		}
	}
}
