package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"invadmin/internal/api"
	"invadmin/internal/session"
)

// ProfileForm is the editable slice of the operator's own profile.
type ProfileForm struct {
	Firstname string
	Lastname  string
	Email     string
}

// ProfileState is a consistent snapshot of the profile view.
type ProfileState struct {
	Data      api.Profile
	Loading   bool
	Saving    bool
	Uploading bool
}

// Profile is the self-profile view. Field saves and image changes track
// separate busy flags; a 401 from any call drops the session.
type Profile struct {
	mu       sync.Mutex
	client   *api.UserClient
	sessions *session.Store

	data      api.Profile
	loading   bool
	saving    bool
	uploading bool
}

func NewProfile(client *api.UserClient, sessions *session.Store) *Profile {
	return &Profile{client: client, sessions: sessions, loading: true}
}

func (p *Profile) State() ProfileState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ProfileState{
		Data:      p.data,
		Loading:   p.loading,
		Saving:    p.saving,
		Uploading: p.uploading,
	}
}

// Load fetches the profile. A 401 forces logout and surfaces
// api.ErrUnauthorized so the caller can redirect.
func (p *Profile) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(ctx)
}

func (p *Profile) loadLocked(ctx context.Context) error {
	data, err := p.client.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			p.sessions.Logout(ctx)
		}
		return err
	}
	p.data = data
	p.loading = false
	return nil
}

// Save persists the profile fields, propagates the settled email into
// the session and reloads. Blank fields are rejected locally.
func (p *Profile) Save(ctx context.Context, form ProfileForm) error {
	if strings.TrimSpace(form.Firstname) == "" ||
		strings.TrimSpace(form.Lastname) == "" ||
		strings.TrimSpace(form.Email) == "" {
		return fmt.Errorf("%w: first name, last name and email required", api.ErrValidation)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.saving = true
	defer func() { p.saving = false }()

	patch := api.UserPatch{
		Firstname: &form.Firstname,
		Lastname:  &form.Lastname,
		Email:     &form.Email,
	}
	email, err := p.client.UpdateProfile(ctx, patch)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			p.sessions.Logout(ctx)
		}
		return err
	}
	if email == "" {
		email = form.Email
	}
	p.sessions.UpdateEmail(ctx, email)

	return p.loadLocked(ctx)
}

// UploadImage replaces the profile image and reloads the full profile.
func (p *Profile) UploadImage(ctx context.Context, filename, mimeType string, file io.Reader) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.uploading = true
	defer func() { p.uploading = false }()

	if err := p.client.UploadProfileImage(ctx, filename, mimeType, file); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			p.sessions.Logout(ctx)
		}
		return err
	}
	return p.loadLocked(ctx)
}

// RemoveImage deletes the profile image and reloads the full profile.
func (p *Profile) RemoveImage(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.uploading = true
	defer func() { p.uploading = false }()

	if err := p.client.RemoveProfileImage(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			p.sessions.Logout(ctx)
		}
		return err
	}
	return p.loadLocked(ctx)
}
