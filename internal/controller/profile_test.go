package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invadmin/internal/api"
	"invadmin/internal/db"
	"invadmin/internal/session"
)

// fakeProfileBackend serves the self-profile endpoints. Flip
// unauthorized to start answering 401 on protected calls.
type fakeProfileBackend struct {
	unauthorized bool
	profile      api.Profile
}

func (b *fakeProfileBackend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/user/logout":
			w.WriteHeader(http.StatusOK)

		case b.unauthorized:
			w.WriteHeader(http.StatusUnauthorized)

		case r.Method == http.MethodGet && r.URL.Path == "/api/user/profile":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(b.profile)

		case r.Method == http.MethodPut && r.URL.Path == "/api/user/profile":
			var patch map[string]string
			_ = json.NewDecoder(r.Body).Decode(&patch)
			b.profile.Firstname = patch["firstname"]
			b.profile.Lastname = patch["lastname"]
			b.profile.Email = patch["email"]
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]string{"email": b.profile.Email},
			})

		case r.URL.Path == "/api/user/profile/image":
			if r.Method == http.MethodPost {
				b.profile.ProfileImage = "/uploads/self.png"
			} else {
				b.profile.ProfileImage = ""
			}
			w.WriteHeader(http.StatusOK)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newProfileEnv(t *testing.T, backend *fakeProfileBackend) (*Profile, *session.Store) {
	t.Helper()

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	gdb, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, gdb.Create(&db.Setting{
		Key:   "session",
		Value: `{"isLoggedIn":true,"name":"","email":"op@example.com"}`,
	}).Error)

	users := api.NewUserClient(api.NewClient(srv.URL))
	sessions := session.NewStore(gdb, users)
	return NewProfile(users, sessions), sessions
}

func TestProfile_LoadPopulatesData(t *testing.T) {
	t.Parallel()

	ctl, _ := newProfileEnv(t, &fakeProfileBackend{
		profile: api.Profile{ID: "1", Firstname: "Olga", Lastname: "Petrova", Email: "op@example.com"},
	})

	require.NoError(t, ctl.Load(context.Background()))

	st := ctl.State()
	assert.False(t, st.Loading)
	assert.Equal(t, "Olga", st.Data.Firstname)
}

func TestProfile_UnauthorizedLoadForcesLogout(t *testing.T) {
	t.Parallel()

	ctl, sessions := newProfileEnv(t, &fakeProfileBackend{unauthorized: true})
	require.True(t, sessions.Get().IsLoggedIn)

	err := ctl.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, sessions.Get().IsLoggedIn, "a 401 must drop the local session")
}

func TestProfile_SaveValidation(t *testing.T) {
	t.Parallel()

	ctl, _ := newProfileEnv(t, &fakeProfileBackend{})

	tests := []struct {
		name string
		form ProfileForm
	}{
		{name: "blank firstname", form: ProfileForm{Lastname: "P", Email: "a@b.c"}},
		{name: "blank lastname", form: ProfileForm{Firstname: "O", Email: "a@b.c"}},
		{name: "blank email", form: ProfileForm{Firstname: "O", Lastname: "P"}},
		{name: "whitespace only", form: ProfileForm{Firstname: " ", Lastname: "P", Email: "a@b.c"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := ctl.Save(context.Background(), tt.form)
			require.Error(t, err)
			assert.ErrorIs(t, err, api.ErrValidation)
		})
	}
}

func TestProfile_SavePropagatesEmailIntoSession(t *testing.T) {
	t.Parallel()

	ctl, sessions := newProfileEnv(t, &fakeProfileBackend{
		profile: api.Profile{ID: "1", Firstname: "Olga", Lastname: "Petrova", Email: "op@example.com"},
	})
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.Save(context.Background(), ProfileForm{
		Firstname: "Olga",
		Lastname:  "Petrova",
		Email:     "new@example.com",
	}))

	assert.Equal(t, "new@example.com", sessions.Get().Email)
	assert.Equal(t, "new@example.com", ctl.State().Data.Email)
	assert.False(t, ctl.State().Saving)
}

func TestProfile_ImageRoundTrip(t *testing.T) {
	t.Parallel()

	ctl, _ := newProfileEnv(t, &fakeProfileBackend{
		profile: api.Profile{ID: "1", Firstname: "Olga", Lastname: "Petrova", Email: "op@example.com"},
	})
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.UploadImage(context.Background(), "me.png", "image/png", strings.NewReader("png-bytes")))
	assert.Equal(t, "/uploads/self.png", ctl.State().Data.ProfileImage)

	require.NoError(t, ctl.RemoveImage(context.Background()))
	assert.Empty(t, ctl.State().Data.ProfileImage)
	assert.False(t, ctl.State().Uploading)
}

func TestProfile_UploadRejectsNonImageLocally(t *testing.T) {
	t.Parallel()

	ctl, _ := newProfileEnv(t, &fakeProfileBackend{})

	err := ctl.UploadImage(context.Background(), "notes.txt", "text/plain", strings.NewReader("hi"))
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrValidation)
}
