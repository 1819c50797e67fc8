package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserClient_Create_RejectsBlankFieldsLocally(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	users := NewUserClient(client)

	tests := []struct {
		name  string
		draft UserDraft
	}{
		{name: "empty username", draft: UserDraft{Email: "a@b.c", Password: "pw"}},
		{name: "empty email", draft: UserDraft{Username: "a", Password: "pw"}},
		{name: "empty password", draft: UserDraft{Username: "a", Email: "a@b.c"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := users.Create(context.Background(), tt.draft)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.EqualValues(t, 0, calls.Load(), "validation failures must not reach the network")
}

func TestUserClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/user/login", r.URL.Path)
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			w.WriteHeader(http.StatusOK)
		})
		require.NoError(t, NewUserClient(client).Login(context.Background(), "a@b.c", "pw"))
	})

	t.Run("wrong credentials", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		err := NewUserClient(client).Login(context.Background(), "a@b.c", "bad")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestUserClient_CookieJarCarriesSession(t *testing.T) {
	t.Parallel()

	var profileCookie string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			w.WriteHeader(http.StatusOK)
		case "/api/user/profile":
			if c, err := r.Cookie("session"); err == nil {
				profileCookie = c.Value
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"_id":"1","email":"a@b.c"}`))
		}
	})
	users := NewUserClient(client)

	require.NoError(t, users.Login(context.Background(), "a@b.c", "pw"))
	_, err := users.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", profileCookie)
}

func TestUserClient_Profile_UnauthorizedSentinel(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := NewUserClient(client).Profile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserClient_UploadUserImage(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-image before any network call", func(t *testing.T) {
		t.Parallel()

		client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, err := NewUserClient(client).UploadUserImage(
			context.Background(), "1", "notes.txt", "text/plain", strings.NewReader("hi"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
		assert.EqualValues(t, 0, calls.Load())
	})

	t.Run("uploads multipart and returns image url", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/user/1/image", r.URL.Path)
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "me.png", header.Filename)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"imageUrl":"/uploads/me.png"}`))
		})

		url, err := NewUserClient(client).UploadUserImage(
			context.Background(), "1", "me.png", "image/png", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		assert.Equal(t, "/uploads/me.png", url)
	})

	t.Run("surfaces server message on failure", func(t *testing.T) {
		t.Parallel()

		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"file too large"}`))
		})

		_, err := NewUserClient(client).UploadUserImage(
			context.Background(), "1", "me.png", "image/png", strings.NewReader("png-bytes"))
		require.Error(t, err)
		assert.EqualError(t, err, "file too large")
	})
}

func TestUserClient_UpdateProfile_ReturnsSettledEmail(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"email":"new@b.c"}}`))
	})

	email := "new@b.c"
	got, err := NewUserClient(client).UpdateProfile(context.Background(), UserPatch{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@b.c", got)
}

func TestUserClient_List_NonArrayBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"not a list"}`))
	})

	_, err := NewUserClient(client).List(context.Background())
	require.Error(t, err)
}
