package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// User is the backend's user entity. Password is write-only and only
// accepted at create time.
type User struct {
	ID           string `json:"_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	ProfileImage string `json:"profileImage"`
	Status       string `json:"status"`
}

// UserDraft carries the fields of a new account.
type UserDraft struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// UserPatch carries a partial update of the editable fields. Nil fields
// are not sent.
type UserPatch struct {
	Firstname *string `json:"firstname,omitempty"`
	Lastname  *string `json:"lastname,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// Profile is the logged-in user's own record.
type Profile struct {
	ID           string `json:"_id"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

type UserClient struct {
	*Client
}

func NewUserClient(c *Client) *UserClient {
	return &UserClient{Client: c}
}

// Login exchanges credentials for the backend's session cookie. Any
// non-200 answer or transport failure is an error.
func (c *UserClient) Login(ctx context.Context, email, password string) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/user/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

func (c *UserClient) Logout(ctx context.Context) error {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/user/logout", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

// List fetches all users. The backend answers with a flat array.
func (c *UserClient) List(ctx context.Context) ([]User, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/user", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("decode user list: %w", err)
	}
	return users, nil
}

// Create posts a new account. Username, email and password are checked
// locally first; a blank one rejects the draft without touching the
// network.
func (c *UserClient) Create(ctx context.Context, draft UserDraft) error {
	if draft.Username == "" || draft.Email == "" || draft.Password == "" {
		return fmt.Errorf("%w: username, email and password required", ErrValidation)
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/user", draft)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

func (c *UserClient) Update(ctx context.Context, id string, patch UserPatch) error {
	resp, err := c.doJSON(ctx, http.MethodPatch, "/api/user/"+url.PathEscape(id), patch)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

// Delete removes an account. Confirmation is the caller's
// responsibility.
func (c *UserClient) Delete(ctx context.Context, id string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/api/user/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

// Profile fetches the logged-in user's own record. A 401 comes back as
// ErrUnauthorized so the caller can drop the session.
func (c *UserClient) Profile(ctx context.Context) (Profile, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/user/profile", nil)
	if err != nil {
		return Profile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Profile{}, responseError(resp)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// UpdateProfile saves the editable profile fields and returns the email
// the backend settled on, which may differ from the submitted one.
func (c *UserClient) UpdateProfile(ctx context.Context, patch UserPatch) (string, error) {
	resp, err := c.doJSON(ctx, http.MethodPut, "/api/user/profile", patch)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", responseError(resp)
	}

	var env struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", nil
	}
	return env.Data.Email, nil
}

// checkImageMIME rejects non-image uploads before any network call.
func checkImageMIME(mimeType string) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("%w: only image files are allowed", ErrValidation)
	}
	return nil
}

func (c *UserClient) UploadProfileImage(ctx context.Context, filename, mimeType string, file io.Reader) error {
	if err := checkImageMIME(mimeType); err != nil {
		return err
	}

	resp, err := c.doMultipart(ctx, "/api/user/profile/image", filename, file)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

func (c *UserClient) RemoveProfileImage(ctx context.Context) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/api/user/profile/image", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

// UploadUserImage attaches an image to a managed user and returns the
// stored image URL.
func (c *UserClient) UploadUserImage(ctx context.Context, id, filename, mimeType string, file io.Reader) (string, error) {
	if err := checkImageMIME(mimeType); err != nil {
		return "", err
	}

	resp, err := c.doMultipart(ctx, "/api/user/"+url.PathEscape(id)+"/image", filename, file)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", responseError(resp)
	}

	var env struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return env.ImageURL, nil
}

func (c *UserClient) RemoveUserImage(ctx context.Context, id string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/api/user/"+url.PathEscape(id)+"/image", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}
