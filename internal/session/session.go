package session

import (
	"context"
	"encoding/json"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"invadmin/internal/db"
	"invadmin/internal/logging"
)

const settingKey = "session"

// Session is the client-held authentication state, persisted across
// restarts under the durable "session" key.
type Session struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// AuthAPI is the slice of the user client the store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
}

// Store owns the session value. It is constructed once at startup and
// handed to everything that needs it; there is no module-level state.
type Store struct {
	gdb  *gorm.DB
	auth AuthAPI

	mu  sync.RWMutex
	cur Session
}

// NewStore loads the persisted session. Absent or malformed stored
// values fall back to the logged-out default; parse failures are
// swallowed, never surfaced.
func NewStore(gdb *gorm.DB, auth AuthAPI) *Store {
	s := &Store{gdb: gdb, auth: auth}

	var setting db.Setting
	if err := gdb.First(&setting, "key = ?", settingKey).Error; err == nil {
		var saved Session
		if err := json.Unmarshal([]byte(setting.Value), &saved); err == nil {
			s.cur = saved
		}
	}
	return s
}

// Get returns the current in-memory session value.
func (s *Store) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Login authenticates against the backend. On success the session is
// set to logged-in with the given email and persisted before returning;
// on any failure the stored state is left untouched and false comes
// back.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	if err := s.auth.Login(ctx, email, password); err != nil {
		logging.FromContext(ctx).Warn("login_failed", "error", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{IsLoggedIn: true, Name: "", Email: email}
	s.persistLocked(ctx)
	return true
}

// Logout tells the backend to drop the server-side session, then
// unconditionally clears and persists the local one. A failing backend
// call does not keep the operator logged in.
func (s *Store) Logout(ctx context.Context) {
	if err := s.auth.Logout(ctx); err != nil {
		logging.FromContext(ctx).Warn("logout_request_failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{}
	s.persistLocked(ctx)
}

// UpdateEmail merges a new email into the session and persists it. The
// caller has already saved the change on the backend.
func (s *Store) UpdateEmail(ctx context.Context, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Email = email
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	buf, err := json.Marshal(s.cur)
	if err != nil {
		logging.FromContext(ctx).Error("session_encode_failed", "error", err)
		return
	}

	err = s.gdb.Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&db.Setting{Key: settingKey, Value: string(buf)}).Error
	if err != nil {
		logging.FromContext(ctx).Error("session_persist_failed", "error", err)
	}
}
