package controller

import (
	"context"
	"sync"

	"invadmin/internal/session"
)

// LoginState is a snapshot of the login view.
type LoginState struct {
	LoggingIn bool
	Failed    bool
}

// Login is the login view: a thin state machine over the session store.
type Login struct {
	mu       sync.Mutex
	sessions *session.Store

	loggingIn bool
	failed    bool
}

func NewLogin(sessions *session.Store) *Login {
	return &Login{sessions: sessions}
}

func (l *Login) State() LoginState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LoginState{LoggingIn: l.loggingIn, Failed: l.failed}
}

// Submit attempts a login. The failed flag sticks until the next
// attempt so the page can show the invalid-credentials message.
func (l *Login) Submit(ctx context.Context, email, password string) bool {
	l.mu.Lock()
	l.loggingIn = true
	l.mu.Unlock()

	ok := l.sessions.Login(ctx, email, password)

	l.mu.Lock()
	l.loggingIn = false
	l.failed = !ok
	l.mu.Unlock()
	return ok
}
