package store

import (
	"context"
	"sync"

	"github.com/opst/writerid/cmd/wid/rest"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
	"github.com/rs/zerolog"
)

// Loading is the progress of the last auth request.
type Loading string

const (
	Idle      Loading = "idle"
	Pending   Loading = "pending"
	Succeeded Loading = "succeeded"
	Failed    Loading = "failed"
)

type AuthState struct {
	User            *apiauth.User
	Token           string
	IsAuthenticated bool
	Loading         Loading

	// Error is the message of the last failure. "" means no error.
	Error string
}

// SessionStore keeps the signed-in session durably.
type SessionStore interface {
	Restore() (apiauth.Session, bool)
	Save(apiauth.Session) error
	Clear() error
	OnExpire(func()) (unsubscribe func())
}

type Auth struct {
	client  rest.Client
	session SessionStore
	logger  zerolog.Logger

	unsubscribe func()

	mu    sync.Mutex
	state AuthState
}

// NewAuth creates the auth slice, restored from the stored session.
//
// When the session expires, the slice is signed out.
func NewAuth(client rest.Client, session SessionStore, logger zerolog.Logger) *Auth {
	a := &Auth{
		client:  client,
		session: session,
		logger:  logger.With().Str("slice", "auth").Logger(),
		state:   AuthState{Loading: Idle},
	}
	if sess, ok := session.Restore(); ok {
		a.signIn(sess)
	}
	a.unsubscribe = session.OnExpire(func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.state = AuthState{Loading: Idle}
	})
	return a
}

// Close stops following session expiry.
func (a *Auth) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *Auth) Snapshot() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state
	if a.state.User != nil {
		u := *a.state.User
		s.User = &u
	}
	return s
}

func (a *Auth) signIn(sess apiauth.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u := sess.User
	a.state = AuthState{
		User:            &u,
		Token:           sess.Token,
		IsAuthenticated: true,
		Loading:         Succeeded,
	}
}

func (a *Auth) begin() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Loading = Pending
	a.state.Error = ""
}

func (a *Auth) fail(err error, fallback string) {
	message := rest.ServerMessage(err)
	if message == "" {
		message = fallback
	}
	a.logger.Debug().Err(err).Msg("failed")

	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Loading = Failed
	a.state.Error = message
}

// Login signs in and stores the session.
func (a *Auth) Login(ctx context.Context, req apiauth.LoginRequest) error {
	a.begin()
	sess, err := a.client.Login(ctx, req)
	if err != nil {
		a.fail(err, "Login failed")
		return err
	}
	if err := a.session.Save(sess); err != nil {
		a.fail(err, "Login failed")
		return err
	}
	a.signIn(sess)
	return nil
}

// Register creates an account. It does not sign in.
func (a *Auth) Register(ctx context.Context, req apiauth.RegisterRequest) error {
	a.begin()
	if err := a.client.Register(ctx, req); err != nil {
		a.fail(err, "Registration failed")
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Loading = Succeeded
	return nil
}

// Logout forgets the session. It does not call the server.
func (a *Auth) Logout() error {
	err := a.session.Clear()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = AuthState{Loading: Idle}
	return err
}

// ClearError forgets the last failure.
func (a *Auth) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Error = ""
}
