package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/opst/writerid/pkg/api/types/auth"
	"github.com/rs/zerolog"
)

// Navigator moves the operator to the login route.
type Navigator interface {
	ToLogin()
}

type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

// Session is the signed-in state shared by the HTTP layer and the pages.
//
// The token and the user profile are stored together and cleared together.
type Session struct {
	storage Storage
	logger  zerolog.Logger

	mu        sync.Mutex
	nav       Navigator
	listeners map[int]func()
	nextId    int
}

type Option func(*Session) *Session

func WithNavigator(nav Navigator) Option {
	return func(s *Session) *Session {
		s.nav = nav
		return s
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) *Session {
		s.logger = logger
		return s
	}
}

func New(storage Storage, options ...Option) *Session {
	s := &Session{
		storage:   storage,
		logger:    zerolog.Nop(),
		listeners: map[int]func(){},
	}
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// SetNavigator replaces the navigator. nil disables navigation.
func (s *Session) SetNavigator(nav Navigator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

// Token returns the stored bearer token, or "" when signed out.
func (s *Session) Token() string {
	token, ok, err := s.storage.Get(KeyToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cannot read stored token")
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Restore reads the stored session.
//
// It returns ok=false unless both of token and user are stored.
// When the stored user is not readable, both keys are cleared.
func (s *Session) Restore() (auth.Session, bool) {
	token, hasToken, err := s.storage.Get(KeyToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cannot read stored token")
		return auth.Session{}, false
	}
	userJson, hasUser, err := s.storage.Get(KeyUser)
	if err != nil {
		s.logger.Warn().Err(err).Msg("cannot read stored user")
		return auth.Session{}, false
	}
	if !hasToken || !hasUser || token == "" {
		return auth.Session{}, false
	}

	user := auth.User{}
	if err := json.Unmarshal([]byte(userJson), &user); err != nil {
		s.logger.Warn().Err(err).Msg("stored user is broken. clearing session")
		if err := s.storage.Remove(KeyToken, KeyUser); err != nil {
			s.logger.Error().Err(err).Msg("cannot clear session")
		}
		return auth.Session{}, false
	}
	return auth.Session{Token: token, User: user}, true
}

// Save stores token and user.
func (s *Session) Save(sess auth.Session) error {
	if sess.Token == "" {
		return errors.New("empty token")
	}
	buf, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	if err := s.storage.Set(KeyUser, string(buf)); err != nil {
		return err
	}
	if err := s.storage.Set(KeyToken, sess.Token); err != nil {
		// user without token is not a session.
		if rerr := s.storage.Remove(KeyUser); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// Clear removes token and user.
func (s *Session) Clear() error {
	return s.storage.Remove(KeyToken, KeyUser)
}

// Expire is called when the server rejects the token.
//
// It clears the session, notifies listeners and navigates to login.
func (s *Session) Expire() {
	if err := s.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("cannot clear expired session")
	}

	s.mu.Lock()
	nav := s.nav
	listeners := make([]func(), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.logger.Debug().Msg("session expired")
	for _, l := range listeners {
		l()
	}
	if nav != nil {
		nav.ToLogin()
	}
}

// ErrNotWatchable is returned by UntilCleared when the storage can not be watched.
var ErrNotWatchable = errors.New("session storage is not watchable")

// UntilCleared returns a context which is canceled when the stored token is
// removed, by this process or by another one.
func (s *Session) UntilCleared(ctx context.Context) (context.Context, func(), error) {
	w, ok := s.storage.(Watchable)
	if !ok {
		return nil, nil, ErrNotWatchable
	}
	return w.UntilCleared(ctx)
}

// OnExpire registers f to be called on Expire.
//
// The returned function unregisters it.
func (s *Session) OnExpire(f func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextId
	s.nextId++
	s.listeners[id] = f
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
