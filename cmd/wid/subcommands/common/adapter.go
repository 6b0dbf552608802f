package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/opst/writerid/cmd/wid/config/profiles"
	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	"github.com/youta-t/flarc"
)

// ErrNotSignedIn is returned by commands which need a session, when there is none.
var ErrNotSignedIn = errors.New("not signed in")

type WidTaskWithCommonFlag[T any] func(
	ctx context.Context,
	logger *log.Logger,
	commonFlag CommonFlags,
	cl flarc.Commandline[T],
	params []any,
) error

func NewTaskWithCommonFlag[T any](task WidTaskWithCommonFlag[T]) flarc.Task[T] {
	return func(ctx context.Context, cl flarc.Commandline[T], pos []any) error {
		var commonFlag CommonFlags
		found := false
		newpos := make([]any, 0, len(pos))
		for _, p := range pos {
			switch v := p.(type) {
			case CommonFlags:
				found = true
				commonFlag = v
			default:
				newpos = append(newpos, p)
			}
		}
		if !found {
			return errors.New("programming error: common flags not found")
		}

		logger := log.New(cl.Stderr(), "", log.LstdFlags)
		logger.SetPrefix(fmt.Sprintf("[%s] ", cl.Fullname()))

		return task(ctx, logger, commonFlag, cl, newpos)
	}
}

// Task is a command which talks to the API on behalf of the signed-in operator.
type Task[T any] func(
	ctx context.Context,
	logger *log.Logger,
	widEnv env.WidEnv,
	client rest.Client,
	cl flarc.Commandline[T],
	params []any,
) error

// SessionTask is a command which manages the session itself, like login.
type SessionTask[T any] func(
	ctx context.Context,
	logger *log.Logger,
	widEnv env.WidEnv,
	client rest.Client,
	sess *session.Session,
	cl flarc.Commandline[T],
	params []any,
) error

// NewTask wraps task. It fails with ErrNotSignedIn when there is no session.
func NewTask[T any](task Task[T]) flarc.Task[T] {
	return NewSessionTask(func(
		ctx context.Context,
		logger *log.Logger,
		widEnv env.WidEnv,
		client rest.Client,
		sess *session.Session,
		cl flarc.Commandline[T],
		params []any,
	) error {
		if sess.Token() == "" {
			return fmt.Errorf("%w. Please try `wid login` first", ErrNotSignedIn)
		}
		return task(ctx, logger, widEnv, client, cl, params)
	})
}

func NewSessionTask[T any](task SessionTask[T]) flarc.Task[T] {
	return NewTaskWithCommonFlag(func(
		ctx context.Context,
		l *log.Logger,
		commonFlag CommonFlags,
		cl flarc.Commandline[T],
		params []any,
	) error {
		store, err := profiles.LoadProfileStore(commonFlag.ProfileStore)
		if err != nil {
			if errors.Is(err, profiles.ErrProfileStoreNotFound) {
				return fmt.Errorf(
					"%w: profile store (%s) is not found. Please try `wid init` first. Ask your admin to get a profile",
					err, commonFlag.ProfileStore,
				)
			}
			return fmt.Errorf("%w: failed to load profile store (%s)", err, commonFlag.ProfileStore)
		}
		prof, ok := store[commonFlag.Profile]
		if !ok {
			return fmt.Errorf(
				"profile '%s' not found in the profile store (%s)",
				commonFlag.Profile, commonFlag.ProfileStore,
			)
		}

		e, err := env.LoadWidEnv(commonFlag.Env)
		if err != nil {
			return fmt.Errorf("%w: failed to load widenv (%s)", err, commonFlag.Env)
		}

		trace := logger.Trace(cl.Stderr(), os.Getenv(EnvLogLevel))
		sess := session.New(
			session.NewFileStorage(commonFlag.SessionPath()),
			session.WithLogger(trace),
			session.WithNavigator(session.NavigatorFunc(func() {
				l.Println("session is expired. Please try `wid login` again")
			})),
		)

		client, err := rest.NewClient(prof, sess, rest.WithLogger(trace))
		if err != nil {
			return fmt.Errorf(
				"%w: failed to create client. Your profile (%s in %s) can be broken.\n\nRemove it and try `wid init` again",
				err, commonFlag.Profile, commonFlag.ProfileStore,
			)
		}
		return task(ctx, l, *e, client, sess, cl, params)
	})
}
