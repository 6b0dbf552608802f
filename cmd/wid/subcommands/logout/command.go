package logout

import (
	"context"
	"log"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Sign out and forget the session.",
		struct{}{},
		flarc.Args{},
		common.NewSessionTask(Task()),
	)
}

func Task() common.SessionTask[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		sess *session.Session,
		cl flarc.Commandline[struct{}],
		_ []any,
	) error {
		auth := store.NewAuth(client, sess, zerolog.Nop())
		defer auth.Close()
		if !auth.Snapshot().IsAuthenticated {
			logger.Println("not signed in.")
		}
		if err := auth.Logout(); err != nil {
			return err
		}
		logger.Println("signed out.")
		return nil
	}
}
