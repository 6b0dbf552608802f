package logout_test

import (
	"context"
	"testing"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest/mock"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/subcommands/internal/commandline"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	"github.com/opst/writerid/cmd/wid/subcommands/logout"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
)

func TestLogoutCommand(t *testing.T) {
	t.Run("it clears the stored session without calling the API", func(t *testing.T) {
		client := mock.New(t)
		sess := session.New(session.NewMemoryStorage())
		if err := sess.Save(apiauth.Session{Token: "token-1", User: apiauth.User{Id: "u1"}}); err != nil {
			t.Fatal(err)
		}

		err := logout.Task()(
			context.Background(), logger.Null(), *env.New(), client, sess,
			commandline.MockCommandline[struct{}]{},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}
		if sess.Token() != "" {
			t.Error("token is kept")
		}
		if _, ok := sess.Restore(); ok {
			t.Error("session is kept")
		}
	})

	t.Run("when not signed in, it succeeds", func(t *testing.T) {
		client := mock.New(t)
		sess := session.New(session.NewMemoryStorage())

		err := logout.Task()(
			context.Background(), logger.Null(), *env.New(), client, sess,
			commandline.MockCommandline[struct{}]{},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}
	})
}
