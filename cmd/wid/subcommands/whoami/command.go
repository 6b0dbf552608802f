package whoami

import (
	"context"
	"log"
	"time"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print the user in JSON"`
}

type Option struct {
	now func() time.Time
}

// WithClock replaces the current time, which tells whether the token is expired.
func WithClock(now func() time.Time) func(*Option) *Option {
	return func(o *Option) *Option {
		o.now = now
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{now: time.Now}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show the signed-in user.",
		Flags{},
		flarc.Args{},
		common.NewSessionTask(Task(option.now)),
	)
}

func Task(now func() time.Time) common.SessionTask[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		sess *session.Session,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		auth := store.NewAuth(client, sess, zerolog.Nop())
		defer auth.Close()
		st := auth.Snapshot()
		if !st.IsAuthenticated {
			return common.ErrNotSignedIn
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), st.User)
		}

		p := ui.NewPrinter(cl.Stdout())
		p.Field("Name", ui.OrDash(st.User.DisplayName()))
		p.Field("Email", st.User.Email)
		p.Field("Id", st.User.Id)

		claims, ok := rest.TokenClaims(st.Token)
		if !ok {
			p.Field("Expires", "-")
			return nil
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			p.Field("Expires", "-")
			return nil
		}
		if exp.Before(now()) {
			p.Field("Expires", exp.Local().Format(time.RFC3339)+" (expired)")
			p.Warning("the token is expired. Please try `wid login` again")
			return nil
		}
		p.Field("Expires", exp.Local().Format(time.RFC3339))
		return nil
	}
}
