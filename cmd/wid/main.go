package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/joho/godotenv"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	subdashboard "github.com/opst/writerid/cmd/wid/subcommands/dashboard"
	subdataset "github.com/opst/writerid/cmd/wid/subcommands/dataset"
	subinit "github.com/opst/writerid/cmd/wid/subcommands/init"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	sublogin "github.com/opst/writerid/cmd/wid/subcommands/login"
	sublogout "github.com/opst/writerid/cmd/wid/subcommands/logout"
	submodel "github.com/opst/writerid/cmd/wid/subcommands/model"
	subportal "github.com/opst/writerid/cmd/wid/subcommands/portal"
	subregister "github.com/opst/writerid/cmd/wid/subcommands/register"
	subtask "github.com/opst/writerid/cmd/wid/subcommands/task"
	subver "github.com/opst/writerid/cmd/wid/subcommands/version"
	subwhoami "github.com/opst/writerid/cmd/wid/subcommands/whoami"
	"github.com/youta-t/flarc"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	// .env only sets variables which are not set yet.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf, err := common.Flags(".")
	if err != nil {
		logger.Fatal(err)
	}

	wid, err := flarc.NewCommandGroup(
		"Client of the writer identification service",
		cf,
		flarc.WithSubcommand("init", must(logger, "init")(subinit.New())),
		flarc.WithSubcommand("login", must(logger, "login")(sublogin.New())),
		flarc.WithSubcommand("register", must(logger, "register")(subregister.New())),
		flarc.WithSubcommand("logout", must(logger, "logout")(sublogout.New())),
		flarc.WithSubcommand("whoami", must(logger, "whoami")(subwhoami.New())),
		flarc.WithSubcommand("dashboard", must(logger, "dashboard")(subdashboard.New())),
		flarc.WithSubcommand("dataset", must(logger, "dataset")(subdataset.New())),
		flarc.WithSubcommand("model", must(logger, "model")(submodel.New())),
		flarc.WithSubcommand("task", must(logger, "task")(subtask.New())),
		flarc.WithSubcommand("portal", must(logger, "portal")(subportal.New())),
		flarc.WithSubcommand("version", must(logger, "version")(subver.New())),
	)
	if err != nil {
		logger.Fatal(err)
	}

	os.Exit(flarc.Run(ctx, wid, flarc.WithHelp(true)))
}

func must(logger *log.Logger, name string) func(flarc.Command, error) flarc.Command {
	return func(cmd flarc.Command, err error) flarc.Command {
		if err != nil {
			logger.Fatalf("%s: %s", name, err)
		}
		return cmd
	}
}
