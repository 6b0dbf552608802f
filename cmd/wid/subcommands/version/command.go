package version

import (
	"context"
	"fmt"

	"github.com/opst/writerid/pkg/buildtime"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Short bool `flag:"short" help:"print only the version number"`
}

func New() (flarc.Command, error) {
	return flarc.NewCommand(
		"Show version of wid.",
		Flags{},
		flarc.Args{},
		Task,
	)
}

func Task(ctx context.Context, cl flarc.Commandline[Flags], _ []any) error {
	if cl.Flags().Short {
		_, err := fmt.Fprintln(cl.Stdout(), buildtime.Version())
		return err
	}
	_, err := fmt.Fprint(cl.Stdout(), buildtime.VersionString())
	return err
}
