package init

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/opst/writerid/cmd/wid/config/open"
	"github.com/opst/writerid/cmd/wid/config/profiles"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/youta-t/flarc"
	"gopkg.in/yaml.v3"
)

const ARG_PROFILE_FILE = "PROFILE_FILE"

type Option struct {
	workdir string
}

// WithWorkdir sets the directory where ".widprofile" is written.
func WithWorkdir(dir string) func(*Option) *Option {
	return func(o *Option) *Option {
		o.workdir = dir
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{workdir: "."}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Initialize this directory to use a writer identification API.",
		struct{}{},
		flarc.Args{
			{
				Name: ARG_PROFILE_FILE, Required: true,
				Help: "filepath to a profile file, which you received from your admin.",
			},
		},
		common.NewTaskWithCommonFlag(Task(option.workdir)),
		flarc.WithDescription(`
Register a profile into your profile store.

A profile file is a YAML like:

    apiRoot: https://writerid.example.com
    cert:
        ca: <base64 encoded PEM>  # optional

The name of the profile is given by "--profile" (default: current directory).
The profile name is written to ".widprofile" in the current directory,
so later commands in this directory use the profile.
`),
	)
}

func Task(workdir string) common.WidTaskWithCommonFlag[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		cf common.CommonFlags,
		cl flarc.Commandline[struct{}],
		_ []any,
	) error {
		profFile := cl.Args()[ARG_PROFILE_FILE][0]

		store, err := profiles.LoadProfileStore(cf.ProfileStore)
		if errors.Is(err, profiles.ErrProfileStoreNotFound) {
			store = profiles.ProfileStore{}
		} else if err != nil {
			return fmt.Errorf("failed to load profile store (%s): %w", cf.ProfileStore, err)
		}

		newProf := new(profiles.Profile)
		content, err := os.ReadFile(profFile)
		if err != nil {
			return fmt.Errorf("failed to read profile file (%s): %w", profFile, err)
		}
		if err := yaml.Unmarshal(content, newProf); err != nil {
			return fmt.Errorf("failed to parse profile file (%s): %w", profFile, err)
		}
		if err := newProf.Verify(); err != nil {
			return fmt.Errorf("%s: %w", profFile, err)
		}

		store[cf.Profile] = newProf
		if err := store.Save(cf.ProfileStore); err != nil {
			return fmt.Errorf("failed to save profile store (%s): %w", cf.ProfileStore, err)
		}
		logger.Printf("profile %s is saved to %s", cf.Profile, cf.ProfileStore)

		dotfile := filepath.Join(workdir, ".widprofile")
		if err := open.WriteFile(dotfile, []byte(cf.Profile)); err != nil {
			return fmt.Errorf("failed to write %s: %w", dotfile, err)
		}
		logger.Printf("%s is written. Commands in this directory use the profile %s", dotfile, cf.Profile)
		return nil
	}
}
