package init_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opst/writerid/cmd/wid/config/profiles"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	subinit "github.com/opst/writerid/cmd/wid/subcommands/init"
	"github.com/opst/writerid/cmd/wid/subcommands/internal/commandline"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
)

func TestInitCommand(t *testing.T) {
	writeFile := func(t *testing.T, path string, content string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("when the profile is valid, it is saved and selected in the directory", func(t *testing.T) {
		root := t.TempDir()
		profFile := filepath.Join(root, "profile.yaml")
		writeFile(t, profFile, "apiRoot: https://writerid.example.com\n")

		cf := common.CommonFlags{
			Profile:      "lab",
			ProfileStore: filepath.Join(root, "home", ".wid", "profile"),
		}
		workdir := filepath.Join(root, "project")
		if err := os.Mkdir(workdir, 0700); err != nil {
			t.Fatal(err)
		}

		err := subinit.Task(workdir)(
			context.Background(), logger.Null(), cf,
			commandline.MockCommandline[struct{}]{
				Args_: map[string][]string{subinit.ARG_PROFILE_FILE: {profFile}},
			},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}

		store, err := profiles.LoadProfileStore(cf.ProfileStore)
		if err != nil {
			t.Fatal(err)
		}
		if p, ok := store["lab"]; !ok || p.ApiRoot != "https://writerid.example.com" {
			t.Errorf("unexpected store: %+v", store)
		}

		dot, err := os.ReadFile(filepath.Join(workdir, ".widprofile"))
		if err != nil {
			t.Fatal(err)
		}
		if string(dot) != "lab" {
			t.Errorf(".widprofile: %q", string(dot))
		}
	})

	t.Run("when the profile store exists, other profiles are kept", func(t *testing.T) {
		root := t.TempDir()
		storePath := filepath.Join(root, "profile")
		writeFile(t, storePath, "other:\n  apiRoot: http://other.example.com\n")
		profFile := filepath.Join(root, "profile.yaml")
		writeFile(t, profFile, "apiRoot: https://writerid.example.com\n")

		err := subinit.Task(root)(
			context.Background(), logger.Null(),
			common.CommonFlags{Profile: "lab", ProfileStore: storePath},
			commandline.MockCommandline[struct{}]{
				Args_: map[string][]string{subinit.ARG_PROFILE_FILE: {profFile}},
			},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}

		store, err := profiles.LoadProfileStore(storePath)
		if err != nil {
			t.Fatal(err)
		}
		if len(store) != 2 || store["other"] == nil || store["lab"] == nil {
			t.Errorf("unexpected store: %+v", store)
		}
	})

	t.Run("when the profile is invalid, it returns ErrProfileInvalid", func(t *testing.T) {
		root := t.TempDir()
		profFile := filepath.Join(root, "profile.yaml")
		writeFile(t, profFile, "apiRoot: ftp://writerid.example.com\n")
		storePath := filepath.Join(root, "profile")

		err := subinit.Task(root)(
			context.Background(), logger.Null(),
			common.CommonFlags{Profile: "lab", ProfileStore: storePath},
			commandline.MockCommandline[struct{}]{
				Args_: map[string][]string{subinit.ARG_PROFILE_FILE: {profFile}},
			},
			[]any{},
		)
		if !errors.Is(err, profiles.ErrProfileInvalid) {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := os.Stat(storePath); !os.IsNotExist(err) {
			t.Errorf("profile store is written: %v", err)
		}
	})
}
