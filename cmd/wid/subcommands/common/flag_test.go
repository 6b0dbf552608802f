package common_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opst/writerid/cmd/wid/subcommands/common"
)

// layout creates
//
//	root/home/
//	root/current/.widprofile  ("test")
//	root/current/widenv
//	root/current/children/folder/
func layout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, d := range []string{"home", "current/children/folder"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0700); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "current", ".widprofile"), []byte("test\nignored\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "current", "widenv"), []byte("dataset: d1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	return root
}

func noEnv(string) string { return "" }

func TestFlags(t *testing.T) {
	t.Run("it returns default value from given directory", func(t *testing.T) {
		root := layout(t)
		cf, err := common.Flags(
			filepath.Join(root, "current"),
			common.WithHome(filepath.Join(root, "home")),
			common.WithGetenv(noEnv),
		)
		if err != nil {
			t.Fatal(err)
		}

		if cf.ProfileStore != filepath.Join(root, "home", ".wid", "profile") {
			t.Errorf("wrong profile store: %s", cf.ProfileStore)
		}
		if cf.SessionDir != filepath.Join(root, "home", ".wid", "session") {
			t.Errorf("wrong session dir: %s", cf.SessionDir)
		}
		if cf.Profile != "test" {
			t.Errorf("wrong profile: %s", cf.Profile)
		}
		if cf.Env != filepath.Join(root, "current", "widenv") {
			t.Errorf("wrong env: %s", cf.Env)
		}
	})

	t.Run("it returns default value from ancestors of given directory", func(t *testing.T) {
		root := layout(t)
		cf, err := common.Flags(
			filepath.Join(root, "current", "children", "folder"),
			common.WithHome(filepath.Join(root, "home")),
			common.WithGetenv(noEnv),
		)
		if err != nil {
			t.Fatal(err)
		}

		if cf.Profile != "test" {
			t.Errorf("wrong profile: %s", cf.Profile)
		}
		if cf.Env != filepath.Join(root, "current", "widenv") {
			t.Errorf("wrong env: %s", cf.Env)
		}
	})

	t.Run("when no .widprofile is found, the directory is the profile name", func(t *testing.T) {
		root := t.TempDir()
		cf, err := common.Flags(root, common.WithHome(root), common.WithGetenv(noEnv))
		if err != nil {
			t.Fatal(err)
		}
		if cf.Profile != root {
			t.Errorf("wrong profile: %s", cf.Profile)
		}
		if cf.SessionPath() == filepath.Join(cf.SessionDir, root) {
			t.Errorf("session path is not escaped: %s", cf.SessionPath())
		}
		if filepath.Dir(cf.SessionPath()) != cf.SessionDir {
			t.Errorf("session path is not under session dir: %s", cf.SessionPath())
		}
	})

	t.Run("environment variables take precedence", func(t *testing.T) {
		root := layout(t)
		vars := map[string]string{
			common.EnvProfile:      "from-env",
			common.EnvProfileStore: "/etc/wid/profile",
			common.EnvSessionDir:   "/tmp/wid-session",
			common.EnvWidEnv:       "/etc/wid/widenv",
		}
		cf, err := common.Flags(
			filepath.Join(root, "current"),
			common.WithHome(filepath.Join(root, "home")),
			common.WithGetenv(func(k string) string { return vars[k] }),
		)
		if err != nil {
			t.Fatal(err)
		}
		expected := common.CommonFlags{
			Profile:      "from-env",
			ProfileStore: "/etc/wid/profile",
			SessionDir:   "/tmp/wid-session",
			Env:          "/etc/wid/widenv",
		}
		if cf != expected {
			t.Errorf("(actual, expected) = (%+v, %+v)", cf, expected)
		}
	})
}
