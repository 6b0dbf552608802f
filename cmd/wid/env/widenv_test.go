package env_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/opst/writerid/cmd/wid/env"
)

func TestLoadWidEnv(t *testing.T) {
	t.Run("read widenv. and it should return defaults of tasks.", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "widenv")
		content := `
dataset: d-123
model: m-456
writers:
  - alice
  - bob
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		result, err := env.LoadWidEnv(path)
		if err != nil {
			t.Fatalf("failed to parse widenv: %v", err)
		}
		if result.Dataset != "d-123" || result.Model != "m-456" || !slices.Equal(result.Writers, []string{"alice", "bob"}) {
			t.Errorf("unexpected widenv: %+v", result)
		}
	})

	t.Run("when the file does not exist, empty WidEnv should be created.", func(t *testing.T) {
		result, err := env.LoadWidEnv(filepath.Join(t.TempDir(), "widenv"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Dataset != "" || result.Model != "" || len(result.Writers) != 0 {
			t.Errorf("widenv is not empty: %+v", result)
		}
	})

	t.Run("when the file is broken, it returns error.", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "widenv")
		if err := os.WriteFile(path, []byte("writers: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := env.LoadWidEnv(path); err == nil {
			t.Error("expected error")
		}
	})
}
