package portal_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/opst/writerid/cmd/wid/config/profiles"
	"github.com/opst/writerid/cmd/wid/portal"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/internal/testutils/fakeapi"
)

func TestPortal_WithServer(t *testing.T) {
	t.Run("when an operator signs in and uploads a dataset, it is analyzed on the server", func(t *testing.T) {
		server := fakeapi.New()
		server.AddUser("ada@example.com", "secret1", "Ada", "Lovelace")
		sess := session.New(session.NewMemoryStorage())
		client, err := rest.NewClient(&profiles.Profile{ApiRoot: server.Start(t)}, sess)
		if err != nil {
			t.Fatal(err)
		}

		actionsOf := `Actions of dataset "letters" (d2)`
		prompter, out := run(
			t, client, sess, portal.Navigation{To: portal.Datasets},
			"Sign in", "ada@example.com", "secret1",
			"Go to Datasets",
			"Upload dataset", "letters",
			"Actions", "Execute analysis",
			"Refresh",
			"Actions", "View analysis results",
			"Quit",
		)
		assertAsked(
			t, prompter,
			"Sign in", "Username", "Password",
			"Dashboard",
			"Datasets", "Dataset name",
			"Datasets", actionsOf,
			"Datasets",
			"Datasets", actionsOf,
			"Datasets",
		)

		for _, c := range []string{
			"signed in as Ada Lovelace",
			"https://storage.example.com/datasets/d2?sig=",
			`analysis of dataset "letters" is started`,
			"Completed",
		} {
			if !strings.Contains(out, c) {
				t.Errorf("output does not contain %q:\n%s", c, out)
			}
		}

		requests := server.Requests()
		for _, r := range []string{
			"POST /api/v1/Auth/login",
			"GET /api/v1/Dashboard/stats",
			"POST /api/v1/Datasets",
			"POST /api/v1/Datasets/d2/analyze",
			"GET /api/v1/Datasets/d2/analysis-results",
		} {
			if !slices.Contains(requests, r) {
				t.Errorf("%s is not requested: %v", r, requests)
			}
		}
	})

	t.Run("when the server revokes the token, the portal returns to login", func(t *testing.T) {
		server := fakeapi.New()
		server.AddUser("ada@example.com", "secret1", "Ada", "Lovelace")
		server.AddDataset("letters")
		sess := session.New(session.NewMemoryStorage())
		client, err := rest.NewClient(&profiles.Profile{ApiRoot: server.Start(t)}, sess)
		if err != nil {
			t.Fatal(err)
		}

		run(
			t, client, sess, portal.Navigation{To: portal.Login},
			"Sign in", "ada@example.com", "secret1",
			"Quit",
		)
		if sess.Token() == "" {
			t.Fatal("token is not stored")
		}

		server.Revoke()
		prompter, out := run(
			t, client, sess, portal.Navigation{To: portal.Datasets},
			"Quit",
		)
		assertAsked(t, prompter, "Sign in")
		if !strings.Contains(out, "session is expired") {
			t.Errorf("output does not tell expiry:\n%s", out)
		}
		if sess.Token() != "" {
			t.Error("revoked token is kept")
		}
	})
}
