package url_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/rest/mock"
	dataset_url "github.com/opst/writerid/cmd/wid/subcommands/dataset/url"
	"github.com/opst/writerid/cmd/wid/subcommands/internal/commandline"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/opst/writerid/pkg/utils/rfctime"
	"github.com/youta-t/flarc"
)

func TestURLCommand(t *testing.T) {
	expiresAt, err := rfctime.Parse("2026-10-15T12:00:00+00:00")
	if err != nil {
		t.Fatal(err)
	}
	issued := apidatasets.AccessURL{SasUrl: "https://blob.example.com/d1?sig=y", ExpiresAt: expiresAt}

	type when struct {
		status status.Status
		flags  dataset_url.Flags
	}
	type then struct {
		issued   bool
		err      []error
		contains []string
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			find := func(ctx context.Context, c rest.Client, datasetId string) (apidatasets.Detail, error) {
				return apidatasets.Detail{Id: datasetId, Name: "letters", Status: when.status}, nil
			}
			calls := 0
			issue := func(ctx context.Context, c rest.Client, datasetId string) (apidatasets.AccessURL, error) {
				calls += 1
				return issued, nil
			}

			stdout := new(strings.Builder)
			err := dataset_url.Task(find, issue)(
				context.Background(), logger.Null(), *env.New(), client,
				commandline.MockCommandline[dataset_url.Flags]{
					Stdout_: stdout,
					Flags_:  when.flags,
					Args_:   map[string][]string{dataset_url.ARG_DATASET_ID: {"d1"}},
				},
				[]any{},
			)
			for _, e := range then.err {
				if !errors.Is(err, e) {
					t.Errorf("err: %v is not %v", err, e)
				}
			}
			if len(then.err) == 0 && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if then.issued != (calls == 1) {
				t.Errorf("issue is called %d times", calls)
			}
			for _, c := range then.contains {
				if !strings.Contains(stdout.String(), c) {
					t.Errorf("stdout does not contain %q:\n%s", c, stdout.String())
				}
			}
		}
	}

	for _, s := range []status.Status{status.Created, status.Completed, status.Failed} {
		t.Run("when the dataset is "+s.String()+", it prints a new URL", theory(
			when{status: s},
			then{issued: true, contains: []string{"Upload URL of letters", issued.SasUrl}},
		))
	}

	t.Run("when --json is passed, it prints the URL in JSON", theory(
		when{status: status.Created, flags: dataset_url.Flags{Json: true}},
		then{issued: true, contains: []string{`"sasUrl": "https://blob.example.com/d1?sig=y"`}},
	))

	t.Run("when the dataset is Processing, it refuses as usage error", theory(
		when{status: status.Processing},
		then{issued: false, err: []error{flarc.ErrUsage, actions.ErrNotAllowed}},
	))
}
