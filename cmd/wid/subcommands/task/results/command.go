package results

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print the prediction as the server returned"`
}

type Getter func(ctx context.Context, client rest.Client, taskId string) (apitasks.Detail, error)

type Predictor func(ctx context.Context, client rest.Client, taskId string) (apitasks.Prediction, error)

type Option struct {
	get     Getter
	predict Predictor
}

func WithRunner(get Getter, predict Predictor) func(*Option) *Option {
	return func(o *Option) *Option {
		o.get = get
		o.predict = predict
		return o
	}
}

const ARG_TASK_ID = "TASK_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{get: common.GetTask, predict: RunGetPrediction}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show the prediction of a completed task.",
		Flags{},
		flarc.Args{
			{Name: ARG_TASK_ID, Required: true, Help: "Id of the completed task"},
		},
		common.NewTask(Task(option.get, option.predict)),
	)
}

func Task(get Getter, predict Predictor) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		taskId := cl.Args()[ARG_TASK_ID][0]
		t, err := get(ctx, client, taskId)
		if err != nil {
			return err
		}
		if err := common.Gate(actions.ForTask(&t), actions.Results); err != nil {
			return err
		}

		pr, err := predict(ctx, client, taskId)
		if err != nil {
			return err
		}
		if cl.Flags().Json {
			if len(pr.Raw) == 0 {
				return common.PrintJSON(cl.Stdout(), pr)
			}
			_, err := fmt.Fprintln(cl.Stdout(), string(pr.Raw))
			return err
		}

		return Print(ui.NewPrinter(cl.Stdout()), t, pr)
	}
}

// Print writes the identified writer and scores of candidates, highest first.
func Print(p *ui.Printer, t apitasks.Detail, pr apitasks.Prediction) error {
	writer := pr.WriterIdentified
	if writer == "" {
		writer = t.WriterIdentified
	}
	if writer == "" {
		p.Warning("the prediction of %q has no identified writer", t.Name)
	} else {
		p.Success("%q is written by %s (confidence: %s)", t.Name, writer, pr.ConfidenceString())
	}

	if len(pr.Scores) == 0 {
		return nil
	}
	names := make([]string, 0, len(pr.Scores))
	for name := range pr.Scores {
		names = append(names, name)
	}
	// highest score first
	slices.SortFunc(names, func(a, b string) int {
		switch sa, sb := pr.Scores[a], pr.Scores[b]; {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return strings.Compare(a, b)
	})
	p.Println()
	tbl := ui.NewTable("WRITER", "SCORE")
	for _, name := range names {
		tbl.Append(name, strconv.FormatFloat(pr.Scores[name], 'f', 4, 64))
	}
	return tbl.Render(p.Writer(), "")
}

func RunGetPrediction(ctx context.Context, client rest.Client, taskId string) (apitasks.Prediction, error) {
	return store.NewTasks(client, zerolog.Nop()).Prediction(ctx, taskId)
}
