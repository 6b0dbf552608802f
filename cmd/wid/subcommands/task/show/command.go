package show

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print in JSON"`
}

// Shown is a task with its prediction, if it is completed.
type Shown struct {
	Task       apitasks.Detail      `json:"task"`
	Prediction *apitasks.Prediction `json:"prediction,omitempty"`
}

type Shower func(ctx context.Context, client rest.Client, taskId string) (Shown, error)

type Option struct {
	show Shower
}

func WithRunner(show Shower) func(*Option) *Option {
	return func(o *Option) *Option {
		o.show = show
		return o
	}
}

const ARG_TASK_ID = "TASK_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{show: RunShowTask}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show details of a task.",
		Flags{},
		flarc.Args{
			{Name: ARG_TASK_ID, Required: true, Help: "Id of the task to be shown"},
		},
		common.NewTask(Task(option.show)),
	)
}

func Task(show Shower) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		taskId := cl.Args()[ARG_TASK_ID][0]
		shown, err := show(ctx, client, taskId)
		if err != nil {
			return fmt.Errorf("%w: Task Id:%s", err, taskId)
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), shown)
		}

		Print(ui.NewPrinter(cl.Stdout()), shown)
		return nil
	}
}

// Print writes the task, and its prediction if any.
func Print(p *ui.Printer, shown Shown) {
	t := shown.Task
	p.Bold("Task %s", t.Name)
	p.Field("Id", t.Id)
	p.Field("Status", ui.Status(t.Status))
	p.Field("Description", ui.OrDash(t.Description))
	p.Field("Dataset", ui.OrDash(join(t.DatasetName, string(t.DatasetId))))
	p.Field("Model", ui.OrDash(join(t.ModelName, string(t.ModelId))))
	p.Field("Writers", ui.OrDash(strings.Join(t.SelectedWriters, ", ")))
	p.Field("Identified", ui.OrDash(t.WriterIdentified))
	p.Field("Accuracy", ui.Ratio(t.Accuracy))
	p.Field("Created", t.CreatedAt.Local())
	p.Field("Updated", t.UpdatedAt.Local())

	if pr := shown.Prediction; pr != nil {
		p.Println()
		p.Bold("Prediction")
		p.Field("Writer", ui.OrDash(pr.WriterIdentified))
		p.Field("Confidence", pr.ConfidenceString())
	}
}

func join(name string, id string) string {
	switch {
	case name == "":
		return id
	case id == "":
		return name
	default:
		return name + " (" + id + ")"
	}
}

func RunShowTask(ctx context.Context, client rest.Client, taskId string) (Shown, error) {
	tasks := store.NewTasks(client, zerolog.Nop())
	t, err := tasks.Get(ctx, taskId)
	if err != nil {
		return Shown{}, err
	}
	shown := Shown{Task: t}
	if t.Status != status.Completed {
		return shown, nil
	}
	pr, err := tasks.Prediction(ctx, taskId)
	if err != nil {
		return Shown{}, err
	}
	shown.Prediction = &pr
	return shown, nil
}
