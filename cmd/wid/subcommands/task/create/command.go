package create

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/forms"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Dataset     string   `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"analyzed dataset to identify the writer from. Default is \"dataset\" in widenv"`
	Writer      []string `flag:"writer" alias:"w" metavar:"NAME" help:"candidate writer. Repeatable. When fewer than 5 are given, they are asked interactively"`
	Model       string   `flag:"model" alias:"m" metavar:"MODEL_ID" help:"trained model. Default is \"model\" in widenv, or the default model"`
	Description string   `flag:"description" help:"description of the task"`
	Image       string   `flag:"image" alias:"i" metavar:"PATH" help:"image file of the handwriting to be identified"`
	NoExecute   bool     `flag:"no-execute" help:"create the task without executing it"`
	Json        bool     `flag:"json" help:"print the created task in JSON"`
}

// ErrTooFewWriters is returned when the dataset does not have enough writers to choose.
var ErrTooFewWriters = errors.New("too few writers")

type Finder func(ctx context.Context, client rest.Client, datasetId string) (apidatasets.Detail, error)

type WriterLister func(ctx context.Context, client rest.Client, datasetId string) (apitasks.DatasetAnalysis, error)

type Encoder func(path string, progress io.Writer) (string, error)

type Creator func(ctx context.Context, client rest.Client, form forms.Task) (apitasks.Detail, error)

type Executor func(ctx context.Context, client rest.Client, taskId string) error

type Option struct {
	find     Finder
	writers  WriterLister
	encode   Encoder
	create   Creator
	execute  Executor
	prompter ui.Prompter
}

func WithRunner(find Finder, writers WriterLister, create Creator, execute Executor) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		o.writers = writers
		o.create = create
		o.execute = execute
		return o
	}
}

func WithEncoder(encode Encoder) func(*Option) *Option {
	return func(o *Option) *Option {
		o.encode = encode
		return o
	}
}

func WithPrompter(p ui.Prompter) func(*Option) *Option {
	return func(o *Option) *Option {
		o.prompter = p
		return o
	}
}

const ARG_NAME = "NAME"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{
		find:     common.FindDataset,
		writers:  RunListWriters,
		encode:   forms.EncodeImage,
		create:   RunCreateTask,
		execute:  RunExecuteTask,
		prompter: ui.Survey{},
	}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Create a writer identification task.",
		Flags{},
		flarc.Args{
			{Name: ARG_NAME, Required: true, Help: "name of the new task"},
		},
		common.NewTask(Task(
			option.find, option.writers, option.encode,
			option.create, option.execute, option.prompter,
		)),
		flarc.WithDescription(`
Create a task which identifies the writer of a handwriting image among
writers of an analyzed dataset, and execute it.

Defaults of --dataset, --model and --writer are read from widenv.
When --model is not given anywhere, the default model is used.
Pass --no-execute to execute it later with "task execute".
`),
	)
}

func Task(
	find Finder,
	listWriters WriterLister,
	encode Encoder,
	create Creator,
	execute Executor,
	prompter ui.Prompter,
) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		e env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		flags := cl.Flags()

		datasetId := flags.Dataset
		if datasetId == "" {
			datasetId = e.Dataset
		}
		if datasetId == "" {
			return errors.Join(flarc.ErrUsage, errors.New("--dataset is required"))
		}
		if flags.Image == "" {
			return errors.Join(flarc.ErrUsage, errors.New("--image is required"))
		}

		d, err := find(ctx, client, datasetId)
		if err != nil {
			return err
		}
		if d.Status != status.Completed {
			return errors.Join(
				flarc.ErrUsage,
				fmt.Errorf("dataset %q (%s) is %s. Only analyzed datasets can be used", d.Name, d.Id, d.Status),
			)
		}

		writers := flags.Writer
		if len(writers) == 0 {
			writers = e.Writers
		}
		if len(writers) < forms.MinWriters {
			a, err := listWriters(ctx, client, datasetId)
			if err != nil {
				return err
			}
			if len(a.WriterNames) < forms.MinWriters {
				return fmt.Errorf(
					"%w: dataset %q has %d. At least %d are needed",
					ErrTooFewWriters, d.Name, len(a.WriterNames), forms.MinWriters,
				)
			}
			writers, err = prompter.MultiSelect(
				fmt.Sprintf("Choose at least %d candidate writers", forms.MinWriters),
				a.WriterNames, forms.MinWriters,
			)
			if err != nil {
				return err
			}
		}

		modelId := flags.Model
		if modelId == "" {
			modelId = e.Model
		}

		encoded, err := encode(flags.Image, cl.Stderr())
		if err != nil {
			return fmt.Errorf("%s: %w", flags.Image, err)
		}

		form := forms.Task{
			Name:             cl.Args()[ARG_NAME][0],
			Description:      flags.Description,
			DatasetId:        datasetId,
			SelectedWriters:  writers,
			UseDefaultModel:  modelId == "",
			ModelId:          modelId,
			QueryImageBase64: encoded,
		}
		if err := form.Validate(); err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		t, err := create(ctx, client, form)
		if err != nil {
			return err
		}
		p := ui.NewPrinter(cl.Stdout())
		if !flags.Json {
			p.Success("task %q is created (id: %s)", t.Name, t.Id)
		}

		if !flags.NoExecute {
			if err := execute(ctx, client, t.Id); err != nil {
				return fmt.Errorf("task %s is created, but not executed: %w", t.Id, err)
			}
			t.Status = status.Processing
			if !flags.Json {
				p.Info("executing. Check it later with `task results %s`", t.Id)
			}
		}

		if flags.Json {
			t.QueryImageBase64 = ""
			return common.PrintJSON(cl.Stdout(), t)
		}
		return nil
	}
}

func RunListWriters(ctx context.Context, client rest.Client, datasetId string) (apitasks.DatasetAnalysis, error) {
	return store.NewTasks(client, zerolog.Nop()).Writers(ctx, datasetId)
}

func RunCreateTask(ctx context.Context, client rest.Client, form forms.Task) (apitasks.Detail, error) {
	return store.NewTasks(client, zerolog.Nop()).New(ctx, form.Request())
}

func RunExecuteTask(ctx context.Context, client rest.Client, taskId string) error {
	return store.NewTasks(client, zerolog.Nop()).Execute(ctx, taskId)
}
