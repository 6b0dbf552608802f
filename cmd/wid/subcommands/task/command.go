package task

import (
	task_create "github.com/opst/writerid/cmd/wid/subcommands/task/create"
	task_execute "github.com/opst/writerid/cmd/wid/subcommands/task/execute"
	task_list "github.com/opst/writerid/cmd/wid/subcommands/task/list"
	task_results "github.com/opst/writerid/cmd/wid/subcommands/task/results"
	task_rm "github.com/opst/writerid/cmd/wid/subcommands/task/rm"
	task_show "github.com/opst/writerid/cmd/wid/subcommands/task/show"
	task_writers "github.com/opst/writerid/cmd/wid/subcommands/task/writers"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	list, err := task_list.New()
	if err != nil {
		return nil, err
	}
	create, err := task_create.New()
	if err != nil {
		return nil, err
	}
	show, err := task_show.New()
	if err != nil {
		return nil, err
	}
	execute, err := task_execute.New()
	if err != nil {
		return nil, err
	}
	results, err := task_results.New()
	if err != nil {
		return nil, err
	}
	rm, err := task_rm.New()
	if err != nil {
		return nil, err
	}
	writers, err := task_writers.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate writer identification tasks.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("execute", execute),
		flarc.WithSubcommand("results", results),
		flarc.WithSubcommand("rm", rm),
		flarc.WithSubcommand("writers", writers),
	)
}
