package model

import (
	model_create "github.com/opst/writerid/cmd/wid/subcommands/model/create"
	model_list "github.com/opst/writerid/cmd/wid/subcommands/model/list"
	model_results "github.com/opst/writerid/cmd/wid/subcommands/model/results"
	model_retrain "github.com/opst/writerid/cmd/wid/subcommands/model/retrain"
	model_rm "github.com/opst/writerid/cmd/wid/subcommands/model/rm"
	model_show "github.com/opst/writerid/cmd/wid/subcommands/model/show"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	list, err := model_list.New()
	if err != nil {
		return nil, err
	}
	create, err := model_create.New()
	if err != nil {
		return nil, err
	}
	show, err := model_show.New()
	if err != nil {
		return nil, err
	}
	results, err := model_results.New()
	if err != nil {
		return nil, err
	}
	retrain, err := model_retrain.New()
	if err != nil {
		return nil, err
	}
	rm, err := model_rm.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate writer identification models.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("results", results),
		flarc.WithSubcommand("retrain", retrain),
		flarc.WithSubcommand("rm", rm),
	)
}
