package dataset

import (
	dataset_analyze "github.com/opst/writerid/cmd/wid/subcommands/dataset/analyze"
	dataset_create "github.com/opst/writerid/cmd/wid/subcommands/dataset/create"
	dataset_list "github.com/opst/writerid/cmd/wid/subcommands/dataset/list"
	dataset_rm "github.com/opst/writerid/cmd/wid/subcommands/dataset/rm"
	dataset_show "github.com/opst/writerid/cmd/wid/subcommands/dataset/show"
	dataset_url "github.com/opst/writerid/cmd/wid/subcommands/dataset/url"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {
	list, err := dataset_list.New()
	if err != nil {
		return nil, err
	}
	create, err := dataset_create.New()
	if err != nil {
		return nil, err
	}
	show, err := dataset_show.New()
	if err != nil {
		return nil, err
	}
	analyze, err := dataset_analyze.New()
	if err != nil {
		return nil, err
	}
	url, err := dataset_url.New()
	if err != nil {
		return nil, err
	}
	rm, err := dataset_rm.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate datasets of handwriting samples.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("show", show),
		flarc.WithSubcommand("analyze", analyze),
		flarc.WithSubcommand("url", url),
		flarc.WithSubcommand("rm", rm),
	)
}
