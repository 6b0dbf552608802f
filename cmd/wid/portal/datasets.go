package portal

import (
	"context"
	"fmt"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/forms"
	dataset_list "github.com/opst/writerid/cmd/wid/subcommands/dataset/list"
	dataset_show "github.com/opst/writerid/cmd/wid/subcommands/dataset/show"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/opst/writerid/pkg/api/types/status"
)

const (
	selectDataset = "Select a dataset"
	createDataset = "Upload dataset"
)

func (p *Portal) datasetsPage(ctx context.Context, nav Navigation) (Navigation, error) {
	sel := Selection(nav.Select)
	openCreate := nav.OpenCreate
	if err := p.datasets.Refresh(ctx); err != nil {
		showError(p, p.datasets.Collection)
	}

	for {
		if p.leaving() {
			return Navigation{To: Login}, nil
		}
		if openCreate {
			openCreate = false
			if err := p.createDataset(ctx, &sel); err != nil {
				return nav, err
			}
			continue
		}

		st := p.datasets.Snapshot()
		tbl := marked(dataset_list.Table(st.Items), sel, st.Items)
		if err := tbl.Render(p.out.Writer(), "No datasets found"); err != nil {
			return nav, err
		}

		choice, next, err := p.choose(Datasets, selectDataset, "Actions", createDataset, choiceRefresh)
		if err != nil {
			return nav, err
		}
		if next != nil {
			return *next, nil
		}

		switch choice {
		case selectDataset:
			labels, ids := choices(st.Items, func(d apidatasets.Detail) string { return d.Name })
			id, err := p.pick("Dataset", labels, ids)
			if err != nil {
				return nav, err
			}
			if id != "" {
				sel.Set(id)
			}
		case "Actions":
			if err := p.datasetActions(ctx, &sel); err != nil {
				return nav, err
			}
		case createDataset:
			if err := p.createDataset(ctx, &sel); err != nil {
				return nav, err
			}
		case choiceRefresh:
			if err := p.datasets.Refresh(ctx); err != nil {
				showError(p, p.datasets.Collection)
			}
		}
	}
}

// createDataset shows the upload URL of the new dataset. It is given only once.
func (p *Portal) createDataset(ctx context.Context, sel *Selection) error {
	name, err := p.prompter.Input("Dataset name", "", true)
	if err != nil {
		return err
	}
	form := forms.Dataset{Name: name}
	if err := form.Validate(); err != nil {
		p.invalid(err)
		return nil
	}
	d, err := p.datasets.New(ctx, form.Request().Name)
	if err != nil {
		showError(p, p.datasets.Collection)
		return nil
	}
	sel.Set(d.Id)
	p.out.Success("dataset %q is created", d.Name)
	if d.SasUrl != "" {
		p.out.Box("Upload URL (shown only once)", d.SasUrl)
	} else {
		p.out.Warning("the server did not return an upload URL. Generate one from the actions")
	}
	return nil
}

func (p *Portal) datasetActions(ctx context.Context, sel *Selection) error {
	d := Of(*sel, p.datasets.Collection)
	action, ok, err := p.act(actions.ForDataset(d))
	if err != nil || !ok {
		return err
	}

	switch action {
	case actions.View, actions.Results:
		shown := dataset_show.Shown{Dataset: *d}
		if d.Status == status.Completed {
			a, err := p.datasets.AnalysisResults(ctx, d.Id)
			if err != nil {
				showError(p, p.datasets.Collection)
				return nil
			}
			shown.Analysis = &a
		}
		dataset_show.Print(p.out, shown)
	case actions.Analyze:
		if err := p.datasets.Analyze(ctx, d.Id); err != nil {
			showError(p, p.datasets.Collection)
			return nil
		}
		p.out.Success("analysis of dataset %q is started", d.Name)
	case actions.AccessURL:
		u, err := p.datasets.AccessURL(ctx, d.Id)
		if err != nil {
			showError(p, p.datasets.Collection)
			return nil
		}
		p.out.Box(fmt.Sprintf("Upload URL of %s (expires at %s)", d.Name, u.ExpiresAt.Local()), u.SasUrl)
	case actions.Remove:
		ok, err := p.prompter.Confirm(
			fmt.Sprintf("Delete dataset %q (%s)? This can not be undone.", d.Name, d.Id), false,
		)
		if err != nil || !ok {
			return err
		}
		if err := p.datasets.Remove(ctx, d.Id); err != nil {
			showError(p, p.datasets.Collection)
			return nil
		}
		sel.Clear()
		p.out.Success("dataset %q is deleted", d.Name)
	}
	return nil
}
