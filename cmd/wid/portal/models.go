package portal

import (
	"context"
	"fmt"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/forms"
	model_list "github.com/opst/writerid/cmd/wid/subcommands/model/list"
	model_results "github.com/opst/writerid/cmd/wid/subcommands/model/results"
	model_show "github.com/opst/writerid/cmd/wid/subcommands/model/show"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
)

const (
	selectModel = "Select a model"
	createModel = "Create model"
)

func (p *Portal) modelsPage(ctx context.Context, nav Navigation) (Navigation, error) {
	sel := Selection(nav.Select)
	openCreate := nav.OpenCreate
	if err := p.models.Refresh(ctx); err != nil {
		showError(p, p.models.Collection)
	}

	for {
		if p.leaving() {
			return Navigation{To: Login}, nil
		}
		showError(p, p.models.Collection)
		if openCreate {
			openCreate = false
			if err := p.createModel(ctx, &sel); err != nil {
				return nav, err
			}
			continue
		}

		st := p.models.Snapshot()
		tbl := marked(model_list.Table(st.Items), sel, st.Items)
		if err := tbl.Render(p.out.Writer(), "No models found"); err != nil {
			return nav, err
		}
		if st.IsActing {
			p.out.Info("retraining is requested...")
		}

		choice, next, err := p.choose(Models, selectModel, "Actions", createModel, choiceRefresh)
		if err != nil {
			return nav, err
		}
		if next != nil {
			return *next, nil
		}

		switch choice {
		case selectModel:
			labels, ids := choices(st.Items, func(m apimodels.Detail) string { return m.Name })
			id, err := p.pick("Model", labels, ids)
			if err != nil {
				return nav, err
			}
			if id != "" {
				sel.Set(id)
			}
		case "Actions":
			if err := p.modelActions(ctx, &sel); err != nil {
				return nav, err
			}
		case createModel:
			if err := p.createModel(ctx, &sel); err != nil {
				return nav, err
			}
		case choiceRefresh:
			if err := p.models.Refresh(ctx); err != nil {
				showError(p, p.models.Collection)
			}
		}
	}
}

// completedDatasets lists datasets which models and tasks can be built on.
func (p *Portal) completedDatasets(ctx context.Context) ([]apidatasets.Detail, error) {
	if err := p.datasets.Refresh(ctx); err != nil {
		showError(p, p.datasets.Collection)
		return nil, err
	}
	completed := []apidatasets.Detail{}
	for _, d := range p.datasets.Snapshot().Items {
		if d.Status == status.Completed {
			completed = append(completed, d)
		}
	}
	return completed, nil
}

func (p *Portal) createModel(ctx context.Context, sel *Selection) error {
	datasets, err := p.completedDatasets(ctx)
	if err != nil {
		return nil
	}
	if len(datasets) == 0 {
		p.out.Warning("no analyzed datasets. Analyze a dataset first")
		return nil
	}

	name, err := p.prompter.Input("Model name", "", true)
	if err != nil {
		return err
	}
	labels, ids := choices(datasets, func(d apidatasets.Detail) string { return d.Name })
	datasetId, err := p.pick("Dataset to train on", labels, ids)
	if err != nil || datasetId == "" {
		return err
	}

	form := forms.Model{Name: name, DatasetId: datasetId}
	if err := form.Validate(); err != nil {
		p.invalid(err)
		return nil
	}
	m, err := p.models.New(ctx, form.Request())
	if err != nil {
		showError(p, p.models.Collection)
		return nil
	}
	sel.Set(m.Id)
	p.out.Success("model %q is created (status: %s)", m.Name, m.Status)
	return nil
}

func (p *Portal) modelActions(ctx context.Context, sel *Selection) error {
	m := Of(*sel, p.models.Collection)
	action, ok, err := p.act(actions.ForModel(m, p.models.Snapshot().IsActing))
	if err != nil || !ok {
		return err
	}

	switch action {
	case actions.View:
		got, err := p.models.Get(ctx, m.Id)
		if err != nil {
			showError(p, p.models.Collection)
			return nil
		}
		model_show.Print(p.out, got)
	case actions.Results:
		pd, err := p.models.TrainingResults(ctx, m.Id)
		if err != nil {
			showError(p, p.models.Collection)
			return nil
		}
		return model_results.Print(p.out, *m, pd)
	case actions.Retrain:
		id, name := m.Id, m.Name
		p.spawn(func() {
			if err := p.models.Retrain(ctx, id); err != nil {
				p.logger.Debug().Err(err).Str("model", id).Msg("retrain failed")
			}
		})
		p.out.Success("retraining of model %q is requested", name)
	case actions.Remove:
		ok, err := p.prompter.Confirm(
			fmt.Sprintf("Delete model %q (%s)? This can not be undone.", m.Name, m.Id), false,
		)
		if err != nil || !ok {
			return err
		}
		if err := p.models.Remove(ctx, m.Id); err != nil {
			showError(p, p.models.Collection)
			return nil
		}
		sel.Clear()
		p.out.Success("model %q is deleted", m.Name)
	}
	return nil
}
