package portal

import (
	"context"
	"fmt"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/forms"
	task_list "github.com/opst/writerid/cmd/wid/subcommands/task/list"
	task_results "github.com/opst/writerid/cmd/wid/subcommands/task/results"
	task_show "github.com/opst/writerid/cmd/wid/subcommands/task/show"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
)

const (
	selectTask   = "Select a task"
	createTask   = "Create task"
	defaultModel = "Default model"
)

func (p *Portal) tasksPage(ctx context.Context, nav Navigation) (Navigation, error) {
	sel := Selection(nav.Select)
	openCreate := nav.OpenCreate
	if err := p.tasks.Refresh(ctx); err != nil {
		showError(p, p.tasks.Collection)
	}

	for {
		if p.leaving() {
			return Navigation{To: Login}, nil
		}
		showError(p, p.tasks.Collection)
		if openCreate {
			openCreate = false
			if err := p.createTask(ctx, &sel); err != nil {
				return nav, err
			}
			continue
		}

		st := p.tasks.Snapshot()
		tbl := marked(task_list.Table(st.Items), sel, st.Items)
		if err := tbl.Render(p.out.Writer(), "No tasks found"); err != nil {
			return nav, err
		}

		choice, next, err := p.choose(Tasks, selectTask, "Actions", createTask, choiceRefresh)
		if err != nil {
			return nav, err
		}
		if next != nil {
			return *next, nil
		}

		switch choice {
		case selectTask:
			labels, ids := choices(st.Items, func(t apitasks.Detail) string { return t.Name })
			id, err := p.pick("Task", labels, ids)
			if err != nil {
				return nav, err
			}
			if id != "" {
				sel.Set(id)
			}
		case "Actions":
			if err := p.taskActions(ctx, &sel); err != nil {
				return nav, err
			}
		case createTask:
			if err := p.createTask(ctx, &sel); err != nil {
				return nav, err
			}
		case choiceRefresh:
			if err := p.tasks.Refresh(ctx); err != nil {
				showError(p, p.tasks.Collection)
			}
		}
	}
}

// createTask walks through the creation dialog.
//
// The created task is executed in background, and its view opens at once.
func (p *Portal) createTask(ctx context.Context, sel *Selection) error {
	datasets, err := p.completedDatasets(ctx)
	if err != nil {
		return nil
	}
	if len(datasets) == 0 {
		p.out.Warning("no analyzed datasets. Analyze a dataset first")
		return nil
	}
	labels, ids := choices(datasets, func(d apidatasets.Detail) string { return d.Name })
	datasetId, err := p.pick("Dataset", labels, ids)
	if err != nil || datasetId == "" {
		return err
	}

	a, err := p.tasks.Writers(ctx, datasetId)
	if err != nil {
		showError(p, p.tasks.Collection)
		return nil
	}
	if len(a.WriterNames) < forms.MinWriters {
		p.out.Warning(
			"the dataset has %d writers. At least %d are needed", len(a.WriterNames), forms.MinWriters,
		)
		return nil
	}
	writers, err := p.prompter.MultiSelect(
		fmt.Sprintf("Choose at least %d candidate writers", forms.MinWriters),
		a.WriterNames, forms.MinWriters,
	)
	if err != nil {
		return err
	}

	modelId, useDefault, err := p.chooseModel(ctx)
	if err != nil {
		return err
	}

	name, err := p.prompter.Input("Task name", "", true)
	if err != nil {
		return err
	}
	description, err := p.prompter.Input("Description", "", false)
	if err != nil {
		return err
	}
	image, err := p.prompter.Input("Image file", "", true)
	if err != nil {
		return err
	}
	encoded, err := p.encode(image, p.out.Writer())
	if err != nil {
		p.out.Error("%s: %s", image, err)
		return nil
	}

	form := forms.Task{
		Name:             name,
		Description:      description,
		DatasetId:        datasetId,
		SelectedWriters:  writers,
		UseDefaultModel:  useDefault,
		ModelId:          modelId,
		QueryImageBase64: encoded,
	}
	if err := form.Validate(); err != nil {
		p.invalid(err)
		return nil
	}
	t, err := p.tasks.New(ctx, form.Request())
	if err != nil {
		showError(p, p.tasks.Collection)
		return nil
	}
	sel.Set(t.Id)
	p.out.Success("task %q is created", t.Name)

	id := t.Id
	p.spawn(func() {
		if err := p.tasks.Execute(ctx, id); err != nil {
			p.logger.Debug().Err(err).Str("task", id).Msg("execution failed")
		}
	})

	t.Status = status.Processing
	t.QueryImageBase64 = ""
	task_show.Print(p.out, task_show.Shown{Task: t})
	p.out.Info("identification is running. Refresh to see the results")
	return nil
}

// chooseModel asks a trained model, or the default model.
func (p *Portal) chooseModel(ctx context.Context) (modelId string, useDefault bool, err error) {
	if err := p.models.Refresh(ctx); err != nil {
		showError(p, p.models.Collection)
		return "", true, nil
	}
	trained := []apimodels.Detail{}
	for _, m := range p.models.Snapshot().Items {
		if m.Status == status.Completed {
			trained = append(trained, m)
		}
	}
	if len(trained) == 0 {
		return "", true, nil
	}

	labels, ids := choices(trained, func(m apimodels.Detail) string { return m.Name })
	options := append([]string{defaultModel}, labels...)
	choice, err := p.prompter.Select("Model", options, defaultModel)
	if err != nil {
		return "", false, err
	}
	for i, l := range labels {
		if l == choice {
			return ids[i], false, nil
		}
	}
	return "", true, nil
}

func (p *Portal) taskActions(ctx context.Context, sel *Selection) error {
	t := Of(*sel, p.tasks.Collection)
	action, ok, err := p.act(actions.ForTask(t))
	if err != nil || !ok {
		return err
	}

	switch action {
	case actions.View:
		got, err := p.tasks.Get(ctx, t.Id)
		if err != nil {
			showError(p, p.tasks.Collection)
			return nil
		}
		shown := task_show.Shown{Task: got}
		if got.Status == status.Completed {
			pr, err := p.tasks.Prediction(ctx, t.Id)
			if err != nil {
				showError(p, p.tasks.Collection)
				return nil
			}
			shown.Prediction = &pr
		}
		task_show.Print(p.out, shown)
	case actions.Results:
		pr, err := p.tasks.Prediction(ctx, t.Id)
		if err != nil {
			showError(p, p.tasks.Collection)
			return nil
		}
		return task_results.Print(p.out, *t, pr)
	case actions.Execute:
		if err := p.tasks.Execute(ctx, t.Id); err != nil {
			showError(p, p.tasks.Collection)
			return nil
		}
		p.out.Success("task %q is executing", t.Name)
	case actions.Remove:
		ok, err := p.prompter.Confirm(
			fmt.Sprintf("Delete task %q (%s)? This can not be undone.", t.Name, t.Id), false,
		)
		if err != nil || !ok {
			return err
		}
		if err := p.tasks.Remove(ctx, t.Id); err != nil {
			showError(p, p.tasks.Collection)
			return nil
		}
		sel.Clear()
		p.out.Success("task %q is deleted", t.Name)
	}
	return nil
}
