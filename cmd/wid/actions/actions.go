// Package actions decides which operations an entity allows in its status.
package actions

import (
	"errors"
	"fmt"
	"slices"

	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
)

// ErrNotAllowed is returned when an action is disabled for the entity.
var ErrNotAllowed = errors.New("action not allowed")

type Action string

const (
	View      Action = "view"
	Analyze   Action = "analyze"
	Results   Action = "results"
	AccessURL Action = "access-url"
	Retrain   Action = "retrain"
	Execute   Action = "execute"
	Remove    Action = "remove"
)

type Item struct {
	Action  Action
	Label   string
	Enabled bool
}

// Menu is the list of actions for one entity.
//
// Every action of the kind is listed. Disabled ones are kept with Enabled=false.
type Menu struct {
	// Subject describes the entity, like `dataset "letters" (d1)`.
	Subject string
	Status  status.Status
	Items   []Item
}

func (m Menu) Enabled(a Action) bool {
	i := slices.IndexFunc(m.Items, func(it Item) bool { return it.Action == a })
	return 0 <= i && m.Items[i].Enabled
}

// Check returns an error wrapping ErrNotAllowed unless a is enabled.
func (m Menu) Check(a Action) error {
	if m.Enabled(a) {
		return nil
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: %s: nothing is selected", ErrNotAllowed, a)
	}
	return fmt.Errorf("%w: %s: %s is %s", ErrNotAllowed, a, m.Subject, m.Status)
}

// EnabledItems returns items which can be chosen.
func (m Menu) EnabledItems() []Item {
	items := []Item{}
	for _, it := range m.Items {
		if it.Enabled {
			items = append(items, it)
		}
	}
	return items
}

func in(s status.Status, candidates ...status.Status) bool {
	return slices.Contains(candidates, s)
}

// ForDataset builds the menu of a dataset. nil means no selection.
func ForDataset(d *apidatasets.Detail) Menu {
	if d == nil {
		return disabled(
			Item{Action: View, Label: "View details"},
			Item{Action: Analyze, Label: "Execute analysis"},
			Item{Action: Results, Label: "View analysis results"},
			Item{Action: AccessURL, Label: "Generate access URL"},
			Item{Action: Remove, Label: "Remove"},
		)
	}
	s := d.Status
	return Menu{
		Subject: fmt.Sprintf("dataset %q (%s)", d.Name, d.Id),
		Status:  s,
		Items: []Item{
			{Action: View, Label: "View details", Enabled: true},
			{Action: Analyze, Label: "Execute analysis", Enabled: s == status.Created},
			{Action: Results, Label: "View analysis results", Enabled: s == status.Completed},
			{
				Action: AccessURL, Label: "Generate access URL",
				Enabled: in(s, status.Created, status.Failed, status.Completed),
			},
			{Action: Remove, Label: "Remove", Enabled: s != status.Processing},
		},
	}
}

// ForModel builds the menu of a model. nil means no selection.
//
// retraining is true while a retrain request is in flight. Retrain is also
// disabled while the model is processing.
func ForModel(m *apimodels.Detail, retraining bool) Menu {
	if m == nil {
		return disabled(
			Item{Action: View, Label: "View details"},
			Item{Action: Results, Label: "View train results"},
			Item{Action: Retrain, Label: "Retrain"},
			Item{Action: Remove, Label: "Remove"},
		)
	}
	return Menu{
		Subject: fmt.Sprintf("model %q (%s)", m.Name, m.Id),
		Status:  m.Status,
		Items: []Item{
			{Action: View, Label: "View details", Enabled: true},
			{Action: Results, Label: "View train results", Enabled: m.Status == status.Completed},
			{Action: Retrain, Label: "Retrain", Enabled: !retraining && m.Status != status.Processing},
			{Action: Remove, Label: "Remove", Enabled: true},
		},
	}
}

// ForTask builds the menu of a task. nil means no selection.
func ForTask(t *apitasks.Detail) Menu {
	if t == nil {
		return disabled(
			Item{Action: View, Label: "View details"},
			Item{Action: Results, Label: "View results"},
			Item{Action: Execute, Label: "Execute"},
			Item{Action: Remove, Label: "Remove"},
		)
	}
	s := t.Status
	return Menu{
		Subject: fmt.Sprintf("task %q (%s)", t.Name, t.Id),
		Status:  s,
		Items: []Item{
			{Action: View, Label: "View details", Enabled: true},
			{Action: Results, Label: "View results", Enabled: s == status.Completed},
			{Action: Execute, Label: "Execute", Enabled: in(s, status.Created, status.Failed)},
			{Action: Remove, Label: "Remove", Enabled: s != status.Processing},
		},
	}
}

func disabled(items ...Item) Menu {
	return Menu{Status: status.Unknown, Items: items}
}
