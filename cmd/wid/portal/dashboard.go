package portal

import (
	"context"

	"github.com/opst/writerid/cmd/wid/subcommands/dashboard"
)

// Shortcuts of the dashboard, which open create dialogs of other pages.
const (
	shortcutTask    = "Create task"
	shortcutDataset = "Upload dataset"
	shortcutModel   = "Create model"
)

// dashboardPage fetches counters once per visit.
func (p *Portal) dashboardPage(ctx context.Context, nav Navigation) (Navigation, error) {
	if u := p.auth.Snapshot().User; u != nil {
		p.out.Info("Welcome, %s", u.DisplayName())
	}
	if err := p.dashboard.Fetch(ctx); err != nil {
		p.out.Error("%s", p.dashboard.Snapshot().Error)
	} else {
		dashboard.Print(p.out, p.dashboard.Snapshot().Stats)
	}
	if p.leaving() {
		return Navigation{To: Login}, nil
	}

	choice, next, err := p.choose(Dashboard, shortcutTask, shortcutDataset, shortcutModel, choiceRefresh)
	if err != nil {
		return nav, err
	}
	if next != nil {
		return *next, nil
	}
	switch choice {
	case shortcutTask:
		return Navigation{To: Tasks, OpenCreate: true}, nil
	case shortcutDataset:
		return Navigation{To: Datasets, OpenCreate: true}, nil
	case shortcutModel:
		return Navigation{To: Models, OpenCreate: true}, nil
	}
	return Navigation{To: Dashboard}, nil
}
