package portal

import "slices"

// Route names a page of the portal.
type Route string

const (
	Login     Route = "login"
	Register  Route = "register"
	Dashboard Route = "dashboard"
	Datasets  Route = "datasets"
	Models    Route = "models"
	Tasks     Route = "tasks"
)

// Routes are all pages, in the order of the routing table.
var Routes = []Route{Login, Register, Dashboard, Datasets, Models, Tasks}

// sidebar lists pages which signed-in operators can move to.
var sidebar = []Route{Dashboard, Datasets, Models, Tasks}

// Public tells whether the page can be visited without signing in.
func (r Route) Public() bool {
	return r == Login || r == Register
}

func (r Route) Title() string {
	switch r {
	case Login:
		return "Sign in"
	case Register:
		return "Create an account"
	case Dashboard:
		return "Dashboard"
	case Datasets:
		return "Datasets"
	case Models:
		return "Models"
	case Tasks:
		return "Tasks"
	}
	return string(r)
}

// Navigation is a move to a page.
//
// Fields other than To are transient: they are read once by the destination.
type Navigation struct {
	To Route

	// OpenCreate opens the create dialog of the destination at once.
	OpenCreate bool

	// Select is the id of the entity to be selected at the destination.
	Select string
}

// Guard redirects a navigation by the signed-in state.
//
// Unknown routes go to the dashboard. Signed-out operators are sent to the
// login page, and signed-in operators never see login nor register pages.
func Guard(nav Navigation, authenticated bool) Navigation {
	if !slices.Contains(Routes, nav.To) {
		nav = Navigation{To: Dashboard}
	}
	switch {
	case !authenticated && !nav.To.Public():
		return Navigation{To: Login}
	case authenticated && nav.To.Public():
		return Navigation{To: Dashboard}
	}
	return nav
}
