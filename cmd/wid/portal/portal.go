// Package portal is the interactive front end of wid.
//
// Pages share the state slices of the store package with one-shot commands.
// Each page renders its slice, then asks the operator what to do next:
// a page-local choice, an action of the selected entity, or a move to
// another page from the sidebar.
package portal

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/opst/writerid/cmd/wid/forms"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/ui"
	"github.com/rs/zerolog"
)

// errQuit stops the portal.
var errQuit = errors.New("quit")

const (
	choiceSignOut = "Sign out"
	choiceQuit    = "Quit"
	choiceBack    = "Back"
	choiceRefresh = "Refresh"
)

func goTo(r Route) string {
	return "Go to " + r.Title()
}

// Encoder reads the image at path as base64. Progress is written to progress.
type Encoder func(path string, progress io.Writer) (string, error)

type Portal struct {
	session  *session.Session
	prompter ui.Prompter
	out      *ui.Printer
	logger   zerolog.Logger
	encode   Encoder

	auth      *store.Auth
	dashboard *store.Dashboard
	datasets  *store.Datasets
	models    *store.Models
	tasks     *store.Tasks

	expired atomic.Bool

	// cleared is canceled when the stored session is removed. nil while signed out.
	cleared   context.Context
	stopWatch func()

	background sync.WaitGroup
}

type Option func(*Portal) *Portal

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Portal) *Portal {
		p.logger = logger
		return p
	}
}

func WithEncoder(encode Encoder) Option {
	return func(p *Portal) *Portal {
		p.encode = encode
		return p
	}
}

// New creates a portal.
//
// It takes over the navigator of sess: an expired session leads to the login page.
func New(client rest.Client, sess *session.Session, prompter ui.Prompter, out io.Writer, options ...Option) *Portal {
	p := &Portal{
		session:  sess,
		prompter: prompter,
		out:      ui.NewPrinter(out),
		logger:   zerolog.Nop(),
		encode:   forms.EncodeImage,
	}
	for _, opt := range options {
		p = opt(p)
	}

	p.auth = store.NewAuth(client, sess, p.logger)
	p.dashboard = store.NewDashboard(client, p.logger)
	p.datasets = store.NewDatasets(client, p.logger)
	p.models = store.NewModels(client, p.logger)
	p.tasks = store.NewTasks(client, p.logger)

	sess.SetNavigator(session.NavigatorFunc(func() { p.expired.Store(true) }))
	return p
}

type page func(ctx context.Context, nav Navigation) (Navigation, error)

func (p *Portal) page(r Route) page {
	switch r {
	case Login:
		return p.loginPage
	case Register:
		return p.registerPage
	case Datasets:
		return p.datasetsPage
	case Models:
		return p.modelsPage
	case Tasks:
		return p.tasksPage
	default:
		return p.dashboardPage
	}
}

// Run shows pages from start until the operator quits.
//
// Work started in background, like executing a created task, is waited before returning.
func (p *Portal) Run(ctx context.Context, start Navigation) error {
	defer p.background.Wait()
	defer p.auth.Close()
	defer p.unwatch()

	nav := start
	for {
		if ctx.Err() != nil {
			return nil
		}
		if p.expired.Swap(false) {
			p.out.Warning("session is expired. Please sign in again")
			nav = Navigation{To: Login}
		}

		authenticated := p.auth.Snapshot().IsAuthenticated
		if !authenticated {
			p.unwatch()
		} else if p.signedOutElsewhere() {
			p.unwatch()
			if err := p.auth.Logout(); err != nil {
				p.logger.Warn().Err(err).Msg("cannot clear session")
			}
			p.out.Warning("signed out by another wid")
			authenticated = false
		} else if p.cleared == nil {
			p.watch(ctx)
		}

		nav = Guard(nav, authenticated)
		p.out.Println()
		p.out.Bold("== %s ==", nav.To.Title())

		next, err := p.page(nav.To)(ctx, nav)
		if errors.Is(err, errQuit) || errors.Is(err, ui.ErrCanceled) {
			return nil
		}
		if err != nil {
			return err
		}
		nav = next
	}
}

func (p *Portal) watch(ctx context.Context) {
	cleared, stop, err := p.session.UntilCleared(ctx)
	if err != nil {
		p.logger.Debug().Err(err).Msg("session is not watched")
		return
	}
	p.cleared, p.stopWatch = cleared, stop
}

func (p *Portal) unwatch() {
	if p.stopWatch != nil {
		p.stopWatch()
	}
	p.cleared, p.stopWatch = nil, nil
}

func (p *Portal) signedOutElsewhere() bool {
	return p.cleared != nil && p.cleared.Err() != nil
}

// leaving tells whether the current page should give way to the login page.
func (p *Portal) leaving() bool {
	return p.expired.Load() || p.signedOutElsewhere()
}

// spawn runs f in background. Run waits for it before returning.
func (p *Portal) spawn(f func()) {
	p.background.Add(1)
	go func() {
		defer p.background.Done()
		f()
	}()
}

// choose asks the next step on the page here.
//
// Page-local choices come first, then the sidebar. When the operator picks
// the sidebar, nav is the destination and choice is "".
func (p *Portal) choose(here Route, local ...string) (choice string, nav *Navigation, err error) {
	options := slices.Clone(local)
	for _, r := range sidebar {
		if r != here {
			options = append(options, goTo(r))
		}
	}
	options = append(options, choiceSignOut, choiceQuit)

	choice, err = p.prompter.Select(here.Title(), options, "")
	if err != nil {
		return "", nil, err
	}
	switch choice {
	case choiceQuit:
		return "", nil, errQuit
	case choiceSignOut:
		if err := p.auth.Logout(); err != nil {
			p.logger.Warn().Err(err).Msg("cannot clear session")
		}
		p.out.Success("signed out")
		return "", &Navigation{To: Login}, nil
	}
	for _, r := range sidebar {
		if choice == goTo(r) {
			return "", &Navigation{To: r}, nil
		}
	}
	return choice, nil, nil
}

// pick asks one of labeled entities, and returns its id. "" means backing out.
func (p *Portal) pick(message string, labels []string, ids []string) (string, error) {
	if len(labels) == 0 {
		return "", nil
	}
	options := append(slices.Clone(labels), choiceBack)
	choice, err := p.prompter.Select(message, options, "")
	if err != nil {
		return "", err
	}
	i := slices.Index(labels, choice)
	if i < 0 {
		return "", nil
	}
	return ids[i], nil
}

// invalid shows rejected fields of a form.
func (p *Portal) invalid(err error) {
	var ie *forms.InvalidError
	if !errors.As(err, &ie) {
		p.out.Error("%s", err)
		return
	}
	for _, f := range ie.Fields {
		p.out.Error("%s: %s", f.Field, f.Message)
	}
}

// showError shows the last error of the collection, and forgets it.
func showError[E store.Entity[E]](p *Portal, c *store.Collection[E]) {
	if m := c.Snapshot().LastError; m != "" {
		p.out.Error("%s", m)
		c.ClearError()
	}
}
