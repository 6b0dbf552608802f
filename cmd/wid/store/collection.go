package store

import (
	"context"
	"slices"
	"sync"

	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/rs/zerolog"
)

// Entity is a resource kept in a Collection.
type Entity[E any] interface {
	// Key identifies the entity.
	Key() string

	// WithStatus returns a copy of the entity in status s.
	WithStatus(s status.Status) E
}

// FallbackMessage is LastError of a failure the server did not explain.
const FallbackMessage = "something went wrong"

// State is a snapshot of a Collection.
type State[E any] struct {
	Items []E

	// Current is the entity fetched in detail most recently.
	Current *E

	IsLoading bool

	// IsActing is true while a state-changing action is in flight.
	IsActing bool

	// LastError is the message of the last failure. "" means no error.
	LastError string

	Total int
}

// Collection is the client-side state of a remote list of entities.
//
// Each operation goes through the same lifecycle: on dispatch a flag is
// raised and LastError is cleared; on success the state is updated and the
// flag is lowered; on failure LastError is set and the flag is lowered,
// leaving items untouched.
//
// Overlapping operations are allowed. The last response wins.
type Collection[E Entity[E]] struct {
	name   string
	logger zerolog.Logger

	mu    sync.Mutex
	state State[E]
}

func NewCollection[E Entity[E]](name string, logger zerolog.Logger) *Collection[E] {
	return &Collection[E]{
		name:   name,
		logger: logger.With().Str("collection", name).Logger(),
		state:  State[E]{Items: []E{}},
	}
}

// Snapshot returns a copy of the current state.
func (c *Collection[E]) Snapshot() State[E] {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Items = slices.Clone(c.state.Items)
	if c.state.Current != nil {
		cur := *c.state.Current
		s.Current = &cur
	}
	return s
}

// Find returns the item with the key, if listed.
func (c *Collection[E]) Find(key string) (E, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if item.Key() == key {
			return item, true
		}
	}
	return *new(E), false
}

// ClearError forgets LastError.
func (c *Collection[E]) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastError = ""
}

func (c *Collection[E]) begin(acting bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if acting {
		c.state.IsActing = true
	} else {
		c.state.IsLoading = true
	}
	c.state.LastError = ""
}

func (c *Collection[E]) succeed(acting bool, update func(*State[E])) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if update != nil {
		update(&c.state)
	}
	if acting {
		c.state.IsActing = false
	} else {
		c.state.IsLoading = false
	}
}

func (c *Collection[E]) fail(acting bool, op string, err error) {
	message := rest.ServerMessage(err)
	if message == "" {
		message = FallbackMessage
	}
	c.logger.Debug().Str("op", op).Err(err).Msg("failed")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.LastError = message
	if acting {
		c.state.IsActing = false
	} else {
		c.state.IsLoading = false
	}
}

// FetchAll replaces items with the fetched page.
func (c *Collection[E]) FetchAll(
	ctx context.Context, fetch func(context.Context) (rest.Page[E], error),
) error {
	c.begin(false)
	page, err := fetch(ctx)
	if err != nil {
		c.fail(false, "fetch-all", err)
		return err
	}
	c.succeed(false, func(s *State[E]) {
		s.Items = slices.Clone(page.Items)
		if s.Items == nil {
			s.Items = []E{}
		}
		s.Total = page.Total
	})
	return nil
}

// FetchOne sets the fetched entity as Current, and refreshes it in items.
func (c *Collection[E]) FetchOne(
	ctx context.Context, fetch func(context.Context) (E, error),
) (E, error) {
	c.begin(false)
	e, err := fetch(ctx)
	if err != nil {
		c.fail(false, "fetch-one", err)
		return *new(E), err
	}
	c.succeed(false, func(s *State[E]) {
		cur := e
		s.Current = &cur
		if i := indexOf(s.Items, e.Key()); 0 <= i {
			s.Items[i] = e
		}
	})
	return e, nil
}

// Create prepends the created entity.
//
// An entity already listed is replaced in place, and Total is kept.
func (c *Collection[E]) Create(
	ctx context.Context, create func(context.Context) (E, error),
) (E, error) {
	c.begin(false)
	e, err := create(ctx)
	if err != nil {
		c.fail(false, "create", err)
		return *new(E), err
	}
	c.succeed(false, func(s *State[E]) {
		if i := indexOf(s.Items, e.Key()); 0 <= i {
			s.Items[i] = e
			return
		}
		s.Items = append([]E{e}, s.Items...)
		s.Total++
	})
	return e, nil
}

// Delete removes the entity with key.
//
// Total is decremented only when an item is removed.
func (c *Collection[E]) Delete(
	ctx context.Context, key string, del func(context.Context) error,
) error {
	c.begin(false)
	if err := del(ctx); err != nil {
		c.fail(false, "delete", err)
		return err
	}
	c.succeed(false, func(s *State[E]) {
		if i := indexOf(s.Items, key); 0 <= i {
			s.Items = slices.Delete(s.Items, i, i+1)
			if 0 < s.Total {
				s.Total--
			}
		}
		if s.Current != nil && (*s.Current).Key() == key {
			s.Current = nil
		}
	})
	return nil
}

// Act runs a state-changing action on the entity with key.
//
// On success, the entity is moved to status `to` without refetching.
// The next FetchAll is authoritative.
func (c *Collection[E]) Act(
	ctx context.Context, key string, act func(context.Context) error, to status.Status,
) error {
	c.begin(true)
	if err := act(ctx); err != nil {
		c.fail(true, "act", err)
		return err
	}
	c.succeed(true, func(s *State[E]) {
		if i := indexOf(s.Items, key); 0 <= i {
			s.Items[i] = s.Items[i].WithStatus(to)
		}
		if s.Current != nil && (*s.Current).Key() == key {
			cur := (*s.Current).WithStatus(to)
			s.Current = &cur
		}
	})
	return nil
}

// Load runs a read which does not change items, like fetching results.
//
// It follows the lifecycle with IsLoading.
func Load[E Entity[E], T any](
	ctx context.Context, c *Collection[E], fetch func(context.Context) (T, error),
) (T, error) {
	c.begin(false)
	v, err := fetch(ctx)
	if err != nil {
		c.fail(false, "load", err)
		return *new(T), err
	}
	c.succeed(false, nil)
	return v, nil
}

// Perform runs an action which does not change items, like issuing an URL.
//
// It follows the lifecycle with IsActing.
func Perform[E Entity[E], T any](
	ctx context.Context, c *Collection[E], act func(context.Context) (T, error),
) (T, error) {
	c.begin(true)
	v, err := act(ctx)
	if err != nil {
		c.fail(true, "perform", err)
		return *new(T), err
	}
	c.succeed(true, nil)
	return v, nil
}

func indexOf[E Entity[E]](items []E, key string) int {
	return slices.IndexFunc(items, func(e E) bool { return e.Key() == key })
}
