package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Matcher selects the file events which should stop watching.
type Matcher func(fsnotify.Event) bool

// AnyEvent matches every event.
func AnyEvent(fsnotify.Event) bool { return true }

// RemovalOf matches removal or rename of the file at path.
func RemovalOf(path string) Matcher {
	return func(ev fsnotify.Event) bool {
		return ev.Name == path && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename))
	}
}

// UntilContext returns a context that is canceled when an event in dir
// satisfies match.
//
// # Args
//
// - ctx: parent context
//
// - dir: directory to be watched. It must exist.
//
// - match: selects events. Others are ignored.
//
// # Returns
//
// - context.Context: canceled on the first matching event. context.Cause tells which.
//
// - func(): stops watching.
//
// - error: error caused when it fails to start watching.
// If error is not nil, both of the context and the cancel function are nil.
func UntilContext(ctx context.Context, dir string, match Matcher) (context.Context, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, nil, err
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(fmt.Errorf("watching %s: %w", dir, err))
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if match(event) {
					cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op.String()))
					return
				}
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
