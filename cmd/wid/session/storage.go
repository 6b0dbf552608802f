package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/opst/writerid/cmd/wid/config/open"
	"github.com/opst/writerid/pkg/utils/filewatch"
)

// Keys of the durable session.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is a durable key-value store for the session.
//
// Get returns ok=false for an absent key.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key string, value string) error
	Remove(keys ...string) error
}

// Watchable is a Storage which tells when the stored session is removed.
type Watchable interface {
	Storage

	// UntilCleared returns a context which is canceled when the token is removed.
	// The returned function stops watching.
	UntilCleared(ctx context.Context) (context.Context, func(), error)
}

// FileStorage keeps each key as a private file in a directory.
type FileStorage struct {
	dir string
}

var _ Watchable = &FileStorage{}

func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (fs *FileStorage) Dir() string {
	return fs.dir
}

func (fs *FileStorage) path(key string) string {
	return filepath.Join(fs.dir, key)
}

func (fs *FileStorage) Get(key string) (string, bool, error) {
	buf, err := os.ReadFile(fs.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(buf), true, nil
}

func (fs *FileStorage) Set(key string, value string) error {
	return open.WriteFile(fs.path(key), []byte(value))
}

func (fs *FileStorage) Remove(keys ...string) error {
	var errs []error
	for _, k := range keys {
		if err := os.Remove(fs.path(k)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UntilCleared returns a context which is canceled when the stored token is
// removed by someone, for example `wid logout` in another terminal.
func (fs *FileStorage) UntilCleared(ctx context.Context) (context.Context, func(), error) {
	if err := os.MkdirAll(fs.dir, os.FileMode(0700)); err != nil {
		return nil, nil, err
	}
	return filewatch.UntilContext(ctx, fs.dir, filewatch.RemovalOf(fs.path(KeyToken)))
}

// MemoryStorage is a Storage living in memory only.
type MemoryStorage struct {
	mu       sync.Mutex
	values   map[string]string
	watchers map[int]context.CancelCauseFunc
	nextId   int
}

var _ Watchable = &MemoryStorage{}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}, watchers: map[int]context.CancelCauseFunc{}}
}

func (ms *MemoryStorage) Get(key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	v, ok := ms.values[key]
	return v, ok, nil
}

func (ms *MemoryStorage) Set(key string, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.values[key] = value
	return nil
}

func (ms *MemoryStorage) Remove(keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, k := range keys {
		if _, ok := ms.values[k]; ok && k == KeyToken {
			for id, cancel := range ms.watchers {
				cancel(errors.New("token is removed"))
				delete(ms.watchers, id)
			}
		}
		delete(ms.values, k)
	}
	return nil
}

func (ms *MemoryStorage) UntilCleared(ctx context.Context) (context.Context, func(), error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cctx, cancel := context.WithCancelCause(ctx)
	id := ms.nextId
	ms.nextId++
	ms.watchers[id] = cancel
	return cctx, func() {
		ms.mu.Lock()
		defer ms.mu.Unlock()
		delete(ms.watchers, id)
		cancel(nil)
	}, nil
}
