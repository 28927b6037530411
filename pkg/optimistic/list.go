// Package optimistic keeps a client-side copy of a parent-scoped entity list
// and applies edits to it before the backend confirms them.
package optimistic

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/robocore-nitk/club-admin/pkg/logging"
	"github.com/robocore-nitk/club-admin/pkg/serrors"
)

var (
	ErrNotFound   = serrors.NewError("OPTIMISTIC_NOT_FOUND", "item not found in list", "")
	ErrSuperseded = serrors.NewError("OPTIMISTIC_SUPERSEDED", "load superseded by a newer load", "")
	ErrNoParent   = serrors.NewError("OPTIMISTIC_NO_PARENT", "list has not been loaded", "")
)

// Fetch loads every item belonging to parent.
type Fetch[T any, ID comparable] func(ctx context.Context, parent ID) ([]T, error)

type options struct {
	revertByRefetch bool
	log             *logrus.Logger
	name            string
}

type Option func(*options)

// WithRevertByRefetch reloads the whole list after a failed mutation instead
// of restoring the item's previous value.
func WithRevertByRefetch() Option {
	return func(o *options) {
		o.revertByRefetch = true
	}
}

func WithLogger(log *logrus.Logger, name string) Option {
	return func(o *options) {
		o.log = log
		o.name = name
	}
}

type List[T any, ID comparable] struct {
	mu        sync.Mutex
	fetch     Fetch[T, ID]
	idOf      func(T) ID
	opts      options
	log       *logrus.Entry
	items     []T
	parent    ID
	hasParent bool
	// gen increases on every load so late responses can be told apart.
	gen       uint64
	cancel    context.CancelFunc
	listeners []func([]T)
}

func New[T any, ID comparable](idOf func(T) ID, fetch Fetch[T, ID], opts ...Option) *List[T, ID] {
	o := options{log: logging.Discard(), name: "list"}
	for _, opt := range opts {
		opt(&o)
	}
	return &List[T, ID]{
		fetch: fetch,
		idOf:  idOf,
		opts:  o,
		log:   o.log.WithField("list", o.name),
	}
}

// Load replaces the list with parent's items. A newer Load cancels this one;
// if that happens, ErrSuperseded is returned and the list is left alone.
func (l *List[T, ID]) Load(ctx context.Context, parent ID) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.parent = parent
	l.hasParent = true
	l.mu.Unlock()
	defer cancel()

	items, err := l.fetch(ctx, parent)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		l.log.WithField("generation", gen).Debug("dropping superseded load")
		return ErrSuperseded
	}
	l.cancel = nil
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.items = append([]T(nil), items...)
	snapshot, listeners := l.snapshotLocked()
	l.mu.Unlock()

	notify(listeners, snapshot)
	return nil
}

// Reload loads the current parent again.
func (l *List[T, ID]) Reload(ctx context.Context) error {
	parent, ok := l.Parent()
	if !ok {
		return ErrNoParent
	}
	return l.Load(ctx, parent)
}

// Reset cancels any load in flight and empties the list.
func (l *List[T, ID]) Reset() {
	l.mu.Lock()
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	var zero ID
	l.parent = zero
	l.hasParent = false
	l.items = nil
	snapshot, listeners := l.snapshotLocked()
	l.mu.Unlock()

	notify(listeners, snapshot)
}

// Mutate applies the edit locally, then commits it. On success the item is
// replaced by the committed value; on failure the previous value is restored
// (or the list reloaded, with WithRevertByRefetch). If a Load completed in
// between, the loaded state is kept either way.
func (l *List[T, ID]) Mutate(ctx context.Context, id ID, apply func(T) T, commit func(ctx context.Context, updated T) (T, error)) error {
	l.mu.Lock()
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return ErrNotFound
	}
	gen := l.gen
	before := l.items[idx]
	updated := apply(before)
	l.items[idx] = updated
	snapshot, listeners := l.snapshotLocked()
	l.mu.Unlock()
	notify(listeners, snapshot)

	saved, err := commit(ctx, updated)
	if err != nil {
		l.log.WithError(err).WithField("id", id).Warn("mutation rejected, reverting")
		if l.opts.revertByRefetch {
			if reloadErr := l.Reload(context.WithoutCancel(ctx)); reloadErr != nil && !errors.Is(reloadErr, ErrSuperseded) {
				return errors.Join(err, reloadErr)
			}
			return err
		}
		l.replace(gen, id, before)
		return err
	}
	l.replace(gen, id, saved)
	return nil
}

// Create commits a new item and then reloads the list.
func (l *List[T, ID]) Create(ctx context.Context, commit func(ctx context.Context) error) error {
	if err := commit(ctx); err != nil {
		return err
	}
	return l.reloadAfterWrite(ctx)
}

// Remove deletes an item and then reloads the list. Callers gate it behind an
// explicit confirmation.
func (l *List[T, ID]) Remove(ctx context.Context, id ID, commit func(ctx context.Context, id ID) error) error {
	if err := commit(ctx, id); err != nil {
		return err
	}
	return l.reloadAfterWrite(ctx)
}

func (l *List[T, ID]) reloadAfterWrite(ctx context.Context) error {
	err := l.Reload(ctx)
	if errors.Is(err, ErrSuperseded) || errors.Is(err, ErrNoParent) {
		return nil
	}
	return err
}

func (l *List[T, ID]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *List[T, ID]) Find(id ID) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx := l.indexLocked(id); idx >= 0 {
		return l.items[idx], true
	}
	var zero T
	return zero, false
}

func (l *List[T, ID]) Parent() (ID, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.parent, l.hasParent
}

func (l *List[T, ID]) OnChange(fn func([]T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

func (l *List[T, ID]) replace(gen uint64, id ID, item T) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return
	}
	idx := l.indexLocked(id)
	if idx < 0 {
		l.mu.Unlock()
		return
	}
	l.items[idx] = item
	snapshot, listeners := l.snapshotLocked()
	l.mu.Unlock()
	notify(listeners, snapshot)
}

func (l *List[T, ID]) indexLocked(id ID) int {
	for i, item := range l.items {
		if l.idOf(item) == id {
			return i
		}
	}
	return -1
}

func (l *List[T, ID]) snapshotLocked() ([]T, []func([]T)) {
	return slices.Clone(l.items), slices.Clone(l.listeners)
}

// notify gives every listener its own copy of items.
func notify[T any](listeners []func([]T), items []T) {
	for _, fn := range listeners {
		fn(slices.Clone(items))
	}
}
