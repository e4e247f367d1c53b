package storage

import (
	"context"
	"errors"
	"sync"

	"studentrecords/internal/model"
)

// SkipSave is returned by a Modify callback to finish without writing the
// table. Modify itself then returns nil.
var SkipSave = errors.New("skip save")

// LockedStore serializes access to a Store shared by concurrent callers.
// Readers share the lock; Save and Modify hold it exclusively.
type LockedStore struct {
	mu    sync.RWMutex
	store Store
}

func NewLockedStore(store Store) *LockedStore {
	return &LockedStore{store: store}
}

// Unwrap returns the underlying store.
func (l *LockedStore) Unwrap() Store { return l.store }

func (l *LockedStore) Load(ctx context.Context) ([]model.Student, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Load(ctx)
}

func (l *LockedStore) Save(ctx context.Context, students []model.Student) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Save(ctx, students)
}

// Modify runs one load, fn, save cycle with no other caller in between.
func (l *LockedStore) Modify(ctx context.Context, fn func([]model.Student) ([]model.Student, error)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return modify(ctx, l.store, fn)
}

// Modify loads the table, passes it to fn and saves what fn returns. When
// store is a LockedStore the whole cycle runs under its lock.
func Modify(ctx context.Context, store Store, fn func([]model.Student) ([]model.Student, error)) error {
	if l, ok := store.(*LockedStore); ok {
		return l.Modify(ctx, fn)
	}
	return modify(ctx, store, fn)
}

func modify(ctx context.Context, store Store, fn func([]model.Student) ([]model.Student, error)) error {
	students, err := store.Load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(students)
	if errors.Is(err, SkipSave) {
		return nil
	}
	if err != nil {
		return err
	}
	return store.Save(ctx, next)
}
