package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sangkips/trimtime-pos/internal/application/background"
)

// Remote is the write side of a remote collection.
type Remote[T any] interface {
	Delete(ctx context.Context, ids []string) error
	Upsert(ctx context.Context, items []T) error
}

// Source loads a remote collection.
type Source[T any] interface {
	SelectAll(ctx context.Context) ([]T, error)
}

// Reconciler owns one local collection and mirrors every replacement to the
// remote store with a delete of the removed keys followed by an upsert of
// the full next list.
type Reconciler[T Keyed] struct {
	name   string
	local  *Collection[T]
	remote Remote[T]
	tasks  *background.Tasks
}

func New[T Keyed](name string, remote Remote[T], tasks *background.Tasks) *Reconciler[T] {
	return &Reconciler[T]{
		name:   name,
		local:  NewCollection[T](nil),
		remote: remote,
		tasks:  tasks,
	}
}

// Name is the collection name used in logs and metrics.
func (r *Reconciler[T]) Name() string { return r.name }

// Local exposes the snapshot for reads and in-place updates.
func (r *Reconciler[T]) Local() *Collection[T] { return r.local }

// Load replaces the local snapshot with the remote contents without writing back.
func (r *Reconciler[T]) Load(ctx context.Context, src Source[T]) error {
	items, err := src.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", r.name, err)
	}
	r.local.Replace(items)
	slog.Info("collection loaded", "collection", r.name, "count", len(items))
	return nil
}

// Reconcile makes next the local state and schedules the remote convergence.
// It returns the keys that were removed. Remote failures leave local state as is.
func (r *Reconciler[T]) Reconcile(next []T) []string {
	prev := r.local.Replace(next)
	removed := RemovedKeys(prev, next)

	if len(removed) == 0 && len(next) == 0 {
		return removed
	}

	upserts := append([]T(nil), next...)
	ids := append([]string(nil), removed...)
	for _, it := range upserts {
		ids = append(ids, it.Key())
	}

	r.tasks.Go(r.name, "reconcile", ids, func(ctx context.Context) error {
		if len(removed) > 0 {
			if err := r.remote.Delete(ctx, removed); err != nil {
				return fmt.Errorf("delete: %w", err)
			}
		}
		if len(upserts) > 0 {
			if err := r.remote.Upsert(ctx, upserts); err != nil {
				return fmt.Errorf("upsert: %w", err)
			}
		}
		return nil
	})
	return removed
}

// RemovedKeys returns the keys present in prev but absent from next, in prev order.
func RemovedKeys[T Keyed](prev, next []T) []string {
	keep := make(map[string]struct{}, len(next))
	for _, it := range next {
		keep[it.Key()] = struct{}{}
	}
	var removed []string
	for _, it := range prev {
		if _, ok := keep[it.Key()]; !ok {
			removed = append(removed, it.Key())
		}
	}
	return removed
}
