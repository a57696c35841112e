package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/trimtime-pos/internal/application/background"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string
	Name string
}

func (i item) Key() string { return i.ID }

type fakeRemote struct {
	mu        sync.Mutex
	calls     []string
	rows      map[string]item
	failWrite error
}

func newFakeRemote(rows ...item) *fakeRemote {
	f := &fakeRemote{rows: map[string]item{}}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return f
}

func (f *fakeRemote) Delete(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete "+strings.Join(ids, ","))
	if f.failWrite != nil {
		return f.failWrite
	}
	for _, id := range ids {
		delete(f.rows, id)
	}
	return nil
}

func (f *fakeRemote) Upsert(ctx context.Context, items []item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.ID
	}
	f.calls = append(f.calls, "upsert "+strings.Join(keys, ","))
	if f.failWrite != nil {
		return f.failWrite
	}
	for _, it := range items {
		f.rows[it.ID] = it
	}
	return nil
}

func (f *fakeRemote) SelectAll(ctx context.Context) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []item
	for _, it := range f.rows {
		out = append(out, it)
	}
	return out, nil
}

func newTasks() *background.Tasks {
	return background.New(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestReconcile_DeleteThenUpsert(t *testing.T) {
	remote := newFakeRemote()
	tasks := newTasks()
	r := New[item]("services", remote, tasks)
	r.Local().Replace([]item{{ID: "1"}, {ID: "2"}})

	removed := r.Reconcile([]item{{ID: "2"}, {ID: "3"}})
	tasks.Wait()

	assert.Equal(t, []string{"1"}, removed)
	assert.Equal(t, []string{"delete 1", "upsert 2,3"}, remote.calls)
	assert.Equal(t, []item{{ID: "2"}, {ID: "3"}}, r.Local().All())
}

func TestReconcile_Idempotent(t *testing.T) {
	remote := newFakeRemote()
	tasks := newTasks()
	r := New[item]("customers", remote, tasks)

	next := []item{{ID: "a", Name: "Ann"}, {ID: "b", Name: "Bo"}}
	r.Reconcile(next)
	tasks.Wait()
	first := r.Local().All()

	removed := r.Reconcile(next)
	tasks.Wait()

	assert.Empty(t, removed)
	assert.Equal(t, first, r.Local().All())
	assert.Equal(t, []string{"upsert a,b", "upsert a,b"}, remote.calls)
	assert.Len(t, remote.rows, 2)
}

func TestReconcile_EmptyNext(t *testing.T) {
	remote := newFakeRemote()
	tasks := newTasks()
	r := New[item]("staff", remote, tasks)

	r.Reconcile(nil)
	tasks.Wait()
	assert.Empty(t, remote.calls)

	r.Local().Replace([]item{{ID: "x"}})
	r.Reconcile(nil)
	tasks.Wait()
	assert.Equal(t, []string{"delete x"}, remote.calls)
}

func TestReconcile_RemoteFailureKeepsLocal(t *testing.T) {
	remote := newFakeRemote()
	remote.failWrite = errors.New("offline")
	tasks := newTasks()
	r := New[item]("products", remote, tasks)
	r.Local().Replace([]item{{ID: "1"}})

	r.Reconcile([]item{{ID: "2"}})
	tasks.Wait()

	assert.Equal(t, []item{{ID: "2"}}, r.Local().All())
	assert.Equal(t, []string{"delete 1"}, remote.calls, "upsert is skipped after a failed delete")

	failures := tasks.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "products", failures[0].Collection)
	assert.ErrorContains(t, failures[0], "offline")
}

func TestReconcile_Load(t *testing.T) {
	remote := newFakeRemote(item{ID: "r1"})
	r := New[item]("services", remote, newTasks())

	require.NoError(t, r.Load(context.Background(), remote))
	got, ok := r.Local().Find("r1")
	assert.True(t, ok)
	assert.Equal(t, "r1", got.ID)
	assert.Empty(t, remote.calls)
}

func TestCollection_Update(t *testing.T) {
	c := NewCollection([]item{{ID: "p1", Name: "Pomade"}})

	ok := c.Update("p1", func(it *item) { it.Name = "Clay" })
	assert.True(t, ok)
	got, _ := c.Find("p1")
	assert.Equal(t, "Clay", got.Name)

	assert.False(t, c.Update("missing", func(it *item) {}))

	c.Append(item{ID: "p2"})
	assert.Equal(t, 2, c.Len())

	found, ok := c.FindFunc(func(it item) bool { return it.ID == "p2" })
	assert.True(t, ok)
	assert.Equal(t, "p2", found.ID)
}

func TestCollection_Remove(t *testing.T) {
	c := NewCollection([]item{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	before := c.All()

	assert.True(t, c.Remove("b"))
	assert.False(t, c.Remove("b"))
	assert.Equal(t, []item{{ID: "a"}, {ID: "c"}}, c.All())
	assert.Len(t, before, 3)
}

func TestRemovedKeys(t *testing.T) {
	prev := []item{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	next := []item{{ID: "3"}, {ID: "4"}}
	assert.Equal(t, []string{"1", "2"}, RemovedKeys(prev, next))
	assert.Empty(t, RemovedKeys(next, next))
}
