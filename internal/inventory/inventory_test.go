package inventory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu    sync.Mutex
	items map[int64]map[string]int
	fail  error
}

func newMemStore() *memStore {
	return &memStore{items: make(map[int64]map[string]int)}
}

func (m *memStore) LoadItems(_ context.Context, userID int64) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	out := make(map[string]int)
	for k, v := range m.items[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) SaveItem(_ context.Context, userID int64, name string, num int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	if m.items[userID] == nil {
		m.items[userID] = make(map[string]int)
	}
	m.items[userID][name] = num
	return nil
}

func (m *memStore) get(userID int64, name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[userID][name]
}

var testCatalog = NewCatalog(
	Item{Name: "gun", WeaponID: 1, AmmoFor: -1},
	Item{Name: "bullet", WeaponID: -1, AmmoFor: 1},
	Item{Name: "heart", WeaponID: -1, AmmoFor: -1, Health: 1},
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startService(t *testing.T, store Store, queue int) *Service {
	t.Helper()
	s := NewService(testCatalog, store, queue, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Run(ctx)
	return s
}

// drainUntil applies completions until n have arrived.
func drainUntil(t *testing.T, s *Service, n int) []Completion {
	t.Helper()
	var got []Completion
	require.Eventually(t, func() bool {
		got = append(got, s.Drain()...)
		return len(got) >= n
	}, time.Second, 5*time.Millisecond)
	return got
}

func TestLoginLoadsInventory(t *testing.T) {
	store := newMemStore()
	store.items[42] = map[string]int{"bullet": 3, "gun": 1}
	s := startService(t, store, 0)

	s.Login(0, 42)
	got := drainUntil(t, s, 1)

	assert.Equal(t, RequestSync, got[0].Kind)
	assert.Equal(t, []Entry{{Name: "bullet", Num: 3}, {Name: "gun", Num: 1}}, s.Entries(0))
}

func TestStaleSyncIsDropped(t *testing.T) {
	store := newMemStore()
	store.items[42] = map[string]int{"bullet": 3}
	s := NewService(testCatalog, store, 0, quietLogger())

	s.Login(0, 42)
	// the client leaves before the load comes back
	s.Clear(0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	drainUntil(t, s, 1)

	assert.Empty(t, s.Entries(0))
}

func TestAddPersistsForLoggedInClients(t *testing.T) {
	store := newMemStore()
	store.items[42] = map[string]int{"bullet": 3}
	s := startService(t, store, 0)
	s.Login(0, 42)
	drainUntil(t, s, 1)

	s.Add(0, "bullet", 2)
	assert.Equal(t, 5, s.Count(0, "bullet"))
	drainUntil(t, s, 1)
	assert.Equal(t, 5, store.get(42, "bullet"))

	s.Add(0, "bullet", -9)
	assert.Zero(t, s.Count(0, "bullet"))
	drainUntil(t, s, 1)
	assert.Zero(t, store.get(42, "bullet"))
}

func TestGuestsStayInMemory(t *testing.T) {
	s := NewService(testCatalog, nil, 0, quietLogger())

	s.Add(3, "bullet", 4)
	s.Add(3, "nonsense", 1)

	assert.Equal(t, []Entry{{Name: "bullet", Num: 4}}, s.Entries(3))
	assert.False(t, s.Submit(Request{Kind: RequestSync, ClientID: 3}))
}

func TestSubmitNeverBlocks(t *testing.T) {
	s := NewService(testCatalog, newMemStore(), 1, quietLogger())

	assert.True(t, s.Submit(Request{Kind: RequestUpdate, UserID: 1, Item: "gun", Num: 1}))
	assert.False(t, s.Submit(Request{Kind: RequestUpdate, UserID: 1, Item: "gun", Num: 2}))
}

func TestFailedLoadKeepsInventory(t *testing.T) {
	store := newMemStore()
	store.fail = errors.New("db down")
	s := startService(t, store, 0)
	s.Add(0, "heart", 1)

	s.Login(0, 42)
	got := drainUntil(t, s, 1)

	require.Error(t, got[0].Err)
	assert.ErrorIs(t, got[0].Err, store.fail)
	assert.Equal(t, 1, s.Count(0, "heart"))
}

func TestBook(t *testing.T) {
	b := NewBook()
	assert.Equal(t, 2, b.Add(1, "log", 2))
	assert.Equal(t, 0, b.Add(1, "log", -5), "counts never go negative")
	assert.Empty(t, b.Entries(1))

	b.Replace(1, map[string]int{"b": 1, "a": 2, "gone": 0})
	assert.Equal(t, []Entry{{Name: "a", Num: 2}, {Name: "b", Num: 1}}, b.Entries(1))

	b.Clear(1)
	assert.Zero(t, b.Count(1, "a"))
}

func TestCatalog(t *testing.T) {
	assert.Equal(t, []string{"bullet", "gun", "heart"}, testCatalog.Names())
	assert.True(t, testCatalog.HasAmmo(1))
	assert.False(t, testCatalog.HasAmmo(0))

	it, ok := testCatalog.Lookup("heart")
	require.True(t, ok)
	assert.Equal(t, 1, it.Health)
	assert.Equal(t, "sync", RequestSync.String())
}
