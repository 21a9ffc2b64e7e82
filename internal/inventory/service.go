package inventory

import (
	"context"
	"fmt"
	"log/slog"
)

// Store persists inventories by account id.
type Store interface {
	LoadItems(ctx context.Context, userID int64) (map[string]int, error)
	SaveItem(ctx context.Context, userID int64, name string, num int) error
}

type RequestKind int

const (
	// RequestSync loads an account's items into a client's inventory.
	RequestSync RequestKind = iota
	// RequestUpdate writes one stack's new count.
	RequestUpdate
)

func (k RequestKind) String() string {
	switch k {
	case RequestSync:
		return "sync"
	case RequestUpdate:
		return "update"
	}
	return fmt.Sprintf("RequestKind(%d)", int(k))
}

type Request struct {
	Kind     RequestKind
	ClientID int
	UserID   int64
	Item     string
	Num      int
}

// Completion is the worker's answer to a Request. Items is only set for
// RequestSync.
type Completion struct {
	Request
	Items map[string]int
	Err   error
}

// Service is the inventory front the simulation talks to. All methods
// except Run must be called from the tick goroutine; persistence happens on
// the worker and comes back through Drain.
type Service struct {
	catalog     *Catalog
	book        *Book
	store       Store
	users       map[int]int64
	requests    chan Request
	completions chan Completion
	log         *slog.Logger
}

func NewService(catalog *Catalog, store Store, queueSize int, logger *slog.Logger) *Service {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog:     catalog,
		book:        NewBook(),
		store:       store,
		users:       make(map[int]int64),
		requests:    make(chan Request, queueSize),
		completions: make(chan Completion, queueSize),
		log:         logger,
	}
}

// Run executes requests against the store until ctx is done.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-s.requests:
			c := s.execute(ctx, req)
			select {
			case s.completions <- c:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Service) execute(ctx context.Context, req Request) Completion {
	c := Completion{Request: req}
	switch req.Kind {
	case RequestSync:
		items, err := s.store.LoadItems(ctx, req.UserID)
		if err != nil {
			c.Err = fmt.Errorf("load items of %d: %w", req.UserID, err)
			break
		}
		c.Items = items
	case RequestUpdate:
		if err := s.store.SaveItem(ctx, req.UserID, req.Item, req.Num); err != nil {
			c.Err = fmt.Errorf("save item %q of %d: %w", req.Item, req.UserID, err)
		}
	}
	return c
}

// Submit queues a request without blocking. It reports false when there is
// no store or the queue is full.
func (s *Service) Submit(req Request) bool {
	if s.store == nil {
		return false
	}
	select {
	case s.requests <- req:
		return true
	default:
		s.log.Warn("inventory queue full, dropping request", "kind", req.Kind, "client", req.ClientID)
		return false
	}
}

// Drain applies every completion that has arrived and returns them.
func (s *Service) Drain() []Completion {
	var out []Completion
	for {
		select {
		case c := <-s.completions:
			s.apply(c)
			out = append(out, c)
		default:
			return out
		}
	}
}

func (s *Service) apply(c Completion) {
	if c.Err != nil {
		s.log.Error("inventory request failed", "kind", c.Kind, "client", c.ClientID, "error", c.Err)
		return
	}
	if c.Kind != RequestSync {
		return
	}
	// the client may have left or logged into another account meanwhile
	if s.users[c.ClientID] != c.UserID {
		return
	}
	s.book.Replace(c.ClientID, c.Items)
	s.log.Debug("inventory synced", "client", c.ClientID, "user", c.UserID, "stacks", len(c.Items))
}

// Login binds a client to an account and requests its items.
func (s *Service) Login(clientID int, userID int64) {
	s.users[clientID] = userID
	s.Submit(Request{Kind: RequestSync, ClientID: clientID, UserID: userID})
}

func (s *Service) Entries(clientID int) []Entry { return s.book.Entries(clientID) }

func (s *Service) Count(clientID int, name string) int { return s.book.Count(clientID, name) }

func (s *Service) Item(name string) (Item, bool) { return s.catalog.Lookup(name) }

func (s *Service) HasAmmo(weapon int) bool { return s.catalog.HasAmmo(weapon) }

// Add changes a stack and persists the new count for logged-in clients.
func (s *Service) Add(clientID int, name string, delta int) {
	if _, ok := s.catalog.Lookup(name); !ok {
		return
	}
	n := s.book.Add(clientID, name, delta)
	if userID, ok := s.users[clientID]; ok && userID > 0 {
		s.Submit(Request{Kind: RequestUpdate, ClientID: clientID, UserID: userID, Item: name, Num: n})
	}
}

// Clear forgets a client's inventory in memory only.
func (s *Service) Clear(clientID int) {
	s.book.Clear(clientID)
	delete(s.users, clientID)
}
