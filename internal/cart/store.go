package cart

import (
	"context"
	"sync"

	"github.com/XylonMarkLabs/justpos-backend/internal/models"
)

// Store is the remote cart mirror, one cart per username. Every mutation
// returns the cart as the store now holds it, so callers apply the
// authoritative state instead of an optimistic local merge.
type Store interface {
	Get(ctx context.Context, username string) (*Cart, error)
	Add(ctx context.Context, username string, p models.Product) (*Cart, error)
	UpdateQuantity(ctx context.Context, username, code string, quantity int) (*Cart, error)
	Remove(ctx context.Context, username, code string) (*Cart, error)
	Clear(ctx context.Context, username string) error
}

// MemoryStore keeps carts in process memory. It is the fallback when no
// REDIS_ADDR is configured and the fixture for handler tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]*Cart)}
}

func (s *MemoryStore) load(username string) *Cart {
	if c, ok := s.carts[username]; ok {
		return c
	}
	c := New(username)
	s.carts[username] = c
	return c
}

func (s *MemoryStore) Get(ctx context.Context, username string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(username).Clone(), nil
}

func (s *MemoryStore) Add(ctx context.Context, username string, p models.Product) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(username)
	if err := c.AddItem(p, 1); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

func (s *MemoryStore) UpdateQuantity(ctx context.Context, username, code string, quantity int) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(username)
	if err := c.UpdateQuantity(code, quantity); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

func (s *MemoryStore) Remove(ctx context.Context, username, code string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(username)
	c.RemoveItem(code)
	return c.Clone(), nil
}

func (s *MemoryStore) Clear(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(username).Clear()
	return nil
}
