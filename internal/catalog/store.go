package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"ShopCore/pkg/kit"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNotModified  = errors.New("item deleted, not modified")
)

type Item struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Deleted bool            `json:"deleted"`
}

// ListQuery filters and paginates List. Nil price bounds mean unbounded;
// bounds are inclusive.
type ListQuery struct {
	Offset      int
	Limit       int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	ShowDeleted bool
}

// PatchUpdate carries the fields a Patch call sets. Nil fields are left
// untouched.
type PatchUpdate struct {
	Name  *string
	Price *decimal.Decimal
}

// Store holds all items for one process. Soft-deleted items stay in the map
// so cart lines referencing them keep resolving.
type Store struct {
	mu  sync.RWMutex
	m   map[int64]Item
	ids kit.Sequence
}

func NewStore() *Store {
	return &Store{m: make(map[int64]Item)}
}

func (s *Store) Create(name string, price decimal.Decimal) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" || price.IsNegative() {
		return Item{}, ErrInvalidInput
	}

	it := Item{ID: s.ids.Next(), Name: name, Price: price}

	s.mu.Lock()
	s.m[it.ID] = it
	s.mu.Unlock()

	return it, nil
}

// Get returns the item regardless of its deleted flag; callers that should
// not see soft-deleted items filter on Deleted themselves.
func (s *Store) Get(id int64) (Item, error) {
	s.mu.RLock()
	it, ok := s.m[id]
	s.mu.RUnlock()

	if !ok {
		return Item{}, ErrNotFound
	}
	return it, nil
}

func (s *Store) List(q ListQuery) ([]Item, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	all := make([]Item, 0, len(s.m))
	for _, it := range s.m {
		all = append(all, it)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	out := make([]Item, 0, len(all))
	for _, it := range all {
		if !q.ShowDeleted && it.Deleted {
			continue
		}
		if q.MinPrice != nil && it.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && it.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		out = append(out, it)
	}

	return kit.Paginate(out, q.Offset, q.Limit), nil
}

// Replace overwrites name and price. It never revives a soft-deleted item:
// replacing one fails with ErrNotFound, same as an absent ID.
func (s *Store) Replace(id int64, name string, price decimal.Decimal) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" || price.IsNegative() {
		return Item{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[id]
	if !ok || it.Deleted {
		return Item{}, ErrNotFound
	}

	it.Name = name
	it.Price = price
	s.m[id] = it
	return it, nil
}

// Patch updates only the fields set in upd. A soft-deleted item answers
// ErrNotModified, distinct from ErrNotFound for an absent one.
func (s *Store) Patch(id int64, upd PatchUpdate) (Item, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return Item{}, ErrInvalidInput
	}
	if upd.Price != nil && upd.Price.IsNegative() {
		return Item{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[id]
	if !ok {
		return Item{}, ErrNotFound
	}
	if it.Deleted {
		return Item{}, ErrNotModified
	}

	if upd.Name != nil {
		it.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Price != nil {
		it.Price = *upd.Price
	}
	s.m[id] = it
	return it, nil
}

// SoftDelete marks the item deleted. Idempotent: absent or already-deleted
// IDs are a no-op.
func (s *Store) SoftDelete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.m[id]
	if !ok || it.Deleted {
		return
	}
	it.Deleted = true
	s.m[id] = it
}
