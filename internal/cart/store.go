package cart

import (
	"errors"
	"sort"
	"sync"

	"ShopCore/pkg/kit"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Line references an item by ID; it does not own it. The item may have been
// soft-deleted since the line was added, or never exist at all.
type Line struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type Cart struct {
	ID    int64  `json:"id"`
	Lines []Line `json:"lines"`
}

// ListQuery paginates and filters List by total line quantity. Nil bounds
// mean unbounded; bounds are inclusive.
type ListQuery struct {
	Offset      int
	Limit       int
	MinQuantity *int
	MaxQuantity *int
}

type Store struct {
	mu  sync.RWMutex
	m   map[int64]Cart
	ids kit.Sequence
}

func NewStore() *Store {
	return &Store{m: make(map[int64]Cart)}
}

func (s *Store) Create() Cart {
	c := Cart{ID: s.ids.Next(), Lines: []Line{}}

	s.mu.Lock()
	s.m[c.ID] = c
	s.mu.Unlock()

	return c
}

func (s *Store) Get(id int64) (Cart, error) {
	s.mu.RLock()
	c, ok := s.m[id]
	s.mu.RUnlock()

	if !ok {
		return Cart{}, ErrNotFound
	}
	return clone(c), nil
}

func (s *Store) List(q ListQuery) ([]Cart, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	all := make([]Cart, 0, len(s.m))
	for _, c := range s.m {
		all = append(all, clone(c))
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	out := make([]Cart, 0, len(all))
	for _, c := range all {
		qty := c.TotalQuantity()
		if q.MinQuantity != nil && qty < *q.MinQuantity {
			continue
		}
		if q.MaxQuantity != nil && qty > *q.MaxQuantity {
			continue
		}
		out = append(out, c)
	}

	return kit.Paginate(out, q.Offset, q.Limit), nil
}

// AddLine bumps the quantity of the existing line for itemID, or appends a
// new line with quantity 1. One line per item per cart, in insertion order.
// The item itself is not validated here; the composition layer checks it
// before calling.
func (s *Store) AddLine(cartID, itemID int64) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.m[cartID]
	if !ok {
		return Cart{}, ErrNotFound
	}

	found := false
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		c.Lines = append(c.Lines, Line{ItemID: itemID, Quantity: 1})
	}

	s.m[cartID] = c
	return clone(c), nil
}

func (c Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// clone detaches the lines slice so callers never alias store-owned memory.
func clone(c Cart) Cart {
	out := c
	out.Lines = make([]Line, len(c.Lines))
	copy(out.Lines, c.Lines)
	return out
}
