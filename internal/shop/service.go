package shop

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"ShopCore/internal/cart"
	"ShopCore/internal/catalog"
	"ShopCore/pkg/kit"
)

// CartLineView is one line of a cart joined with live item data. Lines
// whose item was soft-deleted (or never stored) render with Available
// false; a missing item also renders with an empty name.
type CartLineView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
}

// CartView is a read-time projection, rebuilt from current item state on
// every call and never stored.
type CartView struct {
	ID    int64           `json:"id"`
	Items []CartLineView  `json:"items"`
	Price decimal.Decimal `json:"price"`
}

// CartListQuery filters ListCarts. Quantity bounds are pushed down to the
// cart store; price bounds apply to the assembled views.
type CartListQuery struct {
	Offset      int
	Limit       int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinQuantity *int
	MaxQuantity *int
}

// Service is the composition root callers go through. It owns the lock
// discipline across the two stores: never more than one store's lock at a
// time, so the item existence check in AddItemToCart is a snapshot. An item
// soft-deleted right after that check still lands in the cart as a line and
// shows up unavailable on the next read, which is the documented behavior
// for cart lines (they are references, not copies).
type Service struct {
	items *catalog.Store
	carts *cart.Store
}

func NewService(items *catalog.Store, carts *cart.Store) *Service {
	return &Service{items: items, carts: carts}
}

func (s *Service) CreateItem(name string, price decimal.Decimal) (catalog.Item, error) {
	return s.items.Create(name, price)
}

// GetItem hides soft-deleted items: a deleted item is logically gone from
// the catalog, so it answers ErrNotFound just like an absent one.
func (s *Service) GetItem(id int64) (catalog.Item, error) {
	it, err := s.items.Get(id)
	if err != nil {
		return catalog.Item{}, err
	}
	if it.Deleted {
		return catalog.Item{}, catalog.ErrNotFound
	}
	return it, nil
}

func (s *Service) ListItems(q catalog.ListQuery) ([]catalog.Item, error) {
	return s.items.List(q)
}

func (s *Service) ReplaceItem(id int64, name string, price decimal.Decimal) (catalog.Item, error) {
	return s.items.Replace(id, name, price)
}

func (s *Service) PatchItem(id int64, upd catalog.PatchUpdate) (catalog.Item, error) {
	return s.items.Patch(id, upd)
}

func (s *Service) DeleteItem(id int64) {
	s.items.SoftDelete(id)
}

func (s *Service) CreateCart() CartView {
	return s.view(s.carts.Create())
}

func (s *Service) GetCart(id int64) (CartView, error) {
	c, err := s.carts.Get(id)
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

// AddItemToCart checks the item exists and is not deleted, then adds the
// line. The check and the mutation take their store locks one after the
// other, never nested.
func (s *Service) AddItemToCart(cartID, itemID int64) (CartView, error) {
	it, err := s.items.Get(itemID)
	if err != nil {
		return CartView{}, err
	}
	if it.Deleted {
		return CartView{}, catalog.ErrNotFound
	}

	c, err := s.carts.AddLine(cartID, itemID)
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

// ListCarts narrows candidates by quantity at the store, then assembles
// views, filters those by price, and paginates the filtered result. The
// store-level quantity filter is an optimization; correctness is defined on
// the assembled views.
func (s *Service) ListCarts(q CartListQuery) ([]CartView, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return nil, cart.ErrInvalidInput
	}

	candidates, err := s.carts.List(cart.ListQuery{
		Offset:      0,
		Limit:       math.MaxInt,
		MinQuantity: q.MinQuantity,
		MaxQuantity: q.MaxQuantity,
	})
	if err != nil {
		return nil, err
	}

	views := make([]CartView, 0, len(candidates))
	for _, c := range candidates {
		v := s.view(c)
		if q.MinPrice != nil && v.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && v.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		views = append(views, v)
	}

	return kit.Paginate(views, q.Offset, q.Limit), nil
}

// view joins a cart's lines with current item state. Only live items
// contribute to the total; unavailable lines keep their quantity so the
// cart's composition stays visible.
func (s *Service) view(c cart.Cart) CartView {
	v := CartView{ID: c.ID, Items: make([]CartLineView, 0, len(c.Lines)), Price: decimal.Zero}

	for _, l := range c.Lines {
		lv := CartLineView{ID: l.ItemID, Quantity: l.Quantity}

		it, err := s.items.Get(l.ItemID)
		if err == nil {
			lv.Name = it.Name
			lv.Available = !it.Deleted
		}
		if err == nil && !it.Deleted {
			v.Price = v.Price.Add(it.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}

		v.Items = append(v.Items, lv)
	}

	return v
}

// NotFound reports whether err is either store's not-found sentinel.
func NotFound(err error) bool {
	return errors.Is(err, catalog.ErrNotFound) || errors.Is(err, cart.ErrNotFound)
}

// InvalidInput reports whether err is either store's validation sentinel.
func InvalidInput(err error) bool {
	return errors.Is(err, catalog.ErrInvalidInput) || errors.Is(err, cart.ErrInvalidInput)
}
