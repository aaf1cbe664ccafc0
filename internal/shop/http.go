package shop

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ShopCore/internal/catalog"
	"ShopCore/pkg/kit"
)

type Server struct {
	Service *Service
	Log     *zap.Logger
}

type itemReq struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type itemPatchReq struct {
	Name  *string          `json:"name"`
	Price *decimal.Decimal `json:"price"`
}

const (
	maxBodyBytes = 1 << 20
	defaultLimit = 10
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/item", func(r chi.Router) {
		r.Post("/", s.createItem)
		r.Get("/", s.listItems)
		r.Get("/{id}", s.getItem)
		r.Put("/{id}", s.replaceItem)
		r.Patch("/{id}", s.patchItem)
		r.Delete("/{id}", s.deleteItem)
	})

	r.Route("/cart", func(r chi.Router) {
		r.Post("/", s.createCart)
		r.Get("/", s.listCarts)
		r.Get("/{id}", s.getCart)
		r.Post("/{id}/add/{itemID}", s.addToCart)
	})

	return r
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeJSON[itemReq](w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad json", nil)
		return
	}

	it, err := s.Service.CreateItem(req.Name, req.Price)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	kit.WriteCreated(w, fmt.Sprintf("/item/%d", it.ID), it)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad id", nil)
		return
	}

	it, err := s.Service.GetItem(id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	q, err := itemQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad query", nil)
		return
	}

	items, err := s.Service.ListItems(q)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, items)
}

func (s *Server) replaceItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad id", nil)
		return
	}

	req, err := decodeJSON[itemReq](w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad json", nil)
		return
	}

	it, err := s.Service.ReplaceItem(id, req.Name, req.Price)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) patchItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad id", nil)
		return
	}

	req, err := decodeJSON[itemPatchReq](w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad json", nil)
		return
	}

	it, err := s.Service.PatchItem(id, catalog.PatchUpdate{Name: req.Name, Price: req.Price})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, it)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad id", nil)
		return
	}

	s.Service.DeleteItem(id)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createCart(w http.ResponseWriter, r *http.Request) {
	v := s.Service.CreateCart()
	kit.WriteCreated(w, fmt.Sprintf("/cart/%d", v.ID), v)
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad id", nil)
		return
	}

	v, err := s.Service.GetCart(id)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) listCarts(w http.ResponseWriter, r *http.Request) {
	q, err := cartQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad query", nil)
		return
	}

	views, err := s.Service.ListCarts(q)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, views)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathID(r, "id")
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad cart id", nil)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "bad item id", nil)
		return
	}

	v, err := s.Service.AddItemToCart(cartID, itemID)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotModified):
		w.WriteHeader(http.StatusNotModified)
	case InvalidInput(err):
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "invalid input", nil)
	case NotFound(err):
		kit.WriteError(w, r, http.StatusNotFound, "not found", nil)
	default:
		if s.Log != nil {
			s.Log.Error("store operation failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return v, errors.New("extra data after json object")
	}

	return v, nil
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

func itemQuery(r *http.Request) (catalog.ListQuery, error) {
	q := catalog.ListQuery{}
	var err error

	if q.Offset, err = intQuery(r, "offset", 0); err != nil {
		return q, err
	}
	if q.Limit, err = intQuery(r, "limit", defaultLimit); err != nil {
		return q, err
	}
	if q.MinPrice, err = decimalQuery(r, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = decimalQuery(r, "max_price"); err != nil {
		return q, err
	}
	if q.ShowDeleted, err = boolQuery(r, "show_deleted"); err != nil {
		return q, err
	}

	return q, nil
}

func cartQuery(r *http.Request) (CartListQuery, error) {
	q := CartListQuery{}
	var err error

	if q.Offset, err = intQuery(r, "offset", 0); err != nil {
		return q, err
	}
	if q.Limit, err = intQuery(r, "limit", defaultLimit); err != nil {
		return q, err
	}
	if q.MinPrice, err = decimalQuery(r, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = decimalQuery(r, "max_price"); err != nil {
		return q, err
	}
	if q.MinQuantity, err = intPtrQuery(r, "min_quantity"); err != nil {
		return q, err
	}
	if q.MaxQuantity, err = intPtrQuery(r, "max_quantity"); err != nil {
		return q, err
	}

	return q, nil
}

func intQuery(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func intPtrQuery(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func decimalQuery(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func boolQuery(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
