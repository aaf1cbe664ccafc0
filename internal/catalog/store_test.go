package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func TestCreateValidation(t *testing.T) {
	s := NewStore()

	_, err := s.Create("", price("10"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Create("   ", price("10"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Create("Book", price("-0.01"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	it, err := s.Create("Book", price("0"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), it.ID)
	assert.False(t, it.Deleted)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s := NewStore()

	for i := int64(1); i <= 5; i++ {
		it, err := s.Create("Book", price("10"))
		require.NoError(t, err)
		assert.Equal(t, i, it.ID)
	}
}

func TestConcurrentCreateUniqueIDs(t *testing.T) {
	s := NewStore()

	const n = 100
	ids := make(chan int64, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			it, err := s.Create(uuid.NewString(), price("1"))
			if err != nil {
				return err
			}
			ids <- it.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())
	close(ids)

	seen := make(map[int64]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)

	items, err := s.List(ListQuery{Limit: n * 2})
	require.NoError(t, err)
	assert.Len(t, items, n)
}

func TestGetRegardlessOfDeleted(t *testing.T) {
	s := NewStore()

	it, err := s.Create("Book", price("20"))
	require.NoError(t, err)

	s.SoftDelete(it.ID)

	got, err := s.Get(it.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, "Book", got.Name)

	_, err = s.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFiltersAndPagination(t *testing.T) {
	s := NewStore()

	for _, p := range []string{"5", "15", "25"} {
		_, err := s.Create("item-"+p, price(p))
		require.NoError(t, err)
	}

	items, err := s.List(ListQuery{Limit: 10, MinPrice: pricePtr("10"), MaxPrice: pricePtr("20")})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Price.Equal(price("15")))

	// bounds are inclusive
	items, err = s.List(ListQuery{Limit: 10, MinPrice: pricePtr("5"), MaxPrice: pricePtr("25")})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = s.List(ListQuery{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)

	items, err = s.List(ListQuery{Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListValidatesOffsetLimit(t *testing.T) {
	s := NewStore()

	_, err := s.List(ListQuery{Limit: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.List(ListQuery{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.List(ListQuery{Offset: -1, Limit: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListHidesDeletedByDefault(t *testing.T) {
	s := NewStore()

	a, err := s.Create("a", price("1"))
	require.NoError(t, err)
	_, err = s.Create("b", price("2"))
	require.NoError(t, err)

	s.SoftDelete(a.ID)

	items, err := s.List(ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Name)

	items, err = s.List(ListQuery{Limit: 10, ShowDeleted: true})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestReplace(t *testing.T) {
	s := NewStore()

	it, err := s.Create("Book", price("20"))
	require.NoError(t, err)

	got, err := s.Replace(it.ID, "Notebook", price("5"))
	require.NoError(t, err)
	assert.Equal(t, "Notebook", got.Name)
	assert.True(t, got.Price.Equal(price("5")))
	assert.False(t, got.Deleted)

	_, err = s.Replace(999, "x", price("1"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Replace(it.ID, "", price("1"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplaceNeverRevives(t *testing.T) {
	s := NewStore()

	it, err := s.Create("Book", price("20"))
	require.NoError(t, err)
	s.SoftDelete(it.ID)

	_, err = s.Replace(it.ID, "Book v2", price("30"))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Get(it.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
	assert.Equal(t, "Book", got.Name)
}

func TestPatchPartialUpdate(t *testing.T) {
	s := NewStore()

	it, err := s.Create("Book", price("20"))
	require.NoError(t, err)

	got, err := s.Patch(it.ID, PatchUpdate{Name: strPtr("Novel")})
	require.NoError(t, err)
	assert.Equal(t, "Novel", got.Name)
	assert.True(t, got.Price.Equal(price("20")))

	got, err = s.Patch(it.ID, PatchUpdate{Price: pricePtr("25")})
	require.NoError(t, err)
	assert.Equal(t, "Novel", got.Name)
	assert.True(t, got.Price.Equal(price("25")))

	// empty patch returns the record unchanged
	got, err = s.Patch(it.ID, PatchUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Novel", got.Name)

	_, err = s.Patch(it.ID, PatchUpdate{Price: pricePtr("-1")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPatchMissingVsDeleted(t *testing.T) {
	s := NewStore()

	it, err := s.Create("Book", price("20"))
	require.NoError(t, err)
	s.SoftDelete(it.ID)

	_, err = s.Patch(it.ID, PatchUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotModified)

	_, err = s.Patch(999, PatchUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSoftDeleteIdempotent(t *testing.T) {
	s := NewStore()

	it, err := s.Create("Book", price("20"))
	require.NoError(t, err)

	s.SoftDelete(it.ID)
	s.SoftDelete(it.ID)
	s.SoftDelete(999)

	got, err := s.Get(it.ID)
	require.NoError(t, err)
	assert.True(t, got.Deleted)
}
