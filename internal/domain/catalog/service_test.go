package catalog_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspectxlol/uprak-pos/internal/domain/catalog"
	"github.com/aspectxlol/uprak-pos/internal/storage/memory"
)

type failingStore struct {
	catalog.Store
	saveErr error
}

func (s *failingStore) Save(ctx context.Context, products []catalog.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Store.Save(ctx, products)
}

func newService(t *testing.T, seed ...catalog.Product) *catalog.Service {
	t.Helper()
	svc, err := catalog.NewService(context.Background(), memory.New(seed...))
	require.NoError(t, err)
	return svc
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	p1, err := svc.Add(ctx, "Pencil", "2000")
	require.NoError(t, err)
	assert.EqualValues(t, 1, p1.ID)

	p2, err := svc.Add(ctx, "Eraser", "1500")
	require.NoError(t, err)
	assert.EqualValues(t, 2, p2.ID)

	assert.EqualValues(t, 3, svc.NextID())
}

func TestNewService_AllocatorFollowsMaxID(t *testing.T) {
	svc := newService(t,
		catalog.Product{ID: 3, Name: "Ruler", Price: decimal.NewFromInt(5000)},
		catalog.Product{ID: 7, Name: "Notebook", Price: decimal.NewFromInt(12000)},
	)

	p, err := svc.Add(context.Background(), "Pen", "3000")
	require.NoError(t, err)
	assert.EqualValues(t, 8, p.ID)
	assert.EqualValues(t, 9, svc.NextID())
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name      string
		prodName  string
		price     string
		wantField string
	}{
		{name: "empty name", prodName: "", price: "2000", wantField: "name"},
		{name: "blank name", prodName: "   ", price: "2000", wantField: "name"},
		{name: "zero price", prodName: "Pencil", price: "0", wantField: "price"},
		{name: "negative price", prodName: "Pencil", price: "-10", wantField: "price"},
		{name: "non-numeric price", prodName: "Pencil", price: "abc", wantField: "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t)

			_, err := svc.Add(context.Background(), tt.prodName, tt.price)

			var vErr *catalog.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)

			// No side effect on failure.
			assert.Empty(t, svc.List())
			assert.EqualValues(t, 1, svc.NextID())
		})
	}
}

func TestAdd_SaveFailureKeepsProductInMemory(t *testing.T) {
	store := &failingStore{Store: memory.New(), saveErr: errors.New("disk full")}
	svc, err := catalog.NewService(context.Background(), store)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "Pencil", "2000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save catalog")

	// The product stays in memory so a later save can retry.
	require.Len(t, svc.List(), 1)

	store.saveErr = nil
	p, err := svc.Add(context.Background(), "Eraser", "1500")
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.ID)
}

func TestEdit_NotFound(t *testing.T) {
	svc := newService(t)

	_, err := svc.Edit(context.Background(), 42, "Pen", "3000")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestEdit_BlankFieldsKeepValues(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "Pencil", "2000")
	require.NoError(t, err)

	result, err := svc.Edit(ctx, 1, "", "")
	require.NoError(t, err)
	assert.False(t, result.PriceIgnored)
	assert.Equal(t, "Pencil", result.Product.Name)
	assert.True(t, decimal.NewFromInt(2000).Equal(result.Product.Price))
}

func TestEdit_UpdatesNameAndPrice(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "Pencil", "2000")
	require.NoError(t, err)

	result, err := svc.Edit(ctx, 1, "Mechanical Pencil", "3500")
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Pencil", result.Product.Name)
	assert.True(t, decimal.NewFromInt(3500).Equal(result.Product.Price))
}

func TestEdit_InvalidPriceKeptLenient(t *testing.T) {
	// Unlike Add, an invalid price on Edit is not an error: the edit goes
	// through with the old price and the result flags it.
	tests := []struct {
		name  string
		price string
	}{
		{name: "non-numeric", price: "abc"},
		{name: "zero", price: "0"},
		{name: "negative", price: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t)
			ctx := context.Background()

			_, err := svc.Add(ctx, "Pencil", "2000")
			require.NoError(t, err)

			result, err := svc.Edit(ctx, 1, "Pen", tt.price)
			require.NoError(t, err)
			assert.True(t, result.PriceIgnored)
			assert.Equal(t, "Pen", result.Product.Name)
			assert.True(t, decimal.NewFromInt(2000).Equal(result.Product.Price))
		})
	}
}

func TestList_CreationOrder(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"Pencil", "Eraser", "Ruler"} {
		_, err := svc.Add(ctx, name, "1000")
		require.NoError(t, err)
	}

	products := svc.List()
	require.Len(t, products, 3)
	assert.Equal(t, "Pencil", products[0].Name)
	assert.Equal(t, "Eraser", products[1].Name)
	assert.Equal(t, "Ruler", products[2].Name)
}

func TestIDsStayUniqueAcrossAddEditSequences(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D"} {
		_, err := svc.Add(ctx, name, "100")
		require.NoError(t, err)
	}
	_, err := svc.Edit(ctx, 2, "B2", "200")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "E", "500")
	require.NoError(t, err)

	seen := map[int64]bool{}
	var maxID int64
	for _, p := range svc.List() {
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	assert.Equal(t, maxID+1, svc.NextID())
}
