package cart

import (
	"context"
	"testing"

	"ftour-be/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Product(id string) (catalog.Product, error) {
	args := m.Called(id)
	return args.Get(0).(catalog.Product), args.Error(1)
}

func newTestService() (Service, *MockCatalog) {
	cat := new(MockCatalog)
	return NewService(NewRegistry(nil), cat), cat
}

func TestService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Uses catalog price", func(t *testing.T) {
		svc, cat := newTestService()
		cat.On("Product", "p1").Return(catalog.Product{ID: "p1", Name: "Moroccan Tea", Price: d("2")}, nil)

		snap, err := svc.AddItem(ctx, "sess-1", "p1")
		require.NoError(t, err)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "Moroccan Tea", snap.Lines[0].Name)
		assert.True(t, snap.Total.Equal(d("2")))

		snap, err = svc.AddItem(ctx, "sess-1", "p1")
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Lines[0].Quantity)
		cat.AssertExpectations(t)
	})

	t.Run("Unknown product", func(t *testing.T) {
		svc, cat := newTestService()
		cat.On("Product", "nope").Return(catalog.Product{}, catalog.ErrProductNotFound)

		_, err := svc.AddItem(ctx, "sess-1", "nope")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("Missing session", func(t *testing.T) {
		svc, cat := newTestService()
		cat.On("Product", "p1").Return(catalog.Product{ID: "p1", Name: "Tea", Price: d("2")}, nil)

		_, err := svc.AddItem(ctx, "", "p1")
		assert.ErrorIs(t, err, ErrMissingSession)
	})
}

func TestService_UpdateAndRemove(t *testing.T) {
	ctx := context.Background()
	svc, cat := newTestService()
	cat.On("Product", "p1").Return(catalog.Product{ID: "p1", Name: "Tea", Price: d("2")}, nil)
	cat.On("Product", "p2").Return(catalog.Product{ID: "p2", Name: "Hrira", Price: d("3")}, nil)

	_, err := svc.AddItem(ctx, "s", "p1")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "s", "p2")
	require.NoError(t, err)

	snap, err := svc.UpdateQuantity(ctx, "s", "p1", 3)
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(d("9")))

	_, err = svc.UpdateQuantity(ctx, "s", "missing", 3)
	assert.ErrorIs(t, err, ErrLineNotFound)

	_, err = svc.UpdateQuantity(ctx, "s", "p1", -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	snap, err = svc.RemoveItem(ctx, "s", "p2")
	require.NoError(t, err)
	assert.True(t, snap.Total.Equal(d("6")))

	snap, err = svc.RemoveItem(ctx, "s", "p2")
	require.NoError(t, err)
	assert.Len(t, snap.Lines, 1)

	require.NoError(t, svc.Clear(ctx, "s"))
	snap, err = svc.GetCart(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, snap.Lines)
	assert.True(t, snap.Total.IsZero())
}

func TestService_AddPackageAndSavings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	line, err := svc.AddPackage(ctx, "s", []Component{
		{ID: "tea", Name: "Moroccan Tea", Quantity: 1, ListPrice: d("2")},
		{ID: "hrira", Name: "Hrira", Quantity: 1, ListPrice: d("3")},
	}, d("4"), "Solo Ftour")
	require.NoError(t, err)
	assert.Equal(t, KindComposite, line.Kind)

	savings, err := svc.PackageSavings(ctx, "s", line.ID)
	require.NoError(t, err)
	assert.True(t, savings.Equal(d("1")))

	_, err = svc.AddPackage(ctx, "s", nil, d("-1"), "bad")
	assert.ErrorIs(t, err, ErrInvalidPrice)

	snap, err := svc.GetCart(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, snap.Lines, 1)
}
