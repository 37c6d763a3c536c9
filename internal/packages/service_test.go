package packages

import (
	"context"
	"errors"
	"testing"
	"time"

	"ftour-be/internal/cart"
	"ftour-be/internal/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTemplates struct {
	mock.Mock
}

func (m *MockTemplates) Package(id string) (catalog.PackageTemplate, error) {
	args := m.Called(id)
	return args.Get(0).(catalog.PackageTemplate), args.Error(1)
}

type MockCartWriter struct {
	mock.Mock
}

func (m *MockCartWriter) AddPackage(ctx context.Context, sessionID string, components []cart.Component, price decimal.Decimal, name string) (cart.Line, error) {
	args := m.Called(ctx, sessionID, components, price, name)
	return args.Get(0).(cart.Line), args.Error(1)
}

func setupService(t *testing.T) (Service, *MockCartWriter) {
	t.Helper()
	templates := new(MockTemplates)
	templates.On("Package", "duo").Return(testTemplate(2), nil)
	templates.On("Package", "missing").Return(catalog.PackageTemplate{}, catalog.ErrPackageNotFound)

	carts := new(MockCartWriter)
	return NewService(templates, carts, d("8")), carts
}

func TestService_Open(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	v, err := svc.Open(ctx, "sess-1", "duo")
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.Equal(t, StateOpen, v.State)
	assert.Equal(t, 2, v.PersonCount)
	assert.Equal(t, 4, v.Remaining)
	require.Len(t, v.Categories, 2)
	assert.Len(t, v.Categories[0].Options, 2)

	_, err = svc.Open(ctx, "sess-1", "missing")
	assert.ErrorIs(t, err, catalog.ErrPackageNotFound)

	_, err = svc.Open(ctx, "", "duo")
	assert.ErrorIs(t, err, cart.ErrMissingSession)
}

func TestService_SelectionFlow(t *testing.T) {
	ctx := context.Background()
	svc, carts := setupService(t)

	v, err := svc.Open(ctx, "sess-1", "duo")
	require.NoError(t, err)
	id := v.ID

	_, err = svc.Select(ctx, "sess-1", id, "Drinks", "tea")
	require.NoError(t, err)
	v, err = svc.Adjust(ctx, "sess-1", id, "Drinks", "tea", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Categories[0].Selected)

	_, err = svc.Select(ctx, "sess-1", id, "Drinks", "coffee")
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = svc.Select(ctx, "sess-1", id, "Soup", "hrira")
	require.NoError(t, err)
	v, err = svc.Remove(ctx, "sess-1", id, "Soup", "hrira")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Categories[1].Selected)

	_, err = svc.Finalize(ctx, "sess-1", id)
	assert.ErrorIs(t, err, ErrIncompletePackage)
	carts.AssertNotCalled(t, "AddPackage")

	_, err = svc.Select(ctx, "sess-1", id, "Soup", "hsoua")
	require.NoError(t, err)
	v, err = svc.Adjust(ctx, "sess-1", id, "Soup", "hsoua", 1)
	require.NoError(t, err)
	assert.Equal(t, StateComplete, v.State)
	assert.Equal(t, 100.0, v.Progress)

	expected := []cart.Component{
		{ID: "tea", Name: "Moroccan Tea", Quantity: 2, ListPrice: d("2")},
		{ID: "hsoua", Name: "Hsoua", Quantity: 2, ListPrice: d("3")},
	}
	carts.On("AddPackage", mock.Anything, "sess-1", expected, mock.MatchedBy(func(p decimal.Decimal) bool {
		return p.Equal(d("16"))
	}), "2 Person Package").Return(cart.Line{ID: "package_1", Kind: cart.KindComposite, UnitPrice: d("16"), Quantity: 1}, nil).Once()

	line, err := svc.Finalize(ctx, "sess-1", id)
	require.NoError(t, err)
	assert.Equal(t, "package_1", line.ID)

	_, err = svc.Get(ctx, "sess-1", id)
	assert.ErrorIs(t, err, ErrBuilderNotFound)
	carts.AssertExpectations(t)
}

func TestService_FinalizeCartFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	svc, carts := setupService(t)

	v, err := svc.Open(ctx, "sess-1", "duo")
	require.NoError(t, err)
	for _, step := range []struct{ cat, opt string }{
		{"Drinks", "tea"}, {"Drinks", "coffee"}, {"Soup", "hrira"}, {"Soup", "hsoua"},
	} {
		_, err := svc.Select(ctx, "sess-1", v.ID, step.cat, step.opt)
		require.NoError(t, err)
	}

	carts.On("AddPackage", mock.Anything, "sess-1", mock.Anything, mock.Anything, mock.Anything).
		Return(cart.Line{}, errors.New("cart unavailable")).Once()

	_, err = svc.Finalize(ctx, "sess-1", v.ID)
	assert.Error(t, err)

	got, err := svc.Get(ctx, "sess-1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, StateComplete, got.State)
}

func TestService_Ownership(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	v, err := svc.Open(ctx, "owner", "duo")
	require.NoError(t, err)

	_, err = svc.Get(ctx, "intruder", v.ID)
	assert.ErrorIs(t, err, ErrBuilderNotFound)
	_, err = svc.Select(ctx, "intruder", v.ID, "Drinks", "tea")
	assert.ErrorIs(t, err, ErrBuilderNotFound)
	assert.ErrorIs(t, svc.Cancel(ctx, "intruder", v.ID), ErrBuilderNotFound)
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	v, err := svc.Open(ctx, "sess-1", "duo")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, "sess-1", v.ID))
	_, err = svc.Get(ctx, "sess-1", v.ID)
	assert.ErrorIs(t, err, ErrBuilderNotFound)
}

func TestService_FinalizeDoesNotBlockOtherSessions(t *testing.T) {
	ctx := context.Background()
	svc, carts := setupService(t)

	slow, err := svc.Open(ctx, "sess-1", "duo")
	require.NoError(t, err)
	for _, step := range []struct{ cat, opt string }{
		{"Drinks", "tea"}, {"Drinks", "coffee"}, {"Soup", "hrira"}, {"Soup", "hsoua"},
	} {
		_, err := svc.Select(ctx, "sess-1", slow.ID, step.cat, step.opt)
		require.NoError(t, err)
	}
	other, err := svc.Open(ctx, "sess-2", "duo")
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	carts.On("AddPackage", mock.Anything, "sess-1", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(cart.Line{ID: "package_1", Kind: cart.KindComposite}, nil).Once()

	finalized := make(chan error)
	go func() {
		_, err := svc.Finalize(ctx, "sess-1", slow.ID)
		finalized <- err
	}()
	<-entered

	selected := make(chan error)
	go func() {
		_, err := svc.Select(ctx, "sess-2", other.ID, "Drinks", "tea")
		selected <- err
	}()

	select {
	case err := <-selected:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("select on another package session blocked behind finalize")
	}

	close(release)
	assert.NoError(t, <-finalized)
	_, err = svc.Get(ctx, "sess-1", slow.ID)
	assert.ErrorIs(t, err, ErrBuilderNotFound)
}

func TestService_Cleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("Evicts idle package sessions", func(t *testing.T) {
		svc, _ := setupService(t)
		s := svc.(*service)
		now := time.Now()
		s.now = func() time.Time { return now }

		idle, err := svc.Open(ctx, "sess-1", "duo")
		require.NoError(t, err)
		active, err := svc.Open(ctx, "sess-2", "duo")
		require.NoError(t, err)
		assert.Equal(t, 2, s.size())

		now = now.Add(builderIdleTTL / 2)
		_, err = svc.Get(ctx, "sess-2", active.ID)
		require.NoError(t, err)

		now = now.Add(builderIdleTTL/2 + time.Second)
		s.cleanup()
		assert.Equal(t, 1, s.size())

		_, err = svc.Get(ctx, "sess-1", idle.ID)
		assert.ErrorIs(t, err, ErrBuilderNotFound)
		_, err = svc.Get(ctx, "sess-2", active.ID)
		assert.NoError(t, err)
	})

	t.Run("Run stops with context", func(t *testing.T) {
		svc, _ := setupService(t)
		runCtx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})
		go func() {
			svc.Run(runCtx)
			close(stopped)
		}()
		cancel()

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("package cleanup did not stop")
		}
	})
}
