package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labubu_store/internal/catalog"
	"labubu_store/internal/events"
	"labubu_store/internal/models"
	"labubu_store/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func product(id, price string) models.Product {
	return models.Product{ID: id, Slug: "labubu-" + id, Name: "Labubu " + id, Price: dec(price)}
}

func TestCart(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("EmptyCartHasNoShipping", func(t *testing.T) {
		var c Cart
		assert.True(t, c.Subtotal().IsZero())
		assert.True(t, c.ShippingCost(policy).IsZero())
		assert.True(t, c.Total(policy).IsZero())
		assert.Equal(t, 0, c.ItemCount())
	})

	t.Run("AddingSameProductMergesLines", func(t *testing.T) {
		var c Cart
		p := product("a", "10")
		c.AddItem(p, 1)
		c.AddItem(p, 1)
		require.Len(t, c.Lines, 1)
		assert.Equal(t, 2, c.Lines[0].Quantity)
		assert.Equal(t, "20", c.Subtotal().String())
	})

	t.Run("AddClampsQuantity", func(t *testing.T) {
		var c Cart
		c.AddItem(product("a", "10"), 0)
		c.AddItem(product("b", "10"), -3)
		assert.Equal(t, 2, c.ItemCount())
	})

	t.Run("SetQuantityBelowOneIsIgnored", func(t *testing.T) {
		var c Cart
		c.AddItem(product("a", "10"), 2)
		assert.False(t, c.SetQuantity("a", 0))
		assert.Equal(t, 2, c.Lines[0].Quantity)
		assert.True(t, c.SetQuantity("a", 5))
		assert.Equal(t, 5, c.Lines[0].Quantity)
		assert.False(t, c.SetQuantity("missing", 3))
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		var c Cart
		c.AddItem(product("a", "10"), 1)
		c.AddItem(product("b", "12"), 1)
		assert.True(t, c.RemoveItem("a"))
		assert.False(t, c.RemoveItem("a"))
		require.Len(t, c.Lines, 1)
		assert.Equal(t, "b", c.Lines[0].ProductID)
	})

	t.Run("InsertionOrderKept", func(t *testing.T) {
		var c Cart
		c.AddItem(product("b", "1"), 1)
		c.AddItem(product("a", "1"), 1)
		c.AddItem(product("b", "1"), 1)
		assert.Equal(t, "b", c.Lines[0].ProductID)
		assert.Equal(t, "a", c.Lines[1].ProductID)
	})

	t.Run("SelectedMethodOverridesFlatRate", func(t *testing.T) {
		var c Cart
		c.AddItem(product("a", "10"), 1)
		assert.Equal(t, "15", c.Total(policy).String())
		c.SelectShipping(&models.ShippingOption{ID: models.ShippingExpress, Price: dec("15.00")})
		assert.Equal(t, "25", c.Total(policy).String())
		c.SelectShipping(nil)
		assert.Equal(t, "15", c.Total(policy).String())
	})

	t.Run("ClearKeepsMethod", func(t *testing.T) {
		var c Cart
		c.AddItem(product("a", "10"), 1)
		c.SelectShipping(&models.ShippingOption{ID: models.ShippingExpress, Price: dec("15.00")})
		c.Clear()
		assert.True(t, c.IsEmpty())
		require.NotNil(t, c.ShippingMethod)
		assert.Equal(t, models.ShippingExpress, c.ShippingMethod.ID)

		c.AddItem(product("a", "10"), 1)
		assert.Equal(t, "25", c.Total(policy).String())
	})

	t.Run("ResetDropsMethod", func(t *testing.T) {
		var c Cart
		c.AddItem(product("a", "10"), 1)
		c.SelectShipping(&models.ShippingOption{ID: models.ShippingExpress, Price: dec("15.00")})
		c.Reset()
		assert.True(t, c.IsEmpty())
		assert.Nil(t, c.ShippingMethod)
	})
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Dispatch(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func detail(id, slug, price string, outOfStock bool) models.ProductDetail {
	return models.ProductDetail{Product: models.Product{
		ID: id, Slug: slug, Name: slug, Price: dec(price), IsOutOfStock: outOfStock,
	}}
}

func newService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	repo := catalog.NewStore([]models.ProductDetail{
		detail("1", "mini-monster", "25.99", false),
		detail("2", "sleepy-cloud", "29.99", false),
		detail("3", "tiny-tea", "22.50", false),
		detail("4", "forest-sprite", "28.00", true),
	}, nil)
	rec := &recorder{}
	return NewService(repo, store.NewMemory[Cart](0), rec, DefaultPolicy()), rec
}

func TestService(t *testing.T) {
	ctx := context.Background()

	t.Run("CheckoutScenarioTotals", func(t *testing.T) {
		svc, rec := newService(t)
		_, err := svc.Add(ctx, "s1", "mini-monster", 1)
		require.NoError(t, err)
		_, err = svc.Add(ctx, "s1", "2", 2)
		require.NoError(t, err)
		snap, err := svc.Add(ctx, "s1", "tiny-tea", 1)
		require.NoError(t, err)

		assert.Equal(t, "108.47", snap.Subtotal.StringFixed(2))
		assert.Equal(t, "5.00", snap.Shipping.StringFixed(2))
		assert.Equal(t, "113.47", snap.Total.StringFixed(2))
		assert.Equal(t, 4, snap.Count)
		assert.Equal(t, 3, rec.count())

		last := rec.events[2].(events.CartUpdated)
		assert.Equal(t, "s1", last.SessionID())
		assert.Equal(t, "113.47", last.Total.StringFixed(2))
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		svc, rec := newService(t)
		_, err := svc.Add(ctx, "s1", "nope", 1)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		assert.Zero(t, rec.count())
	})

	t.Run("OutOfStockRejected", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Add(ctx, "s1", "forest-sprite", 1)
		assert.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("SetQuantity", func(t *testing.T) {
		svc, rec := newService(t)
		_, err := svc.Add(ctx, "s1", "mini-monster", 2)
		require.NoError(t, err)

		snap, err := svc.SetQuantity(ctx, "s1", "1", 0)
		require.NoError(t, err)
		assert.Equal(t, 2, snap.Lines[0].Quantity)
		assert.Equal(t, 1, rec.count(), "no-op must not notify")

		snap, err = svc.SetQuantity(ctx, "s1", "1", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, snap.Count)

		_, err = svc.SetQuantity(ctx, "s1", "2", 3)
		assert.ErrorIs(t, err, ErrLineNotFound)
	})

	t.Run("SessionsAreIsolated", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Add(ctx, "a", "mini-monster", 1)
		require.NoError(t, err)
		snap, err := svc.Get(ctx, "b")
		require.NoError(t, err)
		assert.Empty(t, snap.Lines)
		assert.True(t, snap.Total.IsZero())
	})

	t.Run("RemoveAndClear", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Add(ctx, "s1", "mini-monster", 1)
		require.NoError(t, err)
		_, err = svc.Add(ctx, "s1", "tiny-tea", 1)
		require.NoError(t, err)

		snap, err := svc.Remove(ctx, "s1", "1")
		require.NoError(t, err)
		assert.Len(t, snap.Lines, 1)

		snap, err = svc.Clear(ctx, "s1")
		require.NoError(t, err)
		assert.Empty(t, snap.Lines)
		assert.True(t, snap.Shipping.IsZero())
	})

	t.Run("DispatchFailureDoesNotFailMutation", func(t *testing.T) {
		svc, rec := newService(t)
		rec.err = assert.AnError
		snap, err := svc.Add(ctx, "s1", "mini-monster", 1)
		require.NoError(t, err)
		assert.Equal(t, 1, snap.Count)
	})

	t.Run("CheckoutResetsCart", func(t *testing.T) {
		svc, rec := newService(t)
		_, err := svc.Add(ctx, "s1", "mini-monster", 1)
		require.NoError(t, err)
		_, err = svc.SelectShipping(ctx, "s1", &models.ShippingOption{ID: models.ShippingExpress, Price: dec("15.00")})
		require.NoError(t, err)

		var placed Cart
		snap, err := svc.Checkout(ctx, "s1", func(c Cart) (bool, error) {
			placed = c
			return true, nil
		})
		require.NoError(t, err)
		assert.Len(t, placed.Lines, 1)
		assert.Empty(t, snap.Lines)
		assert.Empty(t, snap.ShippingMethod)
		assert.Equal(t, 3, rec.count())
	})

	t.Run("CheckoutKeepsCartWhenNothingPlaced", func(t *testing.T) {
		svc, rec := newService(t)
		_, err := svc.Add(ctx, "s1", "mini-monster", 1)
		require.NoError(t, err)

		snap, err := svc.Checkout(ctx, "s1", func(Cart) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Len(t, snap.Lines, 1)

		_, err = svc.Checkout(ctx, "s1", func(Cart) (bool, error) { return true, assert.AnError })
		assert.ErrorIs(t, err, assert.AnError)
		got, err := svc.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Len(t, got.Lines, 1)
		assert.Equal(t, 1, rec.count())
	})

	t.Run("AddDuringCheckoutSurvives", func(t *testing.T) {
		svc, _ := newService(t)
		_, err := svc.Add(ctx, "s1", "mini-monster", 1)
		require.NoError(t, err)

		done := make(chan error, 1)
		var placed Cart
		_, err = svc.Checkout(ctx, "s1", func(c Cart) (bool, error) {
			placed = c
			go func() {
				_, err := svc.Add(ctx, "s1", "tiny-tea", 1)
				done <- err
			}()
			return true, nil
		})
		require.NoError(t, err)
		require.NoError(t, <-done)

		assert.Len(t, placed.Lines, 1)
		snap, err := svc.Get(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, snap.Lines, 1)
		assert.Equal(t, "3", snap.Lines[0].ProductID)
	})

	t.Run("ConcurrentAddsAreSerialized", func(t *testing.T) {
		svc, _ := newService(t)
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = svc.Add(ctx, "s1", "mini-monster", 1)
			}()
		}
		wg.Wait()
		snap, err := svc.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, 20, snap.Count)
	})
}
