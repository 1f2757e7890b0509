package cart

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"labubu_store/internal/catalog"
	"labubu_store/internal/events"
	"labubu_store/internal/models"
	"labubu_store/internal/store"
)

var (
	ErrLineNotFound = errors.New("cart line not found")
	ErrOutOfStock   = errors.New("product is out of stock")
)

// Service keeps one cart per session. Mutations for a session run one at a time.
type Service struct {
	products catalog.Repository
	carts    store.Store[Cart]
	events   events.Dispatcher
	policy   Policy
	locks    *store.Locks
	logger   log.FieldLogger
}

func NewService(products catalog.Repository, carts store.Store[Cart], dispatcher events.Dispatcher, policy Policy) *Service {
	return &Service{
		products: products,
		carts:    carts,
		events:   dispatcher,
		policy:   policy,
		locks:    store.NewLocks(),
		logger:   log.WithField("component", "cart"),
	}
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Get returns the session's cart, empty when none has been saved yet.
func (s *Service) Get(ctx context.Context, session string) (Snapshot, error) {
	c, err := s.load(ctx, session)
	if err != nil {
		return Snapshot{}, err
	}
	return c.Snapshot(s.policy), nil
}

// Cart returns the raw cart state, used by checkout to build the order.
func (s *Service) Cart(ctx context.Context, session string) (Cart, error) {
	return s.load(ctx, session)
}

// Add resolves ref as a slug first, then as a product id.
func (s *Service) Add(ctx context.Context, session, ref string, qty int) (Snapshot, error) {
	p, err := s.resolve(ctx, ref)
	if err != nil {
		return Snapshot{}, err
	}
	if p.IsOutOfStock {
		return Snapshot{}, ErrOutOfStock
	}
	return s.mutate(ctx, session, func(c *Cart) (bool, error) {
		c.AddItem(*p, qty)
		return true, nil
	})
}

// SetQuantity leaves the cart untouched for quantities below 1.
func (s *Service) SetQuantity(ctx context.Context, session, lineID string, qty int) (Snapshot, error) {
	return s.mutate(ctx, session, func(c *Cart) (bool, error) {
		if !c.Has(lineID) {
			return false, ErrLineNotFound
		}
		return c.SetQuantity(lineID, qty), nil
	})
}

// Remove is idempotent.
func (s *Service) Remove(ctx context.Context, session, lineID string) (Snapshot, error) {
	return s.mutate(ctx, session, func(c *Cart) (bool, error) {
		return c.RemoveItem(lineID), nil
	})
}

func (s *Service) Clear(ctx context.Context, session string) (Snapshot, error) {
	return s.mutate(ctx, session, func(c *Cart) (bool, error) {
		c.Clear()
		return true, nil
	})
}

// Checkout runs place with the session's cart while holding the cart lock, so
// no other mutation can slip in between reading the lines and emptying them.
// When place reports an order, the cart is reset.
func (s *Service) Checkout(ctx context.Context, session string, place func(Cart) (bool, error)) (Snapshot, error) {
	return s.mutate(ctx, session, func(c *Cart) (bool, error) {
		placed, err := place(*c)
		if err != nil || !placed {
			return false, err
		}
		c.Reset()
		return true, nil
	})
}

func (s *Service) SelectShipping(ctx context.Context, session string, option *models.ShippingOption) (Snapshot, error) {
	return s.mutate(ctx, session, func(c *Cart) (bool, error) {
		c.SelectShipping(option)
		return true, nil
	})
}

func (s *Service) resolve(ctx context.Context, ref string) (*models.Product, error) {
	detail, err := s.products.GetBySlug(ctx, ref)
	if err == nil {
		return &detail.Product, nil
	}
	if !errors.Is(err, catalog.ErrProductNotFound) {
		return nil, err
	}
	return s.products.GetByID(ctx, ref)
}

func (s *Service) load(ctx context.Context, session string) (Cart, error) {
	c, _, err := s.carts.Get(ctx, session)
	if err != nil {
		return Cart{}, pkgerrors.Wrapf(err, "load cart %s", session)
	}
	return c, nil
}

// mutate applies fn under the session lock, then saves and announces the cart
// when fn reports a change.
func (s *Service) mutate(ctx context.Context, session string, fn func(*Cart) (bool, error)) (Snapshot, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	c, err := s.load(ctx, session)
	if err != nil {
		return Snapshot{}, err
	}
	changed, err := fn(&c)
	if err != nil {
		return Snapshot{}, err
	}
	snap := c.Snapshot(s.policy)
	if !changed {
		return snap, nil
	}
	if err := s.carts.Put(ctx, session, c); err != nil {
		return Snapshot{}, pkgerrors.Wrapf(err, "save cart %s", session)
	}

	event := events.CartUpdated{
		Session:  session,
		Lines:    snap.Lines,
		Subtotal: snap.Subtotal,
		Shipping: snap.Shipping,
		Total:    snap.Total,
		Count:    snap.Count,
	}
	if err := s.events.Dispatch(ctx, event); err != nil {
		s.logger.WithError(err).WithField("session", session).Warn("cart update not delivered")
	}
	return snap, nil
}
