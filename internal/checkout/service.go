package checkout

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"labubu_store/internal/cart"
	"labubu_store/internal/events"
	"labubu_store/internal/models"
	"labubu_store/internal/store"
)

var ErrOrderNotFound = errors.New("order not found")

// Summary is the order summary shown beside every step.
type Summary struct {
	Lines    []models.CartLine     `json:"lines"`
	Subtotal decimal.Decimal       `json:"subtotal"`
	Method   models.ShippingOption `json:"method"`
	Shipping decimal.Decimal       `json:"shipping"`
	Total    decimal.Decimal       `json:"total"`
}

// View is the checkout page state for one session.
type View struct {
	Step     Step                  `json:"step"`
	Unlocked []Step                `json:"unlocked"`
	Shipping *ShippingForm         `json:"shipping,omitempty"`
	Method   models.ShippingMethod `json:"method,omitempty"`
	Payment  *PaymentForm          `json:"payment,omitempty"`
	Summary  Summary               `json:"summary"`
	Options  Options               `json:"options"`
}

// Outcome is returned by every checkout action.
type Outcome struct {
	View   View                      `json:"view"`
	Errors FieldErrors               `json:"errors,omitempty"`
	Order  *models.OrderConfirmation `json:"order,omitempty"`
}

type Service struct {
	flows  store.Store[Flow]
	orders store.Store[models.OrderConfirmation]
	carts  *cart.Service
	events events.Dispatcher
	opts   Options
	locks  *store.Locks
	now    func() time.Time
	logger log.FieldLogger
}

func NewService(flows store.Store[Flow], orders store.Store[models.OrderConfirmation], carts *cart.Service, dispatcher events.Dispatcher, opts Options) *Service {
	return &Service{
		flows:  flows,
		orders: orders,
		carts:  carts,
		events: dispatcher,
		opts:   opts,
		locks:  store.NewLocks(),
		now:    time.Now,
		logger: log.WithField("component", "checkout"),
	}
}

func (s *Service) ShippingOptions() Options {
	return append(Options(nil), s.opts...)
}

func (s *Service) State(ctx context.Context, session string) (View, error) {
	f, err := s.load(ctx, session)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, session, f)
}

func (s *Service) Summary(ctx context.Context, session string) (Summary, error) {
	f, err := s.load(ctx, session)
	if err != nil {
		return Summary{}, err
	}
	c, err := s.carts.Cart(ctx, session)
	if err != nil {
		return Summary{}, err
	}
	return s.summary(c, f), nil
}

func (s *Service) SubmitShipping(ctx context.Context, session string, form ShippingForm) (Outcome, error) {
	return s.transition(ctx, session, func(f Flow) (Result, error) {
		return f.SubmitShipping(session, form)
	})
}

// SelectShippingMethod also prices the method into the session's cart.
func (s *Service) SelectShippingMethod(ctx context.Context, session string, method models.ShippingMethod) (Outcome, error) {
	out, err := s.transition(ctx, session, func(f Flow) (Result, error) {
		return f.SelectShippingMethod(session, s.opts, method)
	})
	if err != nil {
		return out, err
	}
	opt, _ := s.opts.Find(method)
	if _, err := s.carts.SelectShipping(ctx, session, &opt); err != nil {
		return out, err
	}
	return out, nil
}

func (s *Service) Open(ctx context.Context, session string, step Step) (Outcome, error) {
	return s.transition(ctx, session, func(f Flow) (Result, error) {
		return f.Open(session, step)
	})
}

// SubmitPayment places the order. On success the cart is emptied and the flow
// starts over; the confirmation stays retrievable through Confirmation.
// The order is built and the cart reset under the cart's own lock.
func (s *Service) SubmitPayment(ctx context.Context, session string, form PaymentForm) (Outcome, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	f, err := s.load(ctx, session)
	if err != nil {
		return Outcome{}, err
	}
	var res Result
	_, err = s.carts.Checkout(ctx, session, func(c cart.Cart) (bool, error) {
		if c.IsEmpty() {
			return false, ErrEmptyCart
		}
		summary := s.summary(c, f)
		res, err = f.SubmitPayment(session, form, Order{
			Lines:    summary.Lines,
			Subtotal: summary.Subtotal,
			Shipping: summary.Method,
			PlacedAt: s.now().UTC(),
		})
		if err != nil || res.Order == nil {
			return false, err
		}
		if err := s.orders.Put(ctx, orderKey(session, res.Order.ConfirmationID), *res.Order); err != nil {
			return false, pkgerrors.Wrap(err, "save order")
		}
		return true, nil
	})
	if err != nil {
		return Outcome{}, err
	}

	next := res.Flow
	if res.Order != nil {
		next = NewFlow()
	}
	if err := s.flows.Put(ctx, session, next); err != nil {
		return Outcome{}, pkgerrors.Wrapf(err, "save checkout %s", session)
	}
	s.dispatch(ctx, res.Events)

	view, err := s.view(ctx, session, next)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{View: view, Errors: res.Errors, Order: res.Order}, nil
}

// Confirmation looks up an order placed by this session.
func (s *Service) Confirmation(ctx context.Context, session, id string) (models.OrderConfirmation, error) {
	order, ok, err := s.orders.Get(ctx, orderKey(session, id))
	if err != nil {
		return models.OrderConfirmation{}, pkgerrors.Wrap(err, "load order")
	}
	if !ok {
		return models.OrderConfirmation{}, ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) transition(ctx context.Context, session string, fn func(Flow) (Result, error)) (Outcome, error) {
	unlock := s.locks.Lock(session)
	defer unlock()

	f, err := s.load(ctx, session)
	if err != nil {
		return Outcome{}, err
	}
	res, err := fn(f)
	if err != nil {
		return Outcome{}, err
	}
	if len(res.Errors) == 0 {
		if err := s.flows.Put(ctx, session, res.Flow); err != nil {
			return Outcome{}, pkgerrors.Wrapf(err, "save checkout %s", session)
		}
	}
	s.dispatch(ctx, res.Events)

	view, err := s.view(ctx, session, res.Flow)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{View: view, Errors: res.Errors}, nil
}

func (s *Service) dispatch(ctx context.Context, evs []events.Event) {
	for _, e := range evs {
		if err := s.events.Dispatch(ctx, e); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{"session": e.SessionID(), "event": e.Type()}).Warn("checkout event not delivered")
		}
	}
}

func (s *Service) load(ctx context.Context, session string) (Flow, error) {
	f, ok, err := s.flows.Get(ctx, session)
	if err != nil {
		return Flow{}, pkgerrors.Wrapf(err, "load checkout %s", session)
	}
	if !ok {
		return NewFlow(), nil
	}
	return f, nil
}

func (s *Service) view(ctx context.Context, session string, f Flow) (View, error) {
	c, err := s.carts.Cart(ctx, session)
	if err != nil {
		return View{}, err
	}
	v := View{
		Step:     f.Step,
		Shipping: f.Shipping,
		Method:   f.Method,
		Payment:  f.Payment,
		Summary:  s.summary(c, f),
		Options:  s.ShippingOptions(),
	}
	for _, step := range Steps {
		if f.Unlocked(step) {
			v.Unlocked = append(v.Unlocked, step)
		}
	}
	return v, nil
}

// summary prices the selected method, or the default one before any choice.
func (s *Service) summary(c cart.Cart, f Flow) Summary {
	method := s.opts.Default()
	if opt, ok := s.opts.Find(f.Method); ok {
		method = opt
	}
	sum := Summary{
		Lines:    append(make([]models.CartLine, 0, len(c.Lines)), c.Lines...),
		Subtotal: c.Subtotal(),
		Method:   method,
		Shipping: decimal.Zero,
	}
	if !c.IsEmpty() {
		sum.Shipping = method.Price
	}
	sum.Total = sum.Subtotal.Add(sum.Shipping)
	return sum
}

func orderKey(session, id string) string {
	return session + ":" + id
}
