package events

import (
	"context"
	stderrors "errors"

	log "github.com/sirupsen/logrus"
)

// Multi fans an event out to every dispatcher, even when some of them fail.
type Multi []Dispatcher

func (m Multi) Dispatch(ctx context.Context, event Event) error {
	var errs []error
	for _, d := range m {
		if err := d.Dispatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

type LogDispatcher struct {
	Logger log.FieldLogger
}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{Logger: log.StandardLogger()}
}

func (d *LogDispatcher) Dispatch(_ context.Context, event Event) error {
	entry := d.Logger.WithFields(log.Fields{"event": event.Type(), "session": event.SessionID()})
	switch e := event.(type) {
	case CartUpdated:
		entry.WithFields(log.Fields{"lines": len(e.Lines), "total": e.Total.StringFixed(2)}).Debug("cart updated")
	case ValidationFailed:
		entry.WithFields(log.Fields{"step": e.Step, "fields": len(e.Errors)}).Debug("validation failed")
	case StepAdvanced:
		entry.WithField("step", e.Step).Debug("checkout step advanced")
	case OrderPlaced:
		entry.WithFields(log.Fields{"order": e.Order.ConfirmationID, "total": e.Order.Total.StringFixed(2)}).Info("order placed")
	default:
		entry.Debug("event dispatched")
	}
	return nil
}

// Subscriber streams one session's notifications until cancel is called or ctx ends.
type Subscriber interface {
	Subscribe(ctx context.Context, sessionID string) (<-chan Envelope, func(), error)
}
