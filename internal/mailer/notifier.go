package mailer

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"labubu_store/internal/events"
	"labubu_store/internal/models"
)

const sendTimeout = 30 * time.Second

// Notifier mails a confirmation for every placed order. Sending happens in the
// background; failures are logged and never reach the shopper.
type Notifier struct {
	sender Sender
	logger log.FieldLogger
	wg     sync.WaitGroup
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender, logger: log.WithField("component", "mailer")}
}

func (n *Notifier) Dispatch(_ context.Context, event events.Event) error {
	placed, ok := event.(events.OrderPlaced)
	if !ok || placed.Email == "" {
		return nil
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := n.send(ctx, placed.Email, placed.Order); err != nil {
			n.logger.WithError(err).WithField("order", placed.Order.ConfirmationID).Error("confirmation mail failed")
			return
		}
		n.logger.WithField("order", placed.Order.ConfirmationID).Info("confirmation mail sent")
	}()
	return nil
}

// Wait blocks until in-flight mails are done, used on shutdown.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) send(ctx context.Context, to string, order models.OrderConfirmation) error {
	body, err := RenderConfirmation(order)
	if err != nil {
		return err
	}
	qr, err := QRCode(order.ConfirmationID)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		To:          to,
		Subject:     "Labubu Store order #" + order.ConfirmationID,
		HTML:        body,
		Attachments: []Attachment{{Name: "order-" + order.ConfirmationID + ".png", Data: qr}},
	})
}
