package notify

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Worker consumes booking messages and mails out tickets. Delivery
// failures are logged and the message is redelivered; malformed messages
// are dropped.
type Worker struct {
	client *Client
	mailer *Mailer
	log    *logrus.Logger
	done   chan struct{}
	cancel context.CancelFunc
}

func NewWorker(client *Client, mailer *Mailer, log *logrus.Logger) *Worker {
	return &Worker{
		client: client,
		mailer: mailer,
		log:    log,
		done:   make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go func() {
		defer close(w.done)

		handler := func(body []byte) error {
			var msg BookingMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				// not retryable, drop it
				w.log.WithError(err).Errorf("unmarshal booking message: %s", string(body))
				return nil
			}

			if err := w.mailer.SendTicket(msg); err != nil {
				return err
			}
			w.log.WithField("email", msg.Email).Info("ticket email sent")
			return nil
		}

		if err := w.client.Consume(handler); err != nil {
			w.log.WithError(err).Error("start consuming booking messages")
			return
		}

		<-cctx.Done()
	}()

	w.log.Info("notification worker started")
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}
