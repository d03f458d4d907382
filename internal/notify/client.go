package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// BookingMessage is the self-contained payload published per successful
// booking; the consumer needs nothing else to compose the ticket email.
type BookingMessage struct {
	Email            string `json:"email"`
	EventTitle       string `json:"event_title"`
	RegistrationCode string `json:"registration_code"`
}

// Client owns the AMQP connection used by both the publisher side (the
// booking workflow) and the consumer worker.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	log      *logrus.Logger
}

func NewClient(url, exchange, queue string, log *logrus.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	client := &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		queue:    queue,
		log:      log,
	}

	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		client.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		client.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		client.Close()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	log.Infof("rabbitmq ready (exchange=%s, queue=%s)", exchange, queue)
	return client, nil
}

func (c *Client) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// NotifyBooking publishes a booking confirmation. It satisfies the
// service layer's Notifier interface.
func (c *Client) NotifyBooking(ctx context.Context, email, eventTitle, code string) error {
	body, err := json.Marshal(BookingMessage{
		Email:            email,
		EventTitle:       eventTitle,
		RegistrationCode: code,
	})
	if err != nil {
		return fmt.Errorf("marshal booking message: %w", err)
	}

	err = c.channel.PublishWithContext(ctx, c.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish booking message: %w", err)
	}
	return nil
}

// Consume delivers queued messages to handler; a handler error nacks and
// requeues the message, otherwise it is acked.
func (c *Client) Consume(handler func([]byte) error) error {
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for d := range msgs {
			if err := handler(d.Body); err != nil {
				c.log.WithError(err).Warn("process booking message")
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}()

	c.log.Infof("consuming from queue %s", c.queue)
	return nil
}
