package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
)

// Exchange is the topic exchange reservation events are published to.
const Exchange = "boxoffice.reservations"

// dialTimeout bounds the TCP connect and AMQP handshake. Dialing happens
// under the publisher lock, so an unreachable broker must fail fast.
const dialTimeout = 2 * time.Second

// Publisher sends reservation events to RabbitMQ. The connection is opened
// lazily and reopened after a failure, so a broker outage only costs the
// events published while it lasts.
type Publisher struct {
	url string
	log *slog.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string, log *slog.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// Publish sends ev as a persistent JSON message routed by its type. Errors
// are logged and returned; callers are expected to treat them as non-fatal.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return errs.Wrap(err, "marshal event")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel unavailable", "err", err, "event", ev.Type, "reservation", ev.ReservationCode)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, Exchange, ev.Type, false, false, pub); err != nil {
		p.reset()
		p.log.Warn("rabbitmq: publish failed", "err", err, "event", ev.Type, "reservation", ev.ReservationCode)
		return errs.Wrap(err, "publish event")
	}
	return nil
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, errs.Wrap(err, "dial broker")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errs.Wrap(err, "open channel")
	}
	if err := declareTopology(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// declareTopology creates the durable exchange and the audit queue bound to
// every reservation event. Both calls are idempotent.
func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return errs.Wrap(err, "exchange declare")
	}
	if _, err := ch.QueueDeclare(AuditQueue, true, false, false, false, nil); err != nil {
		return errs.Wrap(err, "queue declare")
	}
	if err := ch.QueueBind(AuditQueue, "reservation.*", Exchange, false, nil); err != nil {
		return errs.Wrap(err, "queue bind")
	}
	return nil
}
