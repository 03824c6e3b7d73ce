package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinema-boxoffice/internal/errs"
)

// AuditQueue receives a copy of every reservation event.
const AuditQueue = "boxoffice.audit"

// AuditConsumer appends every reservation event to a log file, one line
// per event.
type AuditConsumer struct {
	url     string
	logPath string
	log     *slog.Logger
}

func NewAuditConsumer(url, logPath string, log *slog.Logger) *AuditConsumer {
	return &AuditConsumer{url: url, logPath: logPath, log: log}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff (capped at 30s) whenever the
// connection drops.
func (c *AuditConsumer) Run(ctx context.Context) {
	backoff := time.Second
	for ctx.Err() == nil {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("audit-consumer: dial failed", "err", err, "retry_in", backoff)
			if !sleep(ctx, backoff) {
				return
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}
		c.log.Warn("audit-consumer: consume loop ended, reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return
		}
	}
}

func (c *AuditConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return errs.Wrap(err, "channel open")
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("audit-consumer: set QoS failed", "err", err)
	}
	if err := declareTopology(ch); err != nil {
		return err
	}
	msgs, err := ch.Consume(AuditQueue, "", false, false, false, false, nil)
	if err != nil {
		return errs.Wrap(err, "queue consume")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errs.New("deliveries channel closed")
			}
			if err := c.handle(d.Body); err != nil {
				c.log.Error("audit-consumer: handle message failed", "err", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *AuditConsumer) handle(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return errs.Wrap(err, "unmarshal")
	}
	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return errs.Wrap(err, "mkdir logs")
	}
	f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.Wrap(err, "open log file")
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return errs.Wrap(err, "write log")
	}
	return nil
}

// FormatLine renders ev as a single human readable log line.
func FormatLine(ev ReservationEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | reservation=%s | screening_id=%d | client=%q | seats=[%s] | total=%s",
		ev.OccurredAt, ev.Type, ev.ReservationCode, ev.ScreeningID, ev.ClientName, strings.Join(ev.Seats, ","), ev.TotalPrice)
	if ev.ActorID != 0 {
		fmt.Fprintf(&b, " | actor_id=%d", ev.ActorID)
	}
	if ev.ActorRole != "" {
		fmt.Fprintf(&b, " | role=%s", ev.ActorRole)
	}
	if ev.TicketCode != "" {
		fmt.Fprintf(&b, " | ticket=%s", ev.TicketCode)
	}
	if ev.Reason != "" {
		fmt.Fprintf(&b, " | reason=%q", ev.Reason)
	}
	b.WriteByte('\n')
	return b.String()
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
