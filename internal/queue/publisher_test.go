package queue

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-boxoffice/internal/model"
)

// A broker that accepts TCP connections but never completes the AMQP
// handshake must not block Publish past the dial timeout.
func TestPublisher_SilentBrokerFailsFast(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				_, _ = io.Copy(io.Discard, conn)
			}()
		}
	}()

	p := NewPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = p.Close() })

	ev := NewReservationEvent(EventConfirmed, sampleReservation(), model.Actor{}, time.Now())
	start := time.Now()
	err = p.Publish(context.Background(), ev)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), dialTimeout+3*time.Second)
}
