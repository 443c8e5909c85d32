package queue

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nathanyu/payment-transfer/internal/domain"
	"github.com/nathanyu/payment-transfer/internal/telemetry"
)

const (
	// TransferCompletedSubject carries one message per committed transfer.
	TransferCompletedSubject = "transfers.completed"
)

// Publisher publishes transfer events to NATS for downstream consumers.
// A nil *Publisher is a no-op, so the service runs without a broker.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials NATS and returns a ready publisher.
func Connect(url string) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("payment-transfer"),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(10),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{conn: conn}, nil
}

// PublishTransferCompleted publishes a completed-transfer event.
func (p *Publisher) PublishTransferCompleted(event domain.TransferCompleted) error {
	if p == nil || p.conn == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.conn.Publish(TransferCompletedSubject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	telemetry.NATSMessagesPublished.WithLabelValues(TransferCompletedSubject).Inc()
	return nil
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Drain()
	p.conn.Close()
}
