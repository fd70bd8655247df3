package service

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// EventPublisher fans domain events out to interested nodes. Publishing is
// best effort: a failed publish is logged and never fails the operation
// that produced the event.
type EventPublisher interface {
	Publish(subject string, payload interface{})
}

type natsPublisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// NewEventPublisher wraps a NATS connection. A nil connection yields a
// publisher that drops everything, which keeps single-node deployments free
// of a broker requirement.
func NewEventPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) EventPublisher {
	return &natsPublisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

type eventEnvelope struct {
	Subject string      `json:"subject"`
	SentAt  time.Time   `json:"sent_at"`
	Payload interface{} `json:"payload"`
}

func (p *natsPublisher) Publish(subject string, payload interface{}) {
	if p.conn == nil {
		return
	}

	full := subject
	if p.prefix != "" {
		full = p.prefix + "." + subject
	}

	body, err := json.Marshal(eventEnvelope{Subject: full, SentAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", full).Msg("failed to encode event")
		return
	}

	if err := p.conn.Publish(full, body); err != nil {
		p.logger.Warn().Err(err).Str("subject", full).Msg("failed to publish event")
	}
}
