package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// Subjects carried on the EXPLORATION stream.
const (
	SubjectReveal   = "explore.reveal"
	SubjectProgress = "explore.progress"
	SubjectLevelUp  = "explore.levelup"
	SubjectAll      = "explore.>"
	StreamName      = "EXPLORATION"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStream(js); err != nil {
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

// ensureStream creates or updates the EXPLORATION stream.
func ensureStream(js nats.JetStreamContext) error {
	cfg := nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectAll},
		Retention: nats.InterestPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist; try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

func (p *Publisher) PublishReveal(ctx context.Context, event *domain.RevealEvent) error {
	return p.publish(ctx, SubjectReveal, event)
}

func (p *Publisher) PublishProgress(ctx context.Context, snapshot *domain.ProgressSnapshot) error {
	return p.publish(ctx, SubjectProgress, snapshot)
}

func (p *Publisher) PublishLevelUp(ctx context.Context, levelUp *domain.LevelUp) error {
	return p.publish(ctx, SubjectLevelUp, levelUp)
}

func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for relays.
func (p *Publisher) Conn() *nats.Conn { return p.conn }

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// connect dials NATS and keeps reconnecting in the background.
func connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
