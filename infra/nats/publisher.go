// Package nats publishes planning measurements to the household message bus.
package nats

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/watthuis/spotplan/core/model"
	"github.com/watthuis/spotplan/infra/logger"
)

// Config defines the NATS connection parameters.
type Config struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Subject string `json:"subject"`
	Name    string `json:"name"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.URL == "" {
		c.URL = nats.DefaultURL
	}
	if c.Subject == "" {
		c.Subject = "spotplan.measurements"
	}
	if c.Name == "" {
		c.Name = "spotplan"
	}
}

// Publisher publishes measurements as JSON on a NATS subject for downstream
// consumers such as the long-term storage sender.
type Publisher struct {
	conn    *nats.Conn
	subject string
	log     logger.Logger
}

// NewPublisher connects to the NATS server.
func NewPublisher(cfg Config) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", cfg.URL, err)
	}
	return &Publisher{
		conn:    conn,
		subject: cfg.Subject,
		log:     logger.New("nats-publisher"),
	}, nil
}

// PublishMeasurement sends the measurement on the configured subject.
func (p *Publisher) PublishMeasurement(m model.Measurement) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal measurement: %w", err)
	}
	if err := p.conn.Publish(p.subject, b); err != nil {
		return fmt.Errorf("publish measurement to %s: %w", p.subject, err)
	}
	p.log.Infof("published measurement %s to %s", m.ID, p.subject)
	return nil
}

// Close drains the connection so queued messages are flushed.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
