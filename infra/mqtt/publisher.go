// Package mqtt publishes selected plans to the device command channel.
package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"

	paho "github.com/eclipse/paho.mqtt.golang"

	coreplan "github.com/watthuis/spotplan/core/plan"
	"github.com/watthuis/spotplan/core/planner"
	"github.com/watthuis/spotplan/infra/logger"
)

// Publisher mirrors the core plan.Publisher interface.
type Publisher = coreplan.Publisher

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled   bool   `json:"enabled"`
	Broker    string `json:"broker"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	PlanTopic string `json:"plan_topic"`
	QoS       byte   `json:"qos"`
	Retain    bool   `json:"retain"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Broker == "" {
		c.Broker = "tcp://localhost:1883"
	}
	if c.ClientID == "" {
		c.ClientID = "spotplan"
	}
	if c.PlanTopic == "" {
		c.PlanTopic = "spotplan/plan"
	}
}

// PahoPublisher implements the plan Publisher over Eclipse Paho.
type PahoPublisher struct {
	cli    paho.Client
	topic  string
	qos    byte
	retain bool
	log    logger.Logger
}

// NewPahoPublisher connects to the MQTT broker.
func NewPahoPublisher(cfg Config) (*PahoPublisher, error) {
	log := logger.New("mqtt-publisher")
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.Broker, token.Error())
	}
	return &PahoPublisher{
		cli:    cli,
		topic:  cfg.PlanTopic,
		qos:    cfg.QoS,
		retain: cfg.Retain,
		log:    log,
	}, nil
}

// PublishPlan publishes the selected block as JSON on the plan topic. The
// retained flag lets a device that reconnects later still pick up the
// current plan.
func (p *PahoPublisher) PublishPlan(resp planner.Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	token := p.cli.Publish(p.topic, p.qos, p.retain, b)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("publish plan to %s: %w", p.topic, token.Error())
	}
	p.log.Infof("published plan with %d spot prices to %s", len(resp.SpotPrices), p.topic)
	return nil
}

// Close disconnects from the broker.
func (p *PahoPublisher) Close() error {
	p.cli.Disconnect(250)
	return nil
}

// MockPublisher records published plans for tests.
type MockPublisher struct {
	mu    sync.Mutex
	Plans []planner.Response
	Err   error
}

// PublishPlan records the plan or returns the configured error.
func (m *MockPublisher) PublishPlan(resp planner.Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Plans = append(m.Plans, resp)
	return nil
}
