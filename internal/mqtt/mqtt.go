// Package mqtt publishes timer phase changes to an MQTT broker so other
// systems (home automation, status lights) can react to them.
package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const opTimeout = 5 * time.Second

// Options configures the broker connection and topic.
type Options struct {
	Broker   string
	Topic    string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// StateMessage is the JSON payload published on every phase change.
// Messages are retained so a late subscriber sees the current phase.
type StateMessage struct {
	Phase  string `json:"phase"`
	Label  string `json:"label"`
	Cycles int    `json:"cycles"`
	At     string `json:"at"`
}

// Publisher maintains a single broker connection across phase changes,
// connecting lazily on first publish and reconnecting as needed.
type Publisher struct {
	opts Options

	mu     sync.Mutex
	client pahomqtt.Client
}

// NewPublisher returns an unconnected publisher. Enabled reports false
// when no broker is configured, letting callers skip wiring entirely.
func NewPublisher(opts Options) *Publisher {
	if opts.ClientID == "" {
		opts.ClientID = "tempo"
	}
	if opts.Topic == "" {
		opts.Topic = "tempo/state"
	}
	return &Publisher{opts: opts}
}

// Enabled reports whether a broker is configured.
func (p *Publisher) Enabled() bool {
	return p.opts.Broker != ""
}

// PublishPhase publishes the current phase to the state topic.
func (p *Publisher) PublishPhase(phase, label string, cycles int) error {
	msg := StateMessage{
		Phase:  phase,
		Label:  label,
		Cycles: cycles,
		At:     time.Now().Format(time.RFC3339),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("mqtt: marshal: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	client, err := p.connectLocked()
	if err != nil {
		return err
	}

	pub := client.Publish(p.opts.Topic, p.opts.QoS, true, payload)
	if !pub.WaitTimeout(opTimeout) {
		return fmt.Errorf("mqtt: publish timeout")
	}
	if pub.Error() != nil {
		return fmt.Errorf("mqtt: publish: %w", pub.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
	p.client = nil
}

func (p *Publisher) connectLocked() (pahomqtt.Client, error) {
	if p.client != nil && p.client.IsConnected() {
		return p.client, nil
	}

	opts := pahomqtt.NewClientOptions().
		AddBroker(p.opts.Broker).
		SetClientID(p.opts.ClientID).
		SetConnectTimeout(opTimeout).
		SetAutoReconnect(true)

	if p.opts.Username != "" {
		opts.SetUsername(p.opts.Username)
	}
	if p.opts.Password != "" {
		opts.SetPassword(p.opts.Password)
	}

	client := pahomqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(opTimeout) {
		return nil, fmt.Errorf("mqtt: connect timeout")
	}
	if tok.Error() != nil {
		return nil, fmt.Errorf("mqtt: connect: %w", tok.Error())
	}

	p.client = client
	return client, nil
}
