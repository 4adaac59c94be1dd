package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Kind labels an Event.
type Kind string

const (
	KindBookingCreated   Kind = "booking_created"
	KindPaymentConfirmed Kind = "payment_confirmed"
	KindInfo             Kind = "info"
)

// Event is a notification as published to external listeners.
type Event struct {
	Kind      Kind      `json:"kind"`
	BookingID string    `json:"booking_id,omitempty"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Publisher forwards events somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// LogPublisher writes events to a logrus logger.
type LogPublisher struct {
	Logger log.FieldLogger
}

// Publish logs ev at info level.
func (p LogPublisher) Publish(ctx context.Context, ev Event) error {
	logger := p.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger.WithFields(log.Fields{
		"kind":       ev.Kind,
		"booking_id": ev.BookingID,
		"at":         ev.At.Format(time.RFC3339),
	}).Info(ev.Message)
	return nil
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

// Publish sends ev to every publisher, even after a failure.
func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MQTTConfig configures NewMQTTPublisher.
type MQTTConfig struct {
	BrokerURL string
	ClientID  string
	Topic     string
	Timeout   time.Duration
}

// mqttClient is the part of mqtt.Client the publisher needs.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes events as JSON to an MQTT topic with QoS 1.
type MQTTPublisher struct {
	client  mqttClient
	topic   string
	timeout time.Duration
}

// ErrMQTTTimeout is returned when the broker does not answer in time.
var ErrMQTTTimeout = errors.New("mqtt operation timed out")

// NewMQTTPublisher connects to the broker and returns a publisher for
// cfg.Topic.
func NewMQTTPublisher(cfg MQTTConfig) (*MQTTPublisher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)

	if err := connect(client, cfg); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"broker": cfg.BrokerURL, "topic": cfg.Topic}).Info("Connected to MQTT broker")
	return newMQTTPublisher(client, cfg.Topic, cfg.Timeout), nil
}

// mqttConnector is the part of mqtt.Client used while connecting.
type mqttConnector interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
}

// connect waits for the first connection. On failure the client is
// disconnected so auto-reconnect stops retrying in the background.
func connect(client mqttConnector, cfg MQTTConfig) error {
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		client.Disconnect(0)
		return fmt.Errorf("connecting to %s: %w", cfg.BrokerURL, ErrMQTTTimeout)
	}
	if err := token.Error(); err != nil {
		client.Disconnect(0)
		return fmt.Errorf("connecting to %s: %w", cfg.BrokerURL, err)
	}
	return nil
}

func newMQTTPublisher(client mqttClient, topic string, timeout time.Duration) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, timeout: timeout}
}

// Publish sends ev and waits for the broker to acknowledge it.
func (p *MQTTPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	token := p.client.Publish(p.topic, 1, false, payload)

	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.timeout):
		return fmt.Errorf("publishing to %s: %w", p.topic, ErrMQTTTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publishing to %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}
