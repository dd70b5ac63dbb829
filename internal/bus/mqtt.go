// internal/bus/mqtt.go
package bus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	cfg "github.com/tamzrod/plcbridge/internal/config"
)

// Publications are fire-and-forget and never retained.
// The latest value is re-derived on every poll.
const (
	publishQoS      byte = 0
	publishRetained      = false
	subscribeQoS    byte = 0

	disconnectQuiesceMs = 250
)

// MQTTConfig is minimal transport config.
type MQTTConfig struct {
	Host           string
	Port           int
	ClientID       string
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	Username       string
	Password       string
}

// FromConfig adapts the broker section of the bridge config.
func FromConfig(b cfg.BrokerConfig) MQTTConfig {
	return MQTTConfig{
		Host:           b.Host,
		Port:           b.Port,
		ClientID:       b.ClientID,
		KeepAlive:      time.Duration(b.KeepAliveS) * time.Second,
		ConnectTimeout: time.Duration(b.ConnectTimeoutMs) * time.Millisecond,
		Username:       b.Username,
		Password:       b.Password,
	}
}

// BrokerURL returns the tcp:// URL for host and port.
func (c MQTTConfig) BrokerURL() string {
	return "tcp://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ClientIDFor returns the configured client id, or a unique one for role.
func (c MQTTConfig) ClientIDFor(role string) string {
	if c.ClientID != "" {
		return c.ClientID
	}
	return fmt.Sprintf("plcbridge-%s-%s", role, uuid.NewString())
}

// MQTT is a Publisher and Subscriber over one paho client.
// Reconnection is left to paho; subscriptions are replayed on every connect.
type MQTT struct {
	client mqtt.Client
	log    *slog.Logger

	mu   sync.Mutex
	subs map[string]mqtt.MessageHandler
}

func NewMQTT(c MQTTConfig, role string, log *slog.Logger) *MQTT {
	if log == nil {
		log = slog.Default()
	}
	m := &MQTT{
		log:  log,
		subs: make(map[string]mqtt.MessageHandler),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(c.BrokerURL()).
		SetClientID(c.ClientIDFor(role)).
		SetKeepAlive(c.KeepAlive).
		SetConnectTimeout(c.ConnectTimeout).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second).
		SetMaxReconnectInterval(30 * time.Second).
		SetOnConnectHandler(m.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("mqtt connection lost", "error", err)
		})
	if c.Username != "" {
		opts.SetUsername(c.Username)
		opts.SetPassword(c.Password)
	}

	m.client = mqtt.NewClient(opts)
	return m
}

// Connect blocks until the first connection succeeds or ctx is done.
// paho keeps retrying in the background either way.
func (m *MQTT) Connect(ctx context.Context) error {
	return wait(ctx, m.client.Connect())
}

func (m *MQTT) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := wait(ctx, m.client.Publish(topic, publishQoS, publishRetained, payload)); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}

func (m *MQTT) Subscribe(ctx context.Context, topic string, h Handler) error {
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		h(ctx, msg.Payload())
	}

	m.mu.Lock()
	m.subs[topic] = handler
	m.mu.Unlock()

	if !m.client.IsConnectionOpen() {
		// onConnect subscribes once the link is up.
		return nil
	}
	if err := wait(ctx, m.client.Subscribe(topic, subscribeQoS, handler)); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}
	m.log.Info("subscribed", "topic", topic)
	return nil
}

// Close stops the keep-alive loop and disconnects.
func (m *MQTT) Close() {
	m.client.Disconnect(disconnectQuiesceMs)
}

func (m *MQTT) onConnect(c mqtt.Client) {
	m.log.Info("mqtt connected")

	m.mu.Lock()
	defer m.mu.Unlock()

	for topic, handler := range m.subs {
		tok := c.Subscribe(topic, subscribeQoS, handler)
		go func() {
			tok.Wait()
			if err := tok.Error(); err != nil {
				m.log.Error("resubscribe failed", "topic", topic, "error", err)
				return
			}
			m.log.Info("subscribed", "topic", topic)
		}()
	}
}

func wait(ctx context.Context, tok mqtt.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return errors.Join(ctx.Err(), errors.New("mqtt: gave up waiting"))
	}
}
