package mqtt

import (
	"context"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/placegrid/placement-core/internal/infrastructure/config"
)

// Client publishes placement events to the broker: profile lifecycle
// messages under placegrid/core/profile/... and the service presence
// message on placegrid/system/status.
//
// The client reconnects automatically with backoff and re-establishes
// any subscriptions when the broker comes back. All methods are safe
// for concurrent use.
type Client struct {
	paho pahomqtt.Client
	cfg  config.MQTTConfig

	// mu guards connection state and the optional callbacks.
	mu           sync.RWMutex
	connected    bool
	onConnect    func()
	onDisconnect func(err error)
	logger       Logger

	// subMu guards the subscription table used for re-subscription.
	subMu sync.RWMutex
	subs  map[string]subscription
}

// Logger is the subset of logging.Logger the client needs for handler
// failures. A nil logger silences them.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

type subscription struct {
	topic   string
	qos     byte
	handler MessageHandler
}

// MessageHandler receives inbound messages. paho invokes handlers on its
// own goroutines, so they must not block for long; a returned error is
// logged and the message is still acknowledged.
type MessageHandler func(topic string, payload []byte) error

// Connect dials the broker, registers the last-will presence message,
// and announces the service as online. It fails if the broker cannot be
// reached within the connect timeout; after that, reconnection is
// handled internally.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{
		cfg:  cfg,
		subs: make(map[string]subscription),
	}

	opts := clientOptions(cfg)
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) { c.brokerUp() })
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) { c.brokerLost(err) })

	c.paho = pahomqtt.NewClient(opts)

	token := c.paho.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: no response within %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	// brokerUp runs asynchronously and may not have fired yet; mark the
	// client connected now so callers can publish immediately.
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	return c, nil
}

// brokerUp runs on every (re)connect: restores subscriptions, announces
// presence, then notifies the registered callback.
func (c *Client) brokerUp() {
	c.mu.Lock()
	c.connected = true
	notify := c.onConnect
	c.mu.Unlock()

	c.resubscribeAll()
	c.announce(statusOnline, "")

	if notify != nil {
		notify()
	}
}

func (c *Client) brokerLost(err error) {
	c.mu.Lock()
	c.connected = false
	notify := c.onDisconnect
	c.mu.Unlock()

	if notify != nil {
		notify(err)
	}
}

// resubscribeAll replays the subscription table after a reconnect.
// Failures here are retried on the next reconnect cycle.
func (c *Client) resubscribeAll() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, sub := range c.subs {
		c.paho.Subscribe(sub.topic, sub.qos, c.wrapHandler(sub.handler))
	}
}

// announce publishes a retained presence message on the system status
// topic so subscribers always see the service's current state.
func (c *Client) announce(status, reason string) {
	payload := presencePayload(c.cfg.Broker.ClientID, status, reason)
	c.paho.Publish(Topics{}.SystemStatus(), byte(c.cfg.QoS), true, payload)
}

// Close announces a graceful shutdown (distinct from the last-will crash
// message) and disconnects, allowing in-flight publishes to drain.
func (c *Client) Close() error {
	if c.paho == nil {
		return nil
	}

	if c.IsConnected() {
		token := c.paho.Publish(
			Topics{}.SystemStatus(), byte(c.cfg.QoS), true,
			presencePayload(c.cfg.Broker.ClientID, statusOffline, reasonShutdown),
		)
		token.WaitTimeout(opTimeout)
	}

	c.paho.Disconnect(disconnectQuiesceMS)

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	return nil
}

// HealthCheck reports whether the broker link is up.
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected reports the last known connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected && c.paho.IsConnected()
}

// SetOnConnect registers a callback invoked on initial connect and on
// every reconnect.
func (c *Client) SetOnConnect(callback func()) {
	c.mu.Lock()
	c.onConnect = callback
	c.mu.Unlock()
}

// SetOnDisconnect registers a callback invoked when the broker link is
// lost, with the cause.
func (c *Client) SetOnDisconnect(callback func(err error)) {
	c.mu.Lock()
	c.onDisconnect = callback
	c.mu.Unlock()
}

// SetLogger attaches a logger for handler errors and panics.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Client) getLogger() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logger
}

// wrapHandler adapts a MessageHandler to paho's callback shape, adding
// panic recovery so a bad handler cannot kill the paho router goroutine.
func (c *Client) wrapHandler(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				if logger := c.getLogger(); logger != nil {
					logger.Error("panic in message handler",
						"topic", msg.Topic(),
						"panic", r,
					)
				}
			}
		}()

		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			if logger := c.getLogger(); logger != nil {
				logger.Warn("message handler error",
					"topic", msg.Topic(),
					"error", err,
				)
			}
		}
	}
}

// await blocks on a paho token and maps timeouts and broker errors onto
// the given sentinel.
func await(token pahomqtt.Token, sentinel error) error {
	if !token.WaitTimeout(opTimeout) {
		return fmt.Errorf("%w: no ack within %v", sentinel, opTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return nil
}
