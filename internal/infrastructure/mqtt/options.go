package mqtt

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/placegrid/placement-core/internal/infrastructure/config"
)

const (
	// connectTimeout bounds the initial broker dial.
	connectTimeout = 10 * time.Second

	// opTimeout bounds publish/subscribe acknowledgements.
	opTimeout = 5 * time.Second

	// disconnectQuiesceMS is the drain window paho gets on Close.
	disconnectQuiesceMS = 1000

	// keepAlive is the ping interval for dead-link detection.
	keepAlive = 60 * time.Second

	// maxQoS is the highest QoS level MQTT defines.
	maxQoS = 2
)

// Presence message values published on placegrid/system/status.
const (
	statusOnline   = "online"
	statusOffline  = "offline"
	reasonShutdown = "graceful_shutdown"
	reasonCrash    = "unexpected_disconnect"
)

// clientOptions translates the mqtt section of config.yaml into paho
// options: broker address, credentials, reconnect backoff, and the
// last-will presence message the broker publishes if the service dies
// without saying goodbye.
func clientOptions(cfg config.MQTTConfig) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	opts.AddBroker(brokerURL(cfg))
	opts.SetClientID(cfg.Broker.ClientID)

	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	// No persistent session: the subscription table in Client is the
	// source of truth and is replayed on reconnect.
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(time.Duration(cfg.Reconnect.InitialDelay) * time.Second)
	opts.SetMaxReconnectInterval(time.Duration(cfg.Reconnect.MaxDelay) * time.Second)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)

	if cfg.Broker.TLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	// Last will: retained offline presence, QoS 1, so subscribers learn
	// about a crash even while the service is gone.
	will := presencePayload(cfg.Broker.ClientID, statusOffline, reasonCrash)
	opts.SetWill(Topics{}.SystemStatus(), string(will), 1, true)

	return opts
}

// brokerURL renders the paho broker address, ssl:// when TLS is on.
func brokerURL(cfg config.MQTTConfig) string {
	scheme := "tcp"
	if cfg.Broker.TLS {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Broker.Host, cfg.Broker.Port)
}

// presence is the JSON body of system status messages.
type presence struct {
	Status    string `json:"status"`
	ClientID  string `json:"client_id"`
	Reason    string `json:"reason,omitempty"`
	Timestamp string `json:"timestamp"`
}

// presencePayload builds the status message body. reason is empty for
// online announcements.
func presencePayload(clientID, status, reason string) []byte {
	body, _ := json.Marshal(presence{ //nolint:errcheck // fixed shape, cannot fail
		Status:    status,
		ClientID:  clientID,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return body
}
