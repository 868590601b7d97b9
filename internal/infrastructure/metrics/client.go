package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/placegrid/placement-core/internal/infrastructure/config"
)

const (
	// dialTimeout bounds the connectivity ping performed by Connect.
	dialTimeout = 10 * time.Second

	// healthPingTimeout bounds the ping performed by HealthCheck.
	healthPingTimeout = 5 * time.Second

	// Fallbacks when config leaves batching unset.
	defaultBatchSize     = 100
	defaultFlushSeconds  = 10
	millisecondsInSecond = 1000
)

// Client records placement telemetry in InfluxDB: per-resolution timings
// and the profile count gauge (see write.go for the measurements).
//
// Writes are non-blocking. Points are buffered, batched, and flushed in
// the background, so recording a resolution never adds latency to the
// resolve path; write failures surface through the SetOnError callback.
// All methods are safe for concurrent use.
type Client struct {
	influx   influxdb2.Client
	writeAPI api.WriteAPI
	cfg      config.MetricsConfig

	mu        sync.RWMutex
	connected bool
	onError   func(err error)
}

// Connect builds the InfluxDB client from the metrics section of
// config.yaml and verifies the server is reachable. Returns ErrDisabled
// when metrics are switched off so callers can treat that case as
// "run without telemetry".
func Connect(cfg config.MetricsConfig) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	influx := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, writeOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	healthy, err := influx.Ping(ctx)
	if err != nil {
		influx.Close()
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}
	if !healthy {
		influx.Close()
		return nil, fmt.Errorf("%w: server not healthy", ErrConnectionFailed)
	}

	c := &Client{
		influx:    influx,
		writeAPI:  influx.WriteAPI(cfg.Org, cfg.Bucket),
		cfg:       cfg,
		connected: true,
	}

	// The write API reports async failures on a channel; fan them out to
	// the registered callback for the lifetime of the client.
	go c.drainWriteErrors(c.writeAPI.Errors())

	return c, nil
}

// writeOptions maps config onto the influx client options, clamping
// unset batching values to sane defaults.
func writeOptions(cfg config.MetricsConfig) *influxdb2.Options {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	flush := cfg.FlushInterval
	if flush <= 0 {
		flush = defaultFlushSeconds
	}

	// #nosec G115 -- both values clamped positive above
	return influxdb2.DefaultOptions().
		SetBatchSize(uint(batch)).
		SetFlushInterval(uint(flush) * millisecondsInSecond)
}

func (c *Client) drainWriteErrors(errs <-chan error) {
	for err := range errs {
		c.mu.RLock()
		notify := c.onError
		c.mu.RUnlock()

		if notify != nil {
			notify(err)
		}
	}
}

// Close flushes buffered points and shuts the client down. Telemetry
// recorded after Close is silently dropped.
func (c *Client) Close() error {
	if c.influx == nil {
		return nil
	}

	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	c.writeAPI.Flush()
	c.influx.Close()
	return nil
}

// HealthCheck pings the InfluxDB server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()

	healthy, err := c.influx.Ping(pingCtx)
	if err != nil {
		return fmt.Errorf("metrics health check failed: %w", err)
	}
	if !healthy {
		return fmt.Errorf("metrics health check failed: server not healthy")
	}
	return nil
}

// IsConnected reports the last known connection state. The write helpers
// check this themselves, so callers can record telemetry unconditionally.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// SetOnError registers a callback for asynchronous write failures.
func (c *Client) SetOnError(callback func(err error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = callback
}

// Flush blocks until all buffered points are written. Used by tests and
// before shutdown; a closed client flushes nothing.
func (c *Client) Flush() {
	if c.writeAPI == nil || !c.IsConnected() {
		return
	}
	c.writeAPI.Flush()
}
