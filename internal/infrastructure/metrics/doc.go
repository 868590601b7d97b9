// Package metrics provides InfluxDB connectivity for Placement Core.
//
// It wraps the official influxdb-client-go v2 library with Placement
// Core-specific patterns for connection management, metric writing, and
// health monitoring.
//
// # Purpose
//
// This package handles time-series data storage for:
//   - Resolution traffic and latency (per profile, per outcome)
//   - Registry size over time (profile counts)
//
// # Usage
//
//	cfg := config.MetricsConfig{
//	    Enabled: true,
//	    URL:     "http://localhost:8086",
//	    Token:   "your-token",
//	    Org:     "placegrid",
//	    Bucket:  "placement",
//	}
//
//	client, err := metrics.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record a resolution
//	client.WriteResolution("gpu-workers", "ok", elapsed)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for high-frequency resolution traffic.
package metrics
