// Package api implements the HTTP REST API for Placement Core.
//
// This package provides:
//   - REST endpoints for parsing, validating, merging, and resolving
//     placement specifier strings
//   - Profile CRUD endpoints backed by the profile registry
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between clients (schedulers, dashboards, tooling)
// and the profile registry. Successful profile mutations are announced on
// the MQTT bus so downstream consumers can react without polling, and
// resolution latency is recorded to InfluxDB when metrics are enabled.
//
// # Graceful Degradation
//
// The server operates without MQTT and without InfluxDB — all endpoints
// keep working, only event publishing and metrics are skipped. This
// enables testing and partial operation.
package api
