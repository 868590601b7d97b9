// Package config loads placementd's runtime configuration.
//
// Three layers, later wins: built-in defaults, the YAML file (default
// configs/config.yaml, overridable via PLACEMENT_CONFIG), and
// PLACEMENT_* environment variables. The merged result is validated
// once at startup; nothing here is consulted again at runtime.
//
// Credentials (mqtt.auth.password, metrics.token) belong in the
// environment, not in the file.
package config
