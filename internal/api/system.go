package api

import (
	"net/http"
	"time"
)

// SystemStatus reports the service's runtime state.
type SystemStatus struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	ProfileCount   int    `json:"profile_count"`
	MQTTConnected  bool   `json:"mqtt_connected"`
	MetricsEnabled bool   `json:"metrics_enabled"`
}

// handleSystemStatus returns runtime status for dashboards and monitoring.
func (s *Server) handleSystemStatus(w http.ResponseWriter, _ *http.Request) {
	status := SystemStatus{
		Status:        "ok",
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		ProfileCount:  s.registry.GetProfileCount(),
	}
	if s.mqtt != nil {
		status.MQTTConnected = s.mqtt.IsConnected()
	}
	if s.metrics != nil {
		status.MetricsEnabled = s.metrics.IsConnected()
	}

	writeJSON(w, http.StatusOK, status)
}
