package metrics

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteResolution records a single placement resolution.
//
// This is the primary method for tracking resolution traffic and latency.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - profileSlug: The profile the resolution ran against ("" for ad-hoc resolutions)
//   - outcome: "ok" or the failure kind (e.g. "invalid_format", "unknown_attribute")
//   - duration: Wall-clock time the resolution took
//
// Example:
//
//	client.WriteResolution("gpu-workers", "ok", 120*time.Microsecond)
func (c *Client) WriteResolution(profileSlug string, outcome string, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	tags := map[string]string{
		"outcome": outcome,
	}
	if profileSlug != "" {
		tags["profile"] = profileSlug
	}

	point := write.NewPoint(
		"resolution",
		tags,
		map[string]interface{}{
			"duration_us": float64(duration.Microseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteProfileCount records the current number of stored profiles.
//
// Published periodically and after profile mutations so dashboards can
// graph registry size over time.
func (c *Client) WriteProfileCount(count int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"profile_count",
		nil,
		map[string]interface{}{
			"count": count,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "placement-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
