// Package logging is placementd's structured logging layer, a thin
// wrapper over log/slog.
//
// Every record carries the service name and build version, so logs from
// multiple placegrid services can be aggregated and filtered. Format
// (json or text), level, and destination come from the logging section
// of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Resolve handlers log profile slugs and spec strings freely; broker
// passwords and metrics tokens must never appear in log fields.
package logging
