// Package mqtt is the placegrid event bus client.
//
// placementd publishes profile lifecycle events (created, updated,
// deleted) so schedulers and dashboards can react to placement changes
// without polling the REST API, and maintains a retained presence
// message on placegrid/system/status with a last-will fallback for
// crash detection. See topics.go for the full topic layout.
//
// The connection reconnects automatically and replays subscriptions.
// TLS and broker credentials come from the mqtt section of config.yaml;
// anonymous plaintext is for local development only.
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.Publish(mqtt.Topics{}.ProfileCreated(p.ID), payload, 1, false)
package mqtt
