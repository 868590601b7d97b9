package mqtt

import (
	"fmt"
)

// maxPayloadSize caps message bodies at 1 MB, in line with common broker
// limits. Profile events are a few hundred bytes; anything near this cap
// indicates a caller bug.
const maxPayloadSize = 1 << 20

// Publish sends a message to a topic and waits for the broker ack.
//
// Profile lifecycle events go out at QoS 1, unretained: delivery is
// guaranteed but late subscribers should query the API for current
// state rather than replaying stale events. Retained is reserved for
// state topics such as the system status message.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if err := checkTopicQoS(topic, qos); err != nil {
		return err
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload %d bytes exceeds %d limit",
			ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	return await(c.paho.Publish(topic, qos, retained, payload), ErrPublishFailed)
}

// PublishString publishes a string payload; shorthand for Publish with
// []byte(payload).
func (c *Client) PublishString(topic string, payload string, qos byte, retained bool) error {
	return c.Publish(topic, []byte(payload), qos, retained)
}
