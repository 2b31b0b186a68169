package sink

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultTopic is the topic frames are published on when none is configured.
const DefaultTopic = "motionemu/frame"

const publishTimeout = time.Second

// MQTT publishes frames as JSON payloads.
type MQTT struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewMQTT publishes on an already connected client.
func NewMQTT(client mqtt.Client, topic string, qos byte) *MQTT {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTT{client: client, topic: topic, qos: qos}
}

// DialMQTT connects to broker (e.g. tcp://localhost:1883) and returns a sink
// publishing on topic.
func DialMQTT(broker, clientID, topic string, qos byte) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, token.Error())
	}
	return NewMQTT(client, topic, qos), nil
}

func (s *MQTT) Write(f Frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, s.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", s.topic)
	}
	return token.Error()
}

// Close disconnects from the broker, waiting briefly for in-flight messages.
func (s *MQTT) Close() error {
	s.client.Disconnect(250)
	return nil
}
