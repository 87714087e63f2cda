package kiosk

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	err    error
	waited bool
}

func (t *fakeToken) Wait() bool {
	t.waited = true
	return true
}

func (t *fakeToken) WaitTimeout(time.Duration) bool {
	t.waited = true
	return true
}

func (t *fakeToken) Error() error {
	return t.err
}

type publication struct {
	topic    string
	retained bool
	payload  string
}

// fakeClient records publications and subscriptions. Methods the service
// never calls are left to the embedded nil interface.
type fakeClient struct {
	paho.Client

	connected      chan struct{}
	published      chan publication
	subscribeToken *fakeToken
	handlers       map[string]paho.MessageHandler
	disconnected   bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		connected:      make(chan struct{}),
		published:      make(chan publication, 16),
		subscribeToken: &fakeToken{},
		handlers:       make(map[string]paho.MessageHandler),
	}
}

func (c *fakeClient) Connect() paho.Token {
	close(c.connected)
	return &fakeToken{}
}

func (c *fakeClient) Disconnect(uint) {
	c.disconnected = true
}

func (c *fakeClient) Publish(topic string, _ byte, retained bool, payload interface{}) paho.Token {
	c.published <- publication{topic: topic, retained: retained, payload: string(payload.([]byte))}
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(topic string, _ byte, callback paho.MessageHandler) paho.Token {
	c.handlers[topic] = callback
	return c.subscribeToken
}

type fakeMessage struct {
	paho.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string {
	return m.topic
}

func (m *fakeMessage) Payload() []byte {
	return m.payload
}
