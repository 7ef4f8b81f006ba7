// Package mqttble listens to BLE advertisements relayed over MQTT by a
// remote gateway: a small host with the actual radio republishes every
// advertisement it hears as a JSON envelope. This keeps the radio
// hardware off the box running the monitor.
package mqttble

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"goblesense/transport"
)

// Options configures the broker session.
type Options struct {
	Broker   string
	ClientID string
	Topic    string
	Username string
	Password string
	QoS      byte
}

// Transport bridges the gateway's MQTT stream onto the
// transport.Transport contract.
type Transport struct {
	opts   Options
	client mqtt.Client
	events chan transport.Event

	mu     sync.Mutex
	names  map[transport.DeviceID]string
	err    error
	closed bool
}

func New(opts Options) *Transport {
	return &Transport{
		opts:   opts,
		events: make(chan transport.Event, 64),
		names:  make(map[transport.DeviceID]string),
	}
}

// StartScanning connects and subscribes. Auto-reconnect stays off: a
// lost session closes the event stream and the process exits, per the
// supervisor-restarts-us model.
func (t *Transport) StartScanning(_ context.Context) error {
	co := mqtt.NewClientOptions()
	co.AddBroker(t.opts.Broker)
	co.SetClientID(t.opts.ClientID)
	if t.opts.Username != "" {
		co.SetUsername(t.opts.Username)
		co.SetPassword(t.opts.Password)
	}
	co.SetAutoReconnect(false)
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		t.fail(fmt.Errorf("mqtt session lost: %w", err))
	})

	t.client = mqtt.NewClient(co)
	if token := t.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to %s: %w", t.opts.Broker, token.Error())
	}
	if token := t.client.Subscribe(t.opts.Topic, t.opts.QoS, t.onMessage); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", t.opts.Topic, token.Error())
	}
	log.Infof("listening for advertisements on %s via %s", t.opts.Topic, t.opts.Broker)

	// The gateway's radio is already powered and scanning by the time
	// its messages reach us.
	t.events <- transport.AdapterPowerChanged{PoweredOn: true}
	t.events <- transport.AdapterDiscoveringChanged{Discovering: true}
	return nil
}

func (t *Transport) onMessage(_ mqtt.Client, msg mqtt.Message) {
	t.handleAdvertisement(msg.Topic(), msg.Payload())
}

func (t *Transport) handleAdvertisement(topic string, payload []byte) {
	adv, err := transport.ParseAdvertisement(payload)
	if err != nil {
		log.Warnf("dropping message on %s: %v", topic, err)
		return
	}
	if adv.Name != "" {
		t.mu.Lock()
		t.names[transport.DeviceID(adv.Address)] = adv.Name
		t.mu.Unlock()
	}
	events, err := adv.Frames()
	if err != nil {
		log.Warnf("dropping advertisement from %s: %v", adv.Address, err)
		return
	}
	for _, ev := range events {
		t.emit(ev)
	}
}

func (t *Transport) emit(ev transport.Event) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return
	}
	t.events <- ev
}

// fail records the terminal error and closes the stream exactly once.
// It only ever runs from the connection-lost handler, after paho has
// stopped delivering messages.
func (t *Transport) fail(err error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.err = err
	t.mu.Unlock()
	close(t.events)
}

func (t *Transport) Events() <-chan transport.Event { return t.events }

func (t *Transport) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// LookupName serves local names the gateway has already reported in
// its envelopes; there is no active query path over MQTT.
func (t *Transport) LookupName(_ context.Context, device transport.DeviceID) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if name, ok := t.names[device]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no name observed yet for %s", device)
}
