// Package replay feeds a captured advertisement session back through
// the transport contract: one JSON envelope per line, the same shape
// the MQTT gateway publishes. Handy for working on decoding and output
// without any radio in reach.
package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"goblesense/transport"
)

// ErrExhausted reports that the capture file ran out of lines.
var ErrExhausted = errors.New("replay exhausted")

// Transport replays envelopes from a file.
type Transport struct {
	path   string
	events chan transport.Event

	mu    sync.Mutex
	names map[transport.DeviceID]string
	err   error
}

func New(path string) *Transport {
	return &Transport{
		path:   path,
		events: make(chan transport.Event, 16),
		names:  make(map[transport.DeviceID]string),
	}
}

// StartScanning opens the capture and streams its lines until EOF,
// then closes the event stream with ErrExhausted so the loop winds
// down the same way it would on a dead radio session.
func (t *Transport) StartScanning(ctx context.Context) error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("open capture %s: %w", t.path, err)
	}

	go func() {
		defer f.Close()
		t.events <- transport.AdapterPowerChanged{PoweredOn: true}
		t.events <- transport.AdapterDiscoveringChanged{Discovering: true}

		scanner := bufio.NewScanner(f)
		line := 0
		for scanner.Scan() {
			line++
			raw := scanner.Bytes()
			if len(raw) == 0 {
				continue
			}
			adv, err := transport.ParseAdvertisement(raw)
			if err != nil {
				log.Warnf("%s:%d: %v", t.path, line, err)
				continue
			}
			if adv.Name != "" {
				t.mu.Lock()
				t.names[transport.DeviceID(adv.Address)] = adv.Name
				t.mu.Unlock()
			}
			events, err := adv.Frames()
			if err != nil {
				log.Warnf("%s:%d: %v", t.path, line, err)
				continue
			}
			for _, ev := range events {
				select {
				case t.events <- ev:
				case <-ctx.Done():
					t.finish(ctx.Err())
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			t.finish(fmt.Errorf("read capture %s: %w", t.path, err))
			return
		}
		t.finish(ErrExhausted)
	}()
	return nil
}

func (t *Transport) finish(err error) {
	t.mu.Lock()
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

// LookupName resolves from names already seen in the capture.
func (t *Transport) LookupName(_ context.Context, device transport.DeviceID) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if name, ok := t.names[device]; ok {
		return name, nil
	}
	return "", fmt.Errorf("no name in capture for %s", device)
}
