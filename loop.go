package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"goblesense/sensor"
	"goblesense/transport"
)

// loop is the single worker. It owns the store outright and multiplexes
// the output ticker against the transport's event stream; decoding,
// store writes and formatting all happen on this one goroutine, so the
// store needs no lock. Only name lookups run elsewhere.
type loop struct {
	tr    transport.Transport
	store *sensor.Store
	names *nameTable
	out   io.Writer

	interval  time.Duration
	stale     time.Duration
	mode      outputMode
	aggregate bool

	lookupTimeout time.Duration
	now           func() time.Time
}

func newLoop(cfg *Config, mode outputMode, tr transport.Transport, out io.Writer) *loop {
	return &loop{
		tr:            tr,
		store:         sensor.NewStore(),
		names:         newNameTable(),
		out:           out,
		interval:      cfg.IntervalDuration(),
		stale:         cfg.StaleDuration(),
		mode:          mode,
		aggregate:     cfg.Aggregate,
		lookupTimeout: 5 * time.Second,
		now:           time.Now,
	}
}

// run blocks until the transport session ends, which it reports as an
// error: a healthy loop never returns. Ticks and events are serviced
// one at a time in arrival order; a tick that lands during an event
// burst is picked up on the next pass, so it is best-effort periodic.
func (l *loop) run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.emit(); err != nil {
				log.Errorf("writing output: %v", err)
			}
		case ev, ok := <-l.tr.Events():
			if !ok {
				if err := l.tr.Err(); err != nil {
					return fmt.Errorf("transport terminated: %w", err)
				}
				return errors.New("transport event stream closed")
			}
			l.handle(ctx, ev)
		}
	}
}

func (l *loop) handle(ctx context.Context, ev transport.Event) {
	switch ev := ev.(type) {
	case transport.AdapterPowerChanged:
		log.Debugf("adapter powered on: %t", ev.PoweredOn)
	case transport.AdapterDiscoveringChanged:
		log.Debugf("adapter discovering: %t", ev.Discovering)
	case transport.ManufacturerData:
		l.handleFrames(ctx, ev.Device, sensor.ManufacturerKey, ev.Data)
	case transport.ServiceData:
		l.handleFrames(ctx, ev.Device, sensor.ServiceKey, ev.Data)
	default:
		log.Debugf("ignoring transport event %T", ev)
	}
}

// handleFrames dispatches every key/payload pair of one event on its
// own; a bad pair is logged and dropped without touching the rest.
func (l *loop) handleFrames(ctx context.Context, device transport.DeviceID, space sensor.KeySpace, data map[uint16][]byte) {
	for key, payload := range data {
		decode := sensor.DecoderFor(space, key)
		if decode == nil {
			log.Debugf("unknown %s key 0x%04x from %s (%d bytes)", space, key, device, len(payload))
			unknownKeysTotal.Inc()
			continue
		}
		reading, err := decode(payload)
		if err != nil {
			log.Warnf("dropping %s frame 0x%04x from %s: %v", space, key, device, err)
			decodeFailuresTotal.Inc()
			continue
		}
		log.Debug("decoded announcement",
			"device", device, "kind", reading.Kind(), "raw", fmt.Sprintf("%x", payload))
		first := l.store.Put(string(device), l.now(), reading)
		framesDecodedTotal.WithLabelValues(string(reading.Kind())).Inc()
		if first {
			go l.resolveName(ctx, device)
		}
	}
}

// resolveName runs off the worker, fire-and-forget. Failure just means
// output keeps showing the raw device id.
func (l *loop) resolveName(ctx context.Context, device transport.DeviceID) {
	ctx, cancel := context.WithTimeout(ctx, l.lookupTimeout)
	defer cancel()
	name, err := l.tr.LookupName(ctx, device)
	if err != nil {
		if errors.Is(err, transport.ErrNameLookupUnsupported) {
			log.Debugf("name lookup: %v", err)
		} else {
			log.Warnf("name lookup for %s failed, keeping raw id: %v", device, err)
		}
		return
	}
	l.names.set(device, name)
	log.Debugf("resolved %s as %q", device, name)
}

func (l *loop) emit() error {
	p := l.store.Project(l.now(), l.stale)
	doc, err := renderDocument(p, l.mode, l.aggregate, l.names)
	if err != nil {
		return err
	}
	doc = append(doc, '\n')
	if _, err := l.out.Write(doc); err != nil {
		return err
	}
	documentsEmittedTotal.Inc()
	return nil
}
