// Package transport defines the event-stream contract between a radio
// listener backend and the decoding loop. Concrete backends live in
// subpackages; the loop only sees this interface, so the decoders and
// the store are written once and shared across backends.
package transport

import (
	"context"
	"errors"
)

// DeviceID is the opaque per-process device token assigned by the
// backend, typically a radio address. It is only meaningful as a map
// key within one process lifetime: addresses may rotate across
// restarts.
type DeviceID string

// ErrNameLookupUnsupported is returned by backends that have no way to
// resolve friendly device names.
var ErrNameLookupUnsupported = errors.New("transport cannot resolve device names")

// Event is one item on a backend's stream. The set of implementations
// is closed to the four types below.
type Event interface {
	isEvent()
}

// AdapterPowerChanged reports the radio adapter powering on or off.
type AdapterPowerChanged struct {
	PoweredOn bool
}

// AdapterDiscoveringChanged reports scanning starting or stopping.
type AdapterDiscoveringChanged struct {
	Discovering bool
}

// ManufacturerData carries one device's manufacturer-keyed frames from
// a single advertisement.
type ManufacturerData struct {
	Device DeviceID
	Data   map[uint16][]byte
}

// ServiceData carries one device's service-keyed frames from a single
// advertisement.
type ServiceData struct {
	Device DeviceID
	Data   map[uint16][]byte
}

func (AdapterPowerChanged) isEvent()       {}
func (AdapterDiscoveringChanged) isEvent() {}
func (ManufacturerData) isEvent()          {}
func (ServiceData) isEvent()               {}

// Transport is a radio listener session. Events() closes when the
// session is lost for good; Err() then reports the cause. There is no
// reconnect path: a dead session means the process exits and the
// supervisor restarts it.
type Transport interface {
	StartScanning(ctx context.Context) error
	Events() <-chan Event
	Err() error
	LookupName(ctx context.Context, device DeviceID) (string, error)
}
