package sensor

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated reports a payload too short for its decoder's field
// layout.
var ErrTruncated = errors.New("truncated frame")

// DecodeFunc maps a raw broadcast payload to a typed Reading.
type DecodeFunc func(payload []byte) (Reading, error)

// KeySpace says which 16-bit namespace a frame's vendor key lives in.
// Manufacturer-data frames and service-data frames use separate key
// registries, so the same numeric key means different things in each.
type KeySpace int

const (
	ManufacturerKey KeySpace = iota
	ServiceKey
)

func (s KeySpace) String() string {
	switch s {
	case ManufacturerKey:
		return "manufacturer"
	case ServiceKey:
		return "service"
	}
	return "unknown"
}

// DecoderFor returns the decoder registered for a vendor key, or nil
// when the key is not recognized. Unknown keys are routine on a shared
// broadcast channel and not an error.
func DecoderFor(space KeySpace, key uint16) DecodeFunc {
	switch {
	case space == ManufacturerKey && key == Aranet4ManufacturerID:
		return func(payload []byte) (Reading, error) { return DecodeAranet4(payload) }
	case space == ServiceKey && key == ATCServiceID:
		return func(payload []byte) (Reading, error) { return DecodeATC(payload) }
	}
	return nil
}

// cursor reads little-endian fields in order and fails with
// ErrTruncated as soon as a field would run past the payload. After the
// first error all further reads return zero and keep the error.
type cursor struct {
	buf []byte
	off int
	err error
}

func (c *cursor) u16(field string) uint16 {
	if c.err != nil {
		return 0
	}
	if c.off+2 > len(c.buf) {
		c.err = fmt.Errorf("%w: %s needs bytes %d..%d, payload has %d", ErrTruncated, field, c.off, c.off+1, len(c.buf))
		return 0
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v
}

func (c *cursor) u8(field string) uint8 {
	if c.err != nil {
		return 0
	}
	if c.off >= len(c.buf) {
		c.err = fmt.Errorf("%w: %s needs byte %d, payload has %d", ErrTruncated, field, c.off, len(c.buf))
		return 0
	}
	v := c.buf[c.off]
	c.off++
	return v
}
