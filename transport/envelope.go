package transport

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Advertisement is the wire envelope both shipped backends speak: one
// observed BLE advertisement as a JSON object, vendor keys as 16-bit
// hex strings, payloads base64-encoded.
//
//	{"address":"E6:12:F0:1B:8E:C4","name":"Aranet4 1B8EC","rssi":-67,
//	 "manufacturer_data":{"0702":"IRMEAQAMDwG5AtkBSycxFAE8ADwAxg=="}}
type Advertisement struct {
	Address          string            `json:"address"`
	Name             string            `json:"name,omitempty"`
	RSSI             int               `json:"rssi,omitempty"`
	ManufacturerData map[string]string `json:"manufacturer_data,omitempty"`
	ServiceData      map[string]string `json:"service_data,omitempty"`
}

// ParseAdvertisement decodes and validates one envelope.
func ParseAdvertisement(raw []byte) (Advertisement, error) {
	var adv Advertisement
	if err := json.Unmarshal(raw, &adv); err != nil {
		return Advertisement{}, fmt.Errorf("advertisement envelope: %w", err)
	}
	if adv.Address == "" {
		return Advertisement{}, errors.New("advertisement envelope: missing address")
	}
	return adv, nil
}

// Frames converts the envelope's keyed payload maps into frame events.
// A key or payload that fails to decode invalidates the whole
// advertisement; callers drop it and move on.
func (a Advertisement) Frames() ([]Event, error) {
	var events []Event
	m, err := decodeKeyed(a.ManufacturerData)
	if err != nil {
		return nil, fmt.Errorf("manufacturer data: %w", err)
	}
	if len(m) > 0 {
		events = append(events, ManufacturerData{Device: DeviceID(a.Address), Data: m})
	}
	sd, err := decodeKeyed(a.ServiceData)
	if err != nil {
		return nil, fmt.Errorf("service data: %w", err)
	}
	if len(sd) > 0 {
		events = append(events, ServiceData{Device: DeviceID(a.Address), Data: sd})
	}
	return events, nil
}

func decodeKeyed(in map[string]string) (map[uint16][]byte, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[uint16][]byte, len(in))
	for k, v := range in {
		key, err := strconv.ParseUint(k, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("vendor key %q: %w", k, err)
		}
		raw, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("payload for key %q: %w", k, err)
		}
		out[uint16(key)] = raw
	}
	return out, nil
}
