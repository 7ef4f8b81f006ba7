package sensor

// ATCServiceID keys pvvx/ATC firmware broadcasts in service data
// (Environmental Sensing).
const ATCServiceID uint16 = 0x181a

// The measurement block follows the 6-byte reversed MAC.
const atcOrigin = 6

// ATC is one decoded announcement from a LYWSD03MMC running the pvvx
// custom firmware. All fields are always present on the wire.
type ATC struct {
	Temperature    float64 `json:"temperature"` // degrees C
	Humidity       float64 `json:"humidity"`    // percent
	BatteryMV      uint16  `json:"battery_mv"`
	BatteryPercent uint8   `json:"battery_percent"`
}

func (ATC) Kind() Kind { return KindATC }

// DecodeATC decodes a pvvx custom-firmware service-data frame.
func DecodeATC(payload []byte) (ATC, error) {
	c := cursor{buf: payload, off: atcOrigin}
	temp := c.u16("temperature")
	hum := c.u16("humidity")
	mv := c.u16("battery_mv")
	pct := c.u8("battery_percent")
	if c.err != nil {
		return ATC{}, c.err
	}

	return ATC{
		Temperature:    float64(temp) * 0.01,
		Humidity:       float64(hum) * 0.01,
		BatteryMV:      mv,
		BatteryPercent: pct,
	}, nil
}
