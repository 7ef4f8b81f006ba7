package sensor

// Aranet4ManufacturerID keys Aranet4 broadcasts in manufacturer data.
const Aranet4ManufacturerID uint16 = 0x0702

// The measurement block sits behind an 8-byte vendor envelope.
const aranet4Origin = 8

// Aranet4 is one decoded Aranet4 announcement. CO2, temperature and
// pressure carry in-band "not measured" sentinels on the wire, so they
// are pointers here: nil means the sensor sent no value, never zero.
type Aranet4 struct {
	CO2         *uint16  `json:"co2"`         // ppm
	Temperature *float64 `json:"temperature"` // degrees C
	Pressure    *float64 `json:"pressure"`    // hPa
	Humidity    uint8    `json:"humidity"`    // percent
	Battery     uint8    `json:"battery"`     // percent
	Status      uint8    `json:"status"`      // opaque device code
}

func (Aranet4) Kind() Kind { return KindAranet4 }

// DecodeAranet4 decodes an Aranet4 manufacturer-data frame. Sentinel
// bits are checked per field: co2 bit 15, temperature bit 14, pressure
// bit 15. A set bit makes that one field absent and leaves the rest
// alone.
func DecodeAranet4(payload []byte) (Aranet4, error) {
	c := cursor{buf: payload, off: aranet4Origin}
	co2 := c.u16("co2")
	temp := c.u16("temperature")
	press := c.u16("pressure")
	hum := c.u8("humidity")
	batt := c.u8("battery")
	status := c.u8("status")
	if c.err != nil {
		return Aranet4{}, c.err
	}

	a := Aranet4{Humidity: hum, Battery: batt, Status: status}
	if co2>>15 != 1 {
		v := co2
		a.CO2 = &v
	}
	if (temp>>14)&1 != 1 {
		v := float64(temp) * 0.05
		a.Temperature = &v
	}
	if press>>15 != 1 {
		v := float64(press) * 0.1
		a.Pressure = &v
	}
	return a, nil
}
