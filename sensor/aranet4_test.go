package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A real Aranet4 announcement captured over the air.
var aranet4Frame = []byte{
	0x21, 0x13, 0x04, 0x01, 0x00, 0x0c, 0x0f, 0x01,
	0xb9, 0x02, 0xd9, 0x01, 0x4b, 0x27, 0x33, 0x14,
	0x01, 0x3c, 0x00, 0x3c, 0x00, 0xc6,
}

func TestDecodeAranet4(t *testing.T) {
	r, err := DecodeAranet4(aranet4Frame)
	require.NoError(t, err)

	require.NotNil(t, r.CO2)
	assert.Equal(t, uint16(697), *r.CO2)
	require.NotNil(t, r.Temperature)
	assert.InDelta(t, 23.65, *r.Temperature, 1e-9)
	require.NotNil(t, r.Pressure)
	assert.InDelta(t, 1005.9, *r.Pressure, 1e-9)
	assert.Equal(t, uint8(51), r.Humidity)
	assert.Equal(t, uint8(20), r.Battery)
	assert.Equal(t, uint8(1), r.Status)

	// Decoding is pure: same bytes, same result.
	again, err := DecodeAranet4(aranet4Frame)
	require.NoError(t, err)
	assert.Equal(t, r, again)
}

// aranet4Payload builds a minimal frame: 8 envelope bytes followed by
// the measurement fields, little-endian.
func aranet4Payload(co2, temp, press uint16, hum, batt, status uint8) []byte {
	p := make([]byte, 8, 14)
	p = append(p,
		byte(co2), byte(co2>>8),
		byte(temp), byte(temp>>8),
		byte(press), byte(press>>8),
		hum, batt, status)
	return p
}

func TestDecodeAranet4Sentinels(t *testing.T) {
	tests := []struct {
		name      string
		co2       uint16
		temp      uint16
		press     uint16
		wantCO2   bool
		wantTemp  bool
		wantPress bool
	}{
		{
			name: "all present",
			co2:  500, temp: 400, press: 10000,
			wantCO2: true, wantTemp: true, wantPress: true,
		},
		{
			name: "co2 bit 15 set",
			co2:  0x8000 | 500, temp: 400, press: 10000,
			wantCO2: false, wantTemp: true, wantPress: true,
		},
		{
			name: "temperature bit 14 set",
			co2:  500, temp: 0x4000 | 400, press: 10000,
			wantCO2: true, wantTemp: false, wantPress: true,
		},
		{
			name: "pressure bit 15 set",
			co2:  500, temp: 400, press: 0x8000 | 10000,
			wantCO2: true, wantTemp: true, wantPress: false,
		},
		{
			name: "every sentinel set",
			co2:  0xffff, temp: 0x7fff, press: 0xffff,
			wantCO2: false, wantTemp: false, wantPress: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeAranet4(aranet4Payload(tt.co2, tt.temp, tt.press, 40, 90, 0))
			require.NoError(t, err)

			if tt.wantCO2 {
				require.NotNil(t, r.CO2)
				assert.Equal(t, tt.co2, *r.CO2)
			} else {
				assert.Nil(t, r.CO2)
			}
			if tt.wantTemp {
				require.NotNil(t, r.Temperature)
				assert.InDelta(t, float64(tt.temp)*0.05, *r.Temperature, 1e-9)
			} else {
				assert.Nil(t, r.Temperature)
			}
			if tt.wantPress {
				require.NotNil(t, r.Pressure)
				assert.InDelta(t, float64(tt.press)*0.1, *r.Pressure, 1e-9)
			} else {
				assert.Nil(t, r.Pressure)
			}

			// Sentinels never disturb the plain fields.
			assert.Equal(t, uint8(40), r.Humidity)
			assert.Equal(t, uint8(90), r.Battery)
		})
	}
}

func TestDecodeAranet4Truncated(t *testing.T) {
	for _, n := range []int{0, 3, 8, 9, 11, 13, 16} {
		_, err := DecodeAranet4(aranet4Frame[:n])
		require.ErrorIs(t, err, ErrTruncated, "length %d", n)
	}

	// 17 bytes is the minimum: envelope plus the full field layout.
	_, err := DecodeAranet4(aranet4Frame[:17])
	require.NoError(t, err)
}
