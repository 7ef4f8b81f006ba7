package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goblesense/transport"
)

func writeCapture(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func collect(t *testing.T, tr *Transport) []transport.Event {
	t.Helper()
	var events []transport.Event
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-tr.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("replay did not finish")
		}
	}
}

func TestReplayStreamsCapture(t *testing.T) {
	path := writeCapture(t,
		`{"address":"AA:BB","name":"Aranet4 1B8EC","manufacturer_data":{"0702":"AAECAw=="}}`+"\n"+
			`{"address":"CC:DD","service_data":{"181a":"AAECAw=="}}`+"\n"+
			"\n"+
			`{"bad":"line"}`+"\n")

	tr := New(path)
	require.NoError(t, tr.StartScanning(context.Background()))

	events := collect(t, tr)
	require.Len(t, events, 4)
	assert.IsType(t, transport.AdapterPowerChanged{}, events[0])
	assert.IsType(t, transport.AdapterDiscoveringChanged{}, events[1])

	md, ok := events[2].(transport.ManufacturerData)
	require.True(t, ok)
	assert.Equal(t, transport.DeviceID("AA:BB"), md.Device)

	sd, ok := events[3].(transport.ServiceData)
	require.True(t, ok)
	assert.Equal(t, transport.DeviceID("CC:DD"), sd.Device)

	assert.ErrorIs(t, tr.Err(), ErrExhausted)

	name, err := tr.LookupName(context.Background(), "AA:BB")
	require.NoError(t, err)
	assert.Equal(t, "Aranet4 1B8EC", name)
}

func TestReplayMissingFile(t *testing.T) {
	tr := New(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, tr.StartScanning(context.Background()))
}
