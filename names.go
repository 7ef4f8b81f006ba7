package main

import (
	"sync"

	"goblesense/transport"
)

// nameTable is the friendly-name side table. Name lookups complete off
// the main worker, so unlike the store this map takes a lock: lookup
// goroutines write, the formatter reads at projection time.
type nameTable struct {
	mu    sync.RWMutex
	names map[transport.DeviceID]string
}

func newNameTable() *nameTable {
	return &nameTable{names: make(map[transport.DeviceID]string)}
}

func (t *nameTable) set(device transport.DeviceID, name string) {
	t.mu.Lock()
	t.names[device] = name
	t.mu.Unlock()
}

// display returns the friendly name when one is known, else the raw
// device id.
func (t *nameTable) display(device string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if name, ok := t.names[transport.DeviceID(device)]; ok && name != "" {
		return name
	}
	return device
}
