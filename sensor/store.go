package sensor

import "time"

// TimestampedReading pairs a Reading with the instant it was decoded.
type TimestampedReading struct {
	CapturedAt time.Time
	Reading    Reading
}

// Store keeps the most recent reading per device. The latest write
// wins unconditionally and entries are never deleted; staleness is a
// predicate applied at projection time, not an eviction. A single
// worker owns the store, so it takes no lock.
type Store struct {
	entries map[string]TimestampedReading
}

func NewStore() *Store {
	return &Store{entries: make(map[string]TimestampedReading)}
}

// Put records a reading for a device, returning true when the device
// had not been seen before.
func (s *Store) Put(device string, at time.Time, r Reading) bool {
	_, seen := s.entries[device]
	s.entries[device] = TimestampedReading{CapturedAt: at, Reading: r}
	return !seen
}

// Len returns the number of devices ever seen, stale or not.
func (s *Store) Len() int { return len(s.entries) }

// Projection is the staleness-filtered view of a Store, split by kind
// and keyed by raw device id.
type Projection struct {
	Aranet4 map[string]Aranet4
	ATC     map[string]ATC
}

// Empty reports whether no non-stale reading of any kind survived.
func (p Projection) Empty() bool {
	return len(p.Aranet4) == 0 && len(p.ATC) == 0
}

// Project returns the as-of-now view: every entry whose age is within
// the window. An age exactly equal to the window is included, so
// repeated calls with the same now agree at the boundary.
func (s *Store) Project(now time.Time, window time.Duration) Projection {
	p := Projection{
		Aranet4: make(map[string]Aranet4),
		ATC:     make(map[string]ATC),
	}
	for device, tr := range s.entries {
		if now.Sub(tr.CapturedAt) > window {
			continue
		}
		switch r := tr.Reading.(type) {
		case Aranet4:
			p.Aranet4[device] = r
		case ATC:
			p.ATC[device] = r
		}
	}
	return p
}
