// Package sensor decodes broadcast payloads from supported
// environmental sensors and keeps the latest reading per device.
// Everything in here is transport-agnostic: payloads come in as raw
// bytes, readings go out as plain values.
package sensor

// Kind identifies which sensor family produced a Reading.
type Kind string

const (
	KindAranet4 Kind = "aranet4"
	KindATC     Kind = "atc"
)

// Reading is one decoded broadcast. The set of implementations is
// closed: Aranet4 and ATC.
type Reading interface {
	Kind() Kind
}
