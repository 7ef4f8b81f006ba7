package sensor

// Aranet4Summary is the cross-device fold of Aranet4 readings. Battery
// and status are per-device quantities and are not folded, so they do
// not appear here. Humidity becomes optional: it is absent only when
// no reading contributed at all.
type Aranet4Summary struct {
	CO2         *uint16  `json:"co2"`
	Temperature *float64 `json:"temperature"`
	Pressure    *float64 `json:"pressure"`
	Humidity    *uint8   `json:"humidity"`
}

// AggregateAranet4 folds readings field-by-field with max. A field
// absent on one reading simply does not participate in that field's
// fold; the aggregate field is absent only when every contributing
// reading had it absent.
func AggregateAranet4(readings map[string]Aranet4) Aranet4Summary {
	var agg Aranet4Summary
	for _, r := range readings {
		if r.CO2 != nil && (agg.CO2 == nil || *r.CO2 > *agg.CO2) {
			v := *r.CO2
			agg.CO2 = &v
		}
		if r.Temperature != nil && (agg.Temperature == nil || *r.Temperature > *agg.Temperature) {
			v := *r.Temperature
			agg.Temperature = &v
		}
		if r.Pressure != nil && (agg.Pressure == nil || *r.Pressure > *agg.Pressure) {
			v := *r.Pressure
			agg.Pressure = &v
		}
		if agg.Humidity == nil || r.Humidity > *agg.Humidity {
			v := r.Humidity
			agg.Humidity = &v
		}
	}
	return agg
}
