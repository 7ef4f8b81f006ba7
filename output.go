package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"goblesense/sensor"
)

type outputMode string

const (
	modeStructured outputMode = "structured"
	modeSummary    outputMode = "summary"
)

func parseOutputMode(s string) (outputMode, error) {
	switch outputMode(s) {
	case modeStructured, modeSummary:
		return outputMode(s), nil
	}
	return "", fmt.Errorf("unknown output mode %q", s)
}

// renderDocument turns a projection into one output document. The mode
// is presentation only; staleness was already applied by the
// projection.
func renderDocument(p sensor.Projection, mode outputMode, aggregate bool, names *nameTable) ([]byte, error) {
	if mode == modeSummary {
		return json.Marshal(summaryDocument(p, names))
	}
	return json.Marshal(structuredDocument(p, aggregate, names))
}

// structuredDocument has one optional key per sensor kind; a kind with
// no current reading is left out entirely, so consumers can treat key
// presence as data presence.
func structuredDocument(p sensor.Projection, aggregate bool, names *nameTable) map[string]any {
	doc := make(map[string]any, 2)
	if len(p.Aranet4) > 0 {
		if aggregate {
			doc[string(sensor.KindAranet4)] = sensor.AggregateAranet4(p.Aranet4)
		} else {
			doc[string(sensor.KindAranet4)] = byDisplayName(p.Aranet4, names)
		}
	}
	if len(p.ATC) > 0 {
		// Aggregation is only defined for Aranet4 fields; thermometers
		// stay per-device either way.
		doc[string(sensor.KindATC)] = byDisplayName(p.ATC, names)
	}
	return doc
}

func byDisplayName[R sensor.Reading](readings map[string]R, names *nameTable) map[string]R {
	out := make(map[string]R, len(readings))
	for device, r := range readings {
		out[names.display(device)] = r
	}
	return out
}

// summaryDoc is the bar-widget shape: a short line for the bar itself
// and a multi-line detail for the hover tooltip.
type summaryDoc struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
}

func summaryDocument(p sensor.Projection, names *nameTable) summaryDoc {
	type aranetEntry struct {
		display string
		r       sensor.Aranet4
	}
	aranets := make([]aranetEntry, 0, len(p.Aranet4))
	for device, r := range p.Aranet4 {
		aranets = append(aranets, aranetEntry{names.display(device), r})
	}
	// Highest co2 first; a reading without co2 sorts last. Ties break
	// on name so repeated renders are stable.
	sort.Slice(aranets, func(i, j int) bool {
		ci, cj := aranets[i].r.CO2, aranets[j].r.CO2
		switch {
		case ci != nil && cj != nil && *ci != *cj:
			return *ci > *cj
		case (ci != nil) != (cj != nil):
			return ci != nil
		}
		return aranets[i].display < aranets[j].display
	})

	type atcEntry struct {
		display string
		r       sensor.ATC
	}
	atcs := make([]atcEntry, 0, len(p.ATC))
	for device, r := range p.ATC {
		atcs = append(atcs, atcEntry{names.display(device), r})
	}
	sort.Slice(atcs, func(i, j int) bool {
		if atcs[i].r.Temperature != atcs[j].r.Temperature {
			return atcs[i].r.Temperature > atcs[j].r.Temperature
		}
		return atcs[i].display < atcs[j].display
	})

	var text string
	switch {
	case len(aranets) > 0:
		text = aranetShort(aranets[0].r)
	case len(atcs) > 0:
		text = atcShort(atcs[0].r)
	}

	lines := make([]string, 0, len(aranets)+len(atcs))
	for _, e := range aranets {
		lines = append(lines, e.display+": "+aranetDetail(e.r))
	}
	for _, e := range atcs {
		lines = append(lines, e.display+": "+atcDetail(e.r))
	}
	return summaryDoc{Text: text, Tooltip: strings.Join(lines, "\n")}
}

func aranetShort(r sensor.Aranet4) string {
	var parts []string
	if r.CO2 != nil {
		parts = append(parts, fmt.Sprintf("%d ppm", *r.CO2))
	}
	if r.Temperature != nil {
		parts = append(parts, fmt.Sprintf("%.1f°C", *r.Temperature))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d%% rh", r.Humidity)
	}
	return strings.Join(parts, " ")
}

func aranetDetail(r sensor.Aranet4) string {
	var parts []string
	if r.CO2 != nil {
		parts = append(parts, fmt.Sprintf("%d ppm", *r.CO2))
	}
	if r.Temperature != nil {
		parts = append(parts, fmt.Sprintf("%.1f°C", *r.Temperature))
	}
	if r.Pressure != nil {
		parts = append(parts, fmt.Sprintf("%.1f hPa", *r.Pressure))
	}
	parts = append(parts,
		fmt.Sprintf("%d%% rh", r.Humidity),
		fmt.Sprintf("bat %d%%", r.Battery))
	return strings.Join(parts, ", ")
}

func atcShort(r sensor.ATC) string {
	return fmt.Sprintf("%.1f°C %.0f%% rh", r.Temperature, r.Humidity)
}

func atcDetail(r sensor.ATC) string {
	return fmt.Sprintf("%.1f°C, %.0f%% rh, %d mV, bat %d%%",
		r.Temperature, r.Humidity, r.BatteryMV, r.BatteryPercent)
}
