// Package sensor ingests wound-environment telemetry: pH, temperature and
// moisture readings emitted one value per line by the monitoring probe.
package sensor

import (
	"strconv"
	"strings"
	"time"
)

// Reading is one complete set of probe values.
type Reading struct {
	PH          float64   `json:"ph"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Timestamp   time.Time `json:"timestamp"`
}

// Field identifies one value within a reading.
type Field int

const (
	FieldUnknown Field = iota
	FieldPH
	FieldTemperature
	FieldHumidity
)

// Line prefixes written by the probe firmware. The parenthesized channel
// names vary between hardware revisions, so matching stops at the "(".
const (
	phPrefix          = "pH Sensor Value"
	temperaturePrefix = "Temperature"
	moisturePrefix    = "Moisture Sensor Value"
)

// ParseLine extracts a single probe value from one serial line. It returns
// FieldUnknown for chatter that is not a sensor value.
func ParseLine(line string) (Field, float64, bool) {
	line = strings.TrimSpace(line)

	colon := strings.LastIndex(line, ":")
	if colon < 0 || colon == len(line)-1 {
		return FieldUnknown, 0, false
	}

	field := FieldUnknown
	switch {
	case strings.HasPrefix(line, phPrefix):
		field = FieldPH
	case strings.HasPrefix(line, temperaturePrefix):
		field = FieldTemperature
	case strings.HasPrefix(line, moisturePrefix):
		field = FieldHumidity
	default:
		return FieldUnknown, 0, false
	}

	raw := strings.TrimSpace(line[colon+1:])
	raw = strings.TrimSuffix(raw, "°C")
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.TrimSpace(raw)

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return FieldUnknown, 0, false
	}
	return field, value, true
}

// Parser accumulates per-line values into complete readings. The probe
// writes the three values as separate lines in quick succession, so a
// reading is emitted once all three fields have arrived.
type Parser struct {
	current Reading
	seen    uint8
	now     func() time.Time
}

// NewParser creates a Parser stamping readings with time.Now.
func NewParser() *Parser {
	return &Parser{now: time.Now}
}

// Feed consumes one serial line. It returns a complete Reading and true
// when the line completes a value set.
func (p *Parser) Feed(line string) (Reading, bool) {
	field, value, ok := ParseLine(line)
	if !ok {
		return Reading{}, false
	}

	switch field {
	case FieldPH:
		p.current.PH = value
	case FieldTemperature:
		p.current.Temperature = value
	case FieldHumidity:
		p.current.Humidity = value
	}
	p.seen |= 1 << uint(field)

	const all = 1<<uint(FieldPH) | 1<<uint(FieldTemperature) | 1<<uint(FieldHumidity)
	if p.seen != all {
		return Reading{}, false
	}

	p.current.Timestamp = p.now()
	out := p.current
	p.current = Reading{}
	p.seen = 0
	return out, true
}
