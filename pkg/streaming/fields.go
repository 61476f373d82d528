// Package streaming defines the wire format of the telemetry stream: the
// msg_type-tagged JSON envelopes exchanged over the WebSocket and the
// line-oriented encoding of individual samples.
package streaming

import "strings"

// Field names one column of the line-oriented sample encoding. The order a
// client lists fields in its subscription is the order values appear on every
// line.
type Field string

const (
	FieldSpeed      Field = "speed"
	FieldOdometer   Field = "odometer"
	FieldSoc        Field = "soc"
	FieldElevation  Field = "elevation"
	FieldEstHeading Field = "est_heading"
	FieldEstLat     Field = "est_lat"
	FieldEstLng     Field = "est_lng"
	FieldPower      Field = "power"
	FieldShiftState Field = "shift_state"
	FieldRange      Field = "range"
	FieldEstRange   Field = "est_range"
	FieldHeading    Field = "heading"
)

// AllFields lists every known field in its conventional order.
var AllFields = []Field{
	FieldSpeed,
	FieldOdometer,
	FieldSoc,
	FieldElevation,
	FieldEstHeading,
	FieldEstLat,
	FieldEstLng,
	FieldPower,
	FieldShiftState,
	FieldRange,
	FieldEstRange,
	FieldHeading,
}

var knownFields = func() map[Field]struct{} {
	m := make(map[Field]struct{}, len(AllFields))
	for _, f := range AllFields {
		m[f] = struct{}{}
	}
	return m
}()

// ParseFields splits a comma-separated subscription value into the ordered
// field list. Unknown names are silently dropped.
func ParseFields(value string) []Field {
	parts := strings.Split(value, ",")
	fields := make([]Field, 0, len(parts))
	for _, p := range parts {
		f := Field(p)
		if _, ok := knownFields[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// JoinFields renders an ordered field list back into the subscription value.
func JoinFields(fields []Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}
