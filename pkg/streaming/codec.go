package streaming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// ErrInvalidTime reports a line whose leading timestamp is absent or does not
// parse.
var ErrInvalidTime = errors.New("invalid time")

// FieldMissingError reports a line carrying more values than the subscription
// declared fields, keyed by the first surplus index.
type FieldMissingError struct {
	Index int
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("field %d was not expected", e.Index)
}

// FieldValueError reports a value that does not parse for its declared field.
type FieldValueError struct {
	Field Field
	Index int
}

func (e *FieldValueError) Error() string {
	return fmt.Sprintf("error with field %s number %d", e.Field, e.Index)
}

// Encode renders a sample as the line `t,v1,...,vN` where each vi corresponds
// positionally to fields[i]. Nil values encode as empty columns.
func Encode(fields []Field, s *Sample) string {
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, strconv.FormatInt(s.Time, 10))

	for _, f := range fields {
		switch f {
		case FieldSpeed:
			cols = append(cols, formatFloat(s.Speed))
		case FieldOdometer:
			cols = append(cols, formatFloat(s.Odometer))
		case FieldSoc:
			cols = append(cols, formatInt(s.Soc))
		case FieldElevation:
			cols = append(cols, formatInt(s.Elevation))
		case FieldEstHeading:
			cols = append(cols, formatInt(s.EstHeading))
		case FieldEstLat:
			cols = append(cols, formatFloat(s.EstLat))
		case FieldEstLng:
			cols = append(cols, formatFloat(s.EstLng))
		case FieldPower:
			cols = append(cols, formatInt(s.Power))
		case FieldShiftState:
			if s.ShiftState == nil {
				cols = append(cols, "")
			} else {
				cols = append(cols, string(*s.ShiftState))
			}
		case FieldRange:
			cols = append(cols, formatFloat(s.Range))
		case FieldEstRange:
			cols = append(cols, formatFloat(s.EstRange))
		case FieldHeading:
			cols = append(cols, formatInt(s.Heading))
		}
	}

	return strings.Join(cols, ",")
}

// Decode parses a line previously produced for the given ordered field list.
// Empty columns decode to nil. A line with more values than declared fields
// yields a FieldMissingError keyed by the surplus index; an unparsable value
// yields a FieldValueError.
func Decode(guid fleetv1.VehicleGuid, line string, fields []Field) (*Sample, error) {
	cols := strings.Split(line, ",")

	t, err := strconv.ParseInt(cols[0], 10, 64)
	if err != nil {
		return nil, ErrInvalidTime
	}

	s := &Sample{Guid: guid, Time: t}

	for n, value := range cols[1:] {
		if n >= len(fields) {
			return nil, &FieldMissingError{Index: n}
		}
		if value == "" {
			continue
		}

		f := fields[n]
		switch f {
		case FieldSpeed:
			err = parseFloat(&s.Speed, value)
		case FieldOdometer:
			err = parseFloat(&s.Odometer, value)
		case FieldSoc:
			err = parseInt(&s.Soc, value)
		case FieldElevation:
			err = parseInt(&s.Elevation, value)
		case FieldEstHeading:
			err = parseInt(&s.EstHeading, value)
		case FieldEstLat:
			err = parseFloat(&s.EstLat, value)
		case FieldEstLng:
			err = parseFloat(&s.EstLng, value)
		case FieldPower:
			err = parseInt(&s.Power, value)
		case FieldShiftState:
			ss := fleetv1.ShiftState(value)
			s.ShiftState = &ss
		case FieldRange:
			err = parseFloat(&s.Range, value)
		case FieldEstRange:
			err = parseFloat(&s.EstRange, value)
		case FieldHeading:
			err = parseInt(&s.Heading, value)
		}
		if err != nil {
			return nil, &FieldValueError{Field: f, Index: n}
		}
	}

	return s, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func parseFloat(dst **float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}

func parseInt(dst **int, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*dst = &v
	return nil
}
