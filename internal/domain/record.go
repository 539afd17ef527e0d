package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Degrees is a coordinate component as reported by the upstream feed.
// The JHU CSSE feed sends coordinates as quoted strings, other feeds as numbers;
// both decode to the same value. An empty string decodes as absent.
type Degrees struct {
	Value float64
	Valid bool
}

func (d *Degrees) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = Degrees{}
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode degrees: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*d = Degrees{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("decode degrees %q: %w", s, err)
		}
		*d = Degrees{Value: v, Valid: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode degrees: %w", err)
	}
	*d = Degrees{Value: v, Valid: true}
	return nil
}

func (d Degrees) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

// Deg is shorthand for a present coordinate component.
func Deg(v float64) Degrees { return Degrees{Value: v, Valid: true} }

// Geographic position of a reporting location.
type Coordinates struct {
	Latitude  Degrees `json:"latitude"`
	Longitude Degrees `json:"longitude"`
}

// Case counters reported for a location.
type Stats struct {
	Confirmed *int64 `json:"confirmed"`
}

// RawRecord is one upstream data point. Nil sub-objects mean the field was
// absent from the payload. Malformed names the first field that was present
// but could not be decoded; such a record is rejected by Transform.
type RawRecord struct {
	Coordinates *Coordinates `json:"coordinates"`
	Stats       *Stats       `json:"stats"`
	Malformed   string       `json:"-"`
}

type wireRecord struct {
	Coordinates json.RawMessage `json:"coordinates"`
	Stats       json.RawMessage `json:"stats"`
}

type wireCoordinates struct {
	Latitude  json.RawMessage `json:"latitude"`
	Longitude json.RawMessage `json:"longitude"`
}

type wireStats struct {
	Confirmed json.RawMessage `json:"confirmed"`
}

// UnmarshalJSON never fails on field contents. A bad field is recorded in
// Malformed so one broken row cannot fail the whole payload.
func (r *RawRecord) UnmarshalJSON(b []byte) error {
	*r = RawRecord{}
	if absent(b) {
		return nil
	}

	var w wireRecord
	if err := json.Unmarshal(b, &w); err != nil {
		r.Malformed = "record"
		return nil
	}

	if !absent(w.Coordinates) {
		var c wireCoordinates
		if err := json.Unmarshal(w.Coordinates, &c); err != nil {
			r.Malformed = "coordinates"
			return nil
		}
		r.Coordinates = &Coordinates{}
		if !absent(c.Latitude) {
			if err := r.Coordinates.Latitude.UnmarshalJSON(c.Latitude); err != nil {
				r.Malformed = "coordinates.latitude"
				return nil
			}
		}
		if !absent(c.Longitude) {
			if err := r.Coordinates.Longitude.UnmarshalJSON(c.Longitude); err != nil {
				r.Malformed = "coordinates.longitude"
				return nil
			}
		}
	}

	if !absent(w.Stats) {
		var st wireStats
		if err := json.Unmarshal(w.Stats, &st); err != nil {
			r.Malformed = "stats"
			return nil
		}
		r.Stats = &Stats{}
		if !absent(st.Confirmed) {
			var n int64
			if err := json.Unmarshal(st.Confirmed, &n); err != nil {
				r.Malformed = "stats.confirmed"
				return nil
			}
			r.Stats.Confirmed = &n
		}
	}

	return nil
}

func absent(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// NewRawRecord builds a fully populated record.
func NewRawRecord(lat, long float64, confirmed int64) RawRecord {
	return RawRecord{
		Coordinates: &Coordinates{Latitude: Deg(lat), Longitude: Deg(long)},
		Stats:       &Stats{Confirmed: &confirmed},
	}
}
