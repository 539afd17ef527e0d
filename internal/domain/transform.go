package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrMissingField   = errors.New("missing field")
	ErrMalformedField = errors.New("malformed field")
)

// RecordError reports a record that could not be transformed. Err is
// ErrMissingField or ErrMalformedField; nil means missing.
type RecordError struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Err   error  `json:"-"`
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d: %s: %v", e.Index, e.Field, e.Unwrap())
}

func (e *RecordError) Unwrap() error {
	if e.Err == nil {
		return ErrMissingField
	}
	return e.Err
}

// MissingFieldPolicy decides what happens to a record lacking a required
// field or carrying one that could not be decoded.
type MissingFieldPolicy string

const (
	PolicySkip  MissingFieldPolicy = "skip"
	PolicyAbort MissingFieldPolicy = "abort"
)

// ParsePolicy accepts "skip" or "abort"; an empty string selects skip.
func ParsePolicy(s string) (MissingFieldPolicy, error) {
	switch MissingFieldPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySkip:
		return PolicySkip, nil
	case PolicyAbort:
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("parse policy: unknown missing field policy %q", s)
	}
}

type TransformResult struct {
	Records  []DisplayRecord
	Rejected []*RecordError
}

// CircleSize maps a confirmed case count to a marker radius.
// Any positive count yields at least 1; zero yields 0.
func CircleSize(confirmed int64) float64 {
	return math.Ceil(math.Abs(float64(confirmed) / CasesPerMarkerUnit))
}

// ToDisplay converts a single record, reporting the first malformed or
// absent field.
func ToDisplay(idx int, r RawRecord) (DisplayRecord, error) {
	if r.Malformed != "" {
		return DisplayRecord{}, &RecordError{Index: idx, Field: r.Malformed, Err: ErrMalformedField}
	}
	if r.Coordinates == nil {
		return DisplayRecord{}, &RecordError{Index: idx, Field: "coordinates"}
	}
	if !r.Coordinates.Latitude.Valid {
		return DisplayRecord{}, &RecordError{Index: idx, Field: "coordinates.latitude"}
	}
	if !r.Coordinates.Longitude.Valid {
		return DisplayRecord{}, &RecordError{Index: idx, Field: "coordinates.longitude"}
	}
	if r.Stats == nil {
		return DisplayRecord{}, &RecordError{Index: idx, Field: "stats"}
	}
	if r.Stats.Confirmed == nil {
		return DisplayRecord{}, &RecordError{Index: idx, Field: "stats.confirmed"}
	}

	return DisplayRecord{
		Lat:        r.Coordinates.Latitude.Value,
		Long:       r.Coordinates.Longitude.Value,
		CircleSize: CircleSize(*r.Stats.Confirmed),
		Color:      MarkerColor,
	}, nil
}

// Transform converts raw records into display records, preserving input order.
//
// Under PolicyAbort the first incomplete record fails the whole call.
// Otherwise incomplete records are dropped and listed in Rejected.
func Transform(records []RawRecord, policy MissingFieldPolicy) (TransformResult, error) {
	out := TransformResult{Records: make([]DisplayRecord, 0, len(records))}

	for i, r := range records {
		d, err := ToDisplay(i, r)
		if err != nil {
			var re *RecordError
			if policy == PolicyAbort || !errors.As(err, &re) {
				return TransformResult{}, fmt.Errorf("transform: %w", err)
			}
			out.Rejected = append(out.Rejected, re)
			continue
		}
		out.Records = append(out.Records, d)
	}

	return out, nil
}
