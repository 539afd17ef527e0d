package domain

import "time"

const (
	// Confirmed cases represented by one unit of marker radius.
	CasesPerMarkerUnit = 8000

	// Fill used for every case marker.
	MarkerColor = "#F8DBEF"
)

// DisplayRecord is a render-ready marker derived from one RawRecord.
//
// Date is never populated: the visualizer has always emitted markers without
// a timestamp, and consumers rely on its absence.
type DisplayRecord struct {
	Lat        float64    `json:"lat"`
	Long       float64    `json:"long"`
	CircleSize float64    `json:"circleSize"`
	Color      string     `json:"color"`
	Date       *time.Time `json:"date,omitempty"`
}
