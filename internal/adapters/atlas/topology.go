package atlas

import (
	"encoding/json"
	"fmt"
)

// CountriesObject is the TopoJSON object the map draws.
const CountriesObject = "countries"

type topology struct {
	Type    string                     `json:"type"`
	Objects map[string]json.RawMessage `json:"objects"`
	Arcs    json.RawMessage            `json:"arcs"`
}

// Validate checks that b is a TopoJSON topology carrying the countries object.
func Validate(b []byte) error {
	var t topology
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("validate atlas: decode topology: %w", err)
	}
	if t.Type != "Topology" {
		return fmt.Errorf("validate atlas: type %q, want Topology", t.Type)
	}
	if _, ok := t.Objects[CountriesObject]; !ok {
		return fmt.Errorf("validate atlas: missing objects.%s", CountriesObject)
	}
	if len(t.Arcs) == 0 {
		return fmt.Errorf("validate atlas: missing arcs")
	}
	return nil
}
