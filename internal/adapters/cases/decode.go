package cases

import (
	"bytes"
	"case-map-service/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrBadPayload = errors.New("case payload is not a JSON array of records")

// decodeRecords parses a JSON array of raw records.
func decodeRecords(b []byte) ([]domain.RawRecord, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		return nil, ErrBadPayload
	}

	var recs []domain.RawRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return recs, nil
}
