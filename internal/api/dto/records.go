package dto

import "case-map-service/internal/domain"

type RejectedRecordResponse struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"` // "missing field" or "malformed field"
}

type ListRecordsResponse struct {
	Records  []domain.DisplayRecord   `json:"records"`
	Rejected []RejectedRecordResponse `json:"rejected"`
	Total    int                      `json:"total"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
