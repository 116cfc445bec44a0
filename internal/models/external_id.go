package models

import "time"

// ExternalIDRecord is a stored external ID.
type ExternalIDRecord struct {
	ID        int64     `json:"-" db:"id"`
	EID       string    `json:"eid" db:"eid"`
	Prefix    string    `json:"prefix" db:"prefix"`
	UUID      string    `json:"uuid" db:"uuid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateExternalIDRequest struct {
	Prefix string `json:"prefix"`
}

type ExternalIDResponse struct {
	EID       string `json:"eid"`
	Prefix    string `json:"prefix"`
	UUID      string `json:"uuid"`
	CreatedAt string `json:"created_at"`
	Persisted bool   `json:"persisted"`
}

type ExternalIDListResponse struct {
	Items []ExternalIDResponse `json:"items"`
}

type RequestIDsResponse struct {
	Width string   `json:"width"`
	Mixed bool     `json:"mixed"`
	IDs   []string `json:"ids"`
}

type TimeResponse struct {
	UTC string `json:"utc"`
}
