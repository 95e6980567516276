package model

import "time"

// JobResult holds the best hit of a completed comparison. Created exactly
// once per successfully completed job and immutable thereafter.
type JobResult struct {
	ID              int64     `json:"id"               db:"id"`
	QueryID         string    `json:"query_id"         db:"query_id"`
	HitTitle        string    `json:"hit_title"        db:"hit_title"`
	EValue          float64   `json:"e_value"          db:"e_value"`
	Score           float64   `json:"score"            db:"score"`
	IdentityPercent float64   `json:"identity_percent" db:"identity_percent"`
	CreatedAt       time.Time `json:"created_at"       db:"created_at"`
}

// TopHit is the structured output of the BLAST tool for one job.
// Field names follow the tool's JSON output contract.
type TopHit struct {
	QueryID         string  `json:"query_id"`
	HitTitle        string  `json:"hit_title"`
	EValue          float64 `json:"e_value"`
	Score           float64 `json:"score"`
	IdentityPercent float64 `json:"identity_percent"`
}

// CreateJobResultRequest carries the fields for a new result row.
type CreateJobResultRequest struct {
	QueryID         string
	HitTitle        string
	EValue          float64
	Score           float64
	IdentityPercent float64
}
