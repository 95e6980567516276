// Package model defines the core data types used throughout the taxoblast job pipeline.
package model

import (
	"errors"
	"strings"
	"time"
)

// JobStatus represents the current status of a comparison job.
type JobStatus string

const (
	// JobStatusPending indicates a job is waiting to be picked up by a worker.
	JobStatusPending JobStatus = "pending"
	// JobStatusGettingGenomes indicates the worker is acquiring genome data.
	JobStatusGettingGenomes JobStatus = "getting_genomes"
	// JobStatusRunningBlast indicates the BLAST tool is executing.
	JobStatusRunningBlast JobStatus = "running_blast"
	// JobStatusCompleted indicates the job finished and a result was recorded.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed at some stage of the pipeline.
	JobStatusFailed JobStatus = "failed"
)

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusGettingGenomes, JobStatusRunningBlast,
		JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal returns true if no further transitions are permitted from this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo reports whether the status graph permits moving from s to next.
// The graph is strictly forward: pending -> getting_genomes -> running_blast ->
// completed, with failed reachable from any non-terminal state.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == JobStatusFailed {
		return true
	}
	switch s {
	case JobStatusPending:
		return next == JobStatusGettingGenomes
	case JobStatusGettingGenomes:
		return next == JobStatusRunningBlast
	case JobStatusRunningBlast:
		return next == JobStatusCompleted
	}
	return false
}

// Job represents a genome comparison job.
//
// QueryAccession, TargetAccession and ResultID start out null and are filled
// in by the pipeline as it advances. ResultID is set exactly once, together
// with the completed status; the two are never out of sync in the database.
type Job struct {
	ID              int64     `json:"id"                         db:"id"`
	UserID          int64     `json:"user_id"                    db:"user_id"`
	QueryTaxon      string    `json:"query_taxon"                db:"query_taxon"`
	TargetTaxon     string    `json:"target_taxon"               db:"target_taxon"`
	QueryAccession  *string   `json:"query_accession,omitempty"  db:"query_accession"`
	TargetAccession *string   `json:"target_accession,omitempty" db:"target_accession"`
	Status          JobStatus `json:"status"                     db:"status"`
	ResultID        *int64    `json:"result_id,omitempty"        db:"result_id"`
	CreatedAt       time.Time `json:"created_at"                 db:"created_at"`
}

// CreateJobRequest represents a request to create a new comparison job.
type CreateJobRequest struct {
	UserID      int64  `json:"user_id"`
	QueryTaxon  string `json:"query_taxon"`
	TargetTaxon string `json:"target_taxon"`
}

// Validate validates the CreateJobRequest fields.
func (r *CreateJobRequest) Validate() error {
	if r.UserID <= 0 {
		return errors.New("user id is required")
	}
	if strings.TrimSpace(r.QueryTaxon) == "" {
		return errors.New("query taxon is required")
	}
	if strings.TrimSpace(r.TargetTaxon) == "" {
		return errors.New("target taxon is required")
	}
	return nil
}

// JobUpdate describes a partial update to a job row. Nil fields are left
// untouched, mirroring the partial-update contract of the repository.
type JobUpdate struct {
	Status          *JobStatus
	QueryAccession  *string
	TargetAccession *string
	ResultID        *int64
}

// IsZero returns true when the update would not change any field.
func (u JobUpdate) IsZero() bool {
	return u.Status == nil && u.QueryAccession == nil && u.TargetAccession == nil && u.ResultID == nil
}

// JobListOptions controls filtered job listing.
type JobListOptions struct {
	// UserID restricts the listing to jobs owned by this user when > 0.
	UserID int64
	// Status restricts the listing to a single status when set.
	Status JobStatus
	Limit  int
	Offset int
}
