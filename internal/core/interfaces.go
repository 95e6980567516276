// Package core defines the ports between the pipeline, the service layer and
// the data/infrastructure adapters.
package core

import (
	"context"
	"time"

	"github.com/bioquery/taxoblast/internal/domain/model"
)

// This file contains repository and infrastructure interface definitions
// (ports in hexagonal architecture). Service and pipeline implementations
// should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id int64) (*model.Job, error)
	// UpdateByID applies a partial update and returns the updated row.
	UpdateByID(ctx context.Context, id int64, upd model.JobUpdate) (*model.Job, error)
	List(ctx context.Context, opts model.JobListOptions) ([]*model.Job, error)
	// Delete removes a job and its result row, returning false when no such job exists.
	Delete(ctx context.Context, id int64) (bool, error)
}

// GenomeRepository defines the interface for genome metadata operations.
type GenomeRepository interface {
	// Register inserts genome metadata for an accession. Inserting an
	// accession that already exists is treated as success, so concurrent
	// acquisitions of the same accession never fail on registration.
	Register(ctx context.Context, g *model.Genome) error
	GetByAccession(ctx context.Context, accession string) (*model.Genome, error)
	List(ctx context.Context, limit, offset int) ([]*model.Genome, error)
	// ListByUser returns the distinct genomes referenced by a user's jobs.
	ListByUser(ctx context.Context, userID int64) ([]*model.Genome, error)
}

// ResultRepository defines the interface for job result operations.
type ResultRepository interface {
	Create(ctx context.Context, req *model.CreateJobResultRequest) (*model.JobResult, error)
	GetByID(ctx context.Context, id int64) (*model.JobResult, error)
}

// ObjectStore abstracts the durable artifact store holding extracted genome files.
type ObjectStore interface {
	// Exists reports whether an object is present. A missing object is a
	// normal negative result, not an error.
	Exists(ctx context.Context, key string) (bool, error)
	// Upload stores the file at path under key, overwriting any existing object.
	Upload(ctx context.Context, key, path string) error
	// PresignGet returns a time-limited URL for reading the object.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// JobNotification is the queue message body referencing a submitted job.
type JobNotification struct {
	JobID int64 `json:"jobId"`
}

// QueueMessage is a received queue message. Body is the raw message payload;
// ReceiptHandle identifies the delivery for deletion.
type QueueMessage struct {
	Body          string
	ReceiptHandle string
}

// JobQueue abstracts the notification queue between submission and the worker.
type JobQueue interface {
	// Enqueue publishes a notification for the given job id.
	Enqueue(ctx context.Context, jobID int64) error
	// Receive waits for at most one message, long-polling up to the queue's
	// configured wait time. It returns nil when no message arrived.
	Receive(ctx context.Context) (*QueueMessage, error)
	// Delete removes a delivered message from the queue.
	Delete(ctx context.Context, receiptHandle string) error
}

// CacheRepository defines the interface for the TTL'd lookup cache.
type CacheRepository interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Health(ctx context.Context) error
}
