// Package service implements the application services sitting between the
// HTTP layer and the repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bioquery/taxoblast/internal/core"
	"github.com/bioquery/taxoblast/internal/domain/model"
)

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs    core.JobRepository
	Results core.ResultRepository
	Queue   core.JobQueue
	Logger  *slog.Logger
}

// JobService orchestrates job submission and user-scoped job access.
type JobService struct {
	jobs    core.JobRepository
	results core.ResultRepository
	queue   core.JobQueue
	logger  *slog.Logger
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{
		jobs:    opts.Jobs,
		results: opts.Results,
		queue:   opts.Queue,
		logger:  logger.With("component", "job_service"),
	}
}

// Submit creates a pending job and notifies the worker queue. If the
// notification cannot be published the job is marked failed so it never
// lingers as pending with no worker coming.
func (s *JobService) Submit(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	job, err := s.jobs.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue job notification", "job_id", job.ID, "error", err)
		failed := model.JobStatusFailed
		if _, updErr := s.jobs.UpdateByID(ctx, job.ID, model.JobUpdate{Status: &failed}); updErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark unqueued job as failed", "job_id", job.ID, "error", updErr)
		}
		return nil, fmt.Errorf("enqueue job %d: %w", job.ID, err)
	}

	s.logger.InfoContext(ctx, "job submitted", "job_id", job.ID, "user_id", job.UserID)
	return job, nil
}

// Get retrieves a job, enforcing ownership for non-admin principals.
func (s *JobService) Get(ctx context.Context, principal model.Principal, id int64) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanAccessUser(job.UserID) {
		return nil, ErrForbidden
	}
	return job, nil
}

// GetResult retrieves the result of a completed job.
func (s *JobService) GetResult(ctx context.Context, principal model.Principal, id int64) (*model.JobResult, error) {
	job, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if job.Status != model.JobStatusCompleted || job.ResultID == nil {
		return nil, ErrResultNotReady
	}
	return s.results.GetByID(ctx, *job.ResultID)
}

// List returns jobs visible to the principal. Non-admin principals only ever
// see their own jobs regardless of the requested filter.
func (s *JobService) List(ctx context.Context, principal model.Principal, opts model.JobListOptions) ([]*model.Job, error) {
	if !principal.Admin {
		opts.UserID = principal.UserID
	}
	return s.jobs.List(ctx, opts)
}

// Delete removes a job owned by the principal, returning false when no such
// job exists.
func (s *JobService) Delete(ctx context.Context, principal model.Principal, id int64) (bool, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !principal.CanAccessUser(job.UserID) {
		return false, ErrForbidden
	}
	return s.jobs.Delete(ctx, id)
}
