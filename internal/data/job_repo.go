package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bioquery/taxoblast/internal/domain/model"
)

const jobColumns = `id, user_id, query_taxon, target_taxon, query_accession, target_accession, status, result_id, created_at`

// JobRepo provides database operations for comparison jobs.
type JobRepo struct {
	DB *sql.DB
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db}
}

// Create inserts a new job in the pending state.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO jobs (user_id, query_taxon, target_taxon, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+jobColumns,
		req.UserID,
		strings.TrimSpace(req.QueryTaxon),
		strings.TrimSpace(req.TargetTaxon),
		model.JobStatusPending,
	)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id int64) (*model.Job, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}
	return job, nil
}

// UpdateByID applies a partial update and returns the updated row.
func (r *JobRepo) UpdateByID(ctx context.Context, id int64, upd model.JobUpdate) (*model.Job, error) {
	if upd.IsZero() {
		return r.GetByID(ctx, id)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("invalid job status %q", *upd.Status)
	}

	setClause, args := buildJobUpdateClause(upd)
	args = append(args, id)
	query := "UPDATE jobs SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + jobColumns

	row := r.DB.QueryRowContext(ctx, query, args...)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// List retrieves jobs matching the options, newest first.
func (r *JobRepo) List(ctx context.Context, opts model.JobListOptions) ([]*model.Job, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	query, args := buildJobListQuery(opts, limit, offset)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

// Delete removes a job and its result row, returning false when no such job exists.
func (r *JobRepo) Delete(ctx context.Context, id int64) (bool, error) {
	var resultID *int64
	err := r.DB.QueryRowContext(ctx,
		`DELETE FROM jobs WHERE id = $1 RETURNING result_id`, id).Scan(&resultID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete job: %w", err)
	}

	// The result row is only reachable through the job, so it goes too.
	if resultID != nil {
		if _, err := r.DB.ExecContext(ctx, `DELETE FROM job_results WHERE id = $1`, *resultID); err != nil {
			return false, fmt.Errorf("failed to delete job result: %w", err)
		}
	}
	return true, nil
}

// buildJobUpdateClause builds the SQL SET clause and args for a partial job update.
func buildJobUpdateClause(upd model.JobUpdate) (string, []any) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if upd.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *upd.Status)
	}
	if upd.QueryAccession != nil {
		setParts = append(setParts, fmt.Sprintf("query_accession = $%d", nextIdx()))
		args = append(args, *upd.QueryAccession)
	}
	if upd.TargetAccession != nil {
		setParts = append(setParts, fmt.Sprintf("target_accession = $%d", nextIdx()))
		args = append(args, *upd.TargetAccession)
	}
	if upd.ResultID != nil {
		setParts = append(setParts, fmt.Sprintf("result_id = $%d", nextIdx()))
		args = append(args, *upd.ResultID)
	}
	return strings.Join(setParts, ", "), args
}

// buildJobListQuery builds the filtered list query and its args.
func buildJobListQuery(opts model.JobListOptions, limit, offset int) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT " + jobColumns + " FROM jobs")

	args := make([]any, 0, 4)
	var conds []string
	if opts.UserID > 0 {
		args = append(args, opts.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	args = append(args, limit)
	b.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args)))
	args = append(args, offset)
	b.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	return b.String(), args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*model.Job, error) {
	var j model.Job
	err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.QueryTaxon,
		&j.TargetTaxon,
		&j.QueryAccession,
		&j.TargetAccession,
		&j.Status,
		&j.ResultID,
		&j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
