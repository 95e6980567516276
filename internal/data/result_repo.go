package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bioquery/taxoblast/internal/domain/model"
)

const resultColumns = `id, query_id, hit_title, e_value, score, identity_percent, created_at`

// ResultRepo provides database operations for job results.
type ResultRepo struct {
	DB *sql.DB
}

// NewResultRepo creates a new ResultRepo.
func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{DB: db}
}

// Create inserts a new result row.
func (r *ResultRepo) Create(ctx context.Context, req *model.CreateJobResultRequest) (*model.JobResult, error) {
	if req == nil {
		return nil, errors.New("create job result request is required")
	}

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO job_results (query_id, hit_title, e_value, score, identity_percent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+resultColumns,
		req.QueryID,
		req.HitTitle,
		req.EValue,
		req.Score,
		req.IdentityPercent,
	)
	out, err := scanResult(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job result: %w", err)
	}
	return out, nil
}

// GetByID retrieves a result by ID.
func (r *ResultRepo) GetByID(ctx context.Context, id int64) (*model.JobResult, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM job_results WHERE id = $1`, id)
	out, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get job result by ID: %w", err)
	}
	return out, nil
}

func scanResult(row rowScanner) (*model.JobResult, error) {
	var res model.JobResult
	err := row.Scan(
		&res.ID,
		&res.QueryID,
		&res.HitTitle,
		&res.EValue,
		&res.Score,
		&res.IdentityPercent,
		&res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
