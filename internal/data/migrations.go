package data

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements holds the ordered DDL applied at startup. Every statement
// is idempotent so repeated runs against an existing database are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS job_results (
		id BIGSERIAL PRIMARY KEY,
		query_id TEXT NOT NULL,
		hit_title TEXT NOT NULL,
		e_value DOUBLE PRECISION NOT NULL,
		score DOUBLE PRECISION NOT NULL,
		identity_percent DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		query_taxon TEXT NOT NULL,
		target_taxon TEXT NOT NULL,
		query_accession TEXT,
		target_accession TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		result_id BIGINT REFERENCES job_results(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_user_id ON jobs (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs (status)`,
	`CREATE TABLE IF NOT EXISTS genomes (
		accession TEXT PRIMARY KEY,
		organism_name TEXT NOT NULL,
		common_name TEXT,
		total_sequence_length BIGINT NOT NULL DEFAULT 0,
		total_gene_count BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// RunMigrations applies the schema statements in order.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
