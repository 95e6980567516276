package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bioquery/taxoblast/internal/domain/model"
)

const genomeColumns = `accession, organism_name, common_name, total_sequence_length, total_gene_count, created_at`

// GenomeRepo provides database operations for genome metadata.
type GenomeRepo struct {
	DB *sql.DB
}

// NewGenomeRepo creates a new GenomeRepo.
func NewGenomeRepo(db *sql.DB) *GenomeRepo {
	return &GenomeRepo{DB: db}
}

// Register inserts genome metadata for an accession. A duplicate accession is
// treated as success so concurrent workers acquiring the same genome never
// fail on registration.
func (r *GenomeRepo) Register(ctx context.Context, g *model.Genome) error {
	if g == nil {
		return errors.New("genome is required")
	}
	if g.Accession == "" {
		return errors.New("genome accession is required")
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO genomes (accession, organism_name, common_name, total_sequence_length, total_gene_count)
		VALUES ($1, $2, $3, $4, $5)`,
		g.Accession,
		g.OrganismName,
		g.CommonName,
		g.TotalSequenceLength,
		g.TotalGeneCount,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to register genome %s: %w", g.Accession, err)
	}
	return nil
}

// GetByAccession retrieves genome metadata by accession.
func (r *GenomeRepo) GetByAccession(ctx context.Context, accession string) (*model.Genome, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+genomeColumns+` FROM genomes WHERE accession = $1`, accession)
	g, err := scanGenome(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenomeNotFound
		}
		return nil, fmt.Errorf("failed to get genome by accession: %w", err)
	}
	return g, nil
}

// List retrieves genomes with pagination, newest first.
func (r *GenomeRepo) List(ctx context.Context, limit, offset int) ([]*model.Genome, error) {
	if limit <= 0 {
		limit = 50
	}
	offset = max(offset, 0)

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+genomeColumns+` FROM genomes ORDER BY created_at DESC, accession LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list genomes: %w", err)
	}
	defer rows.Close()
	return collectGenomes(rows)
}

// ListByUser returns the distinct genomes referenced by a user's jobs.
func (r *GenomeRepo) ListByUser(ctx context.Context, userID int64) ([]*model.Genome, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT g.accession, g.organism_name, g.common_name, g.total_sequence_length, g.total_gene_count, g.created_at
		FROM genomes g
		JOIN jobs j ON g.accession IN (j.query_accession, j.target_accession)
		WHERE j.user_id = $1
		ORDER BY g.accession`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list genomes for user: %w", err)
	}
	defer rows.Close()
	return collectGenomes(rows)
}

func collectGenomes(rows *sql.Rows) ([]*model.Genome, error) {
	var genomes []*model.Genome
	for rows.Next() {
		g, err := scanGenome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan genome row: %w", err)
		}
		genomes = append(genomes, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read genome rows: %w", err)
	}
	return genomes, nil
}

func scanGenome(row rowScanner) (*model.Genome, error) {
	var g model.Genome
	err := row.Scan(
		&g.Accession,
		&g.OrganismName,
		&g.CommonName,
		&g.TotalSequenceLength,
		&g.TotalGeneCount,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
