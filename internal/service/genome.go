package service

import (
	"context"

	"github.com/bioquery/taxoblast/internal/core"
	"github.com/bioquery/taxoblast/internal/domain/model"
)

// GenomeServiceOptions groups dependencies for GenomeService.
type GenomeServiceOptions struct {
	Genomes core.GenomeRepository
}

// GenomeService exposes read access to the genome metadata catalog.
type GenomeService struct {
	genomes core.GenomeRepository
}

// NewGenomeService constructs a new GenomeService.
func NewGenomeService(opts GenomeServiceOptions) *GenomeService {
	return &GenomeService{genomes: opts.Genomes}
}

// List returns genomes visible to the principal. Scoping to a user requires
// being that user or an admin; the unscoped catalog is admin only.
func (s *GenomeService) List(ctx context.Context, principal model.Principal, userID int64, limit, offset int) ([]*model.Genome, error) {
	if userID > 0 {
		if !principal.CanAccessUser(userID) {
			return nil, ErrForbidden
		}
		return s.genomes.ListByUser(ctx, userID)
	}
	if !principal.Admin {
		return nil, ErrForbidden
	}
	return s.genomes.List(ctx, limit, offset)
}

// Get returns the metadata for one accession. The catalog rows hold public
// assembly metadata, so any authenticated caller may read them.
func (s *GenomeService) Get(ctx context.Context, accession string) (*model.Genome, error) {
	return s.genomes.GetByAccession(ctx, accession)
}
