// Package pipeline drives comparison jobs from queue notification to terminal
// state: genome acquisition, tool execution and result persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bioquery/taxoblast/internal/blast"
	"github.com/bioquery/taxoblast/internal/core"
	"github.com/bioquery/taxoblast/internal/domain/model"
	"github.com/bioquery/taxoblast/internal/genome"
)

// GenomeCache prepares a genome artifact pair for a taxon. *genome.StoreCache
// satisfies it.
type GenomeCache interface {
	Acquire(ctx context.Context, taxon string) (*model.PreparedGenome, error)
}

// Tool runs the comparison tool against a prepared genome pair. *blast.Invoker
// satisfies it.
type Tool interface {
	Run(ctx context.Context, query, target *model.PreparedGenome, jobID int64) (*model.TopHit, error)
}

// ProcessorOptions groups dependencies for Processor.
type ProcessorOptions struct {
	Jobs    core.JobRepository
	Results core.ResultRepository
	Genomes GenomeCache
	Tool    Tool
	Logger  *slog.Logger
}

// Processor executes a single job through its status transitions. Any stage
// failure lands the job in the failed state; Processor never panics on
// pipeline errors.
type Processor struct {
	jobs    core.JobRepository
	results core.ResultRepository
	genomes GenomeCache
	tool    Tool
	logger  *slog.Logger
}

// NewProcessor constructs a new Processor.
func NewProcessor(opts ProcessorOptions) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		jobs:    opts.Jobs,
		results: opts.Results,
		genomes: opts.Genomes,
		tool:    opts.Tool,
		logger:  logger.With("component", "processor"),
	}
}

// Process runs the job to a terminal state. The returned error reports why a
// job failed; the failed status has already been written by then.
func (p *Processor) Process(ctx context.Context, job *model.Job) error {
	err := p.run(ctx, job)
	if err == nil {
		p.logger.InfoContext(ctx, "job completed", "job_id", job.ID)
		return nil
	}

	p.logger.ErrorContext(ctx, "job failed",
		"job_id", job.ID,
		"stage", stageOf(err),
		"error", err,
	)

	failed := model.JobStatusFailed
	if _, updErr := p.jobs.UpdateByID(ctx, job.ID, model.JobUpdate{Status: &failed}); updErr != nil {
		p.logger.ErrorContext(ctx, "failed to record failed status", "job_id", job.ID, "error", updErr)
		return errors.Join(err, updErr)
	}
	return err
}

func (p *Processor) run(ctx context.Context, job *model.Job) error {
	p.logger.InfoContext(ctx, "getting genome data", "job_id", job.ID)
	gettingGenomes := model.JobStatusGettingGenomes
	if _, err := p.jobs.UpdateByID(ctx, job.ID, model.JobUpdate{Status: &gettingGenomes}); err != nil {
		return fmt.Errorf("mark job as getting genomes: %w", err)
	}

	query, err := p.genomes.Acquire(ctx, job.QueryTaxon)
	if err != nil {
		return err
	}
	target, err := p.genomes.Acquire(ctx, job.TargetTaxon)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "running blast", "job_id", job.ID,
		"query_accession", query.Accession, "target_accession", target.Accession)
	runningBlast := model.JobStatusRunningBlast
	if _, err := p.jobs.UpdateByID(ctx, job.ID, model.JobUpdate{
		Status:          &runningBlast,
		QueryAccession:  &query.Accession,
		TargetAccession: &target.Accession,
	}); err != nil {
		return fmt.Errorf("mark job as running blast: %w", err)
	}

	topHit, err := p.tool.Run(ctx, query, target, job.ID)
	if err != nil {
		return err
	}

	result, err := p.results.Create(ctx, &model.CreateJobResultRequest{
		QueryID:         topHit.QueryID,
		HitTitle:        topHit.HitTitle,
		EValue:          topHit.EValue,
		Score:           topHit.Score,
		IdentityPercent: topHit.IdentityPercent,
	})
	if err != nil {
		return fmt.Errorf("persist job result: %w", err)
	}

	// Completed status and result reference land in one write so readers
	// never observe a completed job without its result.
	completed := model.JobStatusCompleted
	if _, err := p.jobs.UpdateByID(ctx, job.ID, model.JobUpdate{
		Status:   &completed,
		ResultID: &result.ID,
	}); err != nil {
		return fmt.Errorf("mark job as completed: %w", err)
	}
	return nil
}

// stageOf names the pipeline stage an error came from, for log context.
func stageOf(err error) string {
	var resErr *genome.ResolutionError
	var acqErr *genome.AcquisitionError
	var toolErr *blast.ToolError
	switch {
	case errors.As(err, &resErr):
		return "taxon_resolution"
	case errors.As(err, &acqErr):
		return "genome_acquisition"
	case errors.As(err, &toolErr):
		return "blast_tool"
	default:
		return "state_management"
	}
}
