package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bioquery/taxoblast/internal/blast"
	"github.com/bioquery/taxoblast/internal/domain/model"
	"github.com/bioquery/taxoblast/internal/genome"
	"github.com/bioquery/taxoblast/internal/mocks"
)

type stubCache struct {
	prepared map[string]*model.PreparedGenome
	errs     map[string]error
}

func (s *stubCache) Acquire(_ context.Context, taxon string) (*model.PreparedGenome, error) {
	if err, ok := s.errs[taxon]; ok {
		return nil, err
	}
	g, ok := s.prepared[taxon]
	if !ok {
		return nil, &genome.ResolutionError{Taxon: taxon, Err: errors.New("no reference genomes found")}
	}
	return g, nil
}

type stubTool struct {
	hit *model.TopHit
	err error
}

func (s *stubTool) Run(context.Context, *model.PreparedGenome, *model.PreparedGenome, int64) (*model.TopHit, error) {
	return s.hit, s.err
}

func pendingJob() *model.Job {
	return &model.Job{
		ID:          7,
		UserID:      1,
		QueryTaxon:  "saccharomyces cerevisiae",
		TargetTaxon: "escherichia coli",
		Status:      model.JobStatusPending,
	}
}

func preparedGenomes() *stubCache {
	return &stubCache{prepared: map[string]*model.PreparedGenome{
		"saccharomyces cerevisiae": {
			Accession:     "GCF_000146045.2",
			SequenceURL:   "https://store.example/q.fna",
			AnnotationURL: "https://store.example/q.gff",
		},
		"escherichia coli": {
			Accession:     "GCF_000005845.2",
			SequenceURL:   "https://store.example/t.fna",
			AnnotationURL: "https://store.example/t.gff",
		},
	}}
}

func statusUpdate(status model.JobStatus) gomock.Matcher {
	return gomock.Cond(func(upd model.JobUpdate) bool {
		return upd.Status != nil && *upd.Status == status
	})
}

func TestProcessHappyPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	results := mocks.NewMockResultRepository(ctrl)

	job := pendingJob()
	hit := &model.TopHit{QueryID: "YAL001C", HitTitle: "DNA polymerase", EValue: 1e-30, Score: 120, IdentityPercent: 87.2}

	gomock.InOrder(
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusGettingGenomes)).Return(job, nil),
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, gomock.Cond(func(upd model.JobUpdate) bool {
			return upd.Status != nil && *upd.Status == model.JobStatusRunningBlast &&
				upd.QueryAccession != nil && *upd.QueryAccession == "GCF_000146045.2" &&
				upd.TargetAccession != nil && *upd.TargetAccession == "GCF_000005845.2"
		})).Return(job, nil),
		results.EXPECT().Create(gomock.Any(), &model.CreateJobResultRequest{
			QueryID:         "YAL001C",
			HitTitle:        "DNA polymerase",
			EValue:          1e-30,
			Score:           120,
			IdentityPercent: 87.2,
		}).Return(&model.JobResult{ID: 99}, nil),
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, gomock.Cond(func(upd model.JobUpdate) bool {
			return upd.Status != nil && *upd.Status == model.JobStatusCompleted &&
				upd.ResultID != nil && *upd.ResultID == 99
		})).Return(job, nil),
	)

	p := NewProcessor(ProcessorOptions{
		Jobs:    jobs,
		Results: results,
		Genomes: preparedGenomes(),
		Tool:    &stubTool{hit: hit},
	})
	require.NoError(t, p.Process(context.Background(), job))
}

func TestProcessUnresolvableTaxonFailsJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	results := mocks.NewMockResultRepository(ctrl)

	job := pendingJob()
	job.QueryTaxon = "klingon targ"

	gomock.InOrder(
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusGettingGenomes)).Return(job, nil),
		// A job that never resolved a taxon must fail without accessions.
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, gomock.Cond(func(upd model.JobUpdate) bool {
			return upd.Status != nil && *upd.Status == model.JobStatusFailed &&
				upd.QueryAccession == nil && upd.TargetAccession == nil
		})).Return(job, nil),
	)

	p := NewProcessor(ProcessorOptions{
		Jobs:    jobs,
		Results: results,
		Genomes: preparedGenomes(),
		Tool:    &stubTool{},
	})
	err := p.Process(context.Background(), job)

	var resErr *genome.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "klingon targ", resErr.Taxon)
}

func TestProcessToolFailureFailsJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	results := mocks.NewMockResultRepository(ctrl)

	job := pendingJob()
	toolErr := &blast.ToolError{JobID: job.ID, Err: errors.New("script failed with code 3")}

	gomock.InOrder(
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusGettingGenomes)).Return(job, nil),
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusRunningBlast)).Return(job, nil),
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusFailed)).Return(job, nil),
	)

	p := NewProcessor(ProcessorOptions{
		Jobs:    jobs,
		Results: results,
		Genomes: preparedGenomes(),
		Tool:    &stubTool{err: toolErr},
	})
	err := p.Process(context.Background(), job)

	var gotErr *blast.ToolError
	require.ErrorAs(t, err, &gotErr)
}

func TestProcessResultPersistenceFailureFailsJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockJobRepository(ctrl)
	results := mocks.NewMockResultRepository(ctrl)

	job := pendingJob()

	gomock.InOrder(
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusGettingGenomes)).Return(job, nil),
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusRunningBlast)).Return(job, nil),
		results.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db unavailable")),
		jobs.EXPECT().UpdateByID(gomock.Any(), job.ID, statusUpdate(model.JobStatusFailed)).Return(job, nil),
	)

	p := NewProcessor(ProcessorOptions{
		Jobs:    jobs,
		Results: results,
		Genomes: preparedGenomes(),
		Tool:    &stubTool{hit: &model.TopHit{QueryID: "YAL001C"}},
	})
	err := p.Process(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist job result")
}

func TestStageOf(t *testing.T) {
	assert.Equal(t, "taxon_resolution", stageOf(&genome.ResolutionError{Taxon: "x", Err: errors.New("nope")}))
	assert.Equal(t, "genome_acquisition", stageOf(&genome.AcquisitionError{Accession: "GCF_1", Err: errors.New("nope")}))
	assert.Equal(t, "blast_tool", stageOf(&blast.ToolError{JobID: 1, Err: errors.New("nope")}))
	assert.Equal(t, "state_management", stageOf(errors.New("db down")))
}
