// Package genome prepares reference genome artifacts for comparison jobs:
// resolving taxa to assemblies, filling the object store cache and handing
// out time-limited artifact URLs.
package genome

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bioquery/taxoblast/internal/core"
	"github.com/bioquery/taxoblast/internal/domain/model"
	"github.com/bioquery/taxoblast/internal/genbank"
)

// Archive is the upstream genome source: taxon resolution plus archive download.
// *genbank.Client satisfies it.
type Archive interface {
	ResolveTaxon(ctx context.Context, taxon string) (*genbank.TaxonReport, error)
	DownloadArchive(ctx context.Context, accession, destPath string) error
}

// StoreCacheOptions groups dependencies for StoreCache.
type StoreCacheOptions struct {
	Archive    Archive
	Store      core.ObjectStore
	Genomes    core.GenomeRepository
	Lookups    core.CacheRepository
	PresignTTL time.Duration
	LookupTTL  time.Duration
	Logger     *slog.Logger
}

// StoreCache acquires genome artifact pairs through the object store cache.
// Acquisition is idempotent per accession: artifacts already present in the
// store are never downloaded again.
type StoreCache struct {
	archive    Archive
	store      core.ObjectStore
	genomes    core.GenomeRepository
	lookups    core.CacheRepository
	presignTTL time.Duration
	lookupTTL  time.Duration
	logger     *slog.Logger
}

// NewStoreCache constructs a new StoreCache.
func NewStoreCache(opts StoreCacheOptions) *StoreCache {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreCache{
		archive:    opts.Archive,
		store:      opts.Store,
		genomes:    opts.Genomes,
		lookups:    opts.Lookups,
		presignTTL: opts.PresignTTL,
		lookupTTL:  opts.LookupTTL,
		logger:     logger.With("component", "genome_cache"),
	}
}

// SequenceKey returns the object store key of the FASTA artifact for an accession.
func SequenceKey(accession string) string {
	return accession + "/" + accession + ".fna"
}

// AnnotationKey returns the object store key of the GFF artifact for an accession.
func AnnotationKey(accession string) string {
	return accession + "/" + accession + ".gff"
}

// Acquire resolves a taxon to its reference assembly, ensures the artifact
// pair exists in the object store and returns presigned URLs for both files.
func (c *StoreCache) Acquire(ctx context.Context, taxon string) (*model.PreparedGenome, error) {
	report, err := c.resolve(ctx, taxon)
	if err != nil {
		return nil, &ResolutionError{Taxon: taxon, Err: err}
	}
	accession := report.Accession

	if err := c.register(ctx, report); err != nil {
		return nil, &AcquisitionError{Accession: accession, Err: err}
	}

	if err := c.ensureArtifacts(ctx, accession); err != nil {
		return nil, &AcquisitionError{Accession: accession, Err: err}
	}

	seqURL, err := c.store.PresignGet(ctx, SequenceKey(accession), c.presignTTL)
	if err != nil {
		return nil, &AcquisitionError{Accession: accession, Err: fmt.Errorf("presign sequence: %w", err)}
	}
	annURL, err := c.store.PresignGet(ctx, AnnotationKey(accession), c.presignTTL)
	if err != nil {
		return nil, &AcquisitionError{Accession: accession, Err: fmt.Errorf("presign annotation: %w", err)}
	}

	return &model.PreparedGenome{
		Accession:     accession,
		SequenceURL:   seqURL,
		AnnotationURL: annURL,
	}, nil
}

// resolve looks up the taxon report, consulting the TTL'd lookup cache first.
// Cache failures degrade to an upstream lookup rather than failing the job.
func (c *StoreCache) resolve(ctx context.Context, taxon string) (*genbank.TaxonReport, error) {
	key := lookupKey(taxon)
	if c.lookups != nil {
		if cached, err := c.lookups.Get(ctx, key); err != nil {
			c.logger.WarnContext(ctx, "taxon lookup cache read failed", "taxon", taxon, "error", err)
		} else if cached != nil {
			var report genbank.TaxonReport
			if err := json.Unmarshal(cached, &report); err == nil && report.Accession != "" {
				return &report, nil
			}
			c.logger.WarnContext(ctx, "discarding malformed taxon lookup cache entry", "taxon", taxon)
		}
	}

	report, err := c.archive.ResolveTaxon(ctx, taxon)
	if err != nil {
		return nil, err
	}

	if c.lookups != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := c.lookups.Set(ctx, key, payload, c.lookupTTL); err != nil {
				c.logger.WarnContext(ctx, "taxon lookup cache write failed", "taxon", taxon, "error", err)
			}
		}
	}
	return report, nil
}

func (c *StoreCache) register(ctx context.Context, report *genbank.TaxonReport) error {
	g := &model.Genome{
		Accession:           report.Accession,
		OrganismName:        report.Organism.OrganismName,
		TotalSequenceLength: report.AssemblyStats.TotalSequenceLength,
		TotalGeneCount:      report.AnnotationInfo.Stats.GeneCounts.Total,
	}
	// Common name is not always provided by the upstream API.
	if report.Organism.CommonName != "" {
		name := report.Organism.CommonName
		g.CommonName = &name
	}
	if err := c.genomes.Register(ctx, g); err != nil {
		return fmt.Errorf("register genome metadata: %w", err)
	}
	return nil
}

// ensureArtifacts downloads, extracts and uploads the artifact pair unless
// both files are already present in the object store.
func (c *StoreCache) ensureArtifacts(ctx context.Context, accession string) error {
	seqExists, err := c.store.Exists(ctx, SequenceKey(accession))
	if err != nil {
		return fmt.Errorf("check sequence artifact: %w", err)
	}
	annExists, err := c.store.Exists(ctx, AnnotationKey(accession))
	if err != nil {
		return fmt.Errorf("check annotation artifact: %w", err)
	}
	if seqExists && annExists {
		c.logger.DebugContext(ctx, "artifact pair already cached", "accession", accession)
		return nil
	}

	c.logger.InfoContext(ctx, "downloading genome archive", "accession", accession)

	tempDir, err := os.MkdirTemp("", "blast-")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	zipPath := filepath.Join(tempDir, accession+".zip")
	if err := c.archive.DownloadArchive(ctx, accession, zipPath); err != nil {
		return err
	}

	if err := extractArtifacts(zipPath, tempDir); err != nil {
		return fmt.Errorf("extract archive: %w", err)
	}

	fastaPath, err := findFileByExt(tempDir, ".fna")
	if err != nil {
		return err
	}
	gffPath, err := findFileByExt(tempDir, ".gff")
	if err != nil {
		return err
	}

	if err := c.store.Upload(ctx, SequenceKey(accession), fastaPath); err != nil {
		return fmt.Errorf("upload sequence artifact: %w", err)
	}
	if err := c.store.Upload(ctx, AnnotationKey(accession), gffPath); err != nil {
		return fmt.Errorf("upload annotation artifact: %w", err)
	}
	return nil
}

func lookupKey(taxon string) string {
	return "genbank:taxon:" + strings.ToLower(strings.TrimSpace(taxon))
}

// extractArtifacts unpacks the .fna and .gff entries of the archive into
// destDir, flattening them to their base names.
func extractArtifacts(zipPath, destDir string) error {
	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer archive.Close()

	for _, file := range archive.File {
		if !strings.HasSuffix(file.Name, ".fna") && !strings.HasSuffix(file.Name, ".gff") {
			continue
		}
		if err := extractOne(file, filepath.Join(destDir, filepath.Base(file.Name))); err != nil {
			return fmt.Errorf("extract %s: %w", file.Name, err)
		}
	}
	return nil
}

func extractOne(file *zip.File, destPath string) error {
	in, err := file.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ext) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", errors.New("no " + ext + " file found in downloaded archive")
}
