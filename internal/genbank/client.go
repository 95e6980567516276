// Package genbank implements a client for the NCBI Datasets v2 REST API,
// covering taxon dataset reports and genome archive downloads.
package genbank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/bioquery/taxoblast/config"
)

// TaxonReport is the subset of an assembly dataset report the pipeline needs.
type TaxonReport struct {
	Accession     string   `json:"accession"`
	Organism      Organism `json:"organism"`
	AssemblyStats struct {
		// The API serializes sequence length as a quoted decimal string.
		TotalSequenceLength int64 `json:"total_sequence_length,string"`
	} `json:"assembly_stats"`
	AnnotationInfo struct {
		Stats struct {
			GeneCounts struct {
				Total int64 `json:"total"`
			} `json:"gene_counts"`
		} `json:"stats"`
	} `json:"annotation_info"`
}

// Organism identifies the assembly's source organism.
type Organism struct {
	OrganismName string `json:"organism_name"`
	CommonName   string `json:"common_name"`
}

type datasetReportResponse struct {
	Reports []TaxonReport `json:"reports"`
}

// Client talks to the NCBI Datasets v2 API.
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	downloadClient *http.Client
}

// NewClient creates a Client from config. Request and download timeouts are
// separate because archive downloads run for minutes on large assemblies.
func NewClient(cfg config.GenBankConfig) *Client {
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		httpClient:     &http.Client{Timeout: cfg.RequestTimeout},
		downloadClient: &http.Client{Timeout: cfg.DownloadTimeout},
	}
}

// ResolveTaxon looks up the reference assembly report for a taxon. The API
// may return several reports; the first one wins. A taxon with no reference
// assembly returns an error.
func (c *Client) ResolveTaxon(ctx context.Context, taxon string) (*TaxonReport, error) {
	reportURL := fmt.Sprintf("%s/genome/taxon/%s/dataset_report?filters.reference_only=true",
		c.baseURL, url.PathEscape(taxon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset report request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.setAPIKey(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset report request for taxon %q: %w", taxon, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset report request for taxon %q: unexpected status %d", taxon, resp.StatusCode)
	}

	var report datasetReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode dataset report for taxon %q: %w", taxon, err)
	}
	if len(report.Reports) == 0 {
		return nil, fmt.Errorf("no reference genomes found for taxon %q", taxon)
	}
	return &report.Reports[0], nil
}

// DownloadArchive fetches the genome archive for an accession into destPath.
// The archive bundles the sequence FASTA and the GFF annotation.
func (c *Client) DownloadArchive(ctx context.Context, accession, destPath string) error {
	downloadURL := fmt.Sprintf("%s/genome/accession/%s/download?include_annotation_type=GENOME_FASTA,GENOME_GFF",
		c.baseURL, url.PathEscape(accession))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	c.setAPIKey(req)

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return fmt.Errorf("download archive for accession %s: %w", accession, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download archive for accession %s: unexpected status %d", accession, resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("write archive for accession %s: %w", accession, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close archive file: %w", err)
	}
	return nil
}

func (c *Client) setAPIKey(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}
