package model

import "time"

// Genome holds metadata for a reference assembly, keyed by the accession
// assigned by the upstream archive. Rows are written once per distinct
// accession the pipeline ever resolves and never updated afterwards.
type Genome struct {
	Accession           string    `json:"accession"             db:"accession"`
	OrganismName        string    `json:"organism_name"         db:"organism_name"`
	CommonName          *string   `json:"common_name,omitempty" db:"common_name"`
	TotalSequenceLength int64     `json:"total_sequence_length" db:"total_sequence_length"`
	TotalGeneCount      int64     `json:"total_gene_count"      db:"total_gene_count"`
	CreatedAt           time.Time `json:"created_at"            db:"created_at"`
}

// PreparedGenome is the output of genome acquisition: an accession plus
// time-limited references the BLAST tool can fetch the artifact pair from.
type PreparedGenome struct {
	Accession     string
	SequenceURL   string
	AnnotationURL string
}
