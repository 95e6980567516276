package genome

import "fmt"

// ResolutionError indicates a taxon could not be resolved to a reference
// assembly. It covers both upstream lookup failures and taxa with no
// reference genome.
type ResolutionError struct {
	Taxon string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve taxon %q: %v", e.Taxon, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AcquisitionError indicates the artifact pair for a resolved accession could
// not be made available in the object store.
type AcquisitionError struct {
	Accession string
	Err       error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire genome %s: %v", e.Accession, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }
