package httpx

import (
	"errors"
	"net/http"

	"github.com/bioquery/taxoblast/internal/data"
	"github.com/bioquery/taxoblast/internal/domain/model"
	"github.com/bioquery/taxoblast/internal/service"
)

// GenomeHandlers exposes genome catalog endpoints backed by GenomeService.
type GenomeHandlers struct {
	Svc *service.GenomeService
}

// ListGenomes handles GET /api/v1/genomes. A user_id query parameter scopes
// the listing to genomes referenced by that user's jobs.
func (h *GenomeHandlers) ListGenomes(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	userID := int64(queryInt(r, "user_id"))
	genomes, err := h.Svc.List(r.Context(), principal, userID, queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "forbidden", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_genomes_failed", Err: err})
		return
	}
	if genomes == nil {
		genomes = []*model.Genome{}
	}
	WriteJSON(w, http.StatusOK, genomes)
}

// GetGenome handles GET /api/v1/genomes/{accession}.
func (h *GenomeHandlers) GetGenome(w http.ResponseWriter, r *http.Request) {
	if _, ok := PrincipalFromContext(r.Context()); !ok {
		writeUnauthenticated(w)
		return
	}

	accession := r.PathValue("accession")
	if accession == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_accession", Err: errors.New("accession is required")})
		return
	}

	genome, err := h.Svc.Get(r.Context(), accession)
	if err != nil {
		if errors.Is(err, data.ErrGenomeNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "genome_not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_genome_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, genome)
}
