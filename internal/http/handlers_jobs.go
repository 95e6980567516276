package httpx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bioquery/taxoblast/internal/data"
	"github.com/bioquery/taxoblast/internal/domain/model"
	"github.com/bioquery/taxoblast/internal/service"
)

// JobHandlers exposes job endpoints backed by JobService.
type JobHandlers struct {
	Svc *service.JobService
}

type createJobBody struct {
	QueryTaxon  string `json:"query_taxon"`
	TargetTaxon string `json:"target_taxon"`
}

// CreateJob handles POST /api/v1/jobs. The job is accepted for asynchronous
// processing; the response carries the pending job.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var body createJobBody
	if !DecodeJSON(w, r, &body) {
		return
	}

	req := &model.CreateJobRequest{
		UserID:      principal.UserID,
		QueryTaxon:  body.QueryTaxon,
		TargetTaxon: body.TargetTaxon,
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
		return
	}

	job, err := h.Svc.Submit(r.Context(), req)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "job_submission_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusAccepted, job)
}

// ListJobs handles GET /api/v1/jobs.
func (h *JobHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	opts := model.JobListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		opts.Status = model.JobStatus(status)
		if !opts.Status.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_status",
				Err:     errors.New("unknown job status " + status),
			})
			return
		}
	}
	if principal.Admin {
		opts.UserID = int64(queryInt(r, "user_id"))
	}

	jobs, err := h.Svc.List(r.Context(), principal, opts)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_jobs_failed", Err: err})
		return
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}
	WriteJSON(w, http.StatusOK, jobs)
}

// GetJob handles GET /api/v1/jobs/{id}.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := jobRequestParams(w, r)
	if !ok {
		return
	}

	job, err := h.Svc.Get(r.Context(), principal, id)
	if err != nil {
		writeJobError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// GetJobResult handles GET /api/v1/jobs/{id}/result.
func (h *JobHandlers) GetJobResult(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := jobRequestParams(w, r)
	if !ok {
		return
	}

	result, err := h.Svc.GetResult(r.Context(), principal, id)
	if err != nil {
		if errors.Is(err, service.ErrResultNotReady) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "result_not_ready", Err: err})
			return
		}
		writeJobError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// DeleteJob handles DELETE /api/v1/jobs/{id}.
func (h *JobHandlers) DeleteJob(w http.ResponseWriter, r *http.Request) {
	principal, id, ok := jobRequestParams(w, r)
	if !ok {
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), principal, id)
	if err != nil {
		writeJobError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "job_not_found", Err: data.ErrJobNotFound})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// jobRequestParams extracts the principal and the path id, writing the error
// response itself when either is missing.
func jobRequestParams(w http.ResponseWriter, r *http.Request) (model.Principal, int64, bool) {
	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return model.Principal{}, 0, false
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_job_id",
			Err:     errors.New("job id must be a positive integer"),
		})
		return model.Principal{}, 0, false
	}
	return principal, id, true
}

func writeJobError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, data.ErrJobNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "job_not_found", Err: err})
	case errors.Is(err, service.ErrForbidden):
		WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "forbidden", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
