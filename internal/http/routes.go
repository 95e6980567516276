package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/bioquery/taxoblast/internal/service"
)

// RouterOptions groups dependencies for NewRouter.
type RouterOptions struct {
	Jobs    *service.JobService
	Genomes *service.GenomeService
	Health  func(ctx context.Context) error
	Logger  *slog.Logger
}

// NewRouter builds the HTTP handler tree with logging, panic recovery and
// identity resolution applied to the API routes.
func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: opts.Jobs}
	genomeHandlers := &GenomeHandlers{Svc: opts.Genomes}

	api := http.NewServeMux()
	api.HandleFunc("POST /api/v1/jobs", jobHandlers.CreateJob)
	api.HandleFunc("GET /api/v1/jobs", jobHandlers.ListJobs)
	api.HandleFunc("GET /api/v1/jobs/{id}", jobHandlers.GetJob)
	api.HandleFunc("GET /api/v1/jobs/{id}/result", jobHandlers.GetJobResult)
	api.HandleFunc("DELETE /api/v1/jobs/{id}", jobHandlers.DeleteJob)
	api.HandleFunc("GET /api/v1/genomes", genomeHandlers.ListGenomes)
	api.HandleFunc("GET /api/v1/genomes/{accession}", genomeHandlers.GetGenome)
	mux.Handle("/api/", Chain(api, RequirePrincipal()))

	healthHandlers := &HealthHandlers{Check: opts.Health}
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandlers.Health))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandlers.Health))

	return Chain(mux, Recover(logger), RequestID(), Logging(logger))
}
