// Package mocks provides mock implementations for testing the taxoblast job pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository and infrastructure interfaces defined in internal/core.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_repository_mock.go github.com/bioquery/taxoblast/internal/core JobRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=genome_repository_mock.go github.com/bioquery/taxoblast/internal/core GenomeRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=result_repository_mock.go github.com/bioquery/taxoblast/internal/core ResultRepository

//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=job_queue_mock.go github.com/bioquery/taxoblast/internal/core JobQueue
