// Package blast runs the external BLAST workflow tool and parses its output.
package blast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"os/exec"

	"github.com/bioquery/taxoblast/internal/domain/model"
)

// ToolError indicates the BLAST tool failed, either by exiting non-zero, by
// reporting an error in its output or by producing unparseable output.
type ToolError struct {
	JobID  int64
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("blast tool failed for job %d: %v", e.JobID, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// InvokerOptions groups configuration for Invoker.
type InvokerOptions struct {
	// Command is the interpreter binary, typically python3.
	Command string
	// Script is the path of the workflow script passed as first argument.
	Script string
	// Timeout bounds a single tool run. Zero means no bound.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Invoker runs the BLAST workflow as a child process. The tool downloads the
// artifact pair URLs itself and writes a single JSON document to stdout.
type Invoker struct {
	command string
	script  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewInvoker constructs a new Invoker.
func NewInvoker(opts InvokerOptions) *Invoker {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		command: opts.Command,
		script:  opts.Script,
		timeout: opts.Timeout,
		logger:  logger.With("component", "blast_invoker"),
	}
}

// toolOutput is the tool's stdout contract: either a top hit or an error field.
type toolOutput struct {
	model.TopHit
	Error string `json:"error"`
}

// Run executes the tool against the prepared genome pair and returns the top
// hit. Stdout and stderr are buffered in full; the tool emits one small JSON
// document on success.
func (i *Invoker) Run(ctx context.Context, query, target *model.PreparedGenome, jobID int64) (*model.TopHit, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	args := []string{
		i.script,
		query.SequenceURL,
		query.AnnotationURL,
		target.SequenceURL,
		target.AnnotationURL,
		strconv.FormatInt(jobID, 10),
	}
	cmd := exec.CommandContext(ctx, i.command, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	i.logger.InfoContext(ctx, "starting blast tool",
		"job_id", jobID,
		"query_accession", query.Accession,
		"target_accession", target.Accession,
	)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, &ToolError{JobID: jobID, Stderr: trimOutput(stderr.String()), Err: err}
	}

	var out toolOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, &ToolError{
			JobID:  jobID,
			Stderr: trimOutput(stderr.String()),
			Err:    fmt.Errorf("parse tool output: %w", err),
		}
	}
	if out.Error != "" {
		return nil, &ToolError{JobID: jobID, Err: errors.New(out.Error)}
	}

	i.logger.InfoContext(ctx, "blast tool finished",
		"job_id", jobID,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return &out.TopHit, nil
}

// trimOutput bounds captured stderr so a chatty tool cannot flood error messages.
func trimOutput(s string) string {
	const maxLen = 4096
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return s[:maxLen] + "... (truncated)"
	}
	return s
}
