package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/bioquery/taxoblast/internal/core"
	"github.com/bioquery/taxoblast/internal/data"
	"github.com/bioquery/taxoblast/internal/domain/model"
)

// JobProcessor runs a job to a terminal state. *Processor satisfies it.
type JobProcessor interface {
	Process(ctx context.Context, job *model.Job) error
}

// ConsumerOptions groups dependencies for Consumer.
type ConsumerOptions struct {
	Queue     core.JobQueue
	Jobs      core.JobRepository
	Processor JobProcessor
	// ErrorBackoff is the wait after a receive or lookup failure before polling again.
	ErrorBackoff time.Duration
	Logger       *slog.Logger
}

// Consumer polls the job queue and dispatches pending jobs to the processor,
// one message at a time. It runs until the context is cancelled.
type Consumer struct {
	queue     core.JobQueue
	jobs      core.JobRepository
	processor JobProcessor
	backoff   time.Duration
	logger    *slog.Logger
}

// NewConsumer constructs a new Consumer.
func NewConsumer(opts ConsumerOptions) *Consumer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	backoff := opts.ErrorBackoff
	if backoff <= 0 {
		backoff = 5 * time.Second
	}
	return &Consumer{
		queue:     opts.Queue,
		jobs:      opts.Jobs,
		processor: opts.Processor,
		backoff:   backoff,
		logger:    logger.With("component", "consumer"),
	}
}

// Run polls the queue until ctx is cancelled. Receive and lookup failures are
// logged and retried after a fixed backoff; they never stop the loop.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "worker started, polling for job notifications")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := c.queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "failed to receive from queue", "error", err)
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}
		if msg == nil {
			continue
		}

		if err := c.handle(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.ErrorContext(ctx, "failed to handle queue message", "error", err)
			if err := c.wait(ctx); err != nil {
				return err
			}
		}
	}
}

// handle dispatches one message. The message is deleted once the referenced
// job is in a terminal state or is not processable; transient failures leave
// the message for redelivery.
func (c *Consumer) handle(ctx context.Context, msg *core.QueueMessage) error {
	var note core.JobNotification
	if err := json.Unmarshal([]byte(msg.Body), &note); err != nil || note.JobID <= 0 {
		// A message that can never parse would redeliver forever.
		c.logger.WarnContext(ctx, "discarding malformed queue message", "body", msg.Body)
		return c.queue.Delete(ctx, msg.ReceiptHandle)
	}

	c.logger.InfoContext(ctx, "received job notification", "job_id", note.JobID)

	job, err := c.jobs.GetByID(ctx, note.JobID)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			c.logger.WarnContext(ctx, "job referenced by message no longer exists", "job_id", note.JobID)
			return c.queue.Delete(ctx, msg.ReceiptHandle)
		}
		return err
	}

	if job.Status != model.JobStatusPending {
		// Redelivered notification for a job another delivery already advanced.
		c.logger.InfoContext(ctx, "skipping already processed job",
			"job_id", job.ID, "status", job.Status)
		return c.queue.Delete(ctx, msg.ReceiptHandle)
	}

	// Process always lands the job in a terminal state, so the message is
	// done regardless of the outcome.
	if err := c.processor.Process(ctx, job); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return c.queue.Delete(ctx, msg.ReceiptHandle)
}

func (c *Consumer) wait(ctx context.Context) error {
	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
