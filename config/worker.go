package config

import "time"

// WorkerConfig contains queue worker and BLAST tool configuration.
type WorkerConfig struct {
	// PollWait is the SQS long-poll wait time per receive call.
	// SQS caps this at 20 seconds.
	PollWait time.Duration `env:"WORKER_POLL_WAIT" envDefault:"5s"`

	// ErrorBackoff is how long the consumer loop sleeps after a receive error.
	ErrorBackoff time.Duration `env:"WORKER_ERROR_BACKOFF" envDefault:"5s"`

	// BlastCommand is the interpreter used to run the BLAST workflow script.
	BlastCommand string `env:"BLAST_COMMAND" envDefault:"python3"`

	// BlastScript is the path to the BLAST workflow script.
	BlastScript string `env:"BLAST_SCRIPT" envDefault:"scripts/blast_workflow.py"`

	// BlastTimeout bounds a single tool invocation. A hung external tool
	// would otherwise stall the consumer loop indefinitely.
	BlastTimeout time.Duration `env:"BLAST_TIMEOUT" envDefault:"30m"`

	// PresignTTL is the lifetime of presigned artifact URLs handed to the tool.
	PresignTTL time.Duration `env:"WORKER_PRESIGN_TTL" envDefault:"1h"`
}

// Sanitize applies guardrails to worker configuration values.
func (w *WorkerConfig) Sanitize() {
	if w.PollWait < time.Second {
		w.PollWait = time.Second
	}
	if w.PollWait > 20*time.Second {
		w.PollWait = 20 * time.Second
	}
	if w.ErrorBackoff < time.Second {
		w.ErrorBackoff = time.Second
	}
	if w.PresignTTL < time.Minute {
		w.PresignTTL = time.Minute
	}
}
