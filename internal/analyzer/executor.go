package analyzer

import (
	"context"
	"log"
	"time"

	"mediscan/internal/chunker"
	"mediscan/internal/domain"
	"mediscan/internal/port"
)

// ExecutorConfig holds the per-chunk call discipline.
type ExecutorConfig struct {
	MaxAttempts int           // outbound calls per chunk, default 2
	Timeout     time.Duration // per-attempt deadline, default 120s
	Backoff     time.Duration // fixed wait between attempts, default 2s
}

func (c ExecutorConfig) withDefaults() ExecutorConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 2
	}
	if c.Timeout <= 0 {
		c.Timeout = 120 * time.Second
	}
	if c.Backoff <= 0 {
		c.Backoff = 2 * time.Second
	}
	return c
}

// Executor invokes the generation capability for one chunk with timeout,
// bounded retry, and fixed backoff, then parses the output.
type Executor struct {
	gen port.Generator
	cfg ExecutorConfig
}

// NewExecutor creates an Executor over the given generator.
func NewExecutor(gen port.Generator, cfg ExecutorConfig) *Executor {
	return &Executor{gen: gen, cfg: cfg.withDefaults()}
}

// Call runs the generation capability for chunk ch. It returns the
// parsed extraction, or false after all attempts are exhausted. Timeout,
// transport, rate-limit, and parse failures are all treated as attempt
// failures; nothing aborts sibling chunks. The backoff wait honors ctx
// cancellation.
func (e *Executor) Call(ctx context.Context, correlationID string, ch chunker.Chunk) (*domain.Extraction, bool) {
	prompt := BuildAnalysisPrompt(ch.Text)

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
		raw, err := e.gen.Generate(attemptCtx, prompt)
		cancel()

		if err == nil {
			ext, perr := DecodeExtraction(raw)
			if perr == nil {
				return ext, true
			}
			log.Printf("[%s] analyzer.Executor: chunk %d attempt %d: unparseable output: %v",
				correlationID, ch.Index, attempt, perr)
		} else {
			log.Printf("[%s] analyzer.Executor: chunk %d attempt %d: generate failed: %v",
				correlationID, ch.Index, attempt, err)
		}

		if attempt < e.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				log.Printf("[%s] analyzer.Executor: chunk %d: canceled during backoff", correlationID, ch.Index)
				return nil, false
			case <-time.After(e.cfg.Backoff):
			}
		}
	}

	return nil, false
}
