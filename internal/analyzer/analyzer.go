// Package analyzer orchestrates the document analysis pipeline: split
// into chunks, invoke the generation capability per chunk with retry
// and timeout, merge partial results, and cache by content fingerprint.
package analyzer

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"mediscan/internal/cache"
	"mediscan/internal/chunker"
	"mediscan/internal/domain"
	"mediscan/internal/port"
)

// Config holds pipeline knobs.
type Config struct {
	ChunkMaxChars int // character budget per chunk, default 6000
	Executor      ExecutorConfig
}

// Analyzer runs the full analysis pipeline for one document.
type Analyzer struct {
	exec          *Executor
	cache         *cache.Cache
	chunkMaxChars int
}

// New creates an Analyzer over the given generator and result cache.
func New(gen port.Generator, resultCache *cache.Cache, cfg Config) *Analyzer {
	if cfg.ChunkMaxChars <= 0 {
		cfg.ChunkMaxChars = 6000
	}
	return &Analyzer{
		exec:          NewExecutor(gen, cfg.Executor),
		cache:         resultCache,
		chunkMaxChars: cfg.ChunkMaxChars,
	}
}

// Analyze turns document text into one merged analysis. A cache hit on
// the text's fingerprint short-circuits the pipeline. Chunks are
// processed sequentially; a failed chunk is excluded from the merge and
// does not abort its siblings. Only total failure returns an error
// (domain.ErrAnalysisFailed).
func (a *Analyzer) Analyze(ctx context.Context, text string) (*domain.Analysis, error) {
	correlationID := uuid.New().String()
	fingerprint := cache.Fingerprint(text)

	if hit, ok := a.cache.Get(fingerprint); ok {
		log.Printf("[%s] analyzer: cache hit for fingerprint %.12s", correlationID, fingerprint)
		hit.Cached = true
		return hit, nil
	}

	chunks := chunker.Split(text, a.chunkMaxChars)
	if len(chunks) == 0 {
		log.Printf("[%s] analyzer: empty document", correlationID)
		return nil, domain.ErrAnalysisFailed
	}
	log.Printf("[%s] analyzer: %d chars split into %d chunk(s)", correlationID, len(text), len(chunks))

	start := time.Now()
	parts := make([]domain.Extraction, 0, len(chunks))
	for _, ch := range chunks {
		ext, ok := a.exec.Call(ctx, correlationID, ch)
		if !ok {
			log.Printf("[%s] analyzer: chunk %d/%d failed after all attempts", correlationID, ch.Index+1, len(chunks))
			continue
		}
		parts = append(parts, *ext)
		log.Printf("[%s] analyzer: chunk %d/%d ok", correlationID, ch.Index+1, len(chunks))
	}

	if len(parts) == 0 {
		log.Printf("[%s] analyzer: all %d chunk(s) failed", correlationID, len(chunks))
		return nil, domain.ErrAnalysisFailed
	}

	merged := Merge(parts)
	merged.ChunksTotal = len(chunks)
	merged.ChunksSucceeded = len(parts)

	a.cache.Put(fingerprint, merged)
	log.Printf("[%s] analyzer: done in %s | chunks=%d/%d ok | confidence=%.2f",
		correlationID, time.Since(start).Round(time.Millisecond), len(parts), len(chunks), merged.ConfidenceScore)
	return &merged, nil
}
