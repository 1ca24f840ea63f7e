// Copyright 2025 Bob Matsuoka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bobmatnyc/mcp-skillkit/ai"
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

// Engine builds and publishes index snapshots. Embeddings are generated
// concurrently through a worker pool and cached by content hash, so a
// reindex only embeds skills whose text actually changed. At most one
// reindex runs at a time; searches keep reading the previously published
// snapshot until the new one is swapped in.
type Engine struct {
	skills   storage.SkillRepository
	vectors  storage.VectorRepository
	embedder ai.Embedder

	batchSize  int
	maxRetries int
	retryDelay time.Duration
	timeout    time.Duration
	progress   io.Writer
	logger     *slog.Logger

	pool     *ants.Pool
	busy     atomic.Bool
	snapshot atomic.Pointer[Snapshot]
}

// Option configures an Engine.
type Option func(*Engine) error

// WithBatchSize sets how many skill texts are embedded per request.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}
		e.batchSize = size
		return nil
	}
}

// WithMaxRetries sets the retry budget for failed embedding requests.
// Default is 3.
func WithMaxRetries(maxRetries int) Option {
	return func(e *Engine) error {
		if maxRetries < 1 {
			maxRetries = 1
		}
		e.maxRetries = maxRetries
		return nil
	}
}

// WithRetryDelay sets the base delay for exponential backoff between
// embedding retries. Default is 1 second.
func WithRetryDelay(delay time.Duration) Option {
	return func(e *Engine) error {
		e.retryDelay = delay
		return nil
	}
}

// WithTimeout bounds how long a single reindex may run. A reindex that
// exceeds the budget fails with ErrReindexTimeout and leaves the previous
// snapshot in effect. Zero disables the bound. Default is 5 minutes.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		e.timeout = timeout
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(e *Engine) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if e.pool != nil {
			e.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithProgress sets where progress output is written (typically os.Stderr).
// Default is to discard it.
func WithProgress(writer io.Writer) Option {
	return func(e *Engine) error {
		if writer == nil {
			writer = io.Discard
		}
		e.progress = writer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates an indexing engine. Until the first Reindex or Restore
// the engine serves an empty snapshot.
func NewEngine(
	skills storage.SkillRepository,
	vectors storage.VectorRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Engine, error) {
	if skills == nil {
		return nil, ErrSkillRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		skills:     skills,
		vectors:    vectors,
		embedder:   embedder,
		batchSize:  32,
		maxRetries: 3,
		retryDelay: 1 * time.Second,
		timeout:    5 * time.Minute,
		progress:   io.Discard,
		logger:     slog.Default(),
		pool:       pool,
	}
	e.snapshot.Store(emptySnapshot())

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// Snapshot returns the currently published snapshot. Never nil.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Release releases the worker pool. The engine should not be used after
// calling Release.
func (e *Engine) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}

// Reindex rebuilds the vector and graph indexes from stored skills and
// publishes the result as a new snapshot. Skills whose embeddable text is
// unchanged since the last run reuse their persisted embeddings. Returns
// ErrReindexInProgress when another reindex is running, and
// ErrReindexTimeout when the time budget is exceeded; in both cases the
// previously published snapshot remains in effect.
func (e *Engine) Reindex(ctx context.Context) (*core.IndexStats, error) {
	return e.reindex(ctx, false)
}

// ReindexAll rebuilds the indexes like Reindex but re-embeds every skill,
// ignoring the content-hash cache. Use it after switching embedding models.
func (e *Engine) ReindexAll(ctx context.Context) (*core.IndexStats, error) {
	return e.reindex(ctx, true)
}

func (e *Engine) reindex(ctx context.Context, force bool) (*core.IndexStats, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrReindexInProgress
	}
	defer e.busy.Store(false)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()

	skills, err := e.skills.ListSkills(ctx, storage.Filter{})
	if err != nil {
		return nil, e.reindexErr(ctx, fmt.Errorf("listing skills: %w", err))
	}

	existing, err := e.vectors.ListVectorRecords(ctx)
	if err != nil {
		return nil, e.reindexErr(ctx, fmt.Errorf("listing vector records: %w", err))
	}
	cached := make(map[string]*core.VectorRecord, len(existing))
	for _, record := range existing {
		cached[record.SkillId] = record
	}

	// Partition skills into cached and stale by content hash
	vectors := make(map[string][]float32, len(skills))
	var toEmbed []*core.Skill
	var texts []string
	skipped := 0
	for _, skill := range skills {
		text := skill.EmbeddableText()
		if record, ok := cached[skill.Id]; !force && ok && record.ContentHash == core.ContentHash(text) {
			vectors[skill.Id] = record.Vector
			skipped++
			continue
		}
		toEmbed = append(toEmbed, skill)
		texts = append(texts, text)
	}

	e.logger.Info("reindex started",
		"skills", len(skills), "stale", len(toEmbed), "cached", skipped, "force", force)

	if len(toEmbed) > 0 {
		embedded, processed, err := e.embedAll(ctx, texts)
		if err != nil {
			// Partial stats: how far embedding got before the failure
			partial := &core.IndexStats{
				SkillsIndexed: processed,
				SkillsSkipped: skipped,
				Duration:      time.Since(start),
			}
			return partial, e.reindexErr(ctx, err)
		}

		now := time.Now().UTC()
		records := make([]*core.VectorRecord, len(toEmbed))
		for i, skill := range toEmbed {
			vector := NormalizeVector(embedded[i])
			vectors[skill.Id] = vector
			records[i] = &core.VectorRecord{
				SkillId:     skill.Id,
				Vector:      vector,
				ContentHash: core.ContentHash(texts[i]),
				UpdatedAt:   now,
			}
		}
		if err := e.vectors.PutVectorRecords(ctx, records...); err != nil {
			return nil, e.reindexErr(ctx, fmt.Errorf("persisting vector records: %w", err))
		}
	}

	// Drop records for skills that no longer exist
	var stale []string
	for skillId := range cached {
		if _, ok := vectors[skillId]; !ok {
			stale = append(stale, skillId)
		}
	}
	if len(stale) > 0 {
		if err := e.vectors.DeleteVectorRecords(ctx, stale...); err != nil {
			return nil, e.reindexErr(ctx, fmt.Errorf("deleting stale vector records: %w", err))
		}
	}

	snapshot := newSnapshot(skills, vectors)
	e.snapshot.Store(snapshot)

	stats := &core.IndexStats{
		SkillsIndexed:  len(toEmbed),
		SkillsSkipped:  skipped,
		VectorCount:    snapshot.Vector.Len(),
		GraphNodeCount: snapshot.Graph.NodeCount(),
		GraphEdgeCount: snapshot.Graph.EdgeCount(),
		Duration:       time.Since(start),
	}

	e.logger.Info("reindex complete",
		"indexed", stats.SkillsIndexed,
		"skipped", stats.SkillsSkipped,
		"nodes", stats.GraphNodeCount,
		"edges", stats.GraphEdgeCount,
		"duration", stats.Duration.Round(time.Millisecond))

	return stats, nil
}

// Restore republishes a snapshot from persisted vector records without
// calling the embedder. Skills with no persisted embedding are present in
// the graph but absent from the vector index until the next Reindex.
func (e *Engine) Restore(ctx context.Context) error {
	skills, err := e.skills.ListSkills(ctx, storage.Filter{})
	if err != nil {
		return fmt.Errorf("listing skills: %w", err)
	}

	records, err := e.vectors.ListVectorRecords(ctx)
	if err != nil {
		return fmt.Errorf("listing vector records: %w", err)
	}

	byId := make(map[string]bool, len(skills))
	for _, skill := range skills {
		byId[skill.Id] = true
	}

	vectors := make(map[string][]float32, len(records))
	for _, record := range records {
		if byId[record.SkillId] {
			vectors[record.SkillId] = record.Vector
		}
	}

	e.snapshot.Store(newSnapshot(skills, vectors))
	e.logger.Info("snapshot restored", "skills", len(skills), "vectors", len(vectors))
	return nil
}

// embedAll embeds texts in batches through the worker pool. Results keep
// input order. The first batch error wins; remaining batches still run to
// completion before it is returned, and the count of successfully embedded
// texts is reported alongside.
func (e *Engine) embedAll(ctx context.Context, texts []string) ([][]float32, int, error) {
	tracker := NewProgressTracker(e.progress, len(texts), e.batchSize)
	tracker.Start()

	results := make([][]float32, len(texts))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		batchStart, batch := start, texts[start:end]

		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()

			var vectors [][]float32
			err := RetryWithBackoff(ctx, func() error {
				var embedErr error
				vectors, embedErr = e.embedder.EmbedTexts(ctx, batch)
				return embedErr
			}, e.maxRetries, e.retryDelay)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("embedding batch at %d: %w", batchStart, err)
				}
				return
			}
			if len(vectors) != len(batch) {
				if firstErr == nil {
					firstErr = fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(batch))
				}
				return
			}
			copy(results[batchStart:], vectors)
			tracker.Increment(len(batch))
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, tracker.Current(), firstErr
	}

	tracker.Finish()
	return results, len(texts), nil
}

// reindexErr maps deadline expiry onto ErrReindexTimeout so callers can
// distinguish a blown time budget from other failures.
func (e *Engine) reindexErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrReindexTimeout, err)
	}
	return err
}
