package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmatnyc/mcp-skillkit/ai/mock"
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/storage"
	"github.com/bobmatnyc/mcp-skillkit/storage/badger"
)

func setupEngineTest(t *testing.T) (storage.SkillRepository, storage.VectorRepository, *mock.MockEmbedder) {
	t.Helper()

	skillRepo, _, vectorRepo, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectorRepo.Close()
		skillRepo.Close()
		backend.Close()
	})

	return skillRepo, vectorRepo, mock.NewMockEmbedder()
}

func engineSkill(id, category string, tags ...string) *core.Skill {
	return &core.Skill{
		Id:           id,
		Name:         "Skill " + id,
		Description:  "A skill used in engine tests",
		Instructions: "Follow these steps carefully to exercise the indexing engine end to end.",
		Category:     category,
		Tags:         tags,
		RepoId:       "repo",
	}
}

func TestEngineRequiresDependencies(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)

	_, err := NewEngine(nil, vectorRepo, embedder)
	assert.ErrorIs(t, err, ErrSkillRepositoryRequired)

	_, err = NewEngine(skillRepo, nil, embedder)
	assert.ErrorIs(t, err, ErrVectorRepositoryRequired)

	_, err = NewEngine(skillRepo, vectorRepo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestEngineSnapshotNeverNil(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)

	engine, err := NewEngine(skillRepo, vectorRepo, embedder)
	require.NoError(t, err)
	defer engine.Release()

	snapshot := engine.Snapshot()
	require.NotNil(t, snapshot)
	assert.Zero(t, snapshot.Vector.Len())
	assert.Zero(t, snapshot.Graph.NodeCount())
}

func TestEngineReindex(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/a", "testing", "python", "test"),
		engineSkill("repo/b", "testing", "python", "web"),
		engineSkill("repo/c", "docs", "markdown"),
	))

	engine, err := NewEngine(skillRepo, vectorRepo, embedder)
	require.NoError(t, err)
	defer engine.Release()

	stats, err := engine.Reindex(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.SkillsIndexed)
	assert.Equal(t, 0, stats.SkillsSkipped)
	assert.Equal(t, 3, stats.VectorCount)
	assert.Equal(t, 3, stats.GraphNodeCount)
	assert.Greater(t, stats.GraphEdgeCount, 0)

	snapshot := engine.Snapshot()
	assert.Equal(t, 3, snapshot.Vector.Len())
	assert.True(t, snapshot.Vector.Has("repo/a"))
	assert.NotNil(t, snapshot.Skill("repo/b"))

	// Embeddings were persisted for the next restart
	records, err := vectorRepo.ListVectorRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestEngineReindexIsIncremental(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/a", "testing", "python"),
		engineSkill("repo/b", "docs", "markdown"),
	))

	engine, err := NewEngine(skillRepo, vectorRepo, embedder)
	require.NoError(t, err)
	defer engine.Release()

	_, err = engine.Reindex(ctx)
	require.NoError(t, err)

	// Unchanged skills are skipped entirely
	embedder.Reset()
	stats, err := engine.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.SkillsIndexed)
	assert.Equal(t, 2, stats.SkillsSkipped)
	assert.Empty(t, embedder.EmbeddedTexts())

	// Changing one skill re-embeds only that skill
	changed := engineSkill("repo/a", "testing", "python")
	changed.Description = "A reworded description for this skill"
	require.NoError(t, skillRepo.PutSkills(ctx, changed))

	embedder.Reset()
	stats, err = engine.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.SkillsIndexed)
	assert.Equal(t, 1, stats.SkillsSkipped)

	texts := embedder.EmbeddedTexts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "reworded description")
}

func TestEngineReindexAllIgnoresCache(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/a", "testing", "python"),
		engineSkill("repo/b", "docs", "markdown"),
	))

	engine, err := NewEngine(skillRepo, vectorRepo, embedder)
	require.NoError(t, err)
	defer engine.Release()

	_, err = engine.Reindex(ctx)
	require.NoError(t, err)

	embedder.Reset()
	stats, err := engine.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SkillsIndexed)
	assert.Equal(t, 0, stats.SkillsSkipped)
	assert.Len(t, embedder.EmbeddedTexts(), 2)

	// A second forced run over the unchanged store reports the same shape
	again, err := engine.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.SkillsIndexed, again.SkillsIndexed)
	assert.Equal(t, stats.VectorCount, again.VectorCount)
	assert.Equal(t, stats.GraphNodeCount, again.GraphNodeCount)
	assert.Equal(t, stats.GraphEdgeCount, again.GraphEdgeCount)
}

func TestEngineReindexDropsStaleVectors(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/keep", "testing", "python"),
	))

	// A leftover record for a skill that no longer exists
	require.NoError(t, vectorRepo.PutVectorRecords(ctx, &core.VectorRecord{
		SkillId: "repo/gone",
		Vector:  []float32{0.1, 0.2},
	}))

	engine, err := NewEngine(skillRepo, vectorRepo, embedder)
	require.NoError(t, err)
	defer engine.Release()

	_, err = engine.Reindex(ctx)
	require.NoError(t, err)

	_, err = vectorRepo.GetVectorRecord(ctx, "repo/gone")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEngineReindexSingleFlight(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/a", "testing", "python"),
	))

	entered := make(chan struct{})
	release := make(chan struct{})
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		close(entered)
		<-release
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = []float32{1, 0}
		}
		return vectors, nil
	}

	engine, err := NewEngine(skillRepo, vectorRepo, embedder)
	require.NoError(t, err)
	defer engine.Release()

	done := make(chan error, 1)
	go func() {
		_, err := engine.Reindex(ctx)
		done <- err
	}()

	<-entered
	_, err = engine.Reindex(ctx)
	assert.ErrorIs(t, err, ErrReindexInProgress)

	close(release)
	require.NoError(t, <-done)

	// Once the first run finishes, reindexing is available again
	_, err = engine.Reindex(ctx)
	assert.NoError(t, err)
}

func TestEngineReindexTimeout(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/a", "testing", "python"),
	))

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	engine, err := NewEngine(skillRepo, vectorRepo, embedder,
		WithTimeout(20*time.Millisecond),
		WithMaxRetries(1),
	)
	require.NoError(t, err)
	defer engine.Release()

	before := engine.Snapshot()

	_, err = engine.Reindex(ctx)
	assert.ErrorIs(t, err, ErrReindexTimeout)

	// Prior snapshot stays published
	assert.Same(t, before, engine.Snapshot())
}

func TestEngineReindexFailureKeepsSnapshot(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/a", "testing", "python"),
	))

	engine, err := NewEngine(skillRepo, vectorRepo, embedder,
		WithMaxRetries(1),
		WithRetryDelay(time.Millisecond),
	)
	require.NoError(t, err)
	defer engine.Release()

	// Establish a good snapshot first
	_, err = engine.Reindex(ctx)
	require.NoError(t, err)
	good := engine.Snapshot()

	// Make the next run fail
	changed := engineSkill("repo/a", "testing", "python")
	changed.Description = "A reworded description for this skill"
	require.NoError(t, skillRepo.PutSkills(ctx, changed))

	embedFailure := errors.New("embedding service unavailable")
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedFailure
	}

	stats, err := engine.Reindex(ctx)
	assert.ErrorIs(t, err, embedFailure)
	assert.Same(t, good, engine.Snapshot())

	// Partial stats accompany the failure
	require.NotNil(t, stats)
	assert.Equal(t, 0, stats.SkillsIndexed)
	assert.Positive(t, stats.Duration)
}

func TestEngineRestore(t *testing.T) {
	skillRepo, vectorRepo, embedder := setupEngineTest(t)
	ctx := context.Background()

	require.NoError(t, skillRepo.PutSkills(ctx,
		engineSkill("repo/a", "testing", "python"),
		engineSkill("repo/b", "docs", "markdown"),
	))

	engine, err := NewEngine(skillRepo, vectorRepo, embedder)
	require.NoError(t, err)
	_, err = engine.Reindex(ctx)
	require.NoError(t, err)
	engine.Release()

	// A fresh engine restores the snapshot without touching the embedder
	restored := mock.NewMockEmbedder()
	engine2, err := NewEngine(skillRepo, vectorRepo, restored)
	require.NoError(t, err)
	defer engine2.Release()

	require.NoError(t, engine2.Restore(ctx))

	snapshot := engine2.Snapshot()
	assert.Equal(t, 2, snapshot.Vector.Len())
	assert.Equal(t, 2, snapshot.Graph.NodeCount())
	assert.Zero(t, restored.CallCount())
}
