package skillkit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmatnyc/mcp-skillkit/ai/mock"
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/search"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

// keywordEmbedder maps text to a vocabulary-presence vector so that ranking
// in integration tests is predictable.
func keywordEmbedder(vocab ...string) *mock.MockEmbedder {
	embed := func(text string) []float32 {
		lower := strings.ToLower(text)
		vec := make([]float32, len(vocab)+1)
		for i, term := range vocab {
			if strings.Contains(lower, term) {
				vec[i] = 1
			}
		}
		vec[len(vocab)] = 1
		return vec
	}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return embed(text), nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			out[i] = embed(text)
		}
		return out, nil
	}
	return embedder
}

func openTestKit(t *testing.T, embedder *mock.MockEmbedder) *Kit {
	t.Helper()

	kit, err := Open(context.Background(), filepath.Join(t.TempDir(), "db"), WithEmbedder(embedder))
	require.NoError(t, err)
	t.Cleanup(func() { kit.Close() })
	return kit
}

func writeSkillManifest(t *testing.T, root, dir, name, category string, tags ...string) {
	t.Helper()

	skillDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(skillDir, 0755))

	manifest := fmt.Sprintf(`---
name: %s
description: A skill discovered during toolkit integration tests
category: %s
tags:
`, name, category)
	for _, tag := range tags {
		manifest += "  - " + tag + "\n"
	}
	manifest += `---
Follow these instructions to exercise the full scan, index, and search flow.
`
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte(manifest), 0644))
}

func TestOpenRequiresValidPath(t *testing.T) {
	kit, err := Open(context.Background(), "", WithEmbedder(mock.NewMockEmbedder()))
	require.Error(t, err)
	assert.Nil(t, kit)
}

func TestKitScanIndexSearch(t *testing.T) {
	embedder := keywordEmbedder("pytest", "black")
	kit := openTestKit(t, embedder)
	ctx := context.Background()

	root := t.TempDir()
	writeSkillManifest(t, root, "skills/pytest", "Pytest Runner", "testing", "python", "test")
	writeSkillManifest(t, root, "skills/black", "Black Formatter", "formatting", "python")

	result, err := kit.ScanRepository(ctx, &core.Repository{Id: "local", LocalPath: root, Priority: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, result.SkillsFound)

	stats, err := kit.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SkillsIndexed)
	assert.Equal(t, 2, stats.VectorCount)
	assert.Positive(t, embedder.CallCount())

	skills, err := kit.ListSkills(ctx, storage.Filter{})
	require.NoError(t, err)
	assert.Len(t, skills, 2)

	skill, err := kit.GetSkill(ctx, "local/pytest-runner")
	require.NoError(t, err)
	assert.Equal(t, "Pytest Runner", skill.Name)

	categories, err := kit.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"formatting", "testing"}, categories)

	repos, err := kit.ListRepositories(ctx)
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, 2, repos[0].SkillCount)

	results, err := kit.Search(ctx, search.Query{Text: "pytest runner", Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "local/pytest-runner", results[0].Skill.Id)
	assert.Greater(t, results[0].CombinedScore, results[1].CombinedScore)

	// The shared python tag links the two skills in the graph
	related, err := kit.RelatedSkills(ctx, "local/pytest-runner", 5)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "local/black-formatter", related[0].Skill.Id)

	_, err = kit.RelatedSkills(ctx, "local/never-existed", 5)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestKitRestoresIndexAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "db")

	root := t.TempDir()
	writeSkillManifest(t, root, "skills/deploy", "Deploy Helper", "devops", "deploy")

	kit, err := Open(ctx, dbPath, WithEmbedder(keywordEmbedder("deploy")))
	require.NoError(t, err)

	_, err = kit.ScanRepository(ctx, &core.Repository{Id: "local", LocalPath: root, Priority: 1})
	require.NoError(t, err)
	_, err = kit.Reindex(ctx)
	require.NoError(t, err)
	require.NoError(t, kit.Close())

	// Reopening publishes the persisted embeddings without re-embedding.
	embedder := keywordEmbedder("deploy")
	reopened, err := Open(ctx, dbPath, WithEmbedder(embedder))
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Engine().Snapshot().Vector.Len())
	assert.Zero(t, embedder.CallCount())

	results, err := reopened.Search(ctx, search.Query{Text: "deploy helper", Limit: 5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "local/deploy-helper", results[0].Skill.Id)
}

func TestKitRemoveRepository(t *testing.T) {
	kit := openTestKit(t, mock.NewMockEmbedder())
	ctx := context.Background()

	root := t.TempDir()
	writeSkillManifest(t, root, "skills/pytest", "Pytest Runner", "testing", "python")

	_, err := kit.ScanRepository(ctx, &core.Repository{Id: "local", LocalPath: root, Priority: 1})
	require.NoError(t, err)

	removed, err := kit.RemoveRepository(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = kit.GetSkill(ctx, "local/pytest-runner")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	repos, err := kit.ListRepositories(ctx)
	require.NoError(t, err)
	assert.Empty(t, repos)
}
