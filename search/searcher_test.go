package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmatnyc/mcp-skillkit/ai/mock"
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/index"
)

// staticSource serves a fixed snapshot.
type staticSource struct {
	snapshot *index.Snapshot
}

func (s *staticSource) Snapshot() *index.Snapshot {
	return s.snapshot
}

func buildSnapshot(skills []*core.Skill, vectors map[string][]float32) *index.Snapshot {
	byId := make(map[string]*core.Skill, len(skills))
	for _, skill := range skills {
		byId[skill.Id] = skill
	}
	return &index.Snapshot{
		Vector: index.NewVectorIndex(vectors),
		Graph:  index.BuildGraph(skills),
		Skills: byId,
	}
}

// bagOfWordsEmbedder counts vocabulary words in the text, giving cheap
// embeddings whose cosine similarity tracks term overlap.
func bagOfWordsEmbedder(vocab ...string) *mock.MockEmbedder {
	embed := func(text string) []float32 {
		lower := strings.ToLower(text)
		vector := make([]float32, len(vocab))
		for i, word := range vocab {
			if strings.Contains(lower, word) {
				vector[i] = 1
			}
		}
		return vector
	}

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return embed(text), nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = embed(text)
		}
		return vectors, nil
	}
	return embedder
}

// newTestSearcher builds a searcher over three skills with distinct tag and
// category affinities:
//
//	a (testing; python, test) -- b (web; python, web) -- c (web; web)
func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()

	skills := []*core.Skill{
		{
			Id:          "repo/a",
			Name:        "Pytest Runner",
			Description: "Run python test suites",
			Category:    "testing",
			Tags:        []string{"python", "test"},
		},
		{
			Id:          "repo/b",
			Name:        "Flask Scaffold",
			Description: "Build python web services",
			Category:    "web",
			Tags:        []string{"python", "web"},
		},
		{
			Id:          "repo/c",
			Name:        "Static Site",
			Description: "Publish a web site",
			Category:    "web",
			Tags:        []string{"web"},
		},
	}
	vectors := map[string][]float32{
		"repo/a": {1, 1, 0}, // python, test
		"repo/b": {1, 0, 1}, // python, web
		"repo/c": {0, 0, 1}, // web
	}

	searcher, err := NewSearcher(
		&staticSource{snapshot: buildSnapshot(skills, vectors)},
		bagOfWordsEmbedder("python", "test", "web"),
	)
	require.NoError(t, err)
	return searcher
}

func TestNewSearcherRequiresDependencies(t *testing.T) {
	_, err := NewSearcher(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrSnapshotSourceRequired)

	_, err = NewSearcher(&staticSource{snapshot: buildSnapshot(nil, nil)}, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestSearchRanking(t *testing.T) {
	searcher := newTestSearcher(t)
	ctx := context.Background()

	results, err := searcher.Search(ctx, Query{Text: "python test", Limit: 3})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Exact tag match first, then the related python skill, then web-only
	assert.Equal(t, "repo/a", results[0].Skill.Id)
	assert.Equal(t, "repo/b", results[1].Skill.Id)
	assert.Equal(t, "repo/c", results[2].Skill.Id)

	// Combined score blends both signals
	for _, result := range results {
		expected := 0.7*result.VectorScore + 0.3*result.GraphScore
		assert.InDelta(t, expected, result.CombinedScore, 1e-9)
	}

	// Graph propagation gave the web skills credit from their neighbors
	assert.Greater(t, results[1].GraphScore, 0.0)
}

func TestSearchIsDeterministic(t *testing.T) {
	searcher := newTestSearcher(t)
	ctx := context.Background()

	first, err := searcher.Search(ctx, Query{Text: "python test", Limit: 3})
	require.NoError(t, err)

	for range 5 {
		again, err := searcher.Search(ctx, Query{Text: "python test", Limit: 3})
		require.NoError(t, err)
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].Skill.Id, again[i].Skill.Id)
			assert.Equal(t, first[i].CombinedScore, again[i].CombinedScore)
		}
	}
}

func TestSearchLimit(t *testing.T) {
	searcher := newTestSearcher(t)
	ctx := context.Background()

	t.Run("truncates to limit", func(t *testing.T) {
		results, err := searcher.Search(ctx, Query{Text: "python", Limit: 1})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("zero limit returns empty", func(t *testing.T) {
		results, err := searcher.Search(ctx, Query{Text: "python", Limit: 0})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("negative limit returns empty", func(t *testing.T) {
		results, err := searcher.Search(ctx, Query{Text: "python", Limit: -2})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearchCategoryFilter(t *testing.T) {
	searcher := newTestSearcher(t)
	ctx := context.Background()

	t.Run("restricts to category", func(t *testing.T) {
		results, err := searcher.Search(ctx, Query{Text: "python", Limit: 5, Category: "web"})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for _, result := range results {
			assert.Equal(t, "web", result.Skill.Category)
		}
	})

	t.Run("unknown category returns empty", func(t *testing.T) {
		results, err := searcher.Search(ctx, Query{Text: "python", Limit: 5, Category: "devops"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearchEmptyIndex(t *testing.T) {
	searcher, err := NewSearcher(
		&staticSource{snapshot: buildSnapshot(nil, nil)},
		bagOfWordsEmbedder("python"),
	)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), Query{Text: "python", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchGraphOnlyMode(t *testing.T) {
	searcher := newTestSearcher(t)
	ctx := context.Background()

	graphOnly, err := NewConfig(0, 1)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, Query{
		Text:   "python test",
		Limit:  3,
		Config: graphOnly,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Keyword seed ranks first with a full graph score, neighbors follow by
	// propagation strength
	assert.Equal(t, "repo/a", results[0].Skill.Id)
	assert.InDelta(t, 1.0, results[0].GraphScore, 1e-9)
	assert.Zero(t, results[0].VectorScore)
	assert.Equal(t, "repo/b", results[1].Skill.Id)
	assert.Equal(t, "repo/c", results[2].Skill.Id)
	assert.Greater(t, results[1].CombinedScore, results[2].CombinedScore)
}

func TestSearchRejectsInvalidQueryConfig(t *testing.T) {
	searcher := newTestSearcher(t)

	_, err := searcher.Search(context.Background(), Query{
		Text:   "python",
		Limit:  3,
		Config: &Config{VectorWeight: 0.9, GraphWeight: 0.9},
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRelated(t *testing.T) {
	searcher := newTestSearcher(t)

	t.Run("orders by connection strength", func(t *testing.T) {
		results := searcher.Related("repo/c", 10)
		require.Len(t, results, 2)

		// b shares the web tag and category with c; a is only reachable
		// through b with hop decay
		assert.Equal(t, "repo/b", results[0].Skill.Id)
		assert.InDelta(t, 0.8, results[0].GraphScore, 1e-9)
		assert.Equal(t, "repo/a", results[1].Skill.Id)
		assert.Greater(t, results[0].GraphScore, results[1].GraphScore)
	})

	t.Run("excludes the skill itself", func(t *testing.T) {
		for _, scored := range searcher.Related("repo/a", 10) {
			assert.NotEqual(t, "repo/a", scored.Skill.Id)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		results := searcher.Related("repo/c", 1)
		require.Len(t, results, 1)
		assert.Equal(t, "repo/b", results[0].Skill.Id)
	})

	t.Run("unknown skill yields empty", func(t *testing.T) {
		assert.Empty(t, searcher.Related("repo/nope", 10))
	})

	t.Run("zero limit yields empty", func(t *testing.T) {
		assert.Empty(t, searcher.Related("repo/a", 0))
	})
}

func TestSearchWithMonitor(t *testing.T) {
	searcher := newTestSearcher(t)

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(context.Background(), Query{Text: "python test", Limit: 3}, monitor)
	require.NoError(t, err)

	assert.Equal(t, "python test", monitor.query)
	assert.NotEmpty(t, monitor.candidates)
	assert.Equal(t, len(results), monitor.finished)
}

type recordingMonitor struct {
	query      string
	candidates []index.Candidate
	seeds      []string
	scores     map[string]float64
	finished   int
}

func (m *recordingMonitor) Start(query string)                         { m.query = query }
func (m *recordingMonitor) AfterVectorSearch(c []index.Candidate)      { m.candidates = c }
func (m *recordingMonitor) AfterKeywordSeeding(seeds []string)         { m.seeds = seeds }
func (m *recordingMonitor) AfterGraphPropagation(s map[string]float64) { m.scores = s }
func (m *recordingMonitor) Finish(results []*core.ScoredSkill)         { m.finished = len(results) }
