package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/bobmatnyc/mcp-skillkit/ai"
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/index"
)

// SnapshotSource supplies the index snapshot a search resolves against.
// Typically satisfied by *index.Engine.
type SnapshotSource interface {
	Snapshot() *index.Snapshot
}

// Query bundles the parameters of a single search.
type Query struct {
	// Text is the free-form search text.
	Text string

	// Limit caps the number of results. Zero or negative returns no results.
	Limit int

	// Category, when set, restricts results to skills in that category.
	Category string

	// Config overrides the searcher's weighting for this query. Nil uses
	// the searcher default.
	Config *Config
}

// Searcher ranks skills against a query by blending vector similarity with
// graph propagation over the current index snapshot.
type Searcher struct {
	source   SnapshotSource
	embedder ai.Embedder
	config   *Config
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithConfig sets the default score weighting.
// Default is DefaultConfig().
func WithConfig(config *Config) Option {
	return func(s *Searcher) error {
		if config == nil {
			config = DefaultConfig()
		}
		if err := config.Validate(); err != nil {
			return err
		}
		s.config = config
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(source SnapshotSource, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if source == nil {
		return nil, ErrSnapshotSourceRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		source:   source,
		embedder: embedder,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search ranks skills against the query.
// Returns up to q.Limit results ordered by combined score descending, with
// ties broken by skill id ascending.
func (s *Searcher) Search(ctx context.Context, q Query) ([]*core.ScoredSkill, error) {
	return s.SearchWithMonitor(ctx, q, nil)
}

// SearchWithMonitor ranks skills against the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, q Query, monitor SearchMonitor) ([]*core.ScoredSkill, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	cfg := q.Config
	if cfg == nil {
		cfg = s.config
	} else if err := cfg.Validate(); err != nil {
		return nil, err
	}

	monitor.Start(q.Text)

	if q.Limit <= 0 {
		results := []*core.ScoredSkill{}
		monitor.Finish(results)
		return results, nil
	}

	snapshot := s.source.Snapshot()

	vectorScores := make(map[string]float64)
	var seeds []string

	if cfg.VectorWeight > 0 {
		// Over-fetch so graph propagation can rescue skills the vector
		// signal alone would rank below the cut.
		embedding, err := s.embedder.EmbedText(ctx, q.Text)
		if err != nil {
			s.logger.Error("error generating embedding for query", "query", q.Text, "err", err)
			return nil, err
		}

		candidates := snapshot.Vector.TopK(embedding, 2*q.Limit)
		monitor.AfterVectorSearch(candidates)

		for _, candidate := range candidates {
			vectorScores[candidate.SkillId] = candidate.Score
			seeds = append(seeds, candidate.SkillId)
		}
	} else {
		// Vector signal disabled: seed propagation from keyword matches
		for _, skill := range snapshot.Skills {
			if matchesKeywords(skill, q.Text) {
				seeds = append(seeds, skill.Id)
			}
		}
		sort.Strings(seeds)
		monitor.AfterKeywordSeeding(seeds)
	}

	graphScores := snapshot.Graph.ScoreFromSeeds(seeds, cfg.maxHops())
	monitor.AfterGraphPropagation(graphScores)

	// Keyword seeds are definitionally maximal graph hits
	if cfg.VectorWeight == 0 {
		for _, seed := range seeds {
			graphScores[seed] = 1.0
		}
	}

	// Union of vector candidates and graph-reached skills
	ids := make(map[string]bool, len(seeds)+len(graphScores))
	for _, seed := range seeds {
		ids[seed] = true
	}
	for id := range graphScores {
		ids[id] = true
	}

	results := make([]*core.ScoredSkill, 0, len(ids))
	for id := range ids {
		skill := snapshot.Skill(id)
		if skill == nil {
			continue
		}
		if q.Category != "" && skill.Category != q.Category {
			continue
		}

		vectorScore := vectorScores[id]
		graphScore := graphScores[id]
		results = append(results, &core.ScoredSkill{
			Skill:         skill,
			VectorScore:   vectorScore,
			GraphScore:    graphScore,
			CombinedScore: cfg.VectorWeight*vectorScore + cfg.GraphWeight*graphScore,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].Skill.Id < results[j].Skill.Id
	})
	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	monitor.Finish(results)
	return results, nil
}

// Related ranks the skills connected to skillId in the relationship graph,
// strongest connection first. The skill itself is excluded. Unknown ids and
// isolated skills yield an empty result.
func (s *Searcher) Related(skillId string, limit int) []*core.ScoredSkill {
	results := []*core.ScoredSkill{}
	if limit <= 0 {
		return results
	}

	snapshot := s.source.Snapshot()
	if snapshot.Skill(skillId) == nil {
		return results
	}

	scores := snapshot.Graph.ScoreFromSeeds([]string{skillId}, s.config.maxHops())
	for id, score := range scores {
		skill := snapshot.Skill(id)
		if skill == nil {
			continue
		}
		results = append(results, &core.ScoredSkill{
			Skill:         skill,
			GraphScore:    score,
			CombinedScore: score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		return results[i].Skill.Id < results[j].Skill.Id
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
