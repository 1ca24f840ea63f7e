package index

import (
	"time"

	"github.com/bobmatnyc/mcp-skillkit/core"
)

// Snapshot is an immutable pairing of a vector index and a graph index built
// from the same set of skills. Searches resolve against one snapshot for
// their whole duration; a reindex publishes a new snapshot instead of
// mutating the current one.
type Snapshot struct {
	Vector *VectorIndex
	Graph  *GraphIndex

	// Skills holds the indexed skills keyed by id, frozen at build time.
	Skills map[string]*core.Skill

	// BuiltAt records when the snapshot was published.
	BuiltAt time.Time
}

// emptySnapshot returns a snapshot with no skills. Used before the first
// reindex so Snapshot() never returns nil.
func emptySnapshot() *Snapshot {
	return &Snapshot{
		Vector:  NewVectorIndex(nil),
		Graph:   BuildGraph(nil),
		Skills:  map[string]*core.Skill{},
		BuiltAt: time.Time{},
	}
}

// newSnapshot builds a snapshot from skills and their embeddings.
func newSnapshot(skills []*core.Skill, vectors map[string][]float32) *Snapshot {
	byId := make(map[string]*core.Skill, len(skills))
	for _, skill := range skills {
		byId[skill.Id] = skill
	}
	return &Snapshot{
		Vector:  NewVectorIndex(vectors),
		Graph:   BuildGraph(skills),
		Skills:  byId,
		BuiltAt: time.Now().UTC(),
	}
}

// Skill returns the snapshot's copy of a skill, or nil if it isn't indexed.
func (s *Snapshot) Skill(id string) *core.Skill {
	return s.Skills[id]
}
