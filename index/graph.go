package index

import (
	"sort"

	"github.com/bobmatnyc/mcp-skillkit/core"
)

const (
	// categoryBonus is added to the edge weight when two skills share a category.
	categoryBonus = 0.3
	// dependencyBonus is added when one skill declares the other as a dependency.
	dependencyBonus = 0.3
	// hopDecay halves a path's contribution for every hop past the first.
	hopDecay = 0.5
	// DefaultMaxHops bounds propagation to two-hop neighborhoods.
	DefaultMaxHops = 2
)

// GraphIndex is an immutable in-memory relationship graph over skills.
// Edges are undirected and weighted by metadata affinity: tag overlap
// (Jaccard), shared category, and declared dependencies. It is safe for
// concurrent reads.
type GraphIndex struct {
	nodes     []string
	adjacency map[string]map[string]float64
	edgeCount int
}

// BuildGraph constructs a relationship graph from skills. Two skills are
// connected when their affinity weight is positive:
//
//	weight = jaccard(tags) + 0.3*(same category) + 0.3*(dependency), capped at 1.0
func BuildGraph(skills []*core.Skill) *GraphIndex {
	nodes := make([]string, 0, len(skills))
	for _, skill := range skills {
		nodes = append(nodes, skill.Id)
	}
	sort.Strings(nodes)

	adjacency := make(map[string]map[string]float64, len(skills))
	for _, id := range nodes {
		adjacency[id] = make(map[string]float64)
	}

	edgeCount := 0
	for i := 0; i < len(skills); i++ {
		for j := i + 1; j < len(skills); j++ {
			weight := edgeWeight(skills[i], skills[j])
			if weight <= 0 {
				continue
			}
			adjacency[skills[i].Id][skills[j].Id] = weight
			adjacency[skills[j].Id][skills[i].Id] = weight
			edgeCount++
		}
	}

	return &GraphIndex{
		nodes:     nodes,
		adjacency: adjacency,
		edgeCount: edgeCount,
	}
}

// NodeCount returns the number of skills in the graph.
func (g *GraphIndex) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges in the graph.
func (g *GraphIndex) EdgeCount() int {
	return g.edgeCount
}

// EdgeWeight returns the weight of the edge between two skills, or 0 when no
// edge exists.
func (g *GraphIndex) EdgeWeight(a, b string) float64 {
	return g.adjacency[a][b]
}

// Neighbors returns the ids adjacent to a skill, sorted ascending.
func (g *GraphIndex) Neighbors(id string) []string {
	edges := g.adjacency[id]
	if len(edges) == 0 {
		return nil
	}
	neighbors := make([]string, 0, len(edges))
	for neighbor := range edges {
		neighbors = append(neighbors, neighbor)
	}
	sort.Strings(neighbors)
	return neighbors
}

// ScoreFromSeeds propagates relevance outward from the seed set. A node's
// score is the maximum over all paths from any seed of the product of edge
// weights along the path, decayed by 0.5 per hop past the first. Propagation
// stops after maxHops hops. A seed never contributes to its own score, but
// may be scored by paths from other seeds.
func (g *GraphIndex) ScoreFromSeeds(seeds []string, maxHops int) map[string]float64 {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	scores := make(map[string]float64)
	for _, seed := range seeds {
		if _, ok := g.adjacency[seed]; !ok {
			continue
		}
		for neighbor, weight := range g.adjacency[seed] {
			g.propagate(scores, seed, neighbor, weight, 1, maxHops)
		}
	}
	return scores
}

// propagate records the contribution of a path and walks one hop further.
func (g *GraphIndex) propagate(scores map[string]float64, origin, node string, pathWeight float64, hops, maxHops int) {
	contribution := pathWeight
	for i := 1; i < hops; i++ {
		contribution *= hopDecay
	}
	if node != origin && contribution > scores[node] {
		scores[node] = contribution
	}

	if hops >= maxHops {
		return
	}
	for neighbor, weight := range g.adjacency[node] {
		if neighbor == origin {
			continue
		}
		next := pathWeight * weight
		if next <= 0 {
			continue
		}
		g.propagate(scores, origin, neighbor, next, hops+1, maxHops)
	}
}

// edgeWeight computes the affinity weight between two skills.
func edgeWeight(a, b *core.Skill) float64 {
	weight := jaccard(a.Tags, b.Tags)

	if a.Category != "" && a.Category == b.Category {
		weight += categoryBonus
	}
	if dependsOn(a, b.Id) || dependsOn(b, a.Id) {
		weight += dependencyBonus
	}

	if weight > 1.0 {
		weight = 1.0
	}
	return weight
}

// jaccard computes |A ∩ B| / |A ∪ B| over two tag sets.
// Two empty sets have zero overlap.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, tag := range a {
		setA[tag] = true
	}

	setB := make(map[string]bool, len(b))
	intersection := 0
	for _, tag := range b {
		if setB[tag] {
			continue
		}
		setB[tag] = true
		if setA[tag] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func dependsOn(skill *core.Skill, id string) bool {
	for _, dep := range skill.Dependencies {
		if dep == id {
			return true
		}
	}
	return false
}
