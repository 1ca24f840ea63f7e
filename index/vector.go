package index

import (
	"math"
	"sort"
)

// Candidate is a skill id paired with its vector similarity score.
type Candidate struct {
	SkillId string
	Score   float64
}

// VectorIndex is an immutable in-memory index of unit-length skill
// embeddings. It is safe for concurrent reads; build a new index instead of
// mutating one.
type VectorIndex struct {
	ids     []string
	vectors map[string][]float32
}

// NewVectorIndex builds an index from skill embeddings. Vectors are
// normalized to unit length on the way in; zero vectors are kept and score
// 0.5 against everything (cosine 0).
func NewVectorIndex(vectors map[string][]float32) *VectorIndex {
	ids := make([]string, 0, len(vectors))
	normalized := make(map[string][]float32, len(vectors))
	for id, vector := range vectors {
		ids = append(ids, id)
		normalized[id] = NormalizeVector(vector)
	}
	sort.Strings(ids)
	return &VectorIndex{
		ids:     ids,
		vectors: normalized,
	}
}

// Len returns the number of indexed vectors.
func (idx *VectorIndex) Len() int {
	return len(idx.ids)
}

// Has reports whether a skill is present in the index.
func (idx *VectorIndex) Has(skillId string) bool {
	_, ok := idx.vectors[skillId]
	return ok
}

// TopK returns the k most similar skills to the query vector, ordered by
// similarity descending with ties broken by skill id ascending. Cosine
// similarity is mapped onto [0, 1] via (1+cos)/2 so downstream score
// blending stays in a single range. Returns fewer than k results when the
// index is smaller.
func (idx *VectorIndex) TopK(query []float32, k int) []Candidate {
	if k <= 0 || len(idx.ids) == 0 {
		return nil
	}

	normalizedQuery := NormalizeVector(query)

	candidates := make([]Candidate, 0, len(idx.ids))
	for _, id := range idx.ids {
		cos := dotProduct(normalizedQuery, idx.vectors[id])
		score := (1 + float64(cos)) / 2
		// Guard against float drift outside [0, 1]
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		candidates = append(candidates, Candidate{SkillId: id, Score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].SkillId < candidates[j].SkillId
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// NormalizeVector normalizes a vector to unit length.
// Returns a new vector. If the input is a zero vector, returns a zero vector.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	// Can't normalize zero vector
	if magnitude == 0 {
		result := make([]float32, len(v))
		return result
	}

	result := make([]float32, len(v))
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// dotProduct computes the dot product of two vectors. Mismatched lengths
// compare over the shorter prefix.
func dotProduct(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
