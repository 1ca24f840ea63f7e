package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// instructionsPreviewLen bounds how much of a skill's instructions
// contribute to its embeddable text. Long instruction bodies drown out
// the name and description otherwise.
const instructionsPreviewLen = 500

// ContentHash computes a deterministic 64-bit hash of text using BLAKE2b.
// Identical content always produces the identical hash, which is what the
// indexing engine relies on to skip unchanged skills during incremental
// reindexing.
func ContentHash(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Skill is a discrete instructional document indexed for retrieval.
// Skills are parsed from SKILL.md files during repository scans and are
// immutable once stored; updates replace the whole record by Id.
type Skill struct {
	Id           string // Unique identifier, "<repoId>/<slug>"
	Name         string
	Description  string
	Instructions string // Full markdown body of the skill document
	Category     string
	Tags         []string
	Dependencies []string // Ids of skills this skill depends on
	Examples     []string
	FilePath     string // Path to the source SKILL.md
	RepoId       string // Repository the skill was discovered in
}

// EmbeddableText builds the text representation used for embedding.
// It combines the fields roughly in order of importance: name,
// description, a preview of the instructions, and the tags.
func (s *Skill) EmbeddableText() string {
	preview := s.Instructions
	if len(preview) > instructionsPreviewLen {
		preview = preview[:instructionsPreviewLen]
	}
	parts := []string{s.Name, s.Description, preview, strings.Join(s.Tags, " ")}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Repository describes a source of skills. It is the source of truth for
// skill provenance; SkillCount tracks the number of stored skills whose
// RepoId matches Id and is maintained by the repository scanner.
type Repository struct {
	Id          string
	Url         string
	LocalPath   string
	Priority    int // Higher priority repositories win skill conflicts
	LastUpdated time.Time
	SkillCount  int
	License     string
}

// VectorRecord holds the persisted embedding for a skill together with
// the content hash of the text that produced it. The hash doubles as the
// per-skill cache entry for incremental reindex decisions: a skill whose
// current content hash matches its record is not re-embedded.
type VectorRecord struct {
	SkillId     string
	Vector      []float32 // Unit-length embedding
	ContentHash uint64
	UpdatedAt   time.Time
}

// ScoredSkill is a search result produced per query, never persisted.
type ScoredSkill struct {
	Skill         *Skill
	VectorScore   float64
	GraphScore    float64
	CombinedScore float64
}

// IndexStats reports the outcome of a reindex operation.
type IndexStats struct {
	SkillsIndexed  int // Skills whose embeddings were (re)generated
	SkillsSkipped  int // Skills reused from the content-hash cache
	VectorCount    int
	GraphNodeCount int
	GraphEdgeCount int
	Duration       time.Duration
}
