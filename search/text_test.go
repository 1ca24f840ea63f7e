package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmatnyc/mcp-skillkit/core"
)

func TestTokenizeAndFilter(t *testing.T) {
	t.Run("lowercases and trims punctuation", func(t *testing.T) {
		words := tokenizeAndFilter("Hello, World! (Python)")
		assert.Equal(t, []string{"hello", "world", "python"}, words)
	})

	t.Run("drops stop words", func(t *testing.T) {
		words := tokenizeAndFilter("the quick fox is on a wall")
		assert.Equal(t, []string{"quick", "fox", "wall"}, words)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, tokenizeAndFilter(""))
	})
}

func TestContainsAllQueryWords(t *testing.T) {
	doc := "Run python test suites with coverage reporting"

	assert.True(t, containsAllQueryWords(doc, "python test"))
	assert.True(t, containsAllQueryWords(doc, "the python test")) // stop word ignored
	assert.False(t, containsAllQueryWords(doc, "python deploy"))
	assert.False(t, containsAllQueryWords(doc, "the a of")) // only stop words
}

func TestMatchesKeywords(t *testing.T) {
	skill := &core.Skill{
		Id:          "repo/pytest",
		Name:        "Pytest Runner",
		Description: "Run test suites",
		Category:    "testing",
		Tags:        []string{"python", "coverage"},
	}

	assert.True(t, matchesKeywords(skill, "python coverage"), "tags are searchable")
	assert.True(t, matchesKeywords(skill, "pytest runner"), "name is searchable")
	assert.True(t, matchesKeywords(skill, "testing"), "category is searchable")
	assert.False(t, matchesKeywords(skill, "kubernetes"))
}
