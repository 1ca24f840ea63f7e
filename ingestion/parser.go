package ingestion

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/bobmatnyc/mcp-skillkit/core"
)

// SkillFileName is the manifest file that defines a skill.
const SkillFileName = "SKILL.md"

// ParseSkillFile parses a SKILL.md manifest into a Skill. The file carries
// YAML front matter (name, description, category, tags, dependencies,
// examples) followed by a markdown body that becomes the skill's
// instructions. The skill id is derived from the repository id and the
// slugified name, so the same skill parses to the same id on every scan.
func ParseSkillFile(repoId, path string, content []byte) (*core.Skill, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("parsing markdown in %s: %w", path, err)
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFrontMatter, path)
	}

	name, _ := metaData["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingName, path)
	}
	description, _ := metaData["description"].(string)
	if description == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingDescription, path)
	}

	category, _ := metaData["category"].(string)
	if category == "" {
		category = "general"
	}

	skill := &core.Skill{
		Id:           repoId + "/" + Slug(name),
		Name:         name,
		Description:  description,
		Instructions: extractBodyContent(string(content)),
		Category:     category,
		Tags:         stringList(metaData["tags"]),
		Dependencies: stringList(metaData["dependencies"]),
		Examples:     stringList(metaData["examples"]),
		FilePath:     path,
		RepoId:       repoId,
	}
	return skill, nil
}

// Slug lowercases a name and replaces runs of non-alphanumeric characters
// with single hyphens.
func Slug(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// stringList coerces a frontmatter value into a string slice. YAML lists
// decode as []interface{}; a bare string becomes a single-element list.
func stringList(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// extractBodyContent removes YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
