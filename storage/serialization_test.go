package storage

import (
	"testing"
	"time"

	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillRoundTrip(t *testing.T) {
	skill := &core.Skill{
		Id:           "test-repo/pytest",
		Name:         "pytest",
		Description:  "Professional pytest testing for Python",
		Instructions: "Write tests with fixtures, parametrize cases, and assert outcomes explicitly.",
		Category:     "testing",
		Tags:         []string{"python", "pytest", "tdd"},
		Dependencies: []string{"test-repo/python-basics"},
		Examples:     []string{"Run the suite", "Debug a failure"},
		FilePath:     "/repos/test-repo/pytest/SKILL.md",
		RepoId:       "test-repo",
	}

	decoded, err := UnmarshalSkill(MarshalSkill(skill))
	require.NoError(t, err)
	assert.Equal(t, skill, decoded)
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := &core.Repository{
		Id:          "anthropics-skills",
		Url:         "https://github.com/anthropics/skills.git",
		LocalPath:   "/repos/anthropics-skills",
		Priority:    100,
		LastUpdated: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
		SkillCount:  42,
		License:     "Apache-2.0",
	}

	decoded, err := UnmarshalRepository(MarshalRepository(repo))
	require.NoError(t, err)
	assert.Equal(t, repo, decoded)
}

func TestVectorRecordRoundTrip(t *testing.T) {
	record := &core.VectorRecord{
		SkillId:     "test-repo/pytest",
		Vector:      []float32{0.12, -0.5, 0.33, 0.81},
		ContentHash: core.ContentHash("some embeddable text"),
		UpdatedAt:   time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}

	decoded, err := UnmarshalVectorRecord(MarshalVectorRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestUnmarshalTruncatedData(t *testing.T) {
	data := MarshalSkill(&core.Skill{
		Id:           "r/a",
		Name:         "a",
		Description:  "description of a",
		Instructions: "instructions for skill a that are long enough to store",
		Category:     "testing",
		RepoId:       "r",
	})

	_, err := UnmarshalSkill(data[:len(data)/2])
	assert.Error(t, err)
}
