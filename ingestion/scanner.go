package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

// Scanner walks repository checkouts for SKILL.md manifests and reconciles
// the skill store against what it finds: new and changed skills are written,
// skills whose manifests disappeared are removed.
type Scanner struct {
	skills storage.SkillRepository
	repos  storage.RepositoryStore
	logger *slog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScanner creates a new scanner.
func NewScanner(skills storage.SkillRepository, repos storage.RepositoryStore, opts ...Option) (*Scanner, error) {
	if skills == nil {
		return nil, ErrSkillRepositoryRequired
	}
	if repos == nil {
		return nil, ErrRepositoryStoreRequired
	}

	s := &Scanner{
		skills: skills,
		repos:  repos,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ScanResult summarizes one repository scan.
type ScanResult struct {
	// SkillsFound is the number of valid skills discovered and stored.
	SkillsFound int

	// SkillsRemoved is the number of stored skills whose manifests are gone.
	SkillsRemoved int

	// FilesSkipped counts manifests that failed to parse.
	FilesSkipped int
}

// ScanRepository scans a repository's local checkout and reconciles stored
// skills with the manifests on disk. The repository record's SkillCount and
// LastUpdated are refreshed afterwards.
func (s *Scanner) ScanRepository(ctx context.Context, repo *core.Repository) (*ScanResult, error) {
	if repo.LocalPath == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoLocalPath, repo.Id)
	}
	if err := core.ValidateRepository(repo); err != nil {
		return nil, err
	}

	matches, err := doublestar.Glob(os.DirFS(repo.LocalPath), "**/"+SkillFileName)
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", repo.LocalPath, err)
	}

	result := &ScanResult{}
	discovered := make(map[string]bool)
	var skills []*core.Skill

	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fullPath := filepath.Join(repo.LocalPath, filepath.FromSlash(match))
		content, err := os.ReadFile(fullPath)
		if err != nil {
			s.logger.Warn("skipping unreadable skill file", "path", fullPath, "err", err)
			result.FilesSkipped++
			continue
		}

		skill, err := ParseSkillFile(repo.Id, match, content)
		if err != nil {
			s.logger.Warn("skipping invalid skill file", "path", fullPath, "err", err)
			result.FilesSkipped++
			continue
		}
		if err := core.ValidateSkill(skill); err != nil {
			s.logger.Warn("skipping skill failing validation", "id", skill.Id, "err", err)
			result.FilesSkipped++
			continue
		}

		if discovered[skill.Id] {
			s.logger.Warn("duplicate skill id within repository", "id", skill.Id, "path", fullPath)
			result.FilesSkipped++
			continue
		}
		discovered[skill.Id] = true
		skills = append(skills, skill)
	}

	if len(skills) > 0 {
		if err := s.skills.PutSkills(ctx, skills...); err != nil {
			return nil, fmt.Errorf("storing skills for %s: %w", repo.Id, err)
		}
	}
	result.SkillsFound = len(skills)

	// Remove stored skills whose manifests disappeared
	existing, err := s.skills.ListSkills(ctx, storage.Filter{RepoId: repo.Id})
	if err != nil {
		return nil, fmt.Errorf("listing skills for %s: %w", repo.Id, err)
	}
	var stale []string
	for _, skill := range existing {
		if !discovered[skill.Id] {
			stale = append(stale, skill.Id)
		}
	}
	if len(stale) > 0 {
		if err := s.skills.DeleteSkills(ctx, stale...); err != nil {
			return nil, fmt.Errorf("removing stale skills for %s: %w", repo.Id, err)
		}
	}
	result.SkillsRemoved = len(stale)

	repo.SkillCount = result.SkillsFound
	repo.LastUpdated = time.Now().UTC()
	if err := s.repos.PutRepository(ctx, repo); err != nil {
		return nil, fmt.Errorf("updating repository %s: %w", repo.Id, err)
	}

	s.logger.Info("repository scanned",
		"repo", repo.Id,
		"found", result.SkillsFound,
		"removed", result.SkillsRemoved,
		"skipped", result.FilesSkipped)

	return result, nil
}

// RemoveRepository deletes a repository record together with every skill it
// contributed. Returns the number of skills removed.
func (s *Scanner) RemoveRepository(ctx context.Context, repoId string) (int, error) {
	deleted, err := s.skills.DeleteSkillsByRepo(ctx, repoId)
	if err != nil {
		return 0, fmt.Errorf("removing skills for %s: %w", repoId, err)
	}
	if err := s.repos.DeleteRepository(ctx, repoId); err != nil {
		return deleted, err
	}
	s.logger.Info("repository removed", "repo", repoId, "skills", deleted)
	return deleted, nil
}
