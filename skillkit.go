// Copyright 2025 Bob Matsuoka
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package skillkit assembles the skill store, indexing engine, and hybrid
// searcher into one handle. Open wires everything against a BadgerDB
// directory and restores the last published index snapshot; callers then
// scan repositories, reindex, and search through the Kit.
package skillkit

import (
	"context"
	"log/slog"

	"github.com/bobmatnyc/mcp-skillkit/ai"
	"github.com/bobmatnyc/mcp-skillkit/ai/openai"
	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/index"
	"github.com/bobmatnyc/mcp-skillkit/ingestion"
	"github.com/bobmatnyc/mcp-skillkit/search"
	"github.com/bobmatnyc/mcp-skillkit/storage"
	"github.com/bobmatnyc/mcp-skillkit/storage/badger"
)

// Kit bundles storage, indexing, and search behind a single handle.
type Kit struct {
	backend    *badger.Backend
	skillRepo  storage.SkillRepository
	repoStore  storage.RepositoryStore
	vectorRepo storage.VectorRepository
	engine     *index.Engine
	searcher   *search.Searcher
	scanner    *ingestion.Scanner
	logger     *slog.Logger
}

// KitOption configures a Kit.
type KitOption func(*kitOptions)

type kitOptions struct {
	aiConfig     *ai.Config
	embedder     ai.Embedder
	searchConfig *search.Config
	engineOpts   []index.Option
	logger       *slog.Logger
}

// WithAIConfig sets the embedding service configuration used to construct
// the default OpenAI-compatible embedder.
func WithAIConfig(cfg *ai.Config) KitOption {
	return func(o *kitOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithEmbedder injects an embedder directly, bypassing the AI config.
// Useful for tests and custom embedding backends.
func WithEmbedder(embedder ai.Embedder) KitOption {
	return func(o *kitOptions) {
		o.embedder = embedder
	}
}

// WithSearchConfig sets the default score weighting for searches.
func WithSearchConfig(cfg *search.Config) KitOption {
	return func(o *kitOptions) {
		o.searchConfig = cfg
	}
}

// WithEngineOptions forwards options to the indexing engine.
func WithEngineOptions(opts ...index.Option) KitOption {
	return func(o *kitOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) KitOption {
	return func(o *kitOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open opens the skill database at filePath and assembles the toolkit. The
// last published index snapshot is restored from persisted embeddings so
// searches work immediately; run Reindex to pick up changes.
func Open(ctx context.Context, filePath string, opts ...KitOption) (*Kit, error) {
	options := &kitOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	embedder := options.embedder
	if embedder == nil {
		var err error
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	skillRepo, err := badger.NewSkillRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	repoStore, err := badger.NewRepositoryStore(backend)
	if err != nil {
		skillRepo.Close()
		backend.Close()
		return nil, err
	}

	vectorRepo, err := badger.NewVectorRepository(backend)
	if err != nil {
		repoStore.Close()
		skillRepo.Close()
		backend.Close()
		return nil, err
	}

	engineOpts := append([]index.Option{index.WithLogger(options.logger)}, options.engineOpts...)
	engine, err := index.NewEngine(skillRepo, vectorRepo, embedder, engineOpts...)
	if err != nil {
		vectorRepo.Close()
		repoStore.Close()
		skillRepo.Close()
		backend.Close()
		return nil, err
	}

	searcherOpts := []search.Option{search.WithLogger(options.logger)}
	if options.searchConfig != nil {
		searcherOpts = append(searcherOpts, search.WithConfig(options.searchConfig))
	}
	searcher, err := search.NewSearcher(engine, embedder, searcherOpts...)
	if err != nil {
		engine.Release()
		vectorRepo.Close()
		repoStore.Close()
		skillRepo.Close()
		backend.Close()
		return nil, err
	}

	scanner, err := ingestion.NewScanner(skillRepo, repoStore, ingestion.WithLogger(options.logger))
	if err != nil {
		engine.Release()
		vectorRepo.Close()
		repoStore.Close()
		skillRepo.Close()
		backend.Close()
		return nil, err
	}

	kit := &Kit{
		backend:    backend,
		skillRepo:  skillRepo,
		repoStore:  repoStore,
		vectorRepo: vectorRepo,
		engine:     engine,
		searcher:   searcher,
		scanner:    scanner,
		logger:     options.logger,
	}

	if err := engine.Restore(ctx); err != nil {
		kit.Close()
		return nil, err
	}

	return kit, nil
}

// Close releases the engine and closes storage.
func (k *Kit) Close() error {
	k.engine.Release()

	if err := k.vectorRepo.Close(); err != nil {
		k.logger.Error("error closing vector repository", "err", err)
		return err
	}
	if err := k.repoStore.Close(); err != nil {
		k.logger.Error("error closing repository store", "err", err)
		return err
	}
	if err := k.skillRepo.Close(); err != nil {
		k.logger.Error("error closing skill repository", "err", err)
		return err
	}
	if err := k.backend.Close(); err != nil {
		k.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Search ranks skills against the query over the current index snapshot.
func (k *Kit) Search(ctx context.Context, q search.Query) ([]*core.ScoredSkill, error) {
	return k.searcher.Search(ctx, q)
}

// Reindex rebuilds the index from stored skills and publishes it.
func (k *Kit) Reindex(ctx context.Context) (*core.IndexStats, error) {
	return k.engine.Reindex(ctx)
}

// ReindexAll rebuilds the index re-embedding every skill, ignoring the
// content-hash cache.
func (k *Kit) ReindexAll(ctx context.Context) (*core.IndexStats, error) {
	return k.engine.ReindexAll(ctx)
}

// ScanRepository discovers SKILL.md manifests under a repository checkout
// and reconciles the skill store.
func (k *Kit) ScanRepository(ctx context.Context, repo *core.Repository) (*ingestion.ScanResult, error) {
	return k.scanner.ScanRepository(ctx, repo)
}

// RemoveRepository drops a repository and every skill it contributed.
func (k *Kit) RemoveRepository(ctx context.Context, repoId string) (int, error) {
	return k.scanner.RemoveRepository(ctx, repoId)
}

// RelatedSkills lists skills connected to the given skill in the
// relationship graph, strongest connection first. Returns
// storage.ErrNotFound for an unknown id.
func (k *Kit) RelatedSkills(ctx context.Context, id string, limit int) ([]*core.ScoredSkill, error) {
	if _, err := k.skillRepo.GetSkill(ctx, id); err != nil {
		return nil, err
	}
	return k.searcher.Related(id, limit), nil
}

// GetSkill retrieves a skill by id.
func (k *Kit) GetSkill(ctx context.Context, id string) (*core.Skill, error) {
	return k.skillRepo.GetSkill(ctx, id)
}

// ListSkills lists stored skills matching the filter.
func (k *Kit) ListSkills(ctx context.Context, filter storage.Filter) ([]*core.Skill, error) {
	return k.skillRepo.ListSkills(ctx, filter)
}

// ListCategories lists the distinct skill categories.
func (k *Kit) ListCategories(ctx context.Context) ([]string, error) {
	return k.skillRepo.ListCategories(ctx)
}

// ListRepositories lists configured repositories by priority.
func (k *Kit) ListRepositories(ctx context.Context) ([]*core.Repository, error) {
	return k.repoStore.ListRepositories(ctx)
}

// SkillRepository exposes the underlying skill store.
func (k *Kit) SkillRepository() storage.SkillRepository {
	return k.skillRepo
}

// RepositoryStore exposes the underlying repository store.
func (k *Kit) RepositoryStore() storage.RepositoryStore {
	return k.repoStore
}

// VectorRepository exposes the underlying vector record store.
func (k *Kit) VectorRepository() storage.VectorRepository {
	return k.vectorRepo
}

// Engine exposes the indexing engine.
func (k *Kit) Engine() *index.Engine {
	return k.engine
}

// Searcher exposes the hybrid searcher.
func (k *Kit) Searcher() *search.Searcher {
	return k.searcher
}
