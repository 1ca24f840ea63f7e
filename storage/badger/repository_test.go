package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bobmatnyc/mcp-skillkit/core"
	"github.com/bobmatnyc/mcp-skillkit/storage"
)

func TestRepositoryBasics(t *testing.T) {
	_, repoStore, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { repoStore.Close(); backend.Close() }()

	ctx := context.Background()

	repo := &core.Repository{
		Id:          "anthropic-skills",
		Url:         "https://github.com/anthropics/skills",
		Priority:    10,
		LastUpdated: time.Now().UTC(),
		License:     "MIT",
	}
	if err := repoStore.PutRepository(ctx, repo); err != nil {
		t.Fatalf("Failed to put repository: %v", err)
	}

	retrieved, err := repoStore.GetRepository(ctx, "anthropic-skills")
	if err != nil {
		t.Fatalf("Failed to get repository: %v", err)
	}
	if retrieved.Url != repo.Url {
		t.Fatalf("Expected '%s', got '%s'", repo.Url, retrieved.Url)
	}

	_, err = repoStore.GetRepository(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryValidation(t *testing.T) {
	_, repoStore, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { repoStore.Close(); backend.Close() }()

	ctx := context.Background()

	// Neither url nor local path set
	err = repoStore.PutRepository(ctx, &core.Repository{Id: "bad"})
	if !errors.Is(err, core.ErrInvalidRepository) {
		t.Fatalf("Expected ErrInvalidRepository, got %v", err)
	}

	// Local-path-only repositories are fine
	err = repoStore.PutRepository(ctx, &core.Repository{
		Id:        "local",
		LocalPath: "/srv/skills",
	})
	if err != nil {
		t.Fatalf("Expected local repository to validate, got %v", err)
	}
}

func TestListRepositoriesOrdering(t *testing.T) {
	_, repoStore, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { repoStore.Close(); backend.Close() }()

	ctx := context.Background()

	repos := []*core.Repository{
		{Id: "beta", Url: "https://example.com/beta", Priority: 5},
		{Id: "alpha", Url: "https://example.com/alpha", Priority: 5},
		{Id: "gamma", Url: "https://example.com/gamma", Priority: 9},
	}
	for _, repo := range repos {
		if err := repoStore.PutRepository(ctx, repo); err != nil {
			t.Fatalf("Failed to put repository: %v", err)
		}
	}

	listed, err := repoStore.ListRepositories(ctx)
	if err != nil {
		t.Fatalf("Failed to list repositories: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 repositories, got %d", len(listed))
	}

	// Priority descending, then Id ascending
	want := []string{"gamma", "alpha", "beta"}
	for i, id := range want {
		if listed[i].Id != id {
			t.Fatalf("Expected %v, got %s at position %d", want, listed[i].Id, i)
		}
	}
}

func TestDeleteRepository(t *testing.T) {
	_, repoStore, _, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer func() { repoStore.Close(); backend.Close() }()

	ctx := context.Background()

	repo := &core.Repository{Id: "doomed", Url: "https://example.com/doomed"}
	if err := repoStore.PutRepository(ctx, repo); err != nil {
		t.Fatalf("Failed to put repository: %v", err)
	}

	if err := repoStore.DeleteRepository(ctx, "doomed"); err != nil {
		t.Fatalf("Failed to delete repository: %v", err)
	}

	err = repoStore.DeleteRepository(ctx, "doomed")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound on second delete, got %v", err)
	}
}
