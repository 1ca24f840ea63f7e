package badger

import (
	"context"
	"testing"
)

func TestOpenBackendInMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	if err != nil {
		t.Fatalf("Failed to open in-memory backend: %v", err)
	}
	if backend.IsClosed() {
		t.Fatal("Expected backend to be open")
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Failed to close backend: %v", err)
	}
	if !backend.IsClosed() {
		t.Fatal("Expected backend to be closed")
	}
}

func TestOpenBackendCreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/db"
	backend, err := OpenBackend(dir, false)
	if err != nil {
		t.Fatalf("Failed to open backend at %s: %v", dir, err)
	}
	defer backend.Close()

	skillRepo, err := NewSkillRepository(backend)
	if err != nil {
		t.Fatalf("Failed to create skill repository: %v", err)
	}
	defer skillRepo.Close()

	ctx := context.Background()
	skill := testSkill("repo/persisted", "testing", "repo")
	if err := skillRepo.PutSkills(ctx, skill); err != nil {
		t.Fatalf("Failed to put skill: %v", err)
	}

	retrieved, err := skillRepo.GetSkill(ctx, "repo/persisted")
	if err != nil {
		t.Fatalf("Failed to get skill: %v", err)
	}
	if retrieved.Id != skill.Id {
		t.Fatalf("Expected '%s', got '%s'", skill.Id, retrieved.Id)
	}
}
