package storage

import (
	"sync"
	"testing"

	"github.com/lehigh-university-libraries/extractor/internal/models"
)

func TestAddAndSnapshot(t *testing.T) {
	store := New()

	store.Add(models.DocumentEntry{Filename: "a.txt"})
	store.Add(models.DocumentEntry{Filename: "b.txt"})

	snapshot := store.Snapshot()
	if snapshot.TotalDocuments != 2 {
		t.Fatalf("TotalDocuments = %d, want 2", snapshot.TotalDocuments)
	}
	if snapshot.Documents[0].Filename != "a.txt" || snapshot.Documents[1].Filename != "b.txt" {
		t.Errorf("Expected insertion order preserved, got %v", snapshot.Documents)
	}
	if snapshot.SessionID == "" {
		t.Error("Expected a session ID")
	}
	if snapshot.LastUpdated.IsZero() {
		t.Error("Expected last_updated to be set after an add")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := New()
	store.Add(models.DocumentEntry{Filename: "a.txt"})

	snapshot := store.Snapshot()
	snapshot.Documents[0].Filename = "mutated.txt"

	if store.Snapshot().Documents[0].Filename != "a.txt" {
		t.Error("Snapshot mutation leaked into the store")
	}
}

func TestClearStartsFreshSession(t *testing.T) {
	store := New()
	store.Add(models.DocumentEntry{Filename: "a.txt"})
	oldID := store.Snapshot().SessionID

	newID := store.Clear()

	if newID == oldID {
		t.Error("Expected a new session ID after clear")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after clear, want 0", store.Len())
	}
	if store.Snapshot().SessionID != newID {
		t.Error("Snapshot session ID does not match the ID Clear returned")
	}
}

func TestConcurrentAdds(t *testing.T) {
	store := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add(models.DocumentEntry{Filename: "doc.txt"})
		}()
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Errorf("Len() = %d, want 50", store.Len())
	}
}
