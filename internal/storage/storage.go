package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/extractor/internal/models"
)

// DocumentStore holds the metadata of every document processed in the
// current session, in processing order. The store is in-memory only; the
// on-demand batch export is its durable form.
type DocumentStore struct {
	mu          sync.RWMutex
	sessionID   string
	createdAt   time.Time
	lastUpdated time.Time
	documents   []models.DocumentEntry
}

func New() *DocumentStore {
	return &DocumentStore{
		sessionID: uuid.NewString(),
		createdAt: time.Now(),
		documents: []models.DocumentEntry{},
	}
}

// Add appends one processed document to the session.
func (s *DocumentStore) Add(entry models.DocumentEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, entry)
	s.lastUpdated = time.Now()
}

// Snapshot returns a copy of the full session suitable for export.
func (s *DocumentStore) Snapshot() models.ExportSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	documents := make([]models.DocumentEntry, len(s.documents))
	copy(documents, s.documents)

	return models.ExportSnapshot{
		SessionID:      s.sessionID,
		CreatedAt:      s.createdAt,
		LastUpdated:    s.lastUpdated,
		TotalDocuments: len(documents),
		Documents:      documents,
	}
}

// Len returns the number of documents processed so far.
func (s *DocumentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// Clear discards all documents and starts a fresh session, returning the
// new session ID.
func (s *DocumentStore) Clear() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = uuid.NewString()
	s.createdAt = time.Now()
	s.lastUpdated = time.Time{}
	s.documents = []models.DocumentEntry{}
	return s.sessionID
}
