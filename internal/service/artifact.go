package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Artifact job states.
const (
	ArtifactPending   = "pending"
	ArtifactCompleted = "completed"
	ArtifactFailed    = "failed"
)

// Artifact tracks one background export job: a backup bundle or a rendered
// report. When the job completes, Token is the signed download handle.
type Artifact struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	FileName  string    `json:"fileName,omitempty"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArtifactTracker is an in-memory registry of artifact jobs. State is not
// persisted: a restart forgets in-flight jobs, which is acceptable because
// the artifacts themselves live on disk and expire by TTL.
type ArtifactTracker struct {
	mu sync.RWMutex
	m  map[string]*Artifact
}

// NewArtifactTracker builds an empty tracker.
func NewArtifactTracker() *ArtifactTracker {
	return &ArtifactTracker{m: make(map[string]*Artifact)}
}

// Create registers a pending artifact and returns its id.
func (t *ArtifactTracker) Create(kind string) *Artifact {
	a := &Artifact{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    ArtifactPending,
		CreatedAt: time.Now().UTC(),
	}
	t.mu.Lock()
	t.m[a.ID] = a
	t.mu.Unlock()
	copied := *a
	return &copied
}

// Complete marks the artifact done and attaches its download handle.
func (t *ArtifactTracker) Complete(id, fileName, token string, expiresAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.m[id]; ok {
		a.Status = ArtifactCompleted
		a.FileName = fileName
		a.Token = token
		a.ExpiresAt = expiresAt
	}
}

// Fail marks the artifact failed with a reason.
func (t *ArtifactTracker) Fail(id, reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.m[id]; ok {
		a.Status = ArtifactFailed
		a.Error = reason
	}
}

// Get returns a copy of the artifact, if known.
func (t *ArtifactTracker) Get(id string) (*Artifact, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.m[id]
	if !ok {
		return nil, false
	}
	copied := *a
	return &copied, true
}
