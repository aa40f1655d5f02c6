package facade

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/badukstudy/aicore/internal/vision/detect"
)

// SessionStore tracks one Session per recognized image, keyed by a
// google/uuid-generated ID, so a corner-drag or hint-only follow-up can
// re-warp the original image without the caller re-uploading it.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// New registers a freshly recognized image and its corners under a new
// session ID.
func (m *SessionStore) New(img *image.RGBA, corners detect.Quad) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Image:     img,
		Corners:   corners,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.sessions[s.ID] = s
	return s
}

func (m *SessionStore) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	return s, nil
}

// UpdateCorners records a new set of corners for an existing session — a
// corner-drag follow-up does not replace the source image.
func (m *SessionStore) UpdateCorners(id string, corners detect.Quad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	s.Corners = corners
	s.UpdatedAt = time.Now()
	return nil
}
