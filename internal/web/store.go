package web

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// upload is an uploaded workbook. Its bytes are never modified after Put,
// so handlers may read them concurrently.
type upload struct {
	ID      string
	Name    string
	Data    []byte
	Created time.Time
}

// uploadStore keeps recent uploads in memory, bounded by count and age.
type uploadStore struct {
	mu    sync.Mutex
	items map[string]*upload
	order []string
	max   int
	ttl   time.Duration
	now   func() time.Time
}

func newUploadStore(max int, ttl time.Duration) *uploadStore {
	if max < 1 {
		max = 1
	}
	return &uploadStore{
		items: make(map[string]*upload),
		max:   max,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores a workbook under a new random ID, evicting expired and then
// oldest entries to stay within bounds.
func (s *uploadStore) Put(name string, data []byte) *upload {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	for len(s.order) >= s.max {
		s.removeLocked(s.order[0])
	}

	u := &upload{
		ID:      uuid.NewString(),
		Name:    name,
		Data:    data,
		Created: s.now(),
	}
	s.items[u.ID] = u
	s.order = append(s.order, u.ID)
	return u
}

// Get returns a live upload.
func (s *uploadStore) Get(id string) (*upload, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked()
	u, ok := s.items[id]
	return u, ok
}

// Len returns the number of stored uploads.
func (s *uploadStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}

func (s *uploadStore) expireLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for len(s.order) > 0 && s.items[s.order[0]].Created.Before(cutoff) {
		s.removeLocked(s.order[0])
	}
}

func (s *uploadStore) removeLocked(id string) {
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
