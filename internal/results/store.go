package results

import (
	"sync"
	"time"

	"mdceval/internal/model"
)

// Run is one finished evaluation kept for the API and persistence layers.
type Run struct {
	ID        int            `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Results   *model.Results `json:"results"`
}

// Store is a bounded in-memory buffer of recent runs, oldest evicted first.
type Store struct {
	mu     sync.RWMutex
	buf    []Run
	nextID int
	limit  int
}

func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = 100
	}
	return &Store{limit: limit, nextID: 1}
}

func (s *Store) Add(res *model.Results) Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := Run{ID: s.nextID, CreatedAt: time.Now().UTC(), Results: res}
	s.nextID++
	if len(s.buf) < s.limit {
		s.buf = append(s.buf, run)
		return run
	}
	copy(s.buf, s.buf[1:])
	s.buf[len(s.buf)-1] = run
	return run
}

func (s *Store) Latest() (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.buf) == 0 {
		return Run{}, false
	}
	return s.buf[len(s.buf)-1], true
}

func (s *Store) Get(id int) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.buf) - 1; i >= 0; i-- {
		if s.buf[i].ID == id {
			return s.buf[i], true
		}
	}
	return Run{}, false
}

func (s *Store) List(limit int) []Run {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.buf) {
		limit = len(s.buf)
	}
	out := make([]Run, 0, limit)
	for i := len(s.buf) - limit; i < len(s.buf); i++ {
		out = append(out, s.buf[i])
	}
	return out
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = nil
}
