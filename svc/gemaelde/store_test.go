package gemaelde_test

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/acme/gemaelde/svc/gemaelde"
)

// memStore is an in-memory gemaelde.Store for service tests.
type memStore struct {
	mu   sync.Mutex
	data map[string]gemaelde.Gemaelde
	err  error

	// bumpOnReplace simulates a concurrent writer winning the race.
	bumpOnReplace bool
	// duplicateOnInsert simulates a unique index rejecting the write.
	duplicateOnInsert error
}

func newMemStore(seed ...gemaelde.Gemaelde) *memStore {
	s := &memStore{data: make(map[string]gemaelde.Gemaelde)}
	for _, g := range seed {
		s.data[g.ID] = g
	}
	return s
}

func (s *memStore) get(id string) (gemaelde.Gemaelde, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.data[id]
	return g, ok
}

func (s *memStore) FindByID(_ context.Context, id string) (*gemaelde.Gemaelde, error) {
	return s.first(func(g gemaelde.Gemaelde) bool { return g.ID == id })
}

func (s *memStore) FindByTitel(_ context.Context, titel string) (*gemaelde.Gemaelde, error) {
	return s.first(func(g gemaelde.Gemaelde) bool { return g.Titel == titel })
}

func (s *memStore) FindByZertifizierung(_ context.Context, code string) (*gemaelde.Gemaelde, error) {
	return s.first(func(g gemaelde.Gemaelde) bool { return g.Zertifizierung == code })
}

func (s *memStore) first(match func(gemaelde.Gemaelde) bool) (*gemaelde.Gemaelde, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, g := range s.data {
		if match(g) {
			return &g, nil
		}
	}
	return nil, nil
}

func (s *memStore) Find(_ context.Context, c gemaelde.Criteria) ([]gemaelde.Gemaelde, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	result := []gemaelde.Gemaelde{}
	for _, g := range s.data {
		switch {
		case c.TitelIsFragment():
			if !strings.Contains(strings.ToLower(g.Titel), strings.ToLower(c.Titel)) {
				continue
			}
		case c.Titel != "" && g.Titel != c.Titel:
			continue
		}
		if c.Art != "" && g.Art != c.Art {
			continue
		}
		if !hasAll(g.Kategorien, c.Kategorien) {
			continue
		}
		result = append(result, g)
	}
	slices.SortFunc(result, func(a, b gemaelde.Gemaelde) int { return strings.Compare(a.Titel, b.Titel) })
	return result, nil
}

func hasAll(have, want []string) bool {
	for _, w := range want {
		if !slices.ContainsFunc(have, func(h string) bool { return strings.EqualFold(h, w) }) {
			return false
		}
	}
	return true
}

func (s *memStore) Insert(_ context.Context, g gemaelde.Gemaelde) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.duplicateOnInsert != nil {
		return s.duplicateOnInsert
	}
	s.data[g.ID] = g
	return nil
}

func (s *memStore) Replace(_ context.Context, g gemaelde.Gemaelde, expectedVersion int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	current, ok := s.data[g.ID]
	if ok && s.bumpOnReplace {
		current.Version++
		s.data[g.ID] = current
	}
	if !ok || current.Version != expectedVersion {
		return false, nil
	}
	g.Version = expectedVersion + 1
	s.data[g.ID] = g
	return true, nil
}

func (s *memStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.data[id]
	delete(s.data, id)
	return ok, nil
}
