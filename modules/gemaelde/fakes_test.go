package gemaelde_test

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/acme/gemaelde/pkg/file"
	"github.com/acme/gemaelde/svc/gemaelde"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string]gemaelde.Gemaelde
}

func newFakeStore(seed ...gemaelde.Gemaelde) *fakeStore {
	s := &fakeStore{data: make(map[string]gemaelde.Gemaelde)}
	for _, g := range seed {
		s.data[g.ID] = g
	}
	return s
}

func (s *fakeStore) find(match func(gemaelde.Gemaelde) bool) *gemaelde.Gemaelde {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.data {
		if match(g) {
			return &g
		}
	}
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*gemaelde.Gemaelde, error) {
	return s.find(func(g gemaelde.Gemaelde) bool { return g.ID == id }), nil
}

func (s *fakeStore) FindByTitel(_ context.Context, titel string) (*gemaelde.Gemaelde, error) {
	return s.find(func(g gemaelde.Gemaelde) bool { return g.Titel == titel }), nil
}

func (s *fakeStore) FindByZertifizierung(_ context.Context, code string) (*gemaelde.Gemaelde, error) {
	return s.find(func(g gemaelde.Gemaelde) bool { return g.Zertifizierung == code }), nil
}

func (s *fakeStore) Find(_ context.Context, c gemaelde.Criteria) ([]gemaelde.Gemaelde, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := []gemaelde.Gemaelde{}
	for _, g := range s.data {
		if c.Titel != "" && !strings.Contains(strings.ToLower(g.Titel), strings.ToLower(c.Titel)) {
			continue
		}
		if c.Art != "" && g.Art != c.Art {
			continue
		}
		matches := true
		for _, k := range c.Kategorien {
			if !slices.ContainsFunc(g.Kategorien, func(have string) bool { return strings.EqualFold(have, k) }) {
				matches = false
			}
		}
		if matches {
			result = append(result, g)
		}
	}
	slices.SortFunc(result, func(a, b gemaelde.Gemaelde) int { return strings.Compare(a.Titel, b.Titel) })
	return result, nil
}

func (s *fakeStore) Insert(_ context.Context, g gemaelde.Gemaelde) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[g.ID] = g
	return nil
}

func (s *fakeStore) Replace(_ context.Context, g gemaelde.Gemaelde, expected int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.data[g.ID]
	if !ok || current.Version != expected {
		return false, nil
	}
	g.Version = expected + 1
	s.data[g.ID] = g
	return true, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[id]
	delete(s.data, id)
	return ok, nil
}

type blob struct {
	contentType string
	data        []byte
}

type fakeStorage struct {
	mu    sync.Mutex
	blobs map[string]blob
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{blobs: make(map[string]blob)}
}

func (s *fakeStorage) Put(_ context.Context, key, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = blob{contentType: contentType, data: data}
	return nil
}

func (s *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, file.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, file.Info{}, file.ErrFileNotFound
	}
	info := file.Info{Key: key, ContentType: b.contentType, Size: int64(len(b.data)), UploadedAt: time.Now()}
	return io.NopCloser(bytes.NewReader(b.data)), info, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}
