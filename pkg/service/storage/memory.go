package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/careops-lab/panacea/pkg/domain/interfaces"
)

// Memory is an in-memory blob store for development and tests.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]memoryBlob
}

type memoryBlob struct {
	contentType string
	data        []byte
}

func NewMemory() *Memory {
	return &Memory{
		blobs: map[string]memoryBlob{},
	}
}

func (s *Memory) Put(_ context.Context, path string, contentType string, data []byte) (string, error) {
	path = strings.TrimPrefix(path, "/")

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.blobs[path] = memoryBlob{
		contentType: contentType,
		data:        copied,
	}

	return "memory://" + path, nil
}

// Get returns a stored blob, for test assertions.
func (s *Memory) Get(path string) ([]byte, string, bool) {
	path = strings.TrimPrefix(path, "/")

	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[path]
	if !ok {
		return nil, "", false
	}
	return blob.data, blob.contentType, true
}

func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

var _ interfaces.BlobStorage = (*Memory)(nil)
