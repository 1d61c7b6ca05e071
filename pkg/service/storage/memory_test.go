package storage_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/careops-lab/panacea/pkg/service/storage"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	s := storage.NewMemory()

	url := gt.R1(s.Put(ctx, "/occurrences/x/sig.png", "image/png", []byte{0x89, 0x50})).NoError(t)
	gt.V(t, url).Equal("memory://occurrences/x/sig.png")

	data, contentType, ok := s.Get("occurrences/x/sig.png")
	gt.True(t, ok)
	gt.V(t, contentType).Equal("image/png")
	gt.A(t, data).Length(2)

	// Writes must not alias the caller's buffer.
	src := []byte("hello")
	gt.R1(s.Put(ctx, "a.txt", "text/plain", src)).NoError(t)
	src[0] = 'X'
	stored, _, _ := s.Get("a.txt")
	gt.V(t, string(stored)).Equal("hello")

	_, _, missing := s.Get("nope")
	gt.False(t, missing)
}
