package persistence

import (
	"context"
	"errors"
	"slices"
	"sync"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=persistence_test

var ErrNoSnapshot = errors.New("no snapshot stored")

// Backend stores one serialized state snapshot.
type Backend interface {
	// Read returns ErrNoSnapshot when nothing was written yet.
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// MemoryBackend keeps the snapshot in process memory.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, ErrNoSnapshot
	}
	return slices.Clone(b.data), nil
}

func (b *MemoryBackend) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = slices.Clone(data)
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
