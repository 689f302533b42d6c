package storage

import "context"

// NoopStore is the null-object Store: reads see an empty keyspace and writes
// are accepted and discarded. It stands in wherever no real storage backend
// is configured, so callers never branch on storage availability.
type NoopStore struct{}

func NewNoopStore() NoopStore { return NoopStore{} }

func (NoopStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (NoopStore) Set(ctx context.Context, key, value string) error { return nil }

func (NoopStore) Delete(ctx context.Context, key string) error { return nil }
