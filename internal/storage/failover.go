package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const failoverRetryInterval = time.Minute

// FailoverStore serves from a primary Store and falls back to a secondary
// when the primary errors. After the retry interval it probes the primary
// again. Intended pairing: Redis primary, memory fallback.
type FailoverStore struct {
	primary  Store
	fallback Store
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

func NewFailoverStore(primary, fallback Store, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (s *FailoverStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.tryPrimary() {
		val, ok, err := s.primary.Get(ctx, key)
		if err == nil {
			s.markUp()
			return val, ok, nil
		}
		s.trip(err)
	}
	return s.fallback.Get(ctx, key)
}

func (s *FailoverStore) Set(ctx context.Context, key, value string) error {
	if s.tryPrimary() {
		if err := s.primary.Set(ctx, key, value); err == nil {
			s.markUp()
			// Mirror into the fallback so reads stay coherent after a trip.
			_ = s.fallback.Set(ctx, key, value)
			return nil
		} else {
			s.trip(err)
		}
	}
	return s.fallback.Set(ctx, key, value)
}

func (s *FailoverStore) Delete(ctx context.Context, key string) error {
	if s.tryPrimary() {
		if err := s.primary.Delete(ctx, key); err == nil {
			s.markUp()
			_ = s.fallback.Delete(ctx, key)
			return nil
		} else {
			s.trip(err)
		}
	}
	return s.fallback.Delete(ctx, key)
}

// tryPrimary reports whether the primary should be attempted on this call.
func (s *FailoverStore) tryPrimary() bool {
	if !s.isDown.Load() {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.lastCheck) > failoverRetryInterval {
		s.lastCheck = time.Now()
		return true
	}
	return false
}

func (s *FailoverStore) trip(err error) {
	if s.isDown.CompareAndSwap(false, true) && s.logger != nil {
		s.logger.Error().Err(err).Msg("primary store failed, falling back")
	}
	s.mu.Lock()
	s.lastCheck = time.Now()
	s.mu.Unlock()
}

func (s *FailoverStore) markUp() {
	if s.isDown.CompareAndSwap(true, false) && s.logger != nil {
		s.logger.Info().Msg("primary store recovered")
	}
}
