// Package tiered chains the in-process tier in front of the shared tier.
// Reads promote shared hits into memory; writes go to both.
package tiered

import (
	"context"
	"time"

	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache"
)

type Store struct {
	front tilecache.Interface
	back  tilecache.Interface // may be nil when Redis is not configured
}

var _ tilecache.Interface = (*Store)(nil)

func New(front, back tilecache.Interface) *Store {
	return &Store{front: front, back: back}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok, err := s.front.Get(ctx, key)
	if err != nil || ok {
		return val, ok, err
	}
	if s.back == nil {
		return nil, false, nil
	}
	val, ok, err = s.back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	// Promotion failure is not a read failure.
	_ = s.front.Set(ctx, key, val, 0)
	return val, true, nil
}

func (s *Store) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := s.front.Set(ctx, key, val, ttl); err != nil {
		return err
	}
	if s.back == nil {
		return nil
	}
	return s.back.Set(ctx, key, val, ttl)
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	if err := s.front.Del(ctx, keys...); err != nil {
		return err
	}
	if s.back == nil {
		return nil
	}
	return s.back.Del(ctx, keys...)
}
