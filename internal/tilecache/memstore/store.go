// Package memstore is the in-process cache tier: a bounded LRU of raw
// payloads with per-entry expiry, consulted before Redis.
package memstore

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/urbanclimate-tools/urbanmdu/internal/observability"
	"github.com/urbanclimate-tools/urbanmdu/internal/tilecache"
)

type entry struct {
	val     []byte
	expires time.Time
}

type Store struct {
	lru *lru.Cache[string, entry]
	now func() time.Time
}

var _ tilecache.Interface = (*Store)(nil)

func New(size int) *Store {
	if size <= 0 {
		size = 1024
	}
	c, _ := lru.New[string, entry](size)
	return &Store{lru: c, now: time.Now}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := s.lru.Get(key)
	if !ok {
		observability.IncCacheMiss("memory")
		return nil, false, nil
	}
	if !e.expires.IsZero() && s.now().After(e.expires) {
		s.lru.Remove(key)
		observability.IncCacheMiss("memory")
		return nil, false, nil
	}
	observability.IncCacheHit("memory")
	return e.val, true, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = s.now().Add(ttl)
	}
	s.lru.Add(key, entry{val: val, expires: expires})
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.lru.Remove(k)
	}
	return nil
}
