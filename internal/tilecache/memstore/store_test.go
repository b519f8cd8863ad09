package memstore

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestGetSet_RoundTrip(t *testing.T) {
	s := New(4)
	ctx := context.Background()

	if err := s.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, ok, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || !bytes.Equal(val, []byte("v1")) {
		t.Fatalf("ok=%v val=%q", ok, val)
	}
}

func TestGet_ExpiredEntry_IsAMiss(t *testing.T) {
	s := New(4)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Set(ctx, "k1", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(2 * time.Minute)

	if _, ok, _ := s.Get(ctx, "k1"); ok {
		t.Fatal("expired entry served")
	}
}

func TestSet_ZeroTTL_NeverExpires(t *testing.T) {
	s := New(4)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Set(ctx, "k1", []byte("v1"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(24 * time.Hour)

	if _, ok, _ := s.Get(ctx, "k1"); !ok {
		t.Fatal("zero-TTL entry expired")
	}
}

func TestLRU_EvictsOldest(t *testing.T) {
	s := New(2)
	ctx := context.Background()

	_ = s.Set(ctx, "k1", []byte("v1"), 0)
	_ = s.Set(ctx, "k2", []byte("v2"), 0)
	_ = s.Set(ctx, "k3", []byte("v3"), 0)

	if _, ok, _ := s.Get(ctx, "k1"); ok {
		t.Fatal("oldest entry survived past capacity")
	}
	if _, ok, _ := s.Get(ctx, "k3"); !ok {
		t.Fatal("newest entry evicted")
	}
}

func TestDel_RemovesEntry(t *testing.T) {
	s := New(4)
	ctx := context.Background()

	_ = s.Set(ctx, "k1", []byte("v1"), 0)
	if err := s.Del(ctx, "k1"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k1"); ok {
		t.Fatal("deleted entry served")
	}
}
