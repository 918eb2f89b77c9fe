//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package datastruct

import (
	"errors"
	"sync"
	"testing"
)

func testPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("should have panicked")
		}
	}()
	f()
}

func mockRingStore() *RingStore {
	s := NewRingStore(2, Retention{MaxSamples: 100})
	for i := int64(1); i <= 6; i++ {
		s.Append(i, []float64{float64(i), float64(-i)})
	}
	return s
}

func TestNewRingStore__Normal(t *testing.T) {
	s := NewRingStore(3, Retention{})
	if s.Channels() != 3 {
		t.Errorf("wrong number of channels")
	}
	if s.ret.MaxSamples != DefaultMaxSamples {
		t.Errorf("zero retention should fall back to the default")
	}
}

func TestNewRingStore__BadChannels(t *testing.T) {
	testPanic(t, func() {
		NewRingStore(0, Retention{})
	})
}

func TestRingStore__AppendWrongWidth(t *testing.T) {
	s := NewRingStore(2, Retention{})
	testPanic(t, func() {
		s.Append(1, []float64{1})
	})
}

func TestRingStore__RoundTrip(t *testing.T) {
	s := mockRingStore()
	for c := 0; c < 2; c++ {
		pts, err := s.Snapshot(c, 3, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pts) != 1 || pts[0].T != 3 {
			t.Fatalf("channel %d: wrong snapshot: %v", c, pts)
		}
	}
	pts, _ := s.Snapshot(1, 3, 3)
	if pts[0].Y != -3 {
		t.Errorf("wrong value: %v", pts[0])
	}
}

func TestRingStore__SnapshotRange(t *testing.T) {
	s := mockRingStore()
	pts, err := s.Snapshot(0, 2, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 3 {
		t.Fatalf("wrong size: %d", len(pts))
	}
	for i, p := range pts {
		if p.T != int64(i+2) || p.Y != float64(i+2) {
			t.Errorf("wrong point: %v", p)
		}
	}
}

func TestRingStore__SnapshotOutside(t *testing.T) {
	s := mockRingStore()
	pts, err := s.Snapshot(0, 100, 200)
	if err != nil || len(pts) != 0 {
		t.Errorf("expected empty result, got %v, %v", pts, err)
	}
	pts, err = s.Snapshot(0, -10, 0)
	if err != nil || len(pts) != 0 {
		t.Errorf("expected empty result, got %v, %v", pts, err)
	}
}

func TestRingStore__SnapshotEmpty(t *testing.T) {
	s := NewRingStore(1, Retention{})
	pts, err := s.Snapshot(0, 0, 100)
	if err != nil || len(pts) != 0 {
		t.Errorf("expected empty result, got %v, %v", pts, err)
	}
}

func TestRingStore__ChannelOutOfRange(t *testing.T) {
	s := mockRingStore()
	if _, err := s.Snapshot(2, 0, 10); !errors.Is(err, ErrChannelOutOfRange) {
		t.Errorf("expected ErrChannelOutOfRange, got %v", err)
	}
	if _, err := s.Snapshot(-1, 0, 10); !errors.Is(err, ErrChannelOutOfRange) {
		t.Errorf("expected ErrChannelOutOfRange, got %v", err)
	}
	if _, err := s.Latest(2, 1); !errors.Is(err, ErrChannelOutOfRange) {
		t.Errorf("expected ErrChannelOutOfRange, got %v", err)
	}
}

func TestRingStore__Latest(t *testing.T) {
	s := mockRingStore()
	pts, err := s.Latest(0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 2 || pts[0].T != 5 || pts[1].T != 6 {
		t.Errorf("wrong result: %v", pts)
	}

	pts, _ = s.Latest(0, 100)
	if len(pts) != 6 {
		t.Errorf("wrong size: %d", len(pts))
	}
}

func TestRingStore__EvictMaxSamples(t *testing.T) {
	s := NewRingStore(1, Retention{MaxSamples: 10})
	for i := int64(0); i < 100; i++ {
		s.Append(i, []float64{float64(i)})
	}
	pts, err := s.Snapshot(0, -1000, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 10 {
		t.Fatalf("wrong size after eviction: %d", len(pts))
	}
	// exactly the most recent ones survive
	for i, p := range pts {
		if p.T != int64(90+i) {
			t.Errorf("wrong point: %v", p)
		}
	}
	if s.Evicted() != 90 {
		t.Errorf("wrong evicted count: %d", s.Evicted())
	}
}

func TestRingStore__EvictMaxSpan(t *testing.T) {
	s := NewRingStore(1, Retention{MaxSpan: 50})
	for i := int64(0); i < 100; i++ {
		s.Append(i*10, []float64{float64(i)})
	}
	t0, t1, ok := s.Span()
	if !ok {
		t.Fatalf("store should not be empty")
	}
	if t1 != 990 || t1-t0 > 50 {
		t.Errorf("wrong span: [%d, %d]", t0, t1)
	}
}

func TestRingStore__OutOfOrderSkipped(t *testing.T) {
	s := NewRingStore(1, Retention{})
	s.Append(10, []float64{1})
	if s.Append(5, []float64{2}) {
		t.Errorf("out-of-order append should report a skip")
	}
	// equal timestamps are non-decreasing, hence fine
	if !s.Append(10, []float64{3}) {
		t.Errorf("equal timestamp should be accepted")
	}
	if s.Samples() != 2 || s.Skewed() != 1 {
		t.Errorf("wrong counts: samples %d, skewed %d", s.Samples(), s.Skewed())
	}
}

func TestRingStore__ConcurrentReaders(t *testing.T) {
	s := NewRingStore(2, Retention{MaxSamples: 64})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := int64(0); i < 5000; i++ {
			s.Append(i, []float64{float64(i), float64(2 * i)})
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				pts, err := s.Latest(1, 32)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				for j := 1; j < len(pts); j++ {
					if pts[j].T < pts[j-1].T {
						t.Errorf("snapshot out of order: %v", pts)
						return
					}
					if pts[j].Y != float64(2*pts[j].T) {
						t.Errorf("torn read: %v", pts[j])
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
