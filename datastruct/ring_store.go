//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package datastruct

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ----------------------------------------------------------------- //
// Constants
// ----------------------------------------------------------------- //

const DefaultMaxSamples = 1 << 16

var ErrChannelOutOfRange = errors.New("channel out of range")

// ----------------------------------------------------------------- //
// Ring store
// ----------------------------------------------------------------- //

// Retention bounds the memory of a RingStore. When MaxSamples > 0 the
// store keeps at most that many samples; when MaxSpan > 0 it keeps only
// samples within MaxSpan timestamp units of the newest one. Both may be
// set, in which case the tighter bound wins. A zero Retention falls
// back to DefaultMaxSamples.
type Retention struct {
	MaxSamples int
	MaxSpan    int64
}

// Point is one (timestamp, value) pair of a single channel.
type Point struct {
	T int64
	Y float64
}

// RingStore holds multi-channel time series bounded by a retention
// policy. The channel data is stored in "parallel": one flat slice of
// values interleaved by channel, and one slice of shared timestamps,
// so that appending a sample touches every channel at once and
// eviction can never be observed half-done across channels.
//
// The store is written by exactly one ingestion loop and read by any
// number of renderers and fitters concurrently; readers receive copies
// and never see a partially appended sample or a partially completed
// eviction. Timestamps must be non-decreasing as appended; an
// out-of-order sample is skipped and counted rather than resorted,
// which keeps appends O(1) and the series binary-searchable.
type RingStore struct {
	mu       sync.RWMutex
	channels int
	ret      Retention

	values []float64 // interleaved, len == channels * samples
	ts     []int64   // shared timestamps

	evicted uint64 // samples dropped by retention
	skewed  uint64 // out-of-order samples skipped
}

// NewRingStore creates a store for the given channel count and
// retention policy.
func NewRingStore(channels int, ret Retention) *RingStore {
	if channels < 1 {
		panic(fmt.Sprintf("bad channel count: %d", channels))
	}
	if ret.MaxSamples <= 0 && ret.MaxSpan <= 0 {
		ret.MaxSamples = DefaultMaxSamples
	}
	hint := ret.MaxSamples
	if hint <= 0 {
		hint = 1024
	}
	return &RingStore{
		channels: channels,
		ret:      ret,
		values:   make([]float64, 0, channels*hint),
		ts:       make([]int64, 0, hint),
	}
}

// Channels returns the channel count of the store.
func (s *RingStore) Channels() int {
	return s.channels
}

// Samples returns the number of retained samples.
func (s *RingStore) Samples() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ts)
}

// Evicted returns the number of samples dropped by retention so far.
func (s *RingStore) Evicted() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evicted
}

// Skewed returns the number of out-of-order samples skipped so far.
func (s *RingStore) Skewed() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skewed
}

// Span returns the retained timestamp range. ok is false when the
// store is empty.
func (s *RingStore) Span() (t0, t1 int64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.ts) == 0 {
		return 0, 0, false
	}
	return s.ts[0], s.ts[len(s.ts)-1], true
}

// Append adds one sample to every channel series and applies the
// retention policy. It returns false if the sample was skipped for
// being older than the newest retained timestamp. len(v) must equal
// the store's channel count; anything else is a programming error.
//
// Append and eviction happen under one write lock, so a concurrent
// reader sees either none or all of a sample, and an eviction event
// removes the same prefix from every channel.
func (s *RingStore) Append(t int64, v []float64) bool {
	if len(v) != s.channels {
		panic(fmt.Sprintf("wrong value count: %d for %d channels", len(v), s.channels))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.ts); n > 0 && t < s.ts[n-1] {
		s.skewed++
		return false
	}

	s.values = append(s.values, v...)
	s.ts = append(s.ts, t)
	s.evict(t)
	return true
}

// evict drops the oldest samples until the retention policy holds.
// Must be called with the write lock held. Dropping the head by
// re-slicing is O(1); the backing arrays are recycled by the runtime
// the next time an append outgrows their remaining capacity, so the
// live window is all that stays resident.
func (s *RingStore) evict(newest int64) {
	drop := 0
	n := len(s.ts)
	if s.ret.MaxSamples > 0 && n > s.ret.MaxSamples {
		drop = n - s.ret.MaxSamples
	}
	if s.ret.MaxSpan > 0 {
		horizon := newest - s.ret.MaxSpan
		for drop < n && s.ts[drop] < horizon {
			drop++
		}
	}
	if drop == 0 {
		return
	}
	s.ts = s.ts[drop:]
	s.values = s.values[drop*s.channels:]
	s.evicted += uint64(drop)
}

// Snapshot copies out all points of one channel with t0 <= t <= t1.
// An interval outside the retained range yields an empty slice, not an
// error; asking for an evicted range simply returns what is left. The
// lookup is O(log n + k) by binary search on the timestamps.
func (s *RingStore) Snapshot(channel int, t0, t1 int64) ([]Point, error) {
	if channel < 0 || channel >= s.channels {
		return nil, fmt.Errorf("%w: %d of %d", ErrChannelOutOfRange, channel, s.channels)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo := sort.Search(len(s.ts), func(i int) bool { return s.ts[i] >= t0 })
	hi := sort.Search(len(s.ts), func(i int) bool { return s.ts[i] > t1 })
	return s.copyRange(channel, lo, hi), nil
}

// Latest copies out the last n points of one channel. Fewer than n
// retained samples yields all of them.
func (s *RingStore) Latest(channel, n int) ([]Point, error) {
	if channel < 0 || channel >= s.channels {
		return nil, fmt.Errorf("%w: %d of %d", ErrChannelOutOfRange, channel, s.channels)
	}
	if n < 0 {
		n = 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo := len(s.ts) - n
	if lo < 0 {
		lo = 0
	}
	return s.copyRange(channel, lo, len(s.ts)), nil
}

// copyRange copies points [lo, hi) of a channel. Must be called with
// at least the read lock held.
func (s *RingStore) copyRange(channel, lo, hi int) []Point {
	pts := make([]Point, 0, hi-lo)
	for i := lo; i < hi; i++ {
		pts = append(pts, Point{
			T: s.ts[i],
			Y: s.values[i*s.channels+channel],
		})
	}
	return pts
}
