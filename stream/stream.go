//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// Package stream runs the ingestion loop: it reads the line protocol
// from an input source, parses and scales each sample, appends it to
// the ring store and fans it out to subscribers. Ingestion is the only
// writer of the store; everything downstream reads.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	rtplot "github.com/cyanic-selkie/rt-plot"
	"github.com/cyanic-selkie/rt-plot/config"
	"github.com/cyanic-selkie/rt-plot/datastruct"
)

func init() {
	log.SetFlags(log.Lshortfile)
}

// ----------------------------------------------------------------- //
// Constants
// ----------------------------------------------------------------- //

const (
	BlockBufferSize = 1024

	// lines can carry many channels but never unbounded ones
	maxLineBytes = 1 << 20
)

// ErrInputRead marks a fatal failure of the underlying input source.
// It terminates ingestion; everything already ingested stays readable.
var ErrInputRead = errors.New("input read failure")

// ----------------------------------------------------------------- //
// Session
// ----------------------------------------------------------------- //

// Session owns one ingestion run: the configuration, the ring store
// and the subscriber fan-out. The channel count is taken from the
// configuration when present, otherwise established from the first
// good line, and is immutable afterwards; the store exists only from
// that moment on.
type Session struct {
	mu       sync.Mutex
	cfg      *config.Config
	store    *datastruct.RingStore
	channels int
	rec      io.Writer
	done     chan bool

	ps *PubSub

	lineErrors uint64
}

// NewSession creates a session for the given configuration. A nil
// configuration behaves like config.Default().
func NewSession(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Session{
		cfg:      cfg,
		channels: cfg.ChannelCount(),
		done:     make(chan bool, 1),
		ps:       NewPubSub(),
	}
}

// Store returns the ring store, or nil while the channel count has not
// been established yet.
func (s *Session) Store() *datastruct.RingStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// Channels returns the session's channel count, or -1 while it has not
// been established yet.
func (s *Session) Channels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels
}

// Config returns the immutable session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// ParseErrors returns how many input lines were rejected so far.
func (s *Session) ParseErrors() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lineErrors
}

// Record tees every accepted line to w, verbatim and newline-
// terminated, so the session can later be replayed by feeding the file
// back in. Must be set before Run.
func (s *Session) Record(w io.Writer) {
	s.rec = w
}

// Subscribe registers a named push consumer of accepted samples.
func (s *Session) Subscribe(name string) (chan Block, error) {
	return s.ps.Subscribe(name)
}

// Unsubscribe removes a named subscriber.
func (s *Session) Unsubscribe(name string) {
	s.ps.Unsubscribe(name)
}

// Stop asks a running ingestion loop to exit after the line it is
// currently processing. A loop blocked on a silent source stays
// blocked until the source produces a line or closes; close the
// source to unblock it.
func (s *Session) Stop() {
	select {
	case s.done <- true:
	default:
	}
}

func (s *Session) shouldStop() bool {
	select {
	case <-s.done:
		return true
	default:
	}
	return false
}

// Run ingests r until end-of-input, a fatal read error or Stop. A
// malformed line is logged, counted and skipped; ingestion continues.
// A read error of the source is fatal and returned wrapped in
// ErrInputRead, with the store left intact for rendering and fitting.
// All subscriptions are closed when Run returns.
func (s *Session) Run(r io.Reader) error {
	defer s.ps.UnsubscribeAll()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		if s.shouldStop() {
			return nil
		}

		line := scanner.Text()
		sample, err := rtplot.ParseLine(line, s.Channels())
		if err != nil {
			s.countLineError(err)
			continue
		}
		s.accept(line, sample)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInputRead, err)
	}
	return nil
}

func (s *Session) countLineError(err error) {
	s.mu.Lock()
	s.lineErrors++
	n := s.lineErrors
	s.mu.Unlock()
	log.Printf("skipping line %d rejected so far: %v", n, err)
}

// accept scales the sample into grid units, appends it to the store
// (creating the store on the first sample of an establishing session)
// and publishes it.
func (s *Session) accept(line string, sample rtplot.Sample) {
	s.mu.Lock()
	if s.store == nil {
		s.channels = sample.Channels()
		s.store = datastruct.NewRingStore(s.channels, datastruct.Retention{
			MaxSamples: s.cfg.Retention.MaxSamples,
			MaxSpan:    s.cfg.Retention.MaxSpan,
		})
		log.Printf("established session with %d channels", s.channels)
	}
	store := s.store
	s.mu.Unlock()

	values := make([]float64, sample.Channels())
	for i, v := range sample.Values {
		if i < len(s.cfg.Channels) {
			values[i] = s.cfg.Channels[i].Transform(v)
		} else {
			values[i] = float64(v)
		}
	}

	if !store.Append(sample.T, values) {
		log.Printf("skipping out-of-order sample at t=%d (%d skipped so far)", sample.T, store.Skewed())
		return
	}

	if s.rec != nil {
		if _, err := fmt.Fprintln(s.rec, line); err != nil {
			log.Printf("recorder error (recording disabled): %v", err)
			s.rec = nil
		}
	}

	s.ps.publish(Block{T: sample.T, Values: values})
}
