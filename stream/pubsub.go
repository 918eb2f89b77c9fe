//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package stream

import (
	"fmt"
	"log"
	"sync"
)

// Block is one accepted sample after channel scaling, as delivered to
// subscribers: the shared timestamp and one value per channel.
type Block struct {
	T      int64
	Values []float64
}

// PubSub fans accepted samples out to named subscribers. The core
// render and fit paths pull from the ring store on their own cadence;
// subscriptions exist for push consumers like the websocket data feed.
type PubSub struct {
	sync.Mutex
	subs map[string]chan Block
}

func NewPubSub() *PubSub {
	return &PubSub{
		subs: make(map[string]chan Block),
	}
}

func (ps *PubSub) Subscribe(name string) (out chan Block, err error) {
	ps.Lock()
	defer ps.Unlock()
	if _, ok := ps.subs[name]; ok {
		log.Printf("subscription '%s' already exists", name)
		return nil, fmt.Errorf("subscription already exists")
	}
	out = make(chan Block, BlockBufferSize)
	ps.subs[name] = out
	return
}

func (ps *PubSub) Unsubscribe(name string) {
	ps.Lock()
	defer ps.Unlock()
	ps.unsubscribe(name)
}

func (ps *PubSub) unsubscribe(name string) {
	if out, ok := ps.subs[name]; ok {
		close(out)
	}
	delete(ps.subs, name)
}

func (ps *PubSub) UnsubscribeAll() {
	ps.Lock()
	defer ps.Unlock()
	for name, out := range ps.subs {
		close(out)
		delete(ps.subs, name)
	}
}

// publish delivers a block to every subscriber, dropping it for
// subscribers whose buffer is full; a stalled socket must not be able
// to stall ingestion.
func (ps *PubSub) publish(b Block) {
	ps.Lock()
	defer ps.Unlock()
	for _, v := range ps.subs {
		select {
		case v <- b:
		default:
		}
	}
}
