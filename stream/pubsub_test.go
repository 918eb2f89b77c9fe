//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package stream

import (
	"testing"
)

func TestPubSub__New(t *testing.T) {
	if NewPubSub() == nil || NewPubSub().subs == nil {
		t.Errorf("could not instantiate")
	}
}

func TestPubSub__NewSubscriptions(t *testing.T) {
	ps := NewPubSub()
	if len(ps.subs) != 0 {
		t.Errorf("wrong size")
	}

	ps.Subscribe("test1")
	ps.Subscribe("test2")
	if len(ps.subs) != 2 {
		t.Errorf("wrong size")
	}

	ps.Unsubscribe("test1")
	if len(ps.subs) != 1 {
		t.Errorf("wrong size")
	}

	ps.Unsubscribe("test2")
	if len(ps.subs) != 0 {
		t.Errorf("wrong size")
	}
}

func TestPubSub__NewDouble(t *testing.T) {
	ps := NewPubSub()
	ps.Subscribe("test1")
	if _, err := ps.Subscribe("test1"); err == nil {
		t.Errorf("should have failed")
	}
	if len(ps.subs) != 1 {
		t.Errorf("wrong size")
	}
}

func TestPubSub__Publish(t *testing.T) {
	ps := NewPubSub()

	out1, err := ps.Subscribe("1")
	if err != nil {
		t.Errorf("could not subscribe")
	}
	out2, err := ps.Subscribe("2")
	if err != nil {
		t.Errorf("could not subscribe")
	}

	b := Block{T: 7, Values: []float64{1, 2}}
	ps.publish(b)

	if one := <-out1; one.T != 7 {
		t.Errorf("failed to publish")
	}
	if two := <-out2; two.T != 7 || two.Values[1] != 2 {
		t.Errorf("failed to publish")
	}
}

func TestPubSub__SlowSubscriberDoesNotBlock(t *testing.T) {
	ps := NewPubSub()
	ps.Subscribe("slow")
	// nobody drains; publishing past the buffer must not deadlock
	for i := 0; i < BlockBufferSize+10; i++ {
		ps.publish(Block{T: int64(i)})
	}
}

func TestPubSub__UnsubscribeAll(t *testing.T) {
	ps := NewPubSub()
	out, _ := ps.Subscribe("x")
	ps.UnsubscribeAll()
	if _, ok := <-out; ok {
		t.Errorf("channel should be closed")
	}
	if len(ps.subs) != 0 {
		t.Errorf("wrong size")
	}
}
