//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package socket

import (
	"fmt"
	"log"
	"sync/atomic"

	"golang.org/x/net/websocket"
)

var dataConns uint64 // subscription name counter

// data blocks until the control endpoint arms streaming, then follows
// the session's pub/sub feed, plucking every k-th sample and batching
// the survivors. A send error tears the feed down; ingestion is
// unaffected.
func (s *PlotSocket) data(ws *websocket.Conn) {
	defer ws.Close()

	msg, ok := <-s.kickoff
	if !ok {
		return
	}

	every := msg.Every
	if every < 1 {
		log.Printf("WARNING: setting default pluck rate")
		every = DefaultEvery
	}
	batchSize := msg.BatchSize
	if batchSize < 1 {
		log.Printf("WARNING: setting default batchSize")
		batchSize = DefaultBatchSize
	}

	name := fmt.Sprintf("datasocket-%d", atomic.AddUint64(&dataConns, 1))
	out, err := s.session.Subscribe(name)
	if err != nil {
		log.Printf("could not subscribe to the session: %s", err)
		return
	}
	defer s.session.Unsubscribe(name)

	log.Printf("%s: STREAMING ON", name)
	defer log.Printf("%s: STREAMING OFF", name)

	var (
		parity int
		batch  DataMessage
	)

	for b := range out {
		if parity == 0 {
			if batch.Channels == 0 {
				batch = newDataMessage(len(b.Values), batchSize)
			}
			batch.Timestamps = append(batch.Timestamps, b.T)
			for c, v := range b.Values {
				batch.Data[c] = append(batch.Data[c], v)
			}
		}
		parity = (parity + 1) % every

		if len(batch.Timestamps) >= batchSize {
			if *verboseSocket {
				log.Printf("sending data msg: %+v", batch)
			}
			if err := websocket.JSON.Send(ws, batch); err != nil {
				log.Printf("error sending data msg: %v", err)
				return
			}
			batch = newDataMessage(batch.Channels, batchSize)
		}
	}
}

func newDataMessage(channels, batchSize int) DataMessage {
	msg := DataMessage{
		Channels:   channels,
		Timestamps: make([]int64, 0, batchSize),
		Data:       make([][]float64, channels),
	}
	for c := range msg.Data {
		msg.Data[c] = make([]float64, 0, batchSize)
	}
	return msg
}
