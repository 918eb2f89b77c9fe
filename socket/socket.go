//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// Package socket exposes a running session over websockets: a control
// endpoint answering info and fit requests, and a data endpoint that
// streams decimated batches of freshly ingested samples. Display
// clients are pure consumers; nothing on these endpoints mutates the
// session.
package socket

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"

	"golang.org/x/net/websocket"

	rtplot "github.com/cyanic-selkie/rt-plot"
	"github.com/cyanic-selkie/rt-plot/fit"
	"github.com/cyanic-selkie/rt-plot/stream"
	"github.com/cyanic-selkie/rt-plot/window"
)

// --------------------------------------------------------- //
// Endpoints
// --------------------------------------------------------- //

const (
	DefaultControlEndpoint = "/control"
	DefaultDataEndpoint    = "/data"
	DefaultListenPort      = 8000

	DefaultEvery     = 1
	DefaultBatchSize = 25
)

var (
	controlEndpoint *string = flag.String("controlEndpoint", DefaultControlEndpoint, "the websocket url for control messages")
	dataEndpoint    *string = flag.String("dataEndpoint", DefaultDataEndpoint, "the websocket url for data messages")
	listenPort      *int    = flag.Int("listenPort", DefaultListenPort, "the websocket port on which to listen")
	verboseSocket   *bool   = flag.Bool("verboseSocket", false, "the websocket is verbose")
)

// The PlotSocket.
type PlotSocket struct {
	session *stream.Session
	kickoff chan *StreamMessage // blocker channel for the data handler
}

func NewPlotSocket(session *stream.Session) *PlotSocket {
	return &PlotSocket{
		session: session,
		kickoff: make(chan *StreamMessage, 1),
	}
}

// ControlHandler returns the handler for the control endpoint, for
// use with Go's HTTP server.
func (s *PlotSocket) ControlHandler() http.Handler {
	return websocket.Handler(s.control)
}

// DataHandler returns the handler for the data endpoint.
func (s *PlotSocket) DataHandler() http.Handler {
	return websocket.Handler(s.data)
}

// ListenAndServe registers both endpoints and serves until the
// listener fails.
func (s *PlotSocket) ListenAndServe() error {
	http.Handle(*controlEndpoint, s.ControlHandler())
	http.Handle(*dataEndpoint, s.DataHandler())
	addr := fmt.Sprintf(":%d", *listenPort)
	log.Printf("serving websockets on %s{%s,%s}", addr, *controlEndpoint, *dataEndpoint)
	return http.ListenAndServe(addr, nil)
}

func send(ws *websocket.Conn, msg interface{}) {
	if err := websocket.JSON.Send(ws, msg); err != nil {
		log.Printf("error sending: %s", err)
	}
}

// control answers info and fit messages and arms the data endpoint on
// a stream message.
func (s *PlotSocket) control(ws *websocket.Conn) {
	defer ws.Close()
	for {
		var raw string
		if err := websocket.Message.Receive(ws, &raw); err != nil {
			return
		}
		if *verboseSocket {
			log.Printf("control message: %s", raw)
		}

		var base Message
		if err := json.Unmarshal([]byte(raw), &base); err != nil {
			send(ws, Response{MessageType: "error", Err: fmt.Sprintf("bad message: %v", err)})
			continue
		}

		switch base.MessageType {
		case "info":
			send(ws, s.info(base))

		case "fit":
			var msg FitMessage
			if err := json.Unmarshal([]byte(raw), &msg); err != nil {
				send(ws, failure(base, err))
				continue
			}
			send(ws, s.fitResponse(msg))

		case "stream":
			var msg StreamMessage
			if err := json.Unmarshal([]byte(raw), &msg); err != nil {
				send(ws, failure(base, err))
				continue
			}
			resp := Response{Id: msg.Id, MessageType: "stream", Success: true}
			select {
			case s.kickoff <- &msg:
			default:
				resp.Success = false
				resp.Err = "data endpoint already armed"
			}
			send(ws, resp)

		default:
			send(ws, failure(base, fmt.Errorf("unknown message type: %q", base.MessageType)))
		}
	}
}

func failure(base Message, err error) Response {
	return Response{
		Id:          base.Id,
		MessageType: base.MessageType,
		Err:         err.Error(),
	}
}

func (s *PlotSocket) info(base Message) InfoResponse {
	resp := InfoResponse{
		Response: Response{Id: base.Id, MessageType: "info", Success: true},
		Version:  rtplot.Version(),
		Channels: s.session.Channels(),
	}
	for _, ch := range s.session.Config().Channels {
		resp.Labels = append(resp.Labels, ch.Label)
	}
	if store := s.session.Store(); store != nil {
		resp.Samples = store.Samples()
	}
	resp.ParseErrors = s.session.ParseErrors()
	return resp
}

// fitResponse resolves the requested window against the store and runs
// the fit. A failed fit is a failed response, never a dropped
// connection; the requester simply gets no result.
func (s *PlotSocket) fitResponse(msg FitMessage) FitResponse {
	resp := FitResponse{
		Response: Response{Id: msg.Id, MessageType: "fit"},
	}

	store := s.session.Store()
	if store == nil {
		resp.Err = "no data ingested yet"
		return resp
	}
	if msg.Degree < 0 || msg.Degree > 2 {
		resp.Err = fmt.Sprintf("unsupported degree: %d", msg.Degree)
		return resp
	}

	req := window.Range(msg.T0, msg.T1)
	if msg.LastN > 0 {
		req = window.LastN(msg.LastN)
	}
	pts, err := req.Snapshot(store, msg.Channel)
	if err != nil {
		resp.Err = err.Error()
		return resp
	}

	// fits always see every point of the window, never a decimation
	r, err := fit.Fit(pts, fit.Degree(msg.Degree))
	if err != nil {
		resp.Err = err.Error()
		return resp
	}

	coeffs, errs := r.Coeffs, r.Errors
	if msg.Canonical {
		coeffs, errs = r.Canonical()
	}
	resp.Success = true
	resp.Coefficients = coeffs
	resp.Errors = errs
	resp.Mean = r.Mean
	resp.Scale = r.Scale
	resp.Points = r.N
	resp.Label = r.Label()
	return resp
}
