//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package socket

//---------------------------------------------------------//
// Messages
//---------------------------------------------------------//

type (

	// Base type for messages; every control message carries a
	// correlation id and one of the message types {"info", "stream",
	// "fit"}.
	Message struct {
		Id          string `json:"id"`
		MessageType string `json:"message_type"`
	}

	// StreamMessage arms the data endpoint. Every k-th accepted
	// sample is delivered (every == 1 streams everything), batched
	// into batch_size points per data frame.
	StreamMessage struct {
		Id          string `json:"id"`
		MessageType string `json:"message_type"` // should be "stream"
		Every       int    `json:"every"`
		BatchSize   int    `json:"batch_size"`
	}

	// FitMessage requests a polynomial fit over one channel. The
	// window is either the closed interval [t0, t1] or, when last_n
	// is positive, the newest last_n points. Degree is 0, 1 or 2.
	// Coefficients come back in the centered basis unless canonical
	// is set.
	FitMessage struct {
		Id          string `json:"id"`
		MessageType string `json:"message_type"` // should be "fit"
		Channel     int    `json:"channel"`
		T0          int64  `json:"t0"`
		T1          int64  `json:"t1"`
		LastN       int    `json:"last_n"`
		Degree      int    `json:"degree"`
		Canonical   bool   `json:"canonical"`
	}

	// Base type for responses.
	Response struct {
		Id          string `json:"id"`           // echo of your correlation id
		MessageType string `json:"message_type"` // echo of the message type
		Success     bool   `json:"success"`      // whether the message was successful
		Err         string `json:"err"`          // error text, if any
	}

	// InfoResponse describes the session.
	InfoResponse struct {
		Response
		Version     string   `json:"version"`
		Channels    int      `json:"channels"`     // -1 until established
		Labels      []string `json:"labels"`       // configured channel labels
		Samples     int      `json:"samples"`      // currently retained
		ParseErrors uint64   `json:"parse_errors"` // lines rejected so far
	}

	// FitResponse carries the fit outcome: coefficient and
	// standard-error vectors of length degree+1, the centering
	// constants, the number of points used and a display label in
	// the derived parametrization.
	FitResponse struct {
		Response
		Coefficients []float64 `json:"coefficients"`
		Errors       []float64 `json:"errors"`
		Mean         float64   `json:"mean"`
		Scale        float64   `json:"scale"`
		Points       int       `json:"points"`
		Label        string    `json:"label"`
	}

	// DataMessage is one batch on the data endpoint: shared
	// timestamps and per-channel value arrays of equal length.
	DataMessage struct {
		Channels   int         `json:"channels"`
		Timestamps []int64     `json:"timestamps"`
		Data       [][]float64 `json:"data"`
	}
)
