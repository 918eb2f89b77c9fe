//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package rtplot

import (
	"errors"
)

// ----------------------------------------------------------------- //
// Samples
// ----------------------------------------------------------------- //

// Parse errors. A malformed line is recoverable: the ingestion loop
// reports it and keeps going. A channel count mismatch means the line
// was well-formed but disagrees with the session's channel count.
var (
	ErrMalformedLine        = errors.New("malformed line")
	ErrChannelCountMismatch = errors.New("channel count mismatch")
)

// Sample is one reading from the input stream: a raw integer timestamp
// and one integer value per channel. The channel count is fixed for the
// whole session; every Sample of a session has the same len(Values).
type Sample struct {
	T      int64
	Values []int64
}

// Channels returns the number of channel values in the sample.
func (s Sample) Channels() int {
	return len(s.Values)
}
