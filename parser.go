//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//
package rtplot

import (
	"fmt"
	"strconv"
	"strings"
)

// ----------------------------------------------------------------- //
// Line parser
// ----------------------------------------------------------------- //

// ParseLine parses one line of the input stream. The format is
//
//	<t> <v0> [<v1> ...]
//
// where every token is a base-10 integer and tokens are separated by
// one or more spaces. The first token is the timestamp, the rest are
// channel values in channel order.
//
// channels is the session's established channel count; pass a negative
// value to accept any count of at least one, which is how the count is
// established from the first good line of a session. The parser has no
// state and no side effects.
func ParseLine(line string, channels int) (Sample, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Sample{}, fmt.Errorf("%w: need a timestamp and at least one value, got %d tokens", ErrMalformedLine, len(fields))
	}
	if channels >= 0 && len(fields)-1 != channels {
		return Sample{}, fmt.Errorf("%w: expected %d values, got %d", ErrChannelCountMismatch, channels, len(fields)-1)
	}

	t, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: bad timestamp %q", ErrMalformedLine, fields[0])
	}

	values := make([]int64, len(fields)-1)
	for i, f := range fields[1:] {
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: bad value %q", ErrMalformedLine, f)
		}
		values[i] = v
	}

	return Sample{T: t, Values: values}, nil
}
