//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// Package rtplot implements the data core of rt-plot: a line parser for
// timestamped multi-channel samples, a bounded ring store shared between
// the ingestion loop and its readers, and a least-squares polynomial
// fitting engine. Rendering, the serial relay and the websocket feed sit
// on top of this core and never mutate it.
package rtplot

import (
	"fmt"
)

const (
	RtPlotVersionMajor = 0
	RtPlotVersionMinor = 1
)

func Version() string {
	return fmt.Sprintf("%d.%d", RtPlotVersionMajor, RtPlotVersionMinor)
}
