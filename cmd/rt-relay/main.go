//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// rt-relay reads comma-separated integer lines from a serial port and
// re-emits them space-separated on stdout, which is exactly the line
// protocol rt-plot ingests. Pipe it:
//
//	rt-relay -serialPort /dev/ttyUSB0 -baudRate 115200 | rt-plot
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tarm/serial"
)

const (
	DefaultBaudRate = 115200

	// early readings while the device settles are garbage
	WarmupLines = 10
)

var (
	list       *bool   = flag.Bool("list", false, "list likely serial ports and exit")
	serialPort *string = flag.String("serialPort", "", "the serial port to read data from")
	baudRate   *int    = flag.Int("baudRate", DefaultBaudRate, "the baud rate of the serial port")
)

func main() {
	flag.Parse()

	if *list {
		printAvailablePorts()
		return
	}
	if *serialPort == "" {
		log.Fatalf("no serial port given (try -list)")
	}
	if err := readFromSerial(*serialPort, *baudRate); err != nil {
		log.Fatalf("relay error: %v", err)
	}
}

func printAvailablePorts() {
	patterns := []string{
		"/dev/ttyUSB*", "/dev/ttyACM*", "/dev/ttyS*",
		"/dev/cu.*", "/dev/tty.*",
	}
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			continue
		}
		for _, m := range matches {
			fmt.Println(m)
		}
	}
}

func readFromSerial(port string, baud int) error {
	p, err := serial.OpenPort(&serial.Config{
		Name:        port,
		Baud:        baud,
		ReadTimeout: 10 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("serial open %s: %w", port, err)
	}
	defer p.Close()

	scanner := bufio.NewScanner(p)
	for i := 0; scanner.Scan(); i++ {
		if i < WarmupLines {
			continue
		}

		line := strings.TrimSuffix(strings.TrimSpace(scanner.Text()), ",")
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		out := make([]string, len(parts))
		for j, part := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return fmt.Errorf("parsing serial data: %w", err)
			}
			out[j] = strconv.FormatUint(v, 10)
		}
		fmt.Println(strings.Join(out, " "))
	}
	return scanner.Err()
}
