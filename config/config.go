//
// Copyright (c) 2024 cyanic-selkie. All rights reserved.
//

// Package config loads the per-session data configuration: channel
// count and labels, per-channel raw-value scaling, the grid geometry
// used by display layers, and the ring store's retention policy. The
// configuration is read once at session start and treated as immutable
// from then on.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Time describes the horizontal grid: how raw timestamp units map to
// seconds and how many divisions the plot shows.
type Time struct {
	Divisions          int     `yaml:"divisions"`
	SecondsPerDivision float64 `yaml:"seconds_per_division"`
	RawPerSecond       float64 `yaml:"raw_per_second"`
	Label              string  `yaml:"label"`
}

// Data describes the vertical grid.
type Data struct {
	Divisions int     `yaml:"divisions"`
	ZeroShift float64 `yaml:"zero_shift"`
	Label     string  `yaml:"label"`
}

// Grid is the plot geometry, consumed by display layers only.
type Grid struct {
	Label string `yaml:"label"`
	Time  Time   `yaml:"time"`
	Data  Data   `yaml:"data"`
}

// Channel configures one input channel: its label and the affine
// transform from raw integer readings to display units.
type Channel struct {
	Label          string  `yaml:"label"`
	RawOffset      float64 `yaml:"raw_offset"`
	RawPerDivision float64 `yaml:"raw_per_division"`
}

// Transform maps a raw integer reading into display units.
func (c Channel) Transform(v int64) float64 {
	per := c.RawPerDivision
	if per == 0 {
		per = 1
	}
	return (float64(v) - c.RawOffset) / per
}

// Retention selects the ring store's eviction policy. At most one of
// the two needs to be set; both zero means the store default.
type Retention struct {
	MaxSamples int   `yaml:"max_samples"`
	MaxSpan    int64 `yaml:"max_span"`
}

// Config is the full data configuration of a session.
type Config struct {
	Grid      Grid      `yaml:"grid"`
	Channels  []Channel `yaml:"y"`
	Retention Retention `yaml:"retention"`
}

// ChannelCount returns the configured channel count, or -1 when no
// channels are configured and the count should be established from the
// first parsed line instead.
func (c *Config) ChannelCount() int {
	if len(c.Channels) == 0 {
		return -1
	}
	return len(c.Channels)
}

// Default returns a configuration for an unconfigured session: grid
// units equal raw units and the channel count comes from the stream.
func Default() *Config {
	return &Config{
		Grid: Grid{
			Time: Time{
				Divisions:          10,
				SecondsPerDivision: 1,
				RawPerSecond:       1000, // raw timestamps default to milliseconds
				Label:              "t",
			},
			Data: Data{
				Divisions: 8,
				Label:     "y",
			},
		},
	}
}

// Load reads a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Grid.Time.Divisions < 1 || c.Grid.Data.Divisions < 1 {
		return fmt.Errorf("grid divisions must be positive")
	}
	if c.Retention.MaxSamples < 0 || c.Retention.MaxSpan < 0 {
		return fmt.Errorf("retention bounds must be nonnegative")
	}
	for i, ch := range c.Channels {
		if ch.RawPerDivision < 0 {
			return fmt.Errorf("channel %d: raw_per_division must be nonnegative", i)
		}
	}
	return nil
}
