// Package telemetry provides the structured logger and the per-encode
// counters threaded through the plane driver (§4.11, §5).
//
// Grounded on ausocean-av's logging style (github.com/ausocean/utils/logging
// wraps a leveled logger passed down through constructors); this repo
// uses go.uber.org/zap directly rather than ausocean's own wrapper
// interface, since nothing else in the pack needs that extra layer of
// indirection.
package telemetry

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process-wide structured logger. With an empty
// logPath it falls back to zap's JSON production config (stderr,
// info level); with a path it routes through a lumberjack-rotated
// file instead, the way github.com/deepteams/webp's cmd binaries
// default to a file-backed leveled logger rather than development
// console output.
func NewLogger(logPath string) (*zap.Logger, error) {
	if logPath == "" {
		return zap.NewProduction()
	}
	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), zap.InfoLevel)
	return zap.New(core), nil
}

// Counters accumulates per-encode diagnostics. One instance is owned by
// a single plane's encode pass (the Go stand-in for the original's
// thread-local counters — see design note in SPEC_FULL.md §9) and is
// returned in that plane's Report; counters of different planes are not
// merged by the encoder.
type Counters struct {
	BlockCounts   map[string]int
	RouteWins     map[string]int
	ScreenFailure string
	Durations     map[string]time.Duration
}

// New returns a ready-to-use, empty Counters.
func New() *Counters {
	return &Counters{
		BlockCounts: map[string]int{},
		RouteWins:   map[string]int{},
		Durations:   map[string]time.Duration{},
	}
}

// AddBlock increments the count for a block type name.
func (c *Counters) AddBlock(kind string) {
	if c == nil {
		return
	}
	c.BlockCounts[kind]++
}

// RecordRoute records which route a plane's tile competition selected.
func (c *Counters) RecordRoute(route string) {
	if c == nil {
		return
	}
	c.RouteWins[route]++
}

// RecordDuration adds d to the named pass's accumulated duration.
func (c *Counters) RecordDuration(pass string, d time.Duration) {
	if c == nil {
		return
	}
	c.Durations[pass] += d
}

// Merge additively folds src into c (the additive accumulator of §5).
// The encode path does not call it.
func (c *Counters) Merge(src *Counters) {
	if c == nil || src == nil {
		return
	}
	for k, v := range src.BlockCounts {
		c.BlockCounts[k] += v
	}
	for k, v := range src.RouteWins {
		c.RouteWins[k] += v
	}
	for k, v := range src.Durations {
		c.Durations[k] += v
	}
	if c.ScreenFailure == "" {
		c.ScreenFailure = src.ScreenFailure
	}
}
