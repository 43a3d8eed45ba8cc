package monitor

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"github.com/voluzi/nodeprobe/pkg/sampler"
)

const (
	DefaultOutputRoot = "."

	dirTimeFormat    = "20060102_150405"
	headerTimeFormat = "2006-01-02 15:04:05"
)

// PidExistsFunc reports whether a process is currently alive.
type PidExistsFunc func(ctx context.Context, pid int) (bool, error)

type Options struct {
	OutputRoot string
	Sampler    sampler.Sampler
	Console    io.Writer
	JSON       bool
	Prom       bool
	PidExists  PidExistsFunc
	Now        func() time.Time
}

func defaultOptions() *Options {
	return &Options{
		OutputRoot: DefaultOutputRoot,
		Console:    os.Stdout,
		PidExists: func(ctx context.Context, pid int) (bool, error) {
			return process.PidExistsWithContext(ctx, int32(pid))
		},
		Now: time.Now,
	}
}

type Option func(*Options)

// WithOutputRoot sets the directory under which the timestamped capture
// directory is created.
func WithOutputRoot(path string) Option {
	return func(opts *Options) {
		opts.OutputRoot = path
	}
}

func WithSampler(s sampler.Sampler) Option {
	return func(opts *Options) {
		opts.Sampler = s
	}
}

// WithConsole sets where sampler lines are echoed while sampling.
func WithConsole(w io.Writer) Option {
	return func(opts *Options) {
		opts.Console = w
	}
}

// WithJSON additionally writes summary.json.
func WithJSON(enabled bool) Option {
	return func(opts *Options) {
		opts.JSON = enabled
	}
}

// WithProm additionally writes summary.prom in the Prometheus text format.
func WithProm(enabled bool) Option {
	return func(opts *Options) {
		opts.Prom = enabled
	}
}

func WithPidExists(fn PidExistsFunc) Option {
	return func(opts *Options) {
		opts.PidExists = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(opts *Options) {
		opts.Now = now
	}
}
