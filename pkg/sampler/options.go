package sampler

import "time"

const (
	DefaultPidstatPath = "pidstat"
	DefaultInterval    = time.Second
)

type Options struct {
	PidstatPath string
	Layout      Layout
	Interval    time.Duration
}

func defaultOptions() *Options {
	return &Options{
		PidstatPath: DefaultPidstatPath,
		Layout:      DefaultLayout,
		Interval:    DefaultInterval,
	}
}

type Option func(*Options)

// WithPidstatPath sets the pidstat binary name or path.
func WithPidstatPath(path string) Option {
	return func(opts *Options) {
		opts.PidstatPath = path
	}
}

// WithLayout overrides the column layout expected from pidstat. It has no
// effect on the in-process sampler, which always writes DefaultLayout.
func WithLayout(l Layout) Option {
	return func(opts *Options) {
		opts.Layout = l
	}
}

// WithInterval changes the in-process sampling interval. pidstat is always
// invoked with a one second interval.
func WithInterval(d time.Duration) Option {
	return func(opts *Options) {
		opts.Interval = d
	}
}
