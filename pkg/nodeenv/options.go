package nodeenv

import (
	"io"
	"os"
	"time"

	"github.com/klauspost/pgzip"
)

const DefaultArchiveLevel = pgzip.BestSpeed

type Options struct {
	// Force allows setup over an already initialized home. Existing keys are
	// kept.
	Force bool
	// Yes skips the teardown confirmation prompt.
	Yes bool
	// ArchivePath, when set, receives a tar.gz of the data directory before
	// teardown removes it.
	ArchivePath string
	// ArchiveLevel is the gzip compression level of the archive.
	ArchiveLevel int
	// InitTimeout bounds each init command. Zero means no limit.
	InitTimeout time.Duration
	In          io.Reader
	Out         io.Writer
}

func defaultOptions() *Options {
	return &Options{
		ArchiveLevel: DefaultArchiveLevel,
		In:           os.Stdin,
		Out:          os.Stdout,
	}
}

type Option func(*Options)

func WithForce(force bool) Option {
	return func(opts *Options) {
		opts.Force = force
	}
}

func WithYes(yes bool) Option {
	return func(opts *Options) {
		opts.Yes = yes
	}
}

func WithArchivePath(path string) Option {
	return func(opts *Options) {
		opts.ArchivePath = path
	}
}

func WithArchiveLevel(level int) Option {
	return func(opts *Options) {
		opts.ArchiveLevel = level
	}
}

func WithInitTimeout(d time.Duration) Option {
	return func(opts *Options) {
		opts.InitTimeout = d
	}
}

// WithPrompt sets where the confirmation prompt is written and read from.
func WithPrompt(in io.Reader, out io.Writer) Option {
	return func(opts *Options) {
		opts.In = in
		opts.Out = out
	}
}
