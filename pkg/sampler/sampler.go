// Package sampler produces per-process CPU and memory samples in the pidstat
// text format and parses them back.
package sampler

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

type Metric string

const (
	CPU    Metric = "cpu"
	Memory Metric = "mem"
)

type Kind string

const (
	Auto        Kind = "auto"
	PidstatKind Kind = "pidstat"
	ProcKind    Kind = "proc"
)

// Sampler writes one line per sampling interval for the given process and
// metric to out, for duration intervals. Header lines may be interleaved.
// Implementations return early, without error, when the process exits.
type Sampler interface {
	Kind() Kind
	Layout() Layout
	Sample(ctx context.Context, pid int, metric Metric, duration int, out io.Writer) error
}

// FromKind builds a sampler. Auto picks pidstat when the binary is on PATH
// and falls back to the in-process sampler otherwise.
func FromKind(k Kind, opts ...Option) (Sampler, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	switch k {
	case PidstatKind:
		if _, err := exec.LookPath(options.PidstatPath); err != nil {
			return nil, fmt.Errorf("pidstat not available: %w", err)
		}
		return NewPidstat(options), nil
	case ProcKind:
		return NewProc(options), nil
	case Auto, "":
		if _, err := exec.LookPath(options.PidstatPath); err == nil {
			return NewPidstat(options), nil
		}
		return NewProc(options), nil
	default:
		return nil, fmt.Errorf("unsupported sampler: %s", k)
	}
}
