package monitor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/voluzi/nodeprobe/pkg/sampler"
)

const (
	RawLogFile = "raw_output.log"
	ReportFile = "summary_report.txt"
	JSONFile   = "summary.json"
	PromFile   = "summary.prom"
)

// Monitor samples CPU and memory of a set of processes for a fixed duration
// and leaves a summary report and a combined raw log behind.
type Monitor struct {
	cfg *Options
}

// Result describes a completed run.
type Result struct {
	Dir        string
	Request    Request
	Live       []int
	Skipped    []int
	Summaries  []ProcessSummary
	ReportPath string
	RawLogPath string
}

func New(opts ...Option) (*Monitor, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.Sampler == nil {
		s, err := sampler.FromKind(sampler.Auto)
		if err != nil {
			return nil, err
		}
		options.Sampler = s
	}

	return &Monitor{cfg: options}, nil
}

// Run executes validate, sample, summarize and finalize in that order. Only a
// missing output directory or a failure to write the final artifacts is
// returned as an error; everything else degrades into the report.
func (m *Monitor) Run(ctx context.Context, req Request) (*Result, error) {
	started := m.cfg.Now()
	dir := filepath.Join(m.cfg.OutputRoot, "monitor_"+started.Format(dirTimeFormat))

	if err := os.MkdirAll(m.cfg.OutputRoot, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrEnvironment, m.cfg.OutputRoot, err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrEnvironment, dir, err)
	}

	log.WithFields(map[string]interface{}{
		"dir":      dir,
		"duration": req.DurationSeconds,
		"pids":     req.PIDs,
		"sampler":  m.cfg.Sampler.Kind(),
	}).Info("starting process monitor")

	live, skipped := m.Validate(ctx, req.PIDs)

	tasks := m.sample(ctx, dir, live, req.DurationSeconds)

	summaries := make([]ProcessSummary, 0, len(live))
	for _, pid := range live {
		summaries = append(summaries, m.summarize(tasks.forPID(pid), pid))
	}

	res := &Result{
		Dir:        dir,
		Request:    req,
		Live:       live,
		Skipped:    skipped,
		Summaries:  summaries,
		ReportPath: filepath.Join(dir, ReportFile),
		RawLogPath: filepath.Join(dir, RawLogFile),
	}

	if err := m.finalize(started, res, tasks); err != nil {
		return res, err
	}

	log.WithFields(map[string]interface{}{
		"report":  res.ReportPath,
		"raw-log": res.RawLogPath,
	}).Info("monitoring complete")
	return res, nil
}

// Validate checks, once, which of the requested processes are alive. Dead or
// unknown identifiers are logged and dropped. Duplicates collapse to their
// first occurrence so each live process has a single writer per raw file.
func (m *Monitor) Validate(ctx context.Context, pids []int) (live, skipped []int) {
	seen := make(map[int]bool, len(pids))
	for _, pid := range pids {
		if seen[pid] {
			continue
		}
		seen[pid] = true

		ok, err := m.cfg.PidExists(ctx, pid)
		if err != nil || !ok {
			logger := log.WithField("pid", pid)
			if err != nil {
				logger = logger.WithError(err)
			}
			logger.Warn("process not found, skipping")
			skipped = append(skipped, pid)
			continue
		}
		live = append(live, pid)
	}
	return live, skipped
}
