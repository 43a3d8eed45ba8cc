package monitor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/voluzi/nodeprobe/pkg/sampler"
)

var metrics = []sampler.Metric{sampler.CPU, sampler.Memory}

type task struct {
	pid    int
	metric sampler.Metric
	path   string
}

type taskList []task

// forPID returns the cpu and memory tasks of pid, in that order.
func (tl taskList) forPID(pid int) []task {
	var out []task
	for _, t := range tl {
		if t.pid == pid {
			out = append(out, t)
		}
	}
	return out
}

func rawFileName(pid int, m sampler.Metric) string {
	return fmt.Sprintf("%s_%d.log", m, pid)
}

// syncWriter serializes writes from concurrent tasks so console lines stay
// whole.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// sample starts one task per (pid, metric) and blocks until all of them
// finished. Task failures are logged and only shorten the task's own log.
func (m *Monitor) sample(ctx context.Context, dir string, live []int, duration int) taskList {
	console := &syncWriter{w: m.cfg.Console}

	var (
		g     errgroup.Group
		tasks taskList
	)
	for _, pid := range live {
		for _, metric := range metrics {
			t := task{
				pid:    pid,
				metric: metric,
				path:   filepath.Join(dir, rawFileName(pid, metric)),
			}
			tasks = append(tasks, t)
			g.Go(func() error {
				m.runTask(ctx, t, duration, console)
				return nil
			})
		}
	}

	log.WithField("tasks", len(tasks)).Debug("waiting for sampling tasks")
	_ = g.Wait()
	return tasks
}

func (m *Monitor) runTask(ctx context.Context, t task, duration int, console io.Writer) {
	logger := log.WithFields(map[string]interface{}{
		"pid":    t.pid,
		"metric": t.metric,
	})

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Errorf("could not open raw log: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Errorf("could not close raw log: %v", err)
		}
	}()

	if err := m.cfg.Sampler.Sample(ctx, t.pid, t.metric, duration, io.MultiWriter(f, console)); err != nil {
		logger.Warnf("sampling stopped early: %v", err)
		return
	}
	logger.Debug("sampling finished")
}
