package monitor

import (
	"bufio"
	"io"
	"os"
	"strings"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/nodeprobe/pkg/sampler"
	"github.com/voluzi/nodeprobe/pkg/statscollector"
)

const kbPerMB = 1024

// MetricSummary is the aggregate of one metric for one process. Average and
// Max are meaningless when Samples is zero.
type MetricSummary struct {
	Samples int     `json:"samples"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
}

func (s MetricSummary) HasData() bool {
	return s.Samples > 0
}

func metricSummary(c *statscollector.Collector) MetricSummary {
	avg, ok := c.Average()
	if !ok {
		return MetricSummary{}
	}
	return MetricSummary{
		Samples: c.Count(),
		Average: avg,
		Max:     c.Max(),
	}
}

// ProcessSummary holds CPU usage in percent and resident memory in MB.
type ProcessSummary struct {
	PID    int           `json:"pid"`
	CPU    MetricSummary `json:"cpu_percent"`
	Memory MetricSummary `json:"memory_mb"`
}

// collect feeds every line of r that ParseLine accepts into a collector.
func collect(r io.Reader, l sampler.Layout, m sampler.Metric, pid int) (*statscollector.Collector, error) {
	c := statscollector.NewCollector()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if v, ok := sampler.ParseLine(l, m, pid, scanner.Text()); ok {
			c.AddSample(v)
		}
	}
	return c, scanner.Err()
}

// Summarize aggregates the raw CPU and memory logs of pid. Memory is read in
// kilobytes and reported in megabytes.
func Summarize(l sampler.Layout, pid int, cpuLog, memLog io.Reader) (ProcessSummary, error) {
	cpu, err := collect(cpuLog, l, sampler.CPU, pid)
	if err != nil {
		return ProcessSummary{PID: pid}, errors.Wrapf(err, "reading cpu log of %d", pid)
	}
	mem, err := collect(memLog, l, sampler.Memory, pid)
	if err != nil {
		return ProcessSummary{PID: pid}, errors.Wrapf(err, "reading memory log of %d", pid)
	}

	return ProcessSummary{
		PID:    pid,
		CPU:    metricSummary(cpu),
		Memory: metricSummary(mem.Scaled(kbPerMB)),
	}, nil
}

// summarize reads the raw files of pid. A file that cannot be read counts as
// no data for its metric.
func (m *Monitor) summarize(tasks []task, pid int) ProcessSummary {
	readers := map[sampler.Metric]io.Reader{}
	for _, t := range tasks {
		f, err := os.Open(t.path)
		if err != nil {
			log.WithField("pid", pid).Warnf("no raw %s log: %v", t.metric, err)
			continue
		}
		defer f.Close()
		readers[t.metric] = f
	}

	reader := func(m sampler.Metric) io.Reader {
		if r, ok := readers[m]; ok {
			return r
		}
		return strings.NewReader("")
	}

	s, err := Summarize(m.cfg.Sampler.Layout(), pid, reader(sampler.CPU), reader(sampler.Memory))
	if err != nil {
		log.WithField("pid", pid).Warn(err)
	}

	logger := log.WithField("pid", pid)
	if !s.CPU.HasData() {
		logger.Warn("no cpu samples collected")
	}
	if !s.Memory.HasData() {
		logger.Warn("no memory samples collected")
	}
	return s
}
