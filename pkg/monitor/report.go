package monitor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

// WriteReport renders the human readable summary: a header followed by one
// section per summarized process.
func WriteReport(w io.Writer, started time.Time, req Request, summaries []ProcessSummary) error {
	bw := bufio.NewWriter(w)

	pids := make([]string, len(req.PIDs))
	for i, pid := range req.PIDs {
		pids[i] = strconv.Itoa(pid)
	}

	fmt.Fprintln(bw, "Process Monitoring Summary")
	fmt.Fprintln(bw, "==========================")
	fmt.Fprintf(bw, "Timestamp: %s\n", started.Format(headerTimeFormat))
	fmt.Fprintf(bw, "Duration: %d seconds\n", req.DurationSeconds)
	fmt.Fprintf(bw, "Processes: %s\n", strings.Join(pids, " "))

	for _, s := range summaries {
		title := fmt.Sprintf("PID %d", s.PID)
		fmt.Fprintf(bw, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))

		if s.CPU.HasData() {
			fmt.Fprintf(bw, "CPU Usage - Average: %.2f%%, Maximum: %.2f%%\n", s.CPU.Average, s.CPU.Max)
		} else {
			fmt.Fprintln(bw, "No CPU data found.")
		}

		if s.Memory.HasData() {
			fmt.Fprintf(bw, "Memory Usage - Average: %.2f MB, Maximum: %.2f MB\n", s.Memory.Average, s.Memory.Max)
		} else {
			fmt.Fprintln(bw, "No memory data found.")
		}
	}
	return bw.Flush()
}

type jsonSummary struct {
	Timestamp       time.Time        `json:"timestamp"`
	DurationSeconds int              `json:"duration_seconds"`
	Requested       []int            `json:"requested_pids"`
	Skipped         []int            `json:"skipped_pids"`
	Processes       []ProcessSummary `json:"processes"`
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// concatenate appends every raw file, in task order, to dst.
func concatenate(dst io.Writer, tasks taskList) error {
	for _, t := range tasks {
		f, err := os.Open(t.path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return err
		}
		_, err = io.Copy(dst, f)
		_ = f.Close()
		if err != nil {
			return errors.Wrapf(err, "copying %s", filepath.Base(t.path))
		}
	}
	return nil
}

// finalize writes the report and the combined raw log, then removes the
// per-process raw files. Those are only removed once the combined log has
// been written successfully.
func (m *Monitor) finalize(started time.Time, res *Result, tasks taskList) error {
	err := writeFile(res.ReportPath, func(w io.Writer) error {
		return WriteReport(w, started, res.Request, res.Summaries)
	})
	if err != nil {
		return errors.Wrap(err, "writing summary report")
	}

	if err := writeFile(res.RawLogPath, func(w io.Writer) error {
		return concatenate(w, tasks)
	}); err != nil {
		return errors.Wrap(err, "writing combined raw log")
	}

	var removeErrs []error
	for _, t := range tasks {
		if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			removeErrs = append(removeErrs, err)
		}
	}
	if err := errors.Combine(removeErrs...); err != nil {
		log.Warnf("could not remove raw capture files: %v", err)
	}

	if m.cfg.JSON {
		err := writeFile(filepath.Join(res.Dir, JSONFile), func(w io.Writer) error {
			b, err := json.MarshalIndent(jsonSummary{
				Timestamp:       started,
				DurationSeconds: res.Request.DurationSeconds,
				Requested:       res.Request.PIDs,
				Skipped:         res.Skipped,
				Processes:       res.Summaries,
			}, "", "  ")
			if err != nil {
				return err
			}
			_, err = w.Write(append(b, '\n'))
			return err
		})
		if err != nil {
			return errors.Wrap(err, "writing json summary")
		}
	}

	if m.cfg.Prom {
		err := writeFile(filepath.Join(res.Dir, PromFile), func(w io.Writer) error {
			return WriteProm(w, res.Summaries)
		})
		if err != nil {
			return errors.Wrap(err, "writing prometheus summary")
		}
	}
	return nil
}
