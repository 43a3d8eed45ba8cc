package sampler

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
)

// Pidstat runs the sysstat pidstat binary once per process and metric.
type Pidstat struct {
	path   string
	layout Layout
}

func NewPidstat(opts *Options) *Pidstat {
	return &Pidstat{
		path:   opts.PidstatPath,
		layout: opts.Layout,
	}
}

func (p *Pidstat) Kind() Kind {
	return PidstatKind
}

func (p *Pidstat) Layout() Layout {
	return p.layout
}

// Args returns the pidstat arguments for a one second interval over
// duration iterations.
func Args(pid int, m Metric, duration int) []string {
	flag := "-r"
	if m == CPU {
		flag = "-u"
	}
	return []string{flag, "-p", strconv.Itoa(pid), "1", strconv.Itoa(duration)}
}

func (p *Pidstat) Sample(ctx context.Context, pid int, m Metric, duration int, out io.Writer) error {
	cmd := exec.CommandContext(ctx, p.path, Args(pid, m, duration)...)
	// single token 24h timestamps and dot decimals keep the column layout stable
	cmd.Env = append(os.Environ(), "LC_ALL=C", "S_TIME_FORMAT=ISO")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "pidstat stdout")
	}

	log.WithFields(map[string]interface{}{
		"pid":    pid,
		"metric": m,
		"args":   strings.Join(cmd.Args, " "),
	}).Debug("starting pidstat")

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "starting pidstat")
	}

	var writeErr error
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if _, writeErr = io.WriteString(out, scanner.Text()+"\n"); writeErr != nil {
			_ = cmd.Process.Kill()
			break
		}
	}
	// drain whatever is left so Wait does not block on a full pipe
	_, _ = io.Copy(io.Discard, stdout)

	waitErr := cmd.Wait()
	if writeErr != nil {
		return errors.Wrapf(writeErr, "writing pidstat output for pid %d", pid)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		// pidstat exits non-zero once the target is gone; that only shortens the log
		if errors.As(waitErr, &exitErr) && !processExists(ctx, pid) {
			return nil
		}
		return errors.Wrapf(waitErr, "pidstat: %s", strings.TrimSpace(stderr.String()))
	}
	return nil
}
