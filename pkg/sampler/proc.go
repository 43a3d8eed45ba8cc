package sampler

import (
	"context"
	"fmt"
	"io"
	"time"

	"emperror.dev/errors"
	"github.com/shirou/gopsutil/process"
)

const timeFormat = "15:04:05"

// Proc samples through gopsutil and prints pidstat compatible lines in
// DefaultLayout. It is used when pidstat is not installed.
type Proc struct {
	interval time.Duration
	now      func() time.Time
}

func NewProc(opts *Options) *Proc {
	return &Proc{
		interval: opts.Interval,
		now:      time.Now,
	}
}

func (p *Proc) Kind() Kind {
	return ProcKind
}

func (p *Proc) Layout() Layout {
	return DefaultLayout
}

// cpuTimes returns user and system CPU time in seconds.
func cpuTimes(ctx context.Context, proc *process.Process) (float64, float64, error) {
	times, err := proc.TimesWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get CPU times: %w", err)
	}
	return times.User, times.System, nil
}

func processExists(ctx context.Context, pid int) bool {
	ok, err := process.PidExistsWithContext(ctx, int32(pid))
	return err == nil && ok
}

func (p *Proc) Sample(ctx context.Context, pid int, m Metric, duration int, out io.Writer) error {
	proc, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return errors.Wrapf(err, "process %d", pid)
	}

	uid := int32(-1)
	if uids, err := proc.UidsWithContext(ctx); err == nil && len(uids) > 0 {
		uid = uids[0]
	}
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		name = "-"
	}

	var (
		lastUser, lastSys float64
		lastTime          = p.now()
	)
	if m == CPU {
		if lastUser, lastSys, err = cpuTimes(ctx, proc); err != nil {
			return p.gone(ctx, pid, err)
		}
		fmt.Fprintf(out, "%-8s %5s %9s %7s %7s %7s %7s %7s %5s  %s\n",
			lastTime.Format(timeFormat), "UID", "PID", "%usr", "%system", "%guest", "%wait", "%CPU", "CPU", "Command")
	} else {
		fmt.Fprintf(out, "%-8s %5s %9s %9s %9s %10s %9s %6s  %s\n",
			lastTime.Format(timeFormat), "UID", "PID", "minflt/s", "majflt/s", "VSZ", "RSS", "%MEM", "Command")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for i := 0; i < duration; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		now := p.now()

		if m == CPU {
			user, sys, err := cpuTimes(ctx, proc)
			if err != nil {
				return p.gone(ctx, pid, err)
			}
			elapsed := now.Sub(lastTime).Seconds()
			var usrPct, sysPct float64
			if elapsed > 0 {
				usrPct = (user - lastUser) / elapsed * 100
				sysPct = (sys - lastSys) / elapsed * 100
			}
			lastUser, lastSys, lastTime = user, sys, now

			_, err = fmt.Fprintf(out, "%-8s %5d %9d %7.2f %7.2f %7.2f %7.2f %7.2f %5s  %s\n",
				now.Format(timeFormat), uid, pid, usrPct, sysPct, 0.0, 0.0, usrPct+sysPct, "-", name)
			if err != nil {
				return err
			}
			continue
		}

		mem, err := proc.MemoryInfoWithContext(ctx)
		if err != nil {
			return p.gone(ctx, pid, fmt.Errorf("failed to get memory info: %w", err))
		}
		memPct, _ := proc.MemoryPercentWithContext(ctx)
		_, err = fmt.Fprintf(out, "%-8s %5d %9d %9.2f %9.2f %10d %9d %6.2f  %s\n",
			now.Format(timeFormat), uid, pid, 0.0, 0.0, mem.VMS/1024, mem.RSS/1024, memPct, name)
		if err != nil {
			return err
		}
	}
	return nil
}

// gone turns a sampling error into a clean early exit when the target
// process no longer exists.
func (p *Proc) gone(ctx context.Context, pid int, err error) error {
	if !processExists(ctx, pid) {
		return nil
	}
	return err
}
