package sampler

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Layout holds the zero-based field positions of a pidstat data line.
//
// The defaults match sysstat 11+ run with LC_ALL=C and S_TIME_FORMAT=ISO:
//
//	pidstat -u: Time UID PID %usr %system %guest %wait %CPU CPU Command
//	pidstat -r: Time UID PID minflt/s majflt/s VSZ RSS %MEM Command
//
// Releases that print a different set of columns need an explicit layout.
// CPUColumns and RSSColumns are the minimum number of fields of a data line;
// shorter lines come from another release and are rejected. The command name
// may contain spaces, so longer lines are accepted. Zero disables the check.
type Layout struct {
	PIDField   int `toml:"pid_field"`
	CPUField   int `toml:"cpu_field"`
	RSSField   int `toml:"rss_field"`
	CPUColumns int `toml:"cpu_columns"`
	RSSColumns int `toml:"rss_columns"`
}

var DefaultLayout = Layout{
	PIDField:   2,
	CPUField:   7,
	RSSField:   6,
	CPUColumns: 10,
	RSSColumns: 9,
}

func (l Layout) valueField(m Metric) int {
	if m == CPU {
		return l.CPUField
	}
	return l.RSSField
}

func (l Layout) columns(m Metric) int {
	if m == CPU {
		return l.CPUColumns
	}
	return l.RSSColumns
}

// ParseLine extracts the metric value from a sampler line. Only lines whose
// first token starts with a digit and whose PID field equals pid are
// accepted; banners, headers, blank lines and "Average:" rows are rejected.
// CPU values are percentages, memory values are resident kilobytes.
func ParseLine(l Layout, m Metric, pid int, line string) (float64, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, false
	}
	if first := []rune(fields[0]); !unicode.IsDigit(first[0]) {
		return 0, false
	}

	if len(fields) < l.columns(m) {
		return 0, false
	}

	vf := l.valueField(m)
	if l.PIDField < 0 || vf < 0 || l.PIDField >= len(fields) || vf >= len(fields) {
		return 0, false
	}

	p, err := strconv.Atoi(fields[l.PIDField])
	if err != nil || p != pid {
		return 0, false
	}

	v, err := strconv.ParseFloat(fields[vf], 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
