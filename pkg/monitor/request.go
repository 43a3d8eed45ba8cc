package monitor

import (
	"fmt"
	"math"
	"strconv"
)

// Request is the immutable input of a monitoring run.
type Request struct {
	DurationSeconds int
	// PIDs keeps the order and duplicates given by the operator.
	PIDs []int
}

// NewRequest validates a duration and a list of process identifiers.
func NewRequest(duration int, pids []int) (Request, error) {
	if duration <= 0 {
		return Request{}, fmt.Errorf("%w: duration must be a positive integer, got %d", ErrUsage, duration)
	}
	if len(pids) == 0 {
		return Request{}, fmt.Errorf("%w: at least one process identifier is required", ErrUsage)
	}
	for _, pid := range pids {
		if pid <= 0 || pid > math.MaxInt32 {
			return Request{}, fmt.Errorf("%w: invalid process identifier %d", ErrUsage, pid)
		}
	}
	return Request{
		DurationSeconds: duration,
		PIDs:            append([]int(nil), pids...),
	}, nil
}

// ParseArgs builds a Request from "<duration_seconds> <pid_1> [pid_2] ...".
func ParseArgs(args []string) (Request, error) {
	if len(args) < 2 {
		return Request{}, fmt.Errorf("%w: expected <duration_seconds> <pid_1> [pid_2] ..., got %d argument(s)", ErrUsage, len(args))
	}

	duration, err := strconv.Atoi(args[0])
	if err != nil {
		return Request{}, fmt.Errorf("%w: duration must be a positive integer, got %q", ErrUsage, args[0])
	}

	pids := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		pid, err := strconv.Atoi(arg)
		if err != nil {
			return Request{}, fmt.Errorf("%w: invalid process identifier %q", ErrUsage, arg)
		}
		pids = append(pids, pid)
	}
	return NewRequest(duration, pids)
}
