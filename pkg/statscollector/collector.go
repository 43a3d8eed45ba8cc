package statscollector

import (
	"math"
	"sync"
)

// Collector accumulates a running sum and maximum over the samples of a
// single metric. It retains no history.
type Collector struct {
	lock  sync.RWMutex
	count int
	sum   float64
	max   float64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// AddSample records a new value. Negative and NaN values are ignored.
func (sc *Collector) AddSample(value float64) {
	if value < 0 || math.IsNaN(value) {
		return
	}

	sc.lock.Lock()
	defer sc.lock.Unlock()

	if sc.count == 0 || value > sc.max {
		sc.max = value
	}
	sc.sum += value
	sc.count++
}

func (sc *Collector) Count() int {
	sc.lock.RLock()
	defer sc.lock.RUnlock()
	return sc.count
}

func (sc *Collector) Sum() float64 {
	sc.lock.RLock()
	defer sc.lock.RUnlock()
	return sc.sum
}

// Max returns the highest value seen, or zero when no samples were added.
func (sc *Collector) Max() float64 {
	sc.lock.RLock()
	defer sc.lock.RUnlock()
	return sc.max
}

// Average returns sum/count. The second value is false when the collector is
// empty, in which case no division happens.
func (sc *Collector) Average() (float64, bool) {
	sc.lock.RLock()
	defer sc.lock.RUnlock()

	if sc.count == 0 {
		return 0, false
	}
	return sc.sum / float64(sc.count), true
}

// Scaled returns a copy of the collector with every recorded value divided by
// divisor. Used to convert units after aggregation.
func (sc *Collector) Scaled(divisor float64) *Collector {
	sc.lock.RLock()
	defer sc.lock.RUnlock()

	return &Collector{
		count: sc.count,
		sum:   sc.sum / divisor,
		max:   sc.max / divisor,
	}
}
