package monitor

import (
	"io"
	"strconv"

	prom "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"k8s.io/utils/ptr"
)

const metricPrefix = "nodeprobe_process_"

func gauge(pid int, value float64, extra ...*prom.LabelPair) *prom.Metric {
	labels := append([]*prom.LabelPair{{
		Name:  ptr.To("pid"),
		Value: ptr.To(strconv.Itoa(pid)),
	}}, extra...)
	return &prom.Metric{
		Label: labels,
		Gauge: &prom.Gauge{Value: ptr.To(value)},
	}
}

func family(name, help string) *prom.MetricFamily {
	return &prom.MetricFamily{
		Name: ptr.To(metricPrefix + name),
		Help: ptr.To(help),
		Type: prom.MetricType_GAUGE.Enum(),
	}
}

// WriteProm renders the summaries in the Prometheus text exposition format,
// suitable for the node-exporter textfile collector. Metrics without samples
// only appear in the samples family.
func WriteProm(w io.Writer, summaries []ProcessSummary) error {
	var (
		cpuAvg  = family("cpu_percent_average", "Average CPU usage in percent over the monitoring window.")
		cpuMax  = family("cpu_percent_max", "Maximum CPU usage in percent over the monitoring window.")
		memAvg  = family("memory_mb_average", "Average resident memory in megabytes over the monitoring window.")
		memMax  = family("memory_mb_max", "Maximum resident memory in megabytes over the monitoring window.")
		samples = family("samples", "Number of valid samples collected per metric.")
	)

	for _, s := range summaries {
		if s.CPU.HasData() {
			cpuAvg.Metric = append(cpuAvg.Metric, gauge(s.PID, s.CPU.Average))
			cpuMax.Metric = append(cpuMax.Metric, gauge(s.PID, s.CPU.Max))
		}
		if s.Memory.HasData() {
			memAvg.Metric = append(memAvg.Metric, gauge(s.PID, s.Memory.Average))
			memMax.Metric = append(memMax.Metric, gauge(s.PID, s.Memory.Max))
		}
		samples.Metric = append(samples.Metric,
			gauge(s.PID, float64(s.CPU.Samples), &prom.LabelPair{Name: ptr.To("metric"), Value: ptr.To("cpu")}),
			gauge(s.PID, float64(s.Memory.Samples), &prom.LabelPair{Name: ptr.To("metric"), Value: ptr.To("mem")}),
		)
	}

	for _, mf := range []*prom.MetricFamily{cpuAvg, cpuMax, memAvg, memMax, samples} {
		if len(mf.Metric) == 0 {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
