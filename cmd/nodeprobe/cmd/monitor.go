package cmd

import (
	"github.com/spf13/cobra"

	"github.com/voluzi/nodeprobe/internal/environ"
	"github.com/voluzi/nodeprobe/pkg/monitor"
	"github.com/voluzi/nodeprobe/pkg/sampler"
)

var (
	outputDir   string
	samplerKind string
	pidstatPath string
	writeJSON   bool
	writeProm   bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <duration_seconds> <pid_1> [pid_2] ...",
	Short: "Samples CPU and memory of processes and writes a summary report",
	Long: `Samples CPU and resident memory of the given processes once per second
for duration_seconds, then writes summary_report.txt and raw_output.log to a
new timestamped directory. Processes that are not running at start are
skipped with a warning.`,
	Args: func(cmd *cobra.Command, args []string) error {
		_, err := monitor.ParseArgs(args)
		return err
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		req, err := monitor.ParseArgs(args)
		if err != nil {
			return err
		}

		if outputDir == "" {
			outputDir = cfg.Monitor.OutputDir
		}
		if samplerKind == "" {
			samplerKind = string(cfg.Monitor.Sampler)
		}
		if pidstatPath == "" {
			pidstatPath = cfg.Monitor.PidstatPath
		}

		s, err := sampler.FromKind(sampler.Kind(samplerKind),
			sampler.WithPidstatPath(pidstatPath),
			sampler.WithLayout(cfg.Monitor.Layout),
		)
		if err != nil {
			return err
		}

		m, err := monitor.New(
			monitor.WithOutputRoot(outputDir),
			monitor.WithSampler(s),
			monitor.WithConsole(cmd.OutOrStdout()),
			monitor.WithJSON(writeJSON),
			monitor.WithProm(writeProm),
		)
		if err != nil {
			return err
		}

		_, err = m.Run(cmd.Context(), req)
		return err
	},
}

func init() {
	monitorCmd.Flags().StringVar(&outputDir, "output-dir",
		environ.GetString("NODEPROBE_OUTPUT_DIR", ""),
		"Directory in which the timestamped capture directory is created (default from config, else current directory)",
	)
	monitorCmd.Flags().StringVar(&samplerKind, "sampler",
		environ.GetString("NODEPROBE_SAMPLER", ""),
		"Sampler to use. One of auto, pidstat, proc.",
	)
	monitorCmd.Flags().StringVar(&pidstatPath, "pidstat",
		environ.GetString("NODEPROBE_PIDSTAT", ""),
		"Path to the pidstat binary",
	)
	monitorCmd.Flags().BoolVar(&writeJSON, "json",
		environ.GetBool("NODEPROBE_JSON", false),
		"Also write summary.json",
	)
	monitorCmd.Flags().BoolVar(&writeProm, "prom",
		environ.GetBool("NODEPROBE_PROM", false),
		"Also write summary.prom in the Prometheus text format",
	)
}
