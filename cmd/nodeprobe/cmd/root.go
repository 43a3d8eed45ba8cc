package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/nodeprobe/internal/config"
	"github.com/voluzi/nodeprobe/internal/environ"
)

var (
	logLevel   string
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "nodeprobe",
	Short: "Operational tooling for chain nodes",
	Long: `nodeprobe samples CPU and memory of running node processes and
bootstraps or removes a node's local home directory.`,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(logLvl)

		cfg, err = config.Load(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel,
		"log-level",
		environ.GetString("LOG_LEVEL", "info"),
		"Log level. One of debug, info, warn, error, fatal, panic.",
	)
	rootCmd.PersistentFlags().StringVar(&configPath,
		"config",
		environ.GetString("NODEPROBE_CONFIG", ""),
		"Optional TOML configuration file",
	)

	rootCmd.AddCommand(monitorCmd, setupCmd, teardownCmd)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
