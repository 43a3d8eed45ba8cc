package cmd

import (
	"time"

	"emperror.dev/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/nodeprobe/internal/environ"
	"github.com/voluzi/nodeprobe/pkg/nodeenv"
)

var (
	home         string
	force        bool
	binarySource string
	binaries     []string
	initTimeout  time.Duration
)

func resolveHome() (string, error) {
	if home != "" {
		return home, nil
	}
	if cfg.Setup.Home != "" {
		return cfg.Setup.Home, nil
	}
	return "", errors.New("node home is required: set --home, NODE_HOME or setup.home in the config file")
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Bootstraps a node home directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		h, err := resolveHome()
		if err != nil {
			return err
		}

		plan := cfg.Setup.Plan
		if binarySource != "" {
			plan.BinarySource = binarySource
		}
		if len(binaries) > 0 {
			plan.Binaries = binaries
		}

		env, err := nodeenv.New(h,
			nodeenv.WithForce(force),
			nodeenv.WithInitTimeout(initTimeout),
		)
		if err != nil {
			return err
		}

		start := time.Now()
		if err := env.Setup(cmd.Context(), plan); err != nil {
			return err
		}
		log.WithField("time-elapsed", time.Since(start)).Info("setup successful")
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&home, "home",
		environ.GetString("NODE_HOME", ""),
		"Node home directory",
	)
	setupCmd.Flags().BoolVar(&force, "force",
		environ.GetBool("FORCE", false),
		"Run setup on an already initialized home, keeping existing keys",
	)
	setupCmd.Flags().StringVar(&binarySource, "binary-source",
		environ.GetString("BINARY_SOURCE", ""),
		"Directory holding prebuilt binaries",
	)
	setupCmd.Flags().StringSliceVar(&binaries, "binaries",
		environ.GetStringSlice("BINARIES", nil),
		"Binaries to copy from the binary source",
	)
	setupCmd.Flags().DurationVar(&initTimeout, "init-timeout",
		environ.GetDuration("INIT_TIMEOUT", 10*time.Minute),
		"Maximum run time of each init command. Zero disables the limit.",
	)
}
