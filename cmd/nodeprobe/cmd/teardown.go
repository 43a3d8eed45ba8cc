package cmd

import (
	"github.com/spf13/cobra"

	"github.com/voluzi/nodeprobe/internal/environ"
	"github.com/voluzi/nodeprobe/pkg/nodeenv"
)

var (
	assumeYes    bool
	archivePath  string
	archiveLevel int
)

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Removes a node home directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		h, err := resolveHome()
		if err != nil {
			return err
		}

		env, err := nodeenv.New(h,
			nodeenv.WithYes(assumeYes),
			nodeenv.WithArchivePath(archivePath),
			nodeenv.WithArchiveLevel(archiveLevel),
			nodeenv.WithPrompt(cmd.InOrStdin(), cmd.OutOrStdout()),
		)
		if err != nil {
			return err
		}
		return env.Teardown(cmd.Context())
	},
}

func init() {
	teardownCmd.Flags().StringVar(&home, "home",
		environ.GetString("NODE_HOME", ""),
		"Node home directory",
	)
	teardownCmd.Flags().BoolVarP(&assumeYes, "yes", "y",
		environ.GetBool("ASSUME_YES", false),
		"Do not ask for confirmation",
	)
	teardownCmd.Flags().StringVar(&archivePath, "archive",
		environ.GetString("ARCHIVE_PATH", ""),
		"Write a tar.gz of the data directory here before removing",
	)
	teardownCmd.Flags().IntVar(&archiveLevel, "archive-level",
		environ.GetInt("ARCHIVE_LEVEL", nodeenv.DefaultArchiveLevel),
		"Gzip compression level of the archive, from -2 (huffman only) to 9",
	)
}
