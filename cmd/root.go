// Package cmd wires the realtime-canvas CLI: a serve command running the
// collaboration server, a join command running a terminal participant, and an
// export command turning saved sessions into PDFs.
package cmd

import "github.com/spf13/cobra"

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "realtime-canvas",
		Short:         "Real-time collaborative drawing rooms over websockets",
		Long:          "realtime-canvas runs a room-based collaborative drawing server, joins one from the terminal, and exports saved sessions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	initConfig()

	rootCmd.AddCommand(
		newServeCmd(),
		newJoinCmd(),
		newExportCmd(),
		newVersionCmd(),
	)
	return rootCmd
}
