package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the realtime-canvas version",
		Run: func(*cobra.Command, []string) {
			fmt.Println(version)
		},
	}
}
