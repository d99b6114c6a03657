// Command simulacao-api runs the financing simulation HTTP API.
//
// Without a sub-command it behaves like "serve".
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	root := &cobra.Command{
		Use:           "simulacao-api",
		Short:         "Financing simulation API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}

	root.AddCommand(serveCmd, newSimulateCmd())

	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
