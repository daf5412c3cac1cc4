package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jresolve/java/codebase"
)

func newLSPCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, g.classpathDirs()...)
			return server.RunStdio()
		},
	}
}
