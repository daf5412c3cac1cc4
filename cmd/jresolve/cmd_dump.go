package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jresolve/format"
	"github.com/dhamidi/jresolve/java/compile"
)

func newDumpCmd(g *globalFlags) *cobra.Command {
	var outputFormat string
	var leaves bool

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump the resolved tree of a .java file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := compile.New(g.compilerOptions()...)
			file, err := c.AddFile(args[0])
			if err != nil {
				return err
			}
			if err := c.Complete(); err != nil {
				return err
			}

			var opts []format.Option
			if leaves {
				opts = append(opts, format.WithLeaves())
			}
			var encoder format.Encoder
			switch outputFormat {
			case "text":
				encoder = format.NewLineEncoder(cmd.OutOrStdout(), opts...)
			case "json":
				encoder = format.NewTreeJSONEncoder(cmd.OutOrStdout(), opts...)
			default:
				return fmt.Errorf("unknown format: %s (expected text or json)", outputFormat)
			}
			if err := encoder.Encode(c.Context().Tree(), file); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}
			return writeDiagnostics(cmd.ErrOrStderr(), "text", c.Diagnostics())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&leaves, "leaves", false, "include tokens")

	return cmd
}
