package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jresolve/format"
	"github.com/dhamidi/jresolve/java/ast"
	"github.com/dhamidi/jresolve/java/parser"
)

func newPrintCmd() *cobra.Command {
	var stripComments bool

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Parse a .java file and write it back from its tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			ctx := ast.NewCompileContext()
			file, err := parser.Parse(ast.NewSession(ctx), src, parser.WithFile(args[0]))
			if err != nil {
				return err
			}

			var opts []format.Option
			if stripComments {
				opts = append(opts, format.WithoutComments())
			}
			if err := format.NewJavaEncoder(cmd.OutOrStdout(), opts...).Encode(ctx.Tree(), file); err != nil {
				return fmt.Errorf("encode java: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stripComments, "strip-comments", false, "drop comments")

	return cmd
}
