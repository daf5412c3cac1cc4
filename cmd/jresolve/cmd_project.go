package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jresolve/project"
)

func newProjectCmd() *cobra.Command {
	var outputFormat string
	var tests bool
	var repository string

	cmd := &cobra.Command{
		Use:   "project [dir]",
		Short: "Show the source directories and classpath detected for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			var opts []project.Option
			if tests {
				opts = append(opts, project.WithTests())
			}
			if repository != "" {
				opts = append(opts, project.WithLocalRepository(repository))
			}
			layout, err := project.Detect(root, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(layout)
			case "text":
				writeLayout(out, layout)
				return nil
			default:
				return fmt.Errorf("unknown format: %s (expected text or json)", outputFormat)
			}
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&tests, "tests", false, "include test sources and test dependencies")
	cmd.Flags().StringVar(&repository, "repository", "", "local Maven repository (default ~/.m2/repository)")

	return cmd
}

func writeLayout(w io.Writer, l *project.Layout) {
	fmt.Fprintf(w, "%s project at %s\n", l.Kind, l.RootDir)
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "%s:\n", title)
		for _, item := range items {
			fmt.Fprintf(w, "  %s\n", item)
		}
	}
	section("sources", l.SourceDirs)
	section("classpath", l.Classpath)
	var missing []string
	for _, d := range l.Missing {
		missing = append(missing, d.String())
	}
	section("missing", missing)
}
