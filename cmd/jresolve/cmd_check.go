package main

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jresolve/format"
	"github.com/dhamidi/jresolve/java/compile"
	"github.com/dhamidi/jresolve/java/diag"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	var outputFormat string
	var parallel bool

	cmd := &cobra.Command{
		Use:   "check [files or dirs...]",
		Short: "Resolve Java sources and report diagnostics",
		Long: `Resolve Java sources and report diagnostics.

All paths are resolved together in one context. With --parallel every path
is resolved on its own, concurrently, so references between them are not
seen. Without paths the sources of --project are checked, or the current
directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			args = g.sourcePaths(args)
			if outputFormat != "text" && outputFormat != "json" {
				return fmt.Errorf("unknown format: %s (expected text or json)", outputFormat)
			}

			var diagnostics []diag.Diagnostic
			var err error
			if parallel {
				diagnostics, err = checkEach(g.compilerOptions(), args)
			} else {
				diagnostics, err = checkAll(g.compilerOptions(), args)
			}
			if err != nil {
				return err
			}

			if err := writeDiagnostics(cmd.OutOrStdout(), outputFormat, diagnostics); err != nil {
				return err
			}
			errs, warnings := count(diagnostics)
			if outputFormat == "text" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d errors, %d warnings\n", errs, warnings)
			}
			if errs > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "resolve each path in its own context, concurrently")

	return cmd
}

func checkAll(opts []compile.Option, paths []string) ([]diag.Diagnostic, error) {
	c := compile.New(opts...)
	if err := c.Run(paths...); err != nil {
		return nil, err
	}
	return c.Diagnostics(), nil
}

func checkEach(opts []compile.Option, paths []string) ([]diag.Diagnostic, error) {
	results := make([][]diag.Diagnostic, len(paths))
	errs := make([]error, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = checkAll(opts, []string{path})
		}()
	}
	wg.Wait()

	var all []diag.Diagnostic
	for i := range paths {
		if errs[i] != nil {
			return nil, errs[i]
		}
		all = append(all, results[i]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].File() != all[j].File() {
			return all[i].File() < all[j].File()
		}
		return all[i].Span.Start.Offset < all[j].Span.Start.Offset
	})
	return all, nil
}

func writeDiagnostics(w io.Writer, outputFormat string, diagnostics []diag.Diagnostic) error {
	if outputFormat == "json" {
		if err := format.NewDiagnosticsJSONEncoder(w).Encode(diagnostics); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	for _, d := range diagnostics {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return err
		}
	}
	return nil
}

func count(diagnostics []diag.Diagnostic) (errs, warnings int) {
	for _, d := range diagnostics {
		if d.Severity == diag.Error {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}
