package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jresolve/java/codebase"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-resolve a source tree whenever a file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			} else if g.project != "" {
				root = g.project
			}
			cb := codebase.New(root, codebase.WithClasspath(g.classpathDirs()...))
			out := cmd.OutOrStdout()
			w := codebase.NewFileWatcher(cb,
				codebase.WithPollInterval(interval),
				codebase.OnChange(func(changed []string) {
					report(out, cb, changed)
				}),
			)
			w.Start()
			defer w.Stop()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt)
			<-stop
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval")

	return cmd
}

// report prints a summary line for a batch of changes followed by every
// diagnostic in the workspace.
func report(w io.Writer, cb *codebase.Codebase, changed []string) {
	diagnostics := cb.AllDiagnostics()
	errs, warnings := count(diagnostics)
	fmt.Fprintf(w, "[%s] %d changed, %d errors, %d warnings\n",
		time.Now().Format("15:04:05"), len(changed), errs, warnings)
	writeDiagnostics(w, "text", diagnostics)
}
