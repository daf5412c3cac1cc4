package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jresolve/java/compile"
	"github.com/dhamidi/jresolve/project"
)

const version = "0.1.0"

// errFailed reports that a command already printed why it failed.
var errFailed = errors.New("failed")

type globalFlags struct {
	classpath []string
	project   string
	verbose   int

	layout *project.Layout
}

// classpathDirs splits --classpath values on the list separator and adds
// the dependencies of the --project layout. When it is empty the compiler
// falls back to the environment.
func (g *globalFlags) classpathDirs() []string {
	var dirs []string
	for _, entry := range g.classpath {
		dirs = append(dirs, filepath.SplitList(entry)...)
	}
	if g.layout != nil {
		dirs = append(dirs, g.layout.Classpath...)
	}
	return dirs
}

// sourcePaths defaults to the source directories of the --project layout,
// or to the current directory.
func (g *globalFlags) sourcePaths(args []string) []string {
	switch {
	case len(args) > 0:
		return args
	case g.layout != nil:
		return g.layout.SourceDirs
	}
	return []string{"."}
}

func (g *globalFlags) compilerOptions() []compile.Option {
	return []compile.Option{compile.WithClasspath(g.classpathDirs()...)}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "jresolve",
		Short:         "Resolve names, control flow and exceptions in Java sources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			commonlog.Configure(g.verbose, nil)
			if g.project == "" {
				return nil
			}
			layout, err := project.Detect(g.project)
			if err != nil {
				return err
			}
			g.layout = layout
			return nil
		},
	}
	rootCmd.PersistentFlags().StringSliceVar(&g.classpath, "classpath", nil,
		"source roots searched for referenced types (default $"+compile.ClasspathEnv+")")
	rootCmd.PersistentFlags().StringVarP(&g.project, "project", "p", "",
		"detect sources and dependency jars from the project in this directory")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "log more; repeat for debug output")

	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newDumpCmd(g))
	rootCmd.AddCommand(newPrintCmd())
	rootCmd.AddCommand(newLSPCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newProjectCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
