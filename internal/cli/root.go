// Package cli implements the modelgen command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/schema"
)

var (
	// Version information, set at build time.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app is the state shared by the commands of one invocation.
type app struct {
	v          *viper.Viper
	configFile string
	cfg        *Config
	log        *zap.Logger
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	a := &app{v: newViper()}
	cmd := &cobra.Command{
		Use:   "modelgen",
		Short: "Generate entity classes and relational mappings from a project model",
		Long: `modelgen reads a project model (modules, entities, fields and enums) from a
YAML or JSON file, infers the relations between entities and generates
annotated entity classes, Go types and a GraphQL schema.

Settings are read from modelgen.yaml in the working directory, from
MODELGEN_* environment variables and from flags, flags winning.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "configuration file (default ./modelgen.yaml)")
	flags.String("model", "", "project model file")
	flags.BoolP("verbose", "v", false, "log pipeline progress")

	cmd.AddCommand(
		a.newGenerateCommand(),
		a.newVerifyCommand(),
		a.newSnapshotCommand(),
		newFeaturesCommand(),
		newVersionCommand(),
	)
	return cmd
}

// setup binds the named flags of cmd, and the global ones, to the
// configuration keys of the same name with dashes replaced by underscores,
// then loads the configuration.
func (a *app) setup(cmd *cobra.Command, names ...string) error {
	for _, name := range append([]string{"model", "verbose"}, names...) {
		key := strings.ReplaceAll(name, "-", "_")
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	cfg, err := LoadConfig(a.v, a.configFile)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// project loads the model named by args or by the configuration.
func (a *app) project(args []string) (*schema.Project, error) {
	path := a.cfg.Model
	if len(args) > 0 {
		path = args[0]
	}
	return load.Load(path)
}

// graph loads the model and builds its graph with the model visitors of the
// configuration applied.
func (a *app) graph(args []string) (*gen.Graph, error) {
	p, err := a.project(args)
	if err != nil {
		return nil, err
	}
	opts, err := a.cfg.GenOptions(a.log)
	if err != nil {
		return nil, err
	}
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return gen.Prepare(c, p)
}

func newFeaturesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the generation features",
		Run: func(cmd *cobra.Command, _ []string) {
			name := color.New(color.FgCyan, color.Bold)
			dim := color.New(color.Faint)
			for _, f := range gen.AllFeatures {
				name.Fprintf(cmd.OutOrStdout(), "%-10s", f.Name)
				fmt.Fprintf(cmd.OutOrStdout(), " %-12s", f.Stage)
				if f.Default {
					fmt.Fprint(cmd.OutOrStdout(), " default")
				} else {
					fmt.Fprint(cmd.OutOrStdout(), "        ")
				}
				dim.Fprintf(cmd.OutOrStdout(), "  %s\n", f.Description)
			}
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			title := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()
			for _, kv := range [][2]string{
				{"modelgen version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", runtime.Version()},
			} {
				title.Fprint(out, kv[0])
				fmt.Fprintln(out, kv[1])
			}
		},
	}
}

// Execute runs the root command and prints the error, if any, to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
