package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/internal/watch"
)

func (a *app) newGenerateCommand() *cobra.Command {
	var watchModel bool
	cmd := &cobra.Command{
		Use:     "generate [model]",
		Aliases: []string{"gen", "g"},
		Short:   "Generate sources from a project model",
		Long: `Generate entity classes and enum models, plus the outputs of the enabled
features, into the target directory.

Examples:
  modelgen generate model.yaml --target src/main/java
  modelgen generate --features jpa,golang,graphql --mixins id,time
  modelgen generate --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, "target", "package", "features", "mixins", "workers", "go-import-prefix"); err != nil {
				return err
			}
			if !watchModel {
				return a.generate(cmd.Context(), cmd.OutOrStdout(), args)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}
	flags := cmd.Flags()
	flags.StringP("target", "t", "", "output directory")
	flags.String("package", gen.DefaultPackage, "sub-package of the generated classes")
	flags.StringSlice("features", nil, "enabled features, replacing the defaults")
	flags.StringSlice("mixins", nil, "mixins added to every entity")
	flags.Int("workers", 0, "files rendered in parallel (default GOMAXPROCS)")
	flags.String("go-import-prefix", "", "import path of the go output directory")
	flags.BoolVarP(&watchModel, "watch", "w", false, "regenerate when the model changes")
	return cmd
}

// generate runs the pipeline once and prints a summary.
func (a *app) generate(ctx context.Context, out io.Writer, args []string) error {
	p, err := a.project(args)
	if err != nil {
		return err
	}
	opts, err := a.cfg.GenOptions(a.log)
	if err != nil {
		return err
	}
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return err
	}
	start := time.Now()
	m, err := gen.Generate(ctx, c, p)
	if err != nil {
		return err
	}
	color.New(color.FgGreen, color.Bold).Fprint(out, "✓ ")
	fmt.Fprintf(out, "generated %d files (%d bytes) in %s in %s\n",
		m.FilesGenerated, m.TotalBytes, c.Target, time.Since(start).Round(time.Millisecond))
	return nil
}

// watch generates once, then again on every change of the model file until
// ctx is done. Failed runs are reported and watching goes on.
func (a *app) watch(ctx context.Context, out, errOut io.Writer, args []string) error {
	report := func() {
		if err := a.generate(ctx, out, args); err != nil {
			color.New(color.FgRed, color.Bold).Fprintf(errOut, "✗ %v\n", err)
		}
	}
	report()
	path := a.cfg.Model
	if len(args) > 0 {
		path = args[0]
	}
	w, err := watch.New([]string{path}, func([]string) error {
		report()
		return nil
	}, watch.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.log.Info("watching model", zap.String("model", path))
	color.New(color.FgCyan).Fprintf(out, "watching %s, press Ctrl+C to stop\n", path)
	return w.Run(ctx)
}
