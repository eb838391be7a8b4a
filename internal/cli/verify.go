package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/modelgen/dialect/sql"
	"github.com/syssam/modelgen/dialect/sql/schema"
)

// ErrSchemaMismatch is returned by verify when the database does not match
// the model.
var ErrSchemaMismatch = errors.New("database schema does not match the model")

func (a *app) newVerifyCommand() *cobra.Command {
	var (
		plan   bool
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "verify [model]",
		Short: "Check a database against the tables inferred from the model",
		Long: `Inspect the tables of a database and compare them with the tables, columns,
keys and indexes inferred from the model. Differences that break the
generated mappings are errors, the others are warnings.

With --plan, the statements migrating the database to the model are printed
instead. They are never executed.

Examples:
  modelgen verify --dialect postgres --dsn "postgres://localhost/shop?sslmode=disable"
  modelgen verify --dialect sqlite --dsn "file:shop.db?_pragma=foreign_keys(1)" --plan`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for flag, key := range map[string]string{"dialect": "database.dialect", "dsn": "database.dsn", "schema": "database.schema"} {
				if err := a.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return err
				}
			}
			if err := a.setup(cmd, "mixins"); err != nil {
				return err
			}
			db := a.cfg.Database
			if db.Dialect == "" || db.DSN == "" {
				return errors.New("verify: --dialect and --dsn are required")
			}
			g, err := a.graph(args)
			if err != nil {
				return err
			}
			desired, err := schema.FromEngine(g.Relations)
			if err != nil {
				return err
			}
			drv, err := sql.Open(db.Dialect, db.DSN)
			if err != nil {
				return err
			}
			defer drv.Close()
			sd := sql.NewStatsDriver(drv, sql.WithSlowThreshold(time.Second), sql.WithSlowQueryLog(a.log))
			defer func() {
				a.log.Debug("database statistics", zap.Stringer("stats", sd.QueryStats().Stats()))
			}()
			name := db.Schema
			if name == "" {
				name = sql.Schema(db.Dialect, db.DSN)
			}
			out := cmd.OutOrStdout()
			if plan {
				stmts, err := schema.Plan(cmd.Context(), sd, drv.Dialect(), name, desired)
				if err != nil {
					return err
				}
				printPlan(out, stmts)
				return nil
			}
			var opts []schema.ValidateOption
			if strict {
				opts = append(opts, schema.StrictTables(), schema.StrictColumns())
			}
			r, err := schema.Verify(cmd.Context(), sd, drv.Dialect(), name, desired, opts...)
			if err != nil {
				return err
			}
			printResult(out, r)
			if r.HasErrors() {
				return ErrSchemaMismatch
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.String("dialect", "", "database dialect: postgres, mysql or sqlite")
	flags.String("dsn", "", "database connection string")
	flags.String("schema", "", "database schema (default: the current one)")
	flags.StringSlice("mixins", nil, "mixins added to every entity")
	flags.BoolVar(&plan, "plan", false, "print the migration statements instead of verifying")
	flags.BoolVar(&strict, "strict", false, "report unmapped tables and columns as errors")
	return cmd
}

func printResult(out io.Writer, r *schema.ValidationResult) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	for _, e := range r.Errors {
		red.Fprint(out, "✗ ")
		fmt.Fprintln(out, e.Error())
	}
	for _, w := range r.Warnings {
		yellow.Fprint(out, "! ")
		fmt.Fprintln(out, w.Error())
	}
	if !r.HasErrors() {
		color.New(color.FgGreen, color.Bold).Fprint(out, "✓ ")
		fmt.Fprintf(out, "database matches the model (%d warnings)\n", len(r.Warnings))
	}
}

func printPlan(out io.Writer, stmts []string) {
	if len(stmts) == 0 {
		color.New(color.FgGreen, color.Bold).Fprint(out, "✓ ")
		fmt.Fprintln(out, "database is up to date")
		return
	}
	for _, s := range stmts {
		fmt.Fprintf(out, "%s;\n", s)
	}
}
