package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/compiler/relation"
)

func (a *app) newSnapshotCommand() *cobra.Command {
	var (
		out     string
		against string
	)
	cmd := &cobra.Command{
		Use:   "snapshot [model]",
		Short: "Print the tables inferred from the model",
		Long: `Print the tables, columns and foreign keys inferred from the model.

With --out the snapshot is also written in the format of the snapshot
feature. With --against the changes since a previous snapshot are printed
instead of the tables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, "mixins"); err != nil {
				return err
			}
			g, err := a.graph(args)
			if err != nil {
				return err
			}
			snap, err := relation.TakeSnapshot(g.Relations)
			if err != nil {
				return err
			}
			if out != "" {
				b, err := snap.Encode()
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, b, 0o644); err != nil {
					return fmt.Errorf("write snapshot: %w", err)
				}
			}
			if against != "" {
				prev, err := gen.ReadSnapshot(against)
				if err != nil {
					return fmt.Errorf("read snapshot: %w", err)
				}
				printChanges(cmd.OutOrStdout(), snap.Diff(prev))
				return nil
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the snapshot to this file")
	cmd.Flags().StringVar(&against, "against", "", "print the changes since this snapshot")
	cmd.Flags().StringSlice("mixins", nil, "mixins added to every entity")
	return cmd
}

func printSnapshot(out io.Writer, s *relation.Snapshot) {
	title := color.New(color.FgCyan, color.Bold)
	for _, t := range s.Tables {
		title.Fprint(out, t.Name)
		if t.Entity != "" {
			fmt.Fprintf(out, " (%s)", t.Entity)
		}
		fmt.Fprintln(out)
		for _, c := range t.Columns {
			var attrs []string
			if c.Primary {
				attrs = append(attrs, "primary")
			}
			if c.Nullable {
				attrs = append(attrs, "null")
			}
			if c.Unique {
				attrs = append(attrs, "unique")
			}
			fmt.Fprintf(out, "  %-24s %-16s %s\n", c.Name, c.Type, strings.Join(attrs, " "))
		}
		for _, fk := range t.ForeignKeys {
			fmt.Fprintf(out, "  %s: %s -> %s.%s\n", fk.Name, fk.Column, fk.RefTable, fk.RefColumn)
		}
	}
}

func printChanges(out io.Writer, changes []relation.Change) {
	if len(changes) == 0 {
		color.New(color.FgGreen, color.Bold).Fprint(out, "✓ ")
		fmt.Fprintln(out, "no changes")
		return
	}
	for _, c := range changes {
		fmt.Fprintln(out, c.String())
	}
}
