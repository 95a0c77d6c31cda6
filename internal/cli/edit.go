package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
	"github.com/matzehuels/cogbalance/pkg/pipeline"
	"github.com/matzehuels/cogbalance/pkg/rows"
)

// editCommand creates the interactive table editor command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		flags calcFlags
		save  string
	)

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a row table interactively",
		Long: `Open a table editor in the terminal. The totals, the center of gravity and
the repositioning hint are recomputed after every committed edit.

A missing file starts an empty table. Use --save to write the table on exit;
when a file argument is given it is the default save target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			if save == "" {
				save = input
			}
			return c.runEdit(cmd.Context(), input, save, c.pipelineOptions(cmd, flags))
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&save, "save", "s", "", "write the table here on exit (format from extension)")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, input, save string, popts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	var table cog.RowSet
	if input != "" {
		loaded, err := rows.Load(input, c.Config.Calc.MinWeight)
		switch {
		case errs.Is(err, errs.ErrCodeFileNotFound):
			logger.Infof("Starting a new table for %s", input)
		case err != nil:
			return err
		default:
			table = loaded
			logger.Debugf("Loaded %d rows from %s", len(table), input)
		}
	}

	runner := c.newRunner()
	model := newEditorModel(table, editorSettings{
		minWeight: c.Config.Calc.MinWeight,
		precision: popts.Precision,
		unit:      popts.Unit,
		compute: func(rs cog.RowSet) cog.Result {
			return runner.Compute(ctx, rs, popts)
		},
	})

	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("editor: %w", err)
	}
	m, ok := final.(editorModel)
	if !ok {
		return nil
	}

	printInfo("%s", m.summary())
	if m.result.Complete > 0 {
		printMetrics(m.result, popts.Precision, popts.Unit)
	}

	if save == "" || !m.dirty {
		if m.dirty {
			printNextStep("Keep your edits next time", "cogbalance edit --save table.csv")
		}
		return nil
	}
	if err := rows.Save(save, m.Rows()); err != nil {
		printError("could not save %s", save)
		return err
	}
	printSuccess("Saved %d rows", len(m.rows))
	printFile(save)
	return nil
}
