package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
	"github.com/matzehuels/cogbalance/pkg/pipeline"
	"github.com/matzehuels/cogbalance/pkg/report"
	"github.com/matzehuels/cogbalance/pkg/server"
)

// Output formats of the compute command.
const (
	outputText     = "text"
	outputJSON     = "json"
	outputMarkdown = "md"
	outputHTML     = "html"
)

// computeOpts holds the command-line flags for the compute command.
type computeOpts struct {
	calcFlags
	rows   []string // component:weight:arm rows
	table  bool     // print the data table with per-row moments
	format string   // text, json, md or html
	title  string   // report title
}

// computeCommand creates the compute command.
func (c *CLI) computeCommand() *cobra.Command {
	opts := computeOpts{format: outputText}

	cmd := &cobra.Command{
		Use:   "compute [files...]",
		Short: "Compute the center of gravity of a row table",
		Long: `Compute the total weight, total moment and center of gravity of a table of
weighted components, and print how far to move the payload to balance it.

Rows come from CSV, JSON, YAML, TOML or HJSON files and from --row flags, in
that order. A row with a missing weight or arm is shown but not summed.`,
		Example: `  cogbalance compute rig.csv
  cogbalance compute --row Drone:26:0.09 --row Camera:5:1.5 --table
  cogbalance compute rig.yaml --format md > report.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := c.collectRows(args, opts.rows)
			if err != nil {
				return err
			}
			return c.runCompute(cmd.Context(), table, c.pipelineOptions(cmd, opts.calcFlags), opts)
		},
	}

	opts.calcFlags.register(cmd)
	cmd.Flags().StringArrayVarP(&opts.rows, "row", "r", nil, "row as component:weight:arm (repeatable)")
	cmd.Flags().BoolVar(&opts.table, "table", false, "include the data table")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json, md, html")
	cmd.Flags().StringVar(&opts.title, "title", "", "report title (md, html)")

	return cmd
}

func (c *CLI) runCompute(ctx context.Context, table cog.RowSet, popts pipeline.Options, opts computeOpts) error {
	logger := loggerFromContext(ctx)
	runner := c.newRunner()

	switch opts.format {
	case outputText:
		res, err := runner.Calculate(ctx, table, popts)
		if errs.Is(err, errs.ErrCodeIncompleteInput) {
			printWarning("%s", errs.UserMessage(err))
			printDetail("add rows with --row component:weight:arm or pass a table file")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Debugf("Computed %d rows (%d complete)", len(table), res.Complete)
		if opts.table {
			fmt.Fprintln(stdout, rowTable(res, popts.Precision, -1).Render())
			printStats(res)
			printNewline()
		}
		printMetrics(res, popts.Precision, popts.Unit)
		return nil

	case outputJSON:
		res, err := runner.Calculate(ctx, table, popts)
		data, err := json.MarshalIndent(server.NewOutcome(res, err, popts.Precision), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil

	case outputMarkdown, outputHTML:
		res := runner.Compute(ctx, table, popts)
		if err := res.Validate(); err != nil {
			return err
		}
		ropts := report.Options{
			Title:     opts.title,
			Precision: popts.Precision,
			Unit:      popts.Unit,
			Table:     opts.table,
		}
		if opts.format == outputMarkdown {
			stdout.Write(report.Markdown(res, ropts))
			return nil
		}
		page, err := report.HTML(res, ropts)
		if err != nil {
			return err
		}
		stdout.Write(page)
		return nil

	default:
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %s (must be text, json, md or html)", opts.format)
	}
}
