// Package cli implements the cogbalance command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cogbalance/pkg/buildinfo"
	"github.com/matzehuels/cogbalance/pkg/cog"
	"github.com/matzehuels/cogbalance/pkg/config"
	"github.com/matzehuels/cogbalance/pkg/observability"
	"github.com/matzehuels/cogbalance/pkg/pipeline"
	"github.com/matzehuels/cogbalance/pkg/rows"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cogbalance"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cogbalance finds the center of gravity of a weighted assembly",
		Long: `cogbalance sums the moments of weighted components along a single axis,
reports the center of gravity and tells you how far, and which way, to move a
payload to bring the assembly back into balance.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cogbalance/config.toml)")

	// Register all subcommands
	root.AddCommand(c.computeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	path := config.ResolvePath(c.configPath)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	registerLogHooks(c.Logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// registerLogHooks routes calculator, render, session and HTTP events to
// the debug log.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetCalcHooks(h)
	observability.SetRenderHooks(h)
	observability.SetSessionHooks(h)
	observability.SetHTTPHooks(h)
}

// =============================================================================
// Options Helpers
// =============================================================================

// calcFlags are the calculator and display flags shared by compute, render
// and edit. Unset flags fall back to the configuration.
type calcFlags struct {
	scale        float64
	cameraFactor float64
	precision    int
	unit         string
}

func (f *calcFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "multiplier applied to the center of gravity (default from config)")
	cmd.Flags().Float64Var(&f.cameraFactor, "camera-factor", 0, "camera distance factor (default from config)")
	cmd.Flags().IntVar(&f.precision, "precision", 0, "decimals in displayed values (default from config)")
	cmd.Flags().StringVar(&f.unit, "unit", "", "unit label for distances (default from config)")
}

// pipelineOptions merges the flags over the configuration.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f calcFlags) pipeline.Options {
	cfg := c.Config
	geometry := cfg.Overlay
	opts := pipeline.Options{
		Scale:        cfg.Calc.Scale,
		CameraFactor: cfg.Calc.CameraFactor,
		Precision:    cfg.Display.Precision,
		Unit:         cfg.Display.Unit,
		Geometry:     &geometry,
	}
	if cmd.Flags().Changed("scale") {
		opts.Scale = f.scale
	}
	if cmd.Flags().Changed("camera-factor") {
		opts.CameraFactor = f.cameraFactor
	}
	if cmd.Flags().Changed("precision") {
		opts.Precision = f.precision
	}
	if cmd.Flags().Changed("unit") {
		opts.Unit = f.unit
	}
	if opts.Precision <= 0 {
		opts.Precision = cog.DefaultPrecision
	}
	return opts
}

// collectRows loads rows from files, then appends rows given as
// component:weight:arm flags. Every row is validated.
func (c *CLI) collectRows(files, rowFlags []string) (cog.RowSet, error) {
	minWeight := c.Config.Calc.MinWeight
	rs, err := rows.LoadAll(files, minWeight)
	if err != nil {
		return nil, err
	}
	for _, s := range rowFlags {
		row, err := rows.ParseRowFlag(s)
		if err != nil {
			return nil, err
		}
		if err := row.Validate(minWeight); err != nil {
			return nil, err
		}
		rs = append(rs, row)
	}
	if err := rs.Validate(minWeight); err != nil {
		return nil, err
	}
	return rs, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
