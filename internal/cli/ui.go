package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cogbalance/pkg/cog"
)

// stdout receives all styled command output.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleError for rejected input.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleLeft    = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	styleRight   = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	styleNeutral = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(20)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Result Display
// =============================================================================

// directionStyle colors a direction label.
func directionStyle(d cog.Direction) lipgloss.Style {
	switch d {
	case cog.Left:
		return styleLeft
	case cog.Right:
		return styleRight
	default:
		return styleNeutral
	}
}

// withUnit appends unit to distance metrics. Totals are unitless here.
func withUnit(m cog.Metric, unit string) string {
	if unit == "" || m.Key == "total_weight" || m.Key == "total_moment" {
		return m.Value
	}
	if m.Key == "signed_offset" {
		// "0.32 right" -> "0.32 mm right"
		if v, dir, ok := strings.Cut(m.Value, " "); ok {
			return v + " " + unit + " " + dir
		}
	}
	return m.Value + " " + unit
}

// formatMetrics renders the metric block and the repositioning hint.
func formatMetrics(res cog.Result, precision int, unit string) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(20)
	var b strings.Builder
	for _, m := range res.Metrics(precision) {
		b.WriteString(keyStyle.Render(m.Label) + " " + StyleValue.Render(withUnit(m, unit)) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(directionStyle(res.Direction).Render(res.Instruction(precision)) + "\n")
	if res.Skipped > 0 {
		b.WriteString("  " + StyleDim.Render(fmt.Sprintf("%d incomplete row(s) excluded", res.Skipped)) + "\n")
	}
	return b.String()
}

// printMetrics prints the metric block and the repositioning hint.
func printMetrics(res cog.Result, precision int, unit string) {
	fmt.Fprint(stdout, formatMetrics(res, precision, unit))
}

// printStats prints row counts on a single line.
func printStats(res cog.Result) {
	parts := []string{
		fmt.Sprintf("%d rows", len(res.Rows)),
		fmt.Sprintf("%d complete", res.Complete),
	}
	if res.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", res.Skipped))
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(stdout, line)
}

// rowTable renders the data table with per-row moments. The row at
// highlight (if >= 0) is drawn in the accent color.
func rowTable(res cog.Result, precision, highlight int) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	data := make([][]string, 0, len(res.Rows))
	for _, rm := range res.Rows {
		moment := "—"
		if rm.Included {
			moment = cog.FormatFixed(rm.Moment, precision)
		}
		data = append(data, []string{
			rm.Component,
			optionalValue(rm.Weight, precision),
			optionalValue(rm.Arm, precision),
			moment,
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Component", "Weight", "Arm", "Moment").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return headerStyle
			case row == highlight:
				return cellStyle.Foreground(colorCyan).Bold(true)
			case row < len(res.Rows) && !res.Rows[row].Included:
				return cellStyle.Foreground(colorDim)
			}
			if col > 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
}

// optionalValue formats a possibly missing number.
func optionalValue(v *float64, precision int) string {
	if v == nil {
		return "—"
	}
	return cog.FormatFixed(*v, precision)
}
