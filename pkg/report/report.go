// Package report formats a computation result as a Markdown or HTML document.
package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/matzehuels/cogbalance/pkg/cog"
)

// DefaultTitle heads reports that do not set one.
const DefaultTitle = "Center of Gravity Calculator"

// Options configures report output.
type Options struct {
	Title     string
	Precision int
	Unit      string
	// Table adds the data table with one line per row, including skipped ones.
	Table bool
}

func (o Options) title() string {
	if o.Title == "" {
		return DefaultTitle
	}
	return o.Title
}

// Markdown renders res as a GitHub-flavored Markdown document.
func Markdown(res cog.Result, opts Options) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", opts.title())

	buf.WriteString("| Metric | Value |\n")
	buf.WriteString("| --- | ---: |\n")
	for _, m := range res.Metrics(opts.Precision) {
		v := m.Value
		if opts.Unit != "" && m.Key != "total_weight" && m.Key != "total_moment" {
			v = withUnit(m, opts.Unit)
		}
		fmt.Fprintf(&buf, "| %s | %s |\n", cell(m.Label), cell(v))
	}

	fmt.Fprintf(&buf, "\n**%s**\n", cell(res.Instruction(opts.Precision)))

	if res.Complete == 0 {
		buf.WriteString("\n> Please add data to the table with valid weight and arm values.\n")
	}

	if opts.Table {
		buf.WriteString("\n## Data Table and Calculations\n\n")
		buf.WriteString("| Component | Weight | Arm | Moment |\n")
		buf.WriteString("| --- | ---: | ---: | ---: |\n")
		for _, rm := range res.Rows {
			moment := ""
			if rm.Included {
				moment = cog.FormatFixed(rm.Moment, opts.Precision)
			}
			fmt.Fprintf(&buf, "| %s | %s | %s | %s |\n",
				cell(rm.Component), optional(rm.Weight, opts.Precision), optional(rm.Arm, opts.Precision), moment)
		}
		if res.Skipped > 0 {
			fmt.Fprintf(&buf, "\n_%d incomplete row(s) excluded._\n", res.Skipped)
		}
	}
	return buf.Bytes()
}

// HTML renders the Markdown report to a standalone HTML page.
func HTML(res cog.Result, opts Options) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert(Markdown(res, opts), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(opts.title()))
	buf.WriteString("<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25rem .5rem}</style>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func withUnit(m cog.Metric, unit string) string {
	num, dir, ok := strings.Cut(m.Value, " ")
	if !ok {
		return m.Value + " " + unit
	}
	return num + " " + unit + " " + dir
}

func optional(v *float64, precision int) string {
	if v == nil {
		return ""
	}
	return cog.FormatFixed(*v, precision)
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func cell(s string) string { return cellEscaper.Replace(s) }
