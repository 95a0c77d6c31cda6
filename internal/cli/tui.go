package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cogbalance/pkg/cog"
	errs "github.com/matzehuels/cogbalance/pkg/errors"
)

// Editor styles
var (
	editorCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	editorInputStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(lipgloss.Color("24")).Padding(0, 1)
	editorCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	editorHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// Editable columns. Moment is derived and read-only.
const (
	colComponent = iota
	colWeight
	colArm
	numEditableCols
)

const incompleteHint = "Please add data to the table with valid weight and arm values."

// =============================================================================
// editorModel - Interactive row table
// =============================================================================

// editorSettings configures the editor.
type editorSettings struct {
	minWeight float64
	precision int
	unit      string

	// compute recomputes the result from the whole table.
	compute func(cog.RowSet) cog.Result
}

// editorModel is the bubbletea model for the row table editor. Every
// committed edit recomputes the result from the full table.
type editorModel struct {
	settings editorSettings
	rows     cog.RowSet
	result   cog.Result

	row, col int
	editing  bool
	input    string

	status    string
	statusErr bool
	dirty     bool
	quitting  bool
}

func newEditorModel(rs cog.RowSet, s editorSettings) editorModel {
	if s.compute == nil {
		s.compute = func(rs cog.RowSet) cog.Result { return cog.Compute(rs) }
	}
	m := editorModel{settings: s, rows: rs.Clone()}
	m.recompute()
	return m
}

func (m *editorModel) recompute() {
	m.result = m.settings.compute(m.rows)
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.editing {
		return m.updateEditing(key)
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		if m.row < len(m.rows)-1 {
			m.row++
		}
	case "left", "h", "shift+tab":
		if m.col > 0 {
			m.col--
		}
	case "right", "l", "tab":
		if m.col < numEditableCols-1 {
			m.col++
		}
	case "enter", "e":
		if len(m.rows) > 0 {
			m.editing = true
			m.input = m.cellText(m.row, m.col)
		}
	case "a", "o":
		m.rows = m.rows.Append(cog.Row{})
		m.row, m.col = len(m.rows)-1, colComponent
		m.editing, m.input = true, ""
		m.dirty = true
		m.recompute()
	case "d", "x", "delete":
		if len(m.rows) == 0 {
			return m, nil
		}
		rows, err := m.rows.Delete(m.row)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.rows = rows
		if m.row >= len(m.rows) && m.row > 0 {
			m.row--
		}
		m.dirty = true
		m.status, m.statusErr = "row deleted", false
		m.recompute()
	}
	return m, nil
}

func (m editorModel) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEsc:
		m.editing, m.input = false, ""
		m.status = ""
	case tea.KeyEnter, tea.KeyTab:
		if m.commit() && key.Type == tea.KeyTab && m.col < numEditableCols-1 {
			m.col++
			m.editing = true
			m.input = m.cellText(m.row, m.col)
		}
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(key.Runes)
	}
	return m, nil
}

// commit validates the input and writes it to the current cell. An invalid
// value leaves the table untouched and keeps the cell in edit mode.
func (m *editorModel) commit() bool {
	row := m.rows[m.row].Clone()
	text := strings.TrimSpace(m.input)

	switch m.col {
	case colComponent:
		row.Component = text
	case colWeight, colArm:
		v, err := parseCell(text)
		if err != nil {
			m.setError(err)
			return false
		}
		if m.col == colWeight {
			row.Weight = v
		} else {
			row.Arm = v
		}
	}
	if err := row.Validate(m.settings.minWeight); err != nil {
		m.setError(err)
		return false
	}
	next := m.rows.Clone()
	if err := next.Update(m.row, row); err != nil {
		m.setError(err)
		return false
	}
	if err := next.Validate(m.settings.minWeight); err != nil {
		m.setError(err)
		return false
	}
	m.rows = next

	m.editing, m.input = false, ""
	m.status, m.statusErr = "", false
	m.dirty = true
	m.recompute()
	return true
}

func (m *editorModel) setError(err error) {
	m.status, m.statusErr = errs.UserMessage(err), true
}

// parseCell reads a number cell; blank means missing.
func parseCell(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%q is not a number", s)
	}
	return &v, nil
}

// cellText is the editable text of a cell: full precision, blank when missing.
func (m editorModel) cellText(row, col int) string {
	r := m.rows[row]
	switch col {
	case colComponent:
		return r.Component
	case colWeight:
		return rawValue(r.Weight)
	default:
		return rawValue(r.Arm)
	}
}

func rawValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Center of Gravity Calculator"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(StyleDim.Render("  (no rows, press a to add one)"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTable())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.result.Complete == 0 {
		b.WriteString(StyleWarning.Render(incompleteHint))
		b.WriteString("\n")
	} else {
		b.WriteString(formatMetrics(m.result, m.settings.precision, m.settings.unit))
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(StyleError.Render(iconError + " " + m.status))
		} else {
			b.WriteString(StyleDim.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(editorHelpStyle.Render("enter save  tab save+next  esc cancel"))
	} else {
		b.WriteString(editorHelpStyle.Render("↑/↓/←/→ move  enter edit  a add  d delete  q quit"))
	}
	return b.String()
}

func (m editorModel) renderTable() string {
	precision := m.settings.precision
	data := make([][]string, len(m.rows))
	for i := range m.rows {
		rm := m.result.Rows[i]
		moment := "—"
		if rm.Included {
			moment = cog.FormatFixed(rm.Moment, precision)
		}
		data[i] = []string{
			m.rows[i].Component,
			optionalValue(m.rows[i].Weight, precision),
			optionalValue(m.rows[i].Arm, precision),
			moment,
		}
	}
	if m.editing {
		data[m.row][m.col] = m.input + "▏"
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Component", "Weight", "Arm", "Moment").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1: // header
				return headerStyle
			case row == m.row && col == m.col && m.editing:
				return editorInputStyle
			case row == m.row && col == m.col:
				return editorCursorStyle
			case row < len(m.result.Rows) && !m.result.Rows[row].Included:
				return editorCellStyle.Foreground(colorDim)
			}
			return editorCellStyle
		}).
		Render()
}

// Rows returns the edited table.
func (m editorModel) Rows() cog.RowSet {
	return m.rows.Clone()
}

// summary is printed after the editor exits.
func (m editorModel) summary() string {
	return fmt.Sprintf("%d rows, %d complete", len(m.rows), m.result.Complete)
}
