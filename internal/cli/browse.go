package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jonasreimer/schemascope/pkg/schema"
)

// listDimStyle renders muted list chrome (hints, counters).
var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// browseCommand creates the browse command for exploring a schema in the terminal.
func (c *CLI) browseCommand() *cobra.Command {
	var src sourceOpts

	cmd := &cobra.Command{
		Use:   "browse [source]",
		Short: "Explore apps and models in an interactive TUI",
		Long: `Explore apps and models in an interactive TUI.

The browse command fetches the schema and opens a scrollable model
list. Selecting a model shows its fields and relationships.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], src)
		},
	}

	src.register(cmd)

	return cmd
}

// runBrowse fetches the schema and runs the browse TUI.
func (c *CLI) runBrowse(ctx context.Context, source string, src sourceOpts) error {
	runner, err := c.newRunner(src.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := src.pipelineOptions(source)
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Fetching schema...")
	spinner.Start()

	s, err := runner.Fetch(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return fmt.Errorf("fetch schema: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	m := NewBrowseModel(s)
	if len(m.Entries) == 0 {
		printWarning("Schema contains no models")
		return nil
	}

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// modelEntry is one row of the browse list.
type modelEntry struct {
	App   string
	Name  string
	Model schema.Model
}

// BrowseModel is the bubbletea model for schema exploration. The zero
// Detail means the model list is shown; a non-nil Detail shows a single
// model's fields and relationships.
type BrowseModel struct {
	Entries []modelEntry
	Cursor  int
	Height  int
	Offset  int
	Detail  *modelEntry
}

// NewBrowseModel builds the browse model from a schema. Entries are
// sorted by app label, then model name.
func NewBrowseModel(s *schema.Schema) BrowseModel {
	var entries []modelEntry
	for _, app := range s.AppLabels() {
		a := s.Apps[app]
		for _, name := range a.ModelNames() {
			entries = append(entries, modelEntry{App: app, Name: name, Model: a.Models[name]})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].App != entries[j].App {
			return entries[i].App < entries[j].App
		}
		return entries[i].Name < entries[j].Name
	})
	return BrowseModel{
		Entries: entries,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail != nil {
				m.Detail = nil
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Detail == nil && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Detail == nil && m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.Detail == nil && len(m.Entries) > 0 {
				entry := m.Entries[m.Cursor]
				m.Detail = &entry
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BrowseModel) View() string {
	if m.Detail != nil {
		return m.detailView()
	}
	return m.listView()
}

// listView renders the scrollable model list.
func (m BrowseModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Schema Models"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Entries) {
		end = len(m.Entries)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			e.App,
			e.Name,
			fmt.Sprintf("%d", len(e.Model.Fields)),
			fmt.Sprintf("%d", len(e.Model.Relationships)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "App", "Model", "Fields", "Relations").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))

	return b.String()
}

// detailView renders one model's fields and relationships.
func (m BrowseModel) detailView() string {
	e := m.Detail
	var b strings.Builder

	b.WriteString(StyleTitle.Render(e.App + "." + e.Name))
	if e.Model.DBTable != "" {
		b.WriteString(listDimStyle.Render("  " + e.Model.DBTable))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	borderStyle := lipgloss.NewStyle().Foreground(colorDim)

	fieldRows := [][]string{}
	for _, f := range e.Model.Fields {
		fieldRows = append(fieldRows, []string{f.Name, f.Type, fieldFlags(f)})
	}

	fields := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("Field", "Type", "Flags").
		Rows(fieldRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	b.WriteString(fields.Render())
	b.WriteString("\n")

	if len(e.Model.Relationships) > 0 {
		relRows := [][]string{}
		for _, r := range e.Model.Relationships {
			relRows = append(relRows, []string{
				r.Name,
				r.Type,
				r.TargetApp + "." + r.TargetModel,
				r.Direction,
			})
		}

		rels := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			Headers("Relation", "Type", "Target", "Direction").
			Rows(relRows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == -1 {
					return headerStyle
				}
				if col == 3 {
					return lipgloss.NewStyle().Foreground(colorDim)
				}
				return lipgloss.NewStyle().Foreground(colorWhite)
			})
		b.WriteString(rels.Render())
		b.WriteString("\n")
	}

	return b.String()
}

// fieldFlags summarizes a field's attributes in a short string.
func fieldFlags(f schema.Field) string {
	var flags []string
	if f.PrimaryKey {
		flags = append(flags, "pk")
	}
	if f.Unique {
		flags = append(flags, "unique")
	}
	if f.Null {
		flags = append(flags, "null")
	}
	if f.DBIndex {
		flags = append(flags, "indexed")
	}
	return strings.Join(flags, " ")
}
