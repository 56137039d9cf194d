// Package tui provides interactive terminal UI components using BubbleTea.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ar90n/bookmarkdown-sub001/internal/merge"
	"github.com/ar90n/bookmarkdown-sub001/internal/model"
)

// PickerAction represents the action to perform after conflict resolution.
type PickerAction int

const (
	// PickerActionNone means no action was taken (user quit).
	PickerActionNone PickerAction = iota
	// PickerActionApply means the user chose resolutions and wants to apply.
	PickerActionApply
	// PickerActionCancel means the user cancelled.
	PickerActionCancel
)

// ConflictPickerResult contains the result of the conflict resolution
// interaction.
type ConflictPickerResult struct {
	Action      PickerAction
	Resolutions []merge.Resolution
}

// pickerPhase represents the current phase of conflict resolution.
type pickerPhase int

const (
	phaseList pickerPhase = iota
	phaseDetail
)

// pickerKeyMap defines the key bindings for conflict resolution.
type pickerKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Local    key.Binding
	Remote   key.Binding
	Pending  key.Binding
	Confirm  key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func defaultPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "view details"),
		),
		Local: key.NewBinding(
			key.WithKeys("l", "1"),
			key.WithHelp("l/1", "keep local"),
		),
		Remote: key.NewBinding(
			key.WithKeys("r", "2"),
			key.WithHelp("r/2", "take remote"),
		),
		Pending: key.NewBinding(
			key.WithKeys("p", "3"),
			key.WithHelp("p/3", "leave pending"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "apply resolutions"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "page down"),
		),
	}
}

// ConflictPickerModel is the BubbleTea model for conflict resolution.
type ConflictPickerModel struct {
	conflicts   []merge.Conflict
	choices     map[string]merge.Choice
	table       table.Model
	viewport    viewport.Model
	keys        pickerKeyMap
	result      ConflictPickerResult
	phase       pickerPhase
	cursor      int
	showHelp    bool
	confirmMode bool
	width       int
	height      int
	quitting    bool
	ready       bool
}

// Styles for the conflict resolution TUI.
var pickerStyles = struct {
	Title        lipgloss.Style
	Help         lipgloss.Style
	Status       lipgloss.Style
	Local        lipgloss.Style
	Remote       lipgloss.Style
	Context      lipgloss.Style
	Info         lipgloss.Style
	Resolved     lipgloss.Style
	Confirm      lipgloss.Style
	LocalLabel   lipgloss.Style
	RemoteLabel  lipgloss.Style
	SectionTitle lipgloss.Style
}{
	Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Status:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	Local:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Remote:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	Context:      lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	Info:         lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Italic(true),
	Resolved:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Confirm:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true).Padding(0, 1),
	LocalLabel:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	RemoteLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	SectionTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(1, 0),
}

var levelCaser = cases.Title(language.English)

// formatSideWithLineNumbers formats a node description with line numbers for
// display.
func formatSideWithLineNumbers(content string, style lipgloss.Style) string {
	lines := strings.Split(content, "\n")
	var b strings.Builder

	for i, line := range lines {
		lineNum := fmt.Sprintf("%4d │ ", i+1)
		b.WriteString(pickerStyles.Context.Render(lineNum))
		b.WriteString(style.Render(line))
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// NewConflictPickerModel creates a new conflict resolution model.
func NewConflictPickerModel(conflicts []merge.Conflict) ConflictPickerModel {
	choices := make(map[string]merge.Choice)

	// Build table columns
	columns := []table.Column{
		{Title: "Status", Width: 6},
		{Title: "Path", Width: 32},
		{Title: "Level", Width: 10},
		{Title: "Local", Width: 24},
		{Title: "Remote", Width: 24},
		{Title: "Choice", Width: 8},
	}

	// Build table rows
	rows := make([]table.Row, len(conflicts))
	for i, c := range conflicts {
		rows[i] = buildPickerRow(c, "")
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	// Style the table
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ConflictPickerModel{
		conflicts: conflicts,
		choices:   choices,
		table:     t,
		keys:      defaultPickerKeyMap(),
		phase:     phaseList,
	}
}

func buildPickerRow(c merge.Conflict, choice string) table.Row {
	status := "○"
	if choice != "" {
		status = "✓"
	}

	choiceStr := "-"
	if choice != "" {
		choiceStr = choice
	}

	return table.Row{
		status,
		truncateText(c.Path(), 32),
		levelCaser.String(string(c.Type)),
		string(c.LocalModified),
		string(c.RemoteModified),
		choiceStr,
	}
}

// Init implements tea.Model.
func (m ConflictPickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConflictPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseList:
		return m.updateList(msg)
	case phaseDetail:
		return m.updateDetail(msg)
	}
	return m, nil
}

func (m ConflictPickerModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		newHeight := max(msg.Height-10, 5)
		m.table.SetHeight(newHeight)

	case tea.KeyMsg:
		// Handle confirmation mode first
		if m.confirmMode {
			switch msg.String() {
			case "y", "Y":
				m.result = ConflictPickerResult{
					Action:      PickerActionApply,
					Resolutions: m.buildResolutions(),
				}
				m.quitting = true
				return m, tea.Quit
			case "n", "N", "esc":
				m.confirmMode = false
				return m, nil
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Select):
			if len(m.conflicts) > 0 {
				m.cursor = m.table.Cursor()
				m.phase = phaseDetail
				m.ready = false
				return m, nil
			}

		case key.Matches(msg, m.keys.Local):
			if len(m.conflicts) > 0 {
				m.chooseCurrent(merge.ChoiceLocal)
				return m, nil
			}

		case key.Matches(msg, m.keys.Remote):
			if len(m.conflicts) > 0 {
				m.chooseCurrent(merge.ChoiceRemote)
				return m, nil
			}

		case key.Matches(msg, m.keys.Pending):
			if len(m.conflicts) > 0 {
				m.chooseCurrent(merge.ChoicePending)
				return m, nil
			}

		case key.Matches(msg, m.keys.Confirm):
			if m.allChosen() {
				m.confirmMode = true
				return m, nil
			}

		case key.Matches(msg, m.keys.Back):
			m.result = ConflictPickerResult{Action: PickerActionCancel}
			m.quitting = true
			return m, tea.Quit
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ConflictPickerModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 6
		footerHeight := 4
		viewportHeight := max(msg.Height-headerHeight-footerHeight, 5)

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.SetContent(m.buildDetailContent())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.phase = phaseList
			return m, nil

		case key.Matches(msg, m.keys.Local):
			m.chooseAt(m.cursor, merge.ChoiceLocal)
			m.viewport.SetContent(m.buildDetailContent())
			return m, nil

		case key.Matches(msg, m.keys.Remote):
			m.chooseAt(m.cursor, merge.ChoiceRemote)
			m.viewport.SetContent(m.buildDetailContent())
			return m, nil

		case key.Matches(msg, m.keys.Pending):
			m.chooseAt(m.cursor, merge.ChoicePending)
			m.viewport.SetContent(m.buildDetailContent())
			return m, nil
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ConflictPickerModel) chooseCurrent(choice merge.Choice) {
	cursor := m.table.Cursor()
	m.chooseAt(cursor, choice)
}

func (m *ConflictPickerModel) chooseAt(idx int, choice merge.Choice) {
	if idx < 0 || idx >= len(m.conflicts) {
		return
	}

	c := m.conflicts[idx]
	m.choices[c.Path()] = choice

	// Update the table row
	m.updateTableRow(idx)
}

func (m *ConflictPickerModel) updateTableRow(idx int) {
	if idx < 0 || idx >= len(m.conflicts) {
		return
	}

	c := m.conflicts[idx]
	choice := ""
	if ch, ok := m.choices[c.Path()]; ok {
		choice = string(ch)
	}

	rows := m.table.Rows()
	if idx < len(rows) {
		rows[idx] = buildPickerRow(c, choice)
		m.table.SetRows(rows)
	}
}

func (m ConflictPickerModel) allChosen() bool {
	for _, c := range m.conflicts {
		if _, ok := m.choices[c.Path()]; !ok {
			return false
		}
	}
	return len(m.conflicts) > 0
}

func (m ConflictPickerModel) buildResolutions() []merge.Resolution {
	var result []merge.Resolution
	for _, c := range m.conflicts {
		if choice, ok := m.choices[c.Path()]; ok {
			result = append(result, c.ResolutionFor(choice))
		}
	}
	return result
}

func (m ConflictPickerModel) buildDetailContent() string {
	if m.cursor < 0 || m.cursor >= len(m.conflicts) {
		return "No conflict selected"
	}

	c := m.conflicts[m.cursor]
	var b strings.Builder

	// Conflict summary
	b.WriteString(pickerStyles.SectionTitle.Render("Conflict Details"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Path:  %s\n", c.Path()))
	b.WriteString(fmt.Sprintf("  Level: %s\n", levelCaser.String(string(c.Type))))
	b.WriteString(fmt.Sprintf("  %s\n", c.Summary()))

	// Current choice
	if choice, ok := m.choices[c.Path()]; ok {
		b.WriteString("\n")
		b.WriteString(pickerStyles.Resolved.Render(fmt.Sprintf("  Choice: %s", choice)))
		b.WriteString("\n")
	}

	width := max(m.width-6, 40)

	b.WriteString("\n")
	b.WriteString(pickerStyles.SectionTitle.Render("Local Version"))
	b.WriteString("\n")
	b.WriteString(formatSideWithLineNumbers(describeConflictSide(c, true, width), pickerStyles.Local))
	b.WriteString("\n\n")

	b.WriteString(pickerStyles.SectionTitle.Render("Remote Version"))
	b.WriteString("\n")
	b.WriteString(formatSideWithLineNumbers(describeConflictSide(c, false, width), pickerStyles.Remote))

	// Choice options reminder
	b.WriteString("\n\n")
	b.WriteString(pickerStyles.Info.Render("Press: l=local, r=remote, p=pending"))

	return b.String()
}

// describeConflictSide renders the node carried by one side of a conflict.
func describeConflictSide(c merge.Conflict, local bool, width int) string {
	switch c.Type {
	case merge.ConflictBookmark:
		bm := c.RemoteBookmark
		if local {
			bm = c.LocalBookmark
		}
		return describeBookmark(bm, width)
	case merge.ConflictBundle:
		bd := c.RemoteBundle
		if local {
			bd = c.LocalBundle
		}
		return describeBundle(bd)
	default:
		cat := c.RemoteCategory
		if local {
			cat = c.LocalCategory
		}
		return describeCategory(cat)
	}
}

func describeBookmark(bm *model.Bookmark, width int) string {
	if bm == nil {
		return "(absent)"
	}

	var b strings.Builder
	b.WriteString("Title:    " + bm.Title)
	b.WriteString("\nURL:      " + bm.URL)
	if len(bm.Tags) > 0 {
		b.WriteString("\nTags:     " + strings.Join(bm.Tags, ", "))
	}
	if bm.Notes != "" {
		b.WriteString("\n")
		b.WriteString(formatDetail("Notes:    ", bm.Notes, width))
	}
	b.WriteString("\nModified: " + string(bm.Metadata.LastModified))
	if bm.Metadata.IsDeleted {
		b.WriteString("\nDeleted:  yes")
	}
	return b.String()
}

func describeBundle(bd *model.Bundle) string {
	if bd == nil {
		return "(absent)"
	}

	var b strings.Builder
	b.WriteString("Name:      " + bd.Name)
	b.WriteString(fmt.Sprintf("\nBookmarks: %d", len(bd.Bookmarks)))
	b.WriteString("\nModified:  " + string(bd.Metadata.LastModified))
	if bd.Metadata.IsDeleted {
		b.WriteString("\nDeleted:   yes")
	}
	return b.String()
}

func describeCategory(cat *model.Category) string {
	if cat == nil {
		return "(absent)"
	}

	var b strings.Builder
	b.WriteString("Name:     " + cat.Name)
	b.WriteString(fmt.Sprintf("\nBundles:  %d", len(cat.Bundles)))
	b.WriteString("\nModified: " + string(cat.Metadata.LastModified))
	if cat.Metadata.IsDeleted {
		b.WriteString("\nDeleted:  yes")
	}
	return b.String()
}

// View implements tea.Model.
func (m ConflictPickerModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseDetail:
		return m.viewDetail()
	default:
		return m.viewList()
	}
}

func (m ConflictPickerModel) viewList() string {
	var b strings.Builder

	// Title
	title := pickerStyles.Title.Render("⚠️  Resolve Conflicts")
	b.WriteString(title)
	b.WriteString("\n\n")

	// Info message
	info := pickerStyles.Info.Render("Select a choice for each conflict before applying")
	b.WriteString(info)
	b.WriteString("\n\n")

	// Confirmation dialog
	if m.confirmMode {
		b.WriteString(m.table.View())
		b.WriteString("\n\n")
		confirmMsg := fmt.Sprintf("Apply %d resolution(s)? (y/n)", len(m.choices))
		b.WriteString(pickerStyles.Confirm.Render(confirmMsg))
		return b.String()
	}

	// Table
	b.WriteString(m.table.View())
	b.WriteString("\n")

	// Status bar
	chosen := len(m.choices)
	total := len(m.conflicts)
	status := fmt.Sprintf("%d/%d chosen", chosen, total)
	if chosen == total && total > 0 {
		status += " • Press y to apply"
	}
	b.WriteString(pickerStyles.Status.Render(status))
	b.WriteString("\n")

	// Help
	if m.showHelp {
		help := m.renderFullHelp()
		b.WriteString("\n")
		b.WriteString(help)
	} else {
		help := m.renderShortHelp()
		b.WriteString(help)
	}

	return b.String()
}

func (m ConflictPickerModel) viewDetail() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	// Title
	path := ""
	if m.cursor >= 0 && m.cursor < len(m.conflicts) {
		path = m.conflicts[m.cursor].Path()
	}
	title := pickerStyles.Title.Render(fmt.Sprintf("📄 Conflict: %s", path))
	b.WriteString(title)
	b.WriteString("\n\n")

	// Viewport
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Status bar
	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	status := fmt.Sprintf("Scroll: %d%%", scrollPercent)
	b.WriteString(pickerStyles.Status.Render(status))
	b.WriteString("\n")

	// Help
	if m.showHelp {
		help := m.renderDetailHelp()
		b.WriteString("\n")
		b.WriteString(help)
	} else {
		help := m.renderDetailShortHelp()
		b.WriteString(help)
	}

	return b.String()
}

func (m ConflictPickerModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter details",
		"l local",
		"r remote",
		"p pending",
		"? help",
		"q quit",
	}
	return pickerStyles.Help.Render(strings.Join(keys, " • "))
}

func (m ConflictPickerModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down
  Enter    View conflict details

Choice:
  l/1      Keep the local version
  r/2      Take the remote version
  p/3      Leave unresolved for a later pass

Actions:
  y        Apply all resolutions
  b/Esc    Cancel and go back

General:
  ?        Toggle full help
  q        Quit`
	return pickerStyles.Help.Render(help)
}

func (m ConflictPickerModel) renderDetailShortHelp() string {
	keys := []string{
		"↑/↓ scroll",
		"l local",
		"r remote",
		"p pending",
		"b back",
		"? help",
	}
	return pickerStyles.Help.Render(strings.Join(keys, " • "))
}

func (m ConflictPickerModel) renderDetailHelp() string {
	help := `Navigation:
  ↑/k      Scroll up
  ↓/j      Scroll down
  PgUp     Page up
  PgDown   Page down

Choice:
  l/1      Keep the local version
  r/2      Take the remote version
  p/3      Leave unresolved for a later pass

Actions:
  b/Esc    Go back to list

General:
  ?        Toggle full help
  q        Quit`
	return pickerStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m ConflictPickerModel) Result() ConflictPickerResult {
	return m.result
}

// RunConflictPicker runs the interactive conflict resolution and returns the
// result.
func RunConflictPicker(conflicts []merge.Conflict) (ConflictPickerResult, error) {
	if len(conflicts) == 0 {
		return ConflictPickerResult{}, nil
	}

	mdl := NewConflictPickerModel(conflicts)
	finalModel, err := tea.NewProgram(mdl, tea.WithAltScreen()).Run()
	if err != nil {
		return ConflictPickerResult{}, err
	}

	if m, ok := finalModel.(ConflictPickerModel); ok {
		return m.Result(), nil
	}

	return ConflictPickerResult{}, nil
}
