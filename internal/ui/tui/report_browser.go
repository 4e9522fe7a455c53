package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/klauern/skilllint/internal/export"
	"github.com/klauern/skilllint/internal/model"
	"github.com/klauern/skilllint/internal/rules"
)

// BrowseAction represents what the user chose before leaving the browser.
type BrowseAction int

const (
	// BrowseActionNone means the user quit without selecting anything.
	BrowseActionNone BrowseAction = iota
	// BrowseActionOpen means the user wants the selected SKILL.md path.
	BrowseActionOpen
	// BrowseActionRescan means the user asked for a fresh scan.
	BrowseActionRescan
)

// BrowseEntry is one row of the browser: a skill and the plugin it belongs to.
type BrowseEntry struct {
	Plugin model.PluginReport
	Skill  model.SkillReport
}

// SkillFilePath returns the path of the entry's SKILL.md.
func (e BrowseEntry) SkillFilePath() string {
	return filepath.Join(e.Skill.Path, rules.SkillFile)
}

func (e BrowseEntry) state() string {
	switch {
	case !e.Skill.Found:
		return "missing"
	case !e.Skill.Valid:
		return "invalid"
	case len(e.Skill.Issues) > 0:
		return "advisory"
	default:
		return "valid"
	}
}

// BrowseResult contains the result of the browser interaction.
type BrowseResult struct {
	Action BrowseAction
	Entry  BrowseEntry
}

type browseKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Detail     key.Binding
	Open       key.Binding
	Rescan     key.Binding
	IssuesOnly key.Binding
	Filter     key.Binding
	ClearFlt   key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter/v", "findings"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "print path"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		IssuesOnly: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "issues only"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		ClearFlt: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "esc"),
			key.WithHelp("b/esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var browseStyles = struct {
	Title       lipgloss.Style
	Help        lipgloss.Style
	Filter      lipgloss.Style
	FilterInput lipgloss.Style
	Status      lipgloss.Style
	DetailBox   lipgloss.Style
	DetailTitle lipgloss.Style
}{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	FilterInput: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1),
	DetailBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	DetailTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
}

type browsePhase int

const (
	browsePhaseList browsePhase = iota
	browsePhaseDetail
)

const (
	browsePluginWidth   = 22
	browseSkillWidth    = 25
	browseStateWidth    = 9
	browseLinesWidth    = 6
	browseIssuesWidth   = 30
	browseColumnPadding = 2
	browseColumnCount   = 5
	browsePreviewLines  = 3
	browsePreviewGap    = 1
	browsePreviewHeight = browsePreviewLines + 1 + 2 // title + content + border
)

type browseColumnWidths struct {
	plugin int
	skill  int
	state  int
	lines  int
	issues int
}

func (w browseColumnWidths) total() int {
	return w.plugin + w.skill + w.state + w.lines + w.issues + browseColumnPadding*browseColumnCount
}

// ReportBrowserModel is the BubbleTea model for browsing a lint report.
type ReportBrowserModel struct {
	table        table.Model
	report       export.Report
	entries      []BrowseEntry
	filtered     []BrowseEntry
	keys         browseKeyMap
	result       BrowseResult
	filter       string
	filtering    bool
	issuesOnly   bool
	showHelp     bool
	width        int
	height       int
	columnWidths browseColumnWidths
	phase        browsePhase
	detail       BrowseEntry
	viewport     viewport.Model
	ready        bool
	quitting     bool
}

// Entries flattens a report into browser rows, ordered by plugin then skill.
// Plugins without skills contribute no rows.
func Entries(r export.Report) []BrowseEntry {
	var entries []BrowseEntry
	for _, name := range r.PluginNames() {
		p := r.Plugins[name]
		for _, s := range p.Skills {
			entries = append(entries, BrowseEntry{Plugin: p, Skill: s})
		}
	}
	return entries
}

// NewReportBrowserModel creates a browser over the given report.
func NewReportBrowserModel(r export.Report) ReportBrowserModel {
	entries := Entries(r)
	columns, widths := browseColumns(0, entries)

	m := ReportBrowserModel{
		report:       r,
		entries:      entries,
		filtered:     entries,
		keys:         defaultBrowseKeyMap(),
		columnWidths: widths,
		phase:        browsePhaseList,
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.entriesToRows(entries)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

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

	m.table = t
	return m
}

func browseColumns(totalWidth int, entries []BrowseEntry) ([]table.Column, browseColumnWidths) {
	widths := browseColumnWidths{
		plugin: browsePluginWidth,
		skill:  browseSkillWidth,
		state:  browseStateWidth,
		lines:  browseLinesWidth,
		issues: browseIssuesWidth,
	}

	if totalWidth > 0 {
		extra := totalWidth - widths.total()
		if extra > 0 {
			maxPlugin := widths.plugin
			for _, e := range entries {
				maxPlugin = max(maxPlugin, runewidth.StringWidth(e.Plugin.Name))
			}
			if needed := maxPlugin - widths.plugin; needed > 0 {
				pluginExtra := min(needed, extra)
				widths.plugin += pluginExtra
				extra -= pluginExtra
			}

			skillExtra := extra / 3
			widths.skill += skillExtra
			widths.issues += extra - skillExtra
		}
	}

	columns := []table.Column{
		{Title: "Plugin", Width: widths.plugin},
		{Title: "Skill", Width: widths.skill},
		{Title: "Status", Width: widths.state},
		{Title: "Lines", Width: widths.lines},
		{Title: "Issues", Width: widths.issues},
	}
	return columns, widths
}

func (m *ReportBrowserModel) updateColumns(totalWidth int) {
	columns, widths := browseColumns(totalWidth, m.entries)
	m.columnWidths = widths
	m.table.SetColumns(columns)
}

func (m ReportBrowserModel) entriesToRows(entries []BrowseEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			truncateText(e.Plugin.Name, m.columnWidths.plugin),
			truncateText(e.Skill.Name, m.columnWidths.skill),
			e.state(),
			fmt.Sprint(e.Skill.FileSizeLines),
			truncateText(issueSummary(e.Skill.Issues), m.columnWidths.issues),
		}
	}
	return rows
}

// issueSummary renders counts such as "2 critical, 1 low".
func issueSummary(issues []model.Finding) string {
	if len(issues) == 0 {
		return "-"
	}
	counts := model.CountBySeverity(issues)
	var parts []string
	for _, sev := range model.AllSeverities() {
		if n := counts[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, sev))
		}
	}
	return strings.Join(parts, ", ")
}

// Init implements tea.Model.
func (m ReportBrowserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReportBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase == browsePhaseDetail {
		return m.updateDetail(msg)
	}
	return m.updateList(msg)
}

func (m ReportBrowserModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-10-browsePreviewHeight-browsePreviewGap, 5))
		m.updateColumns(msg.Width)
		m.table.SetRows(m.entriesToRows(m.filtered))

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
			case "esc":
				m.filter = ""
				m.filtering = false
				m.applyFilter()
			case "backspace":
				if m.filter != "" {
					r := []rune(m.filter)
					m.filter = string(r[:len(r)-1])
					m.applyFilter()
				}
			default:
				if msg.Type == tea.KeyRunes {
					m.filter += string(msg.Runes)
					m.applyFilter()
				}
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

		case key.Matches(msg, m.keys.Filter):
			m.filtering = true
			return m, nil

		case key.Matches(msg, m.keys.ClearFlt):
			m.filter = ""
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.IssuesOnly):
			m.issuesOnly = !m.issuesOnly
			m.applyFilter()
			return m, nil

		case key.Matches(msg, m.keys.Detail):
			if len(m.filtered) > 0 {
				m.detail = m.selected()
				m.phase = browsePhaseDetail
				m.ready = false
				m.ensureDetailViewport()
			}
			return m, nil

		case key.Matches(msg, m.keys.Open):
			if len(m.filtered) > 0 {
				m.result = BrowseResult{Action: BrowseActionOpen, Entry: m.selected()}
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Rescan):
			m.result = BrowseResult{Action: BrowseActionRescan}
			m.quitting = true
			return m, tea.Quit
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ReportBrowserModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureDetailViewport()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.phase = browsePhaseList
			return m, nil

		case key.Matches(msg, m.keys.Open):
			m.result = BrowseResult{Action: BrowseActionOpen, Entry: m.detail}
			m.quitting = true
			return m, tea.Quit
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *ReportBrowserModel) applyFilter() {
	lower := strings.ToLower(m.filter)
	var filtered []BrowseEntry
	for _, e := range m.entries {
		if m.issuesOnly && len(e.Skill.Issues) == 0 {
			continue
		}
		if lower != "" &&
			!strings.Contains(strings.ToLower(e.Plugin.Name), lower) &&
			!strings.Contains(strings.ToLower(e.Skill.Name), lower) &&
			!strings.Contains(e.state(), lower) {
			continue
		}
		filtered = append(filtered, e)
	}
	m.filtered = filtered
	m.table.SetRows(m.entriesToRows(m.filtered))
	m.table.SetCursor(0)
}

func (m ReportBrowserModel) selected() BrowseEntry {
	cursor := m.table.Cursor()
	if cursor >= 0 && cursor < len(m.filtered) {
		return m.filtered[cursor]
	}
	return BrowseEntry{}
}

// View implements tea.Model.
func (m ReportBrowserModel) View() string {
	if m.quitting {
		return ""
	}
	if m.phase == browsePhaseDetail {
		return m.viewDetail()
	}

	var b strings.Builder

	b.WriteString(browseStyles.Title.Render("Marketplace Lint Report"))
	b.WriteString("\n\n")

	if m.filter != "" || m.filtering {
		filterVal := browseStyles.FilterInput.Render(m.filter)
		if m.filtering {
			filterVal += "█"
		}
		b.WriteString(browseStyles.Filter.Render("Filter: ") + filterVal + "\n\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	b.WriteString(m.renderPreview())
	b.WriteString("\n")

	b.WriteString(browseStyles.Status.Render(m.statusLine()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderFullHelp())
	} else {
		b.WriteString(m.renderShortHelp())
	}
	return b.String()
}

func (m ReportBrowserModel) statusLine() string {
	s := m.report.Stats
	status := fmt.Sprintf("%d skill(s) in %d plugin(s) • %d valid • %d with issues",
		s.Skills, s.Plugins, s.ValidSkills, s.SkillsWithIssues)
	if len(m.filtered) != len(m.entries) {
		status = fmt.Sprintf("%d of %d skill(s) shown • ", len(m.filtered), len(m.entries)) + status
	}
	return status
}

func (m ReportBrowserModel) previewWidth() int {
	if m.width > 0 {
		return m.width
	}
	return m.columnWidths.total()
}

// renderPreview shows the first findings of the highlighted skill.
func (m ReportBrowserModel) renderPreview() string {
	width := m.previewWidth()
	contentWidth := max(width-4, 10)

	e := m.selected()
	var lines []string
	switch {
	case e.Skill.Name == "":
		lines = []string{"No skill selected."}
	case !e.Skill.Found:
		lines = []string{"No SKILL.md in " + e.Skill.Path}
	case len(e.Skill.Issues) == 0:
		lines = []string{"No findings."}
	default:
		for _, f := range e.Skill.Issues {
			lines = append(lines, truncateText(findingLine(f), contentWidth))
		}
		if len(lines) > browsePreviewLines {
			more := len(lines) - browsePreviewLines + 1
			lines = append(lines[:browsePreviewLines-1], fmt.Sprintf("... %d more", more))
		}
	}
	lines = padLines(lines, browsePreviewLines)

	header := browseStyles.DetailTitle.Render("Findings (selected)")
	content := append([]string{header}, lines...)
	return browseStyles.DetailBox.Width(width).Render(strings.Join(content, "\n"))
}

func findingLine(f model.Finding) string {
	return fmt.Sprintf("[%s] %s %s: %s", f.Severity, f.Field, f.Status, f.Suggestion)
}

func (m ReportBrowserModel) viewDetail() string {
	m.ensureDetailViewport()
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	title := fmt.Sprintf("Skill: %s/%s", m.detail.Plugin.Name, m.detail.Skill.Name)
	b.WriteString(browseStyles.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	status := fmt.Sprintf("Scroll: %d%% • Press b or Esc to go back", int(m.viewport.ScrollPercent()*100))
	b.WriteString(browseStyles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.renderDetailHelp())
	} else {
		keys := []string{"↑/↓ scroll", "o print path", "b back", "? help", "q quit"}
		b.WriteString(browseStyles.Help.Render(strings.Join(keys, " • ")))
	}
	return b.String()
}

func (m *ReportBrowserModel) ensureDetailViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}

	viewportHeight := max(m.height-8, 5)
	if !m.ready {
		m.viewport = viewport.New(m.width-2, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.width - 2
		m.viewport.Height = viewportHeight
	}
	m.viewport.SetContent(buildDetailContent(m.detail, m.viewport.Width))
}

func buildDetailContent(e BrowseEntry, width int) string {
	if e.Skill.Name == "" {
		return "No skill selected."
	}

	var b strings.Builder
	wrapped := lipgloss.NewStyle().Width(max(width-4, 10))
	indent := "  "

	b.WriteString(browseStyles.DetailTitle.Render("Plugin"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%sName: %s\n", indent, e.Plugin.Name))
	b.WriteString(fmt.Sprintf("%sVersion: %s\n", indent, e.Plugin.Version))
	if e.Plugin.Description != "" {
		b.WriteString(indent + wrapped.Render(e.Plugin.Description) + "\n")
	}
	for _, issue := range e.Plugin.PluginJSONIssues {
		b.WriteString(fmt.Sprintf("%s⚠ %s\n", indent, issue))
	}

	b.WriteString("\n")
	b.WriteString(browseStyles.DetailTitle.Render("Skill"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%sName: %s\n", indent, e.Skill.Name))
	b.WriteString(fmt.Sprintf("%sPath: %s\n", indent, e.Skill.Path))
	b.WriteString(fmt.Sprintf("%sStatus: %s\n", indent, e.state()))
	if e.Skill.Found {
		b.WriteString(fmt.Sprintf("%sLines: %d\n", indent, e.Skill.FileSizeLines))
		b.WriteString(fmt.Sprintf("%sFrontmatter: %s\n", indent, strings.Join(e.Skill.Frontmatter.Keys(), ", ")))
		b.WriteString(fmt.Sprintf("%sLayout: %s\n", indent, layoutSummary(e.Skill)))
	}

	b.WriteString("\n")
	b.WriteString(browseStyles.DetailTitle.Render(fmt.Sprintf("Findings (%d)", len(e.Skill.Issues))))
	b.WriteString("\n")
	if len(e.Skill.Issues) == 0 {
		b.WriteString(indent + "None.\n")
	}
	for _, f := range e.Skill.Issues {
		label := severityStyle(f.Severity).Render(fmt.Sprintf("%-8s", f.Severity))
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", indent, label, f.Field, f.Status))
		b.WriteString(indent + indent + wrapped.Render(f.Suggestion) + "\n")
	}
	return b.String()
}

func layoutSummary(s model.SkillReport) string {
	var dirs []string
	if s.HasReferences {
		dirs = append(dirs, rules.ReferencesDir)
	}
	if s.HasAssets {
		dirs = append(dirs, rules.AssetsDir)
	}
	if s.HasScripts {
		dirs = append(dirs, rules.ScriptsDir)
	}
	if len(dirs) == 0 {
		return "SKILL.md only"
	}
	return strings.Join(dirs, ", ")
}

func (m ReportBrowserModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter findings",
		"i issues only",
		"/ filter",
		"r rescan",
		"? help",
		"q quit",
	}
	return browseStyles.Help.Render(strings.Join(keys, " • "))
}

func (m ReportBrowserModel) renderFullHelp() string {
	help := `Navigation:
  ↑/k      Move up
  ↓/j      Move down
  g/Home   Go to top
  G/End    Go to bottom

Actions:
  Enter/v  View findings
  o        Print SKILL.md path and exit
  r        Rescan the marketplace
  i        Toggle skills with findings only

Filter:
  /        Start filtering (by plugin, skill, or status)
  Esc      Clear filter
  Enter    Finish filtering

General:
  ?        Toggle full help
  q        Quit`
	return browseStyles.Help.Render(help)
}

func (m ReportBrowserModel) renderDetailHelp() string {
	help := `Navigation:
  ↑/k      Scroll up
  ↓/j      Scroll down

Actions:
  o        Print SKILL.md path and exit
  b/Esc    Back to list

General:
  ?        Toggle full help
  q        Quit`
	return browseStyles.Help.Render(help)
}

// Result returns the result of the user interaction.
func (m ReportBrowserModel) Result() BrowseResult {
	return m.result
}

// RunReportBrowser runs the interactive report browser and returns the result.
func RunReportBrowser(r export.Report) (BrowseResult, error) {
	finalModel, err := Run(NewReportBrowserModel(r))
	if err != nil {
		return BrowseResult{}, err
	}
	if m, ok := finalModel.(ReportBrowserModel); ok {
		return m.Result(), nil
	}
	return BrowseResult{}, nil
}
