package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasktable/internal/config"
	"tasktable/internal/form"
	"tasktable/internal/render"
	"tasktable/internal/storage"
	"tasktable/internal/task"
)

type mode int

const (
	modeList mode = iota
	modeAdd
)

// Text inputs backing the first three draft fields; the priority field is
// cycled rather than typed.
const (
	inputDescription = iota
	inputCategory
	inputDeadline
	numInputs
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	formStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Faint(true)

	priorityStyles = map[task.Priority]lipgloss.Style{
		task.Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		task.Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.High:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

type Model struct {
	store  *storage.Store
	cfg    config.Config
	loc    *time.Location
	log    *slog.Logger
	now    func() time.Time
	tasks  []task.Task
	cursor int
	mode   mode
	form   form.Form
	inputs [numInputs]textinput.Model
	focus  int
	status string
}

func NewModel(store *storage.Store, cfg config.Config, loc *time.Location, log *slog.Logger) Model {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := Model{
		store:  store,
		cfg:    cfg,
		loc:    loc,
		log:    log,
		now:    time.Now,
		tasks:  store.Tasks(),
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, space to toggle, '%s'/'%s' to change priority.", cfg.Keys.Add, cfg.Keys.PriorityUp, cfg.Keys.PriorityDown),
	}
	m.cursor = clampCursor(0, len(m.tasks))
	m.inputs[inputDescription] = newInput("description...", 256)
	m.inputs[inputCategory] = newInput("category...", 64)
	m.inputs[inputDeadline] = newInput("YYYY-MM-DD", len(task.InputLayout))
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

func Run(store *storage.Store, cfg config.Config, loc *time.Location, log *slog.Logger) error {
	program := tea.NewProgram(NewModel(store, cfg, loc, log))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-20, 10)
		}
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		if len(m.tasks) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case m.cfg.Keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case m.cfg.Keys.Add:
		return m.openForm()
	case m.cfg.Keys.Toggle:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		m.tasks = m.store.SetDone(t.ID, !t.Done)
		m.status = fmt.Sprintf("Marked %q %s", t.Description, humanDone(!t.Done))
	case m.cfg.Keys.PriorityUp, m.cfg.Keys.PriorityDown:
		if len(m.tasks) == 0 {
			return m, nil
		}
		t := m.tasks[m.cursor]
		next := t.Priority.Next()
		if key == m.cfg.Keys.PriorityDown {
			next = t.Priority.Prev()
		}
		tasks, err := m.store.SetPriority(t.ID, next)
		if err != nil {
			m.status = fmt.Sprintf("priority update failed: %v", err)
			return m, nil
		}
		m.tasks = tasks
		m.status = fmt.Sprintf("Priority of %q set to %s", t.Description, next)
	}
	return m, nil
}

func (m Model) openForm() (tea.Model, tea.Cmd) {
	if !m.form.Open() {
		m.form = m.form.Toggle()
	}
	m.mode = modeAdd
	m.focus = 0
	m.resetInputs()
	m.status = "Add task: tab to move, enter to save, esc to close"
	return m, m.focusInput()
}

func (m Model) closeForm(status string) Model {
	if m.form.Open() {
		m.form = m.form.Toggle()
	}
	m.mode = modeList
	m.resetInputs()
	m.status = status
	return m
}

func (m *Model) resetInputs() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
}

func (m *Model) focusInput() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if m.focus < numInputs {
		return m.inputs[m.focus].Focus()
	}
	return nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel:
		return m.closeForm("Cancelled"), nil
	case m.cfg.Keys.Confirm:
		return m.submit()
	case m.cfg.Keys.NextField:
		m.focus = wrapIndex(m.focus+1, len(form.Fields()))
		return m, m.focusInput()
	case m.cfg.Keys.PrevField:
		m.focus = wrapIndex(m.focus-1, len(form.Fields()))
		return m, m.focusInput()
	}

	if m.focus >= numInputs {
		return m.updatePriorityField(key)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	field := form.Fields()[m.focus]
	f, err := m.form.Set(field, m.inputs[m.focus].Value())
	if err != nil {
		m.status = fmt.Sprintf("%s: %v", field, err)
		return m, cmd
	}
	m.form = f
	return m, cmd
}

func (m Model) updatePriorityField(key string) (tea.Model, tea.Cmd) {
	current := m.form.Draft().Priority
	var next task.Priority
	switch key {
	case "right", "l", m.cfg.Keys.PriorityUp:
		next = current.Next()
	case "left", "h", m.cfg.Keys.PriorityDown:
		next = current.Prev()
	default:
		return m, nil
	}
	f, err := m.form.Set(form.Priority, string(next))
	if err != nil {
		m.status = fmt.Sprintf("priority: %v", err)
		return m, nil
	}
	m.form = f
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	f, added, err := m.form.Submit(m.store, m.loc)
	if err != nil {
		m.status = submitError(err)
		m.log.Debug("commit rejected", "error", err)
		return m, nil
	}
	m.form = f
	m.tasks = m.store.Tasks()
	m.cursor = clampCursor(len(m.tasks)-1, len(m.tasks))
	m.mode = modeList
	m.resetInputs()
	m.status = fmt.Sprintf("Added %q", added.Description)
	m.log.Info("task added", "id", added.ID, "deadline", added.Deadline)
	return m, nil
}

func submitError(err error) string {
	var fe *task.FieldError
	if errors.As(err, &fe) {
		switch {
		case errors.Is(err, task.ErrMissingField):
			return fmt.Sprintf("%s cannot be empty", capitalize(fe.Field))
		case errors.Is(err, task.ErrInvalidDeadline):
			return "Deadline must look like YYYY-MM-DD"
		}
	}
	return fmt.Sprintf("save failed: %v", err)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.\n", m.cfg.Keys.Add))
	} else {
		b.WriteString(m.renderTaskList())
	}

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.renderHelp()))

	return b.String()
}

func (m Model) renderTaskList() string {
	rows := render.Rows(m.tasks, m.now().In(m.loc))
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, render.Headers)
	for _, r := range rows {
		cells = append(cells, r.Cells())
	}
	widths := columnWidths(cells)

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(joinPadded(render.Headers, widths)))
	b.WriteString("\n")
	for i, r := range rows {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = cursorStyle.Render(">")
		}
		line := joinPadded(cells[i+1][:4], widths[:4])
		prio := priorityStyles[r.Priority].Render(pad(string(r.Priority), widths[4]))
		days := cells[i+1][5]
		if r.Done {
			line = doneStyle.Render(line)
		}
		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n", cursor, line, prio, days))
	}
	return b.String()
}

func (m Model) renderForm() string {
	labels := []string{"Description", "Category", "Deadline", "Priority"}
	var b strings.Builder
	b.WriteString(titleStyle.Render("New task"))
	b.WriteString("\n")
	for i, label := range labels {
		prefix := " "
		if i == m.focus {
			prefix = cursorStyle.Render(">")
		}
		var value string
		if i < numInputs {
			value = m.inputs[i].View()
		} else {
			p := m.form.Draft().Priority
			value = "< " + priorityStyles[p].Render(string(p)) + " >"
		}
		b.WriteString(fmt.Sprintf("%s %-11s : %s\n", prefix, label, value))
	}
	return formStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderHelp() string {
	k := m.cfg.Keys
	if m.mode == modeAdd {
		return fmt.Sprintf("%s/%s field • ←/→ priority • %s save • %s close",
			k.NextField, k.PrevField, k.Confirm, k.Cancel)
	}
	return fmt.Sprintf("%s/%s move • %s add • space toggle • %s/%s priority • %s quit",
		k.Up, k.Down, k.Add, k.PriorityUp, k.PriorityDown, k.Quit)
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(render.Headers))
	for _, row := range rows {
		for i, c := range row {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func joinPadded(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = pad(c, widths[i])
	}
	return strings.Join(parts, "  ")
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
