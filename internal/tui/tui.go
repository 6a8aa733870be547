// Package tui is the interactive day view. Every change goes straight
// through tasks.Service, which saves it; quitting has nothing left to flush.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
	"github.com/idilsaglam/controldesk/internal/report"
	"github.com/idilsaglam/controldesk/internal/store/jsonstore"
	"github.com/idilsaglam/controldesk/internal/tasks"
)

// listItem adapts a report.Entry to bubbles/list.Item
type listItem struct {
	report.Entry
}

func (i listItem) Title() string       { return i.Template.Text }
func (i listItem) Description() string { return i.Template.Description }
func (i listItem) FilterValue() string { return i.Template.Text + " " + string(i.Template.Tag) }

// Single-line rendering with tag and recurrence markers.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(boxUnchecked)
	text := it.Template.Text
	if it.Instance.Completed {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}
	line := box + " " + text
	if it.Template.Tag != model.TagGeneral {
		line += " " + accentStyle.Render(strings.ToUpper(string(it.Template.Tag)))
	}
	if it.Template.IsRecurring() {
		line += " " + mutedStyle.Render("↻")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+line)
}

type dayModel struct {
	svc        *tasks.Service
	day        time.Time
	defaultTag model.Tag
	list       list.Model

	// Inline add
	adding  bool
	addType model.TaskType
	ti      textinput.Model
	addErr  string

	// Pending y/n for discontinue or delete
	confirming bool
	target     report.Entry

	detail *report.Entry
	status string

	width, height int
}

var (
	addBind      = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add one-off"))
	recurBind    = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "add daily"))
	toggleBind   = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	removeBind   = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove"))
	detailBind   = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details"))
	prevDayBind  = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day"))
	nextDayBind  = key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day"))
	todayBind    = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today"))
	quitBind     = key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit"))
	extraHelpFor = []key.Binding{toggleBind, addBind, recurBind, removeBind, detailBind, prevDayBind, nextDayBind, todayBind}
)

func newDayModel(svc *tasks.Service, day time.Time, defaultTag string) dayModel {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggleBind, addBind, removeBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return extraHelpFor }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	tag := model.Tag(defaultTag)
	if tag == "" {
		tag = model.TagGeneral
	}
	m := dayModel{svc: svc, day: dates.Midnight(day), defaultTag: tag, list: l, ti: ti}
	m.refresh()
	return m
}

// Run starts the interactive day view on day.
func Run(svc *tasks.Service, day time.Time, defaultTag string) error {
	p := tea.NewProgram(newDayModel(svc, day, defaultTag), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refresh rebuilds the list and its header from the service state.
func (m *dayModel) refresh() {
	entries := report.ForDate(m.svc.Database(), m.day)
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, listItem{e})
	}
	m.list.SetItems(items)

	name := dates.Long(m.day)
	if dates.SameCalendarDay(m.day, m.svc.Now()) {
		name = "Today"
	}
	c := report.Daily(m.svc.Database(), m.day)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render(name),
		successStyle.Render("✔"), c.Completed,
		pendingStyle.Render("❗"), c.Pending,
		accentStyle.Render("Total"), c.Total,
	)
}

func (m *dayModel) setStatus(err error, okMsg string) {
	switch {
	case err == nil:
		m.status = successStyle.Render(okMsg)
	case errors.Is(err, jsonstore.ErrStorage):
		m.status = pendingStyle.Render("not saved: " + err.Error())
	default:
		m.status = errorStyle.Render(err.Error())
	}
}

func (m dayModel) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m dayModel) Init() tea.Cmd { return nil }

func (m dayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}
	km, isKey := msg.(tea.KeyMsg)

	switch {
	case m.adding:
		return m.updateAdding(msg)
	case m.confirming && isKey:
		return m.updateConfirm(km)
	case m.detail != nil && isKey:
		m.detail = nil
		return m, nil
	}

	if !isKey || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(km, quitBind) && m.list.FilterState() == list.Unfiltered:
		return m, tea.Quit
	case key.Matches(km, toggleBind):
		if it, ok := m.selected(); ok {
			in, found, err := m.svc.ToggleCompletion(it.Instance.ID)
			if found {
				what := "marked pending"
				if in.Completed {
					what = "completed"
				}
				m.setStatus(err, what+": "+it.Template.Text)
			}
			m.refresh()
		}
		return m, nil
	case key.Matches(km, removeBind):
		if it, ok := m.selected(); ok {
			m.confirming = true
			m.target = it.Entry
		}
		return m, nil
	case key.Matches(km, addBind), key.Matches(km, recurBind):
		m.adding = true
		m.addType = model.OneOff
		m.ti.Placeholder = "One-off task for " + dates.ISO(m.day) + "..."
		if key.Matches(km, recurBind) {
			m.addType = model.Recurring
			m.ti.Placeholder = "Daily task starting " + dates.ISO(m.day) + "..."
		}
		m.ti.SetValue("")
		m.addErr = ""
		m.resize()
		return m, m.ti.Focus()
	case key.Matches(km, detailBind):
		if it, ok := m.selected(); ok {
			e := it.Entry
			m.detail = &e
		}
		return m, nil
	case key.Matches(km, prevDayBind):
		m.day = m.day.AddDate(0, 0, -1)
		m.refresh()
		return m, nil
	case key.Matches(km, nextDayBind):
		m.day = m.day.AddDate(0, 0, 1)
		m.refresh()
		return m, nil
	case key.Matches(km, todayBind):
		m.day = dates.Midnight(m.svc.Now())
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m dayModel) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			t, err := m.svc.CreateTemplate(tasks.Fields{
				Text:      m.ti.Value(),
				Tag:       m.defaultTag,
				Type:      m.addType,
				StartDate: m.day,
			})
			if errors.Is(err, tasks.ErrInvalidTask) {
				m.addErr = err.Error()
				return m, nil
			}
			m.setStatus(err, "added: "+t.Text)
			m.stopAdding()
			m.refresh()
			return m, nil
		case "esc":
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *dayModel) stopAdding() {
	m.adding = false
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize()
}

func (m *dayModel) resize() {
	if m.width == 0 {
		return
	}
	m.list.SetSize(m.width-4, m.listHeight())
}

func (m dayModel) updateConfirm(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirming = false
	if s := strings.ToLower(km.String()); s != "y" {
		m.status = mutedStyle.Render("cancelled")
		return m, nil
	}
	e := m.target
	if e.Template.IsRecurring() {
		_, err := m.svc.DiscontinueTemplate(e.Template.ID)
		m.setStatus(err, "discontinued: "+e.Template.Text)
	} else {
		_, err := m.svc.DeleteOneOffTask(e.Instance.ID)
		m.setStatus(err, "deleted: "+e.Template.Text)
	}
	m.refresh()
	return m, nil
}

func (m dayModel) listHeight() int {
	h := m.height - 4
	if m.adding {
		h -= 3
	}
	return max(h, 1)
}

func (m dayModel) View() string {
	content := m.list.View()
	switch {
	case m.adding:
		title := "Add one-off task"
		if m.addType == model.Recurring {
			title = "Add daily task"
		}
		if m.addErr != "" {
			title += "  " + errorStyle.Render(m.addErr)
		}
		content += "\n" + barStyle.Render(title+"\n"+m.ti.View())
	case m.confirming:
		q := fmt.Sprintf("Delete one-off task %q? (y/N)", m.target.Template.Text)
		if m.target.Template.IsRecurring() {
			q = fmt.Sprintf("Discontinue %q? Past occurrences are kept. (y/N)", m.target.Template.Text)
		}
		content += "\n" + barStyle.Render(q)
	case m.detail != nil:
		content = detailView(*m.detail)
	}
	if m.status != "" {
		content += "\n" + m.status
	}
	return barStyle.Render(content)
}

func detailView(e report.Entry) string {
	desc := e.Template.Description
	if desc == "" {
		desc = mutedStyle.Render("No description provided.")
	}
	kind := "one-off"
	if e.Template.IsRecurring() {
		kind = "daily"
		if !e.Template.IsActive {
			kind += " (discontinued)"
		}
	}
	return strings.Join([]string{
		titleStyle.Render(e.Template.Text),
		"",
		"Tag:  " + accentStyle.Render(strings.ToUpper(string(e.Template.Tag))),
		"Type: " + kind,
		"Due:  " + dates.Long(e.Instance.DueDate),
		"",
		desc,
		"",
		helpStyle.Render("any key to close"),
	}, "\n")
}
