package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
	"github.com/idilsaglam/controldesk/internal/report"
	"github.com/idilsaglam/controldesk/internal/ui"
)

const maxTitle = 60

func (a *app) dayLines() []string {
	th := ui.Current()
	title := "Tasks for " + dates.Long(a.day)
	if dates.SameCalendarDay(a.day, a.opt.Now()) {
		title = "Tasks for today"
	}
	c := report.Daily(a.db(), a.day)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(th.Title, title),
		ui.C(th.Success, th.SymDone), c.Completed,
		ui.C(th.Pending, th.SymPending), c.Pending,
		ui.C(th.Accent, "Total"), c.Total,
	)

	lines := []string{header, ui.C(th.Muted, ui.ProgressBar(c.Completed, c.Total, 28)), ""}
	entries := report.ForDate(a.db(), a.day)
	if a.opt.Group {
		lines = append(lines, groupLines(entries)...)
	} else {
		lines = append(lines, entryLines(entries, 0)...)
	}
	lines = append(lines, "", ui.C(th.Muted, "Tip: add with `controldesk add \"Pay invoice\"`"))
	return lines
}

func entryLines(entries []report.Entry, offset int) []string {
	th := ui.Current()
	if len(entries) == 0 {
		return []string{ui.C(th.Muted, "No tasks for this date.")}
	}
	out := make([]string, 0, len(entries))
	for i, e := range entries {
		box, color := th.BoxUnchecked, th.Muted
		if e.Instance.Completed {
			box, color = th.BoxChecked, th.Success
		}
		text := e.Template.Text
		if len(text) > maxTitle {
			text = text[:maxTitle-3] + "..."
		}
		line := fmt.Sprintf("%s %s %s", ui.Dim(fmt.Sprintf("%2d.", offset+i+1)), ui.C(color, box), text)
		if e.Template.Tag != model.TagGeneral {
			line += " " + ui.C(th.Accent, "["+strings.ToUpper(string(e.Template.Tag))+"]")
		}
		if e.Template.IsRecurring() {
			line += " " + ui.C(th.Muted, "↻")
		}
		out = append(out, line)
	}
	return out
}

// groupLines keeps the numbering of the flat list so indexes stay valid.
func groupLines(entries []report.Entry) []string {
	th := ui.Current()
	var pend, done []string
	for i, e := range entries {
		line := entryLines([]report.Entry{e}, i)[0]
		if e.Instance.Completed {
			done = append(done, line)
		} else {
			pend = append(pend, line)
		}
	}
	section := func(name string, ls []string) []string {
		out := []string{ui.C(th.Accent, name)}
		if len(ls) == 0 {
			return append(out, ui.C(th.Muted, "(none)"))
		}
		return append(out, ls...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func detailLines(e report.Entry) []string {
	th := ui.Current()
	desc := e.Template.Description
	if desc == "" {
		desc = ui.C(th.Muted, "No description provided.")
	}
	kind := "one-off"
	if e.Template.IsRecurring() {
		kind = "recurring"
		if !e.Template.IsActive && e.Template.EndDate != nil {
			kind += ", discontinued " + dates.Long(*e.Template.EndDate)
		}
	}
	status := ui.C(th.Pending, "pending")
	if e.Instance.Completed {
		status = ui.C(th.Success, "completed")
		if e.Instance.CompletedAt != nil {
			status += " at " + e.Instance.CompletedAt.Local().Format("2006-01-02 15:04")
		}
	}
	return []string{
		ui.C(th.Title, e.Template.Text),
		"",
		"Tag:    " + strings.ToUpper(string(e.Template.Tag)),
		"Type:   " + kind,
		"Since:  " + dates.Long(e.Template.StartDate),
		"Due:    " + dates.Long(e.Instance.DueDate),
		"Status: " + status,
		"",
		desc,
	}
}

func calendarLines(cal report.Calendar) []string {
	th := ui.Current()
	lines := []string{
		ui.C(th.Title, fmt.Sprintf("%s %d", cal.Month, cal.Year)),
		"",
		ui.C(th.Muted, "Su  Mo  Tu  We  Th  Fr  Sa"),
	}

	cells := make([]string, 0, cal.Lead+len(cal.Days))
	for range cal.Lead {
		cells = append(cells, "   ")
	}
	for _, d := range cal.Days {
		num := fmt.Sprintf("%2d", d.Date.Day())
		if d.IsToday {
			num = ui.C(th.Accent+"\033[1m", num)
		}
		mark := " "
		switch {
		case d.Pending > 0:
			mark = ui.C(th.Pending, "•")
		case d.Completed > 0:
			mark = ui.C(th.Success, "•")
		}
		cells = append(cells, num+mark)
	}
	for i := 0; i < len(cells); i += 7 {
		end := min(i+7, len(cells))
		lines = append(lines, strings.Join(cells[i:end], " "))
	}

	var busy []string
	for _, d := range cal.Days {
		if d.Completed+d.Pending == 0 {
			continue
		}
		busy = append(busy, fmt.Sprintf("%s  %s %d  %s %d",
			d.Date.Format("Mon 02"),
			ui.C(th.Success, th.SymDone), d.Completed,
			ui.C(th.Pending, th.SymPending), d.Pending))
	}
	if len(busy) > 0 {
		lines = append(lines, "")
		lines = append(lines, busy...)
	}
	return lines
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(22)
	cardTitle = lipgloss.NewStyle().Faint(true)
	cardValue = lipgloss.NewStyle().Bold(true)
)

func renderStats(st report.Stats) string {
	card := func(title, value, color string) string {
		return cardStyle.BorderForeground(lipgloss.Color(color)).
			Render(cardTitle.Render(title) + "\n" + cardValue.Render(value))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Tasks", fmt.Sprint(st.Templates), "12"),
		card("Completed", fmt.Sprint(st.Completed), "42"),
		card("Pending", fmt.Sprint(st.Pending), "214"),
		card("Adherence", fmt.Sprintf("%d%%", st.Adherence), "13"),
	)

	var tags []string
	for _, tc := range st.ByTag {
		tags = append(tags, fmt.Sprintf("%s: %d tasks", strings.ToUpper(string(tc.Tag)), tc.Count))
	}
	if len(tags) == 0 {
		tags = append(tags, "no tasks yet")
	}
	byTag := cardStyle.Width(lipgloss.Width(row) - 2).BorderForeground(lipgloss.Color("8")).
		Render(cardTitle.Render("Tasks per tag") + "\n" + strings.Join(tags, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, row, byTag)
}
