package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
	"github.com/idilsaglam/controldesk/internal/report"
	"github.com/idilsaglam/controldesk/internal/store/jsonstore"
	"github.com/idilsaglam/controldesk/internal/tasks"
	"github.com/idilsaglam/controldesk/internal/tui"
	"github.com/idilsaglam/controldesk/internal/ui"
)

func (a *app) doList(args []string) int {
	if len(args) != 0 {
		ui.Fail("usage: controldesk ls")
		return 2
	}
	ui.Panel(a.dayLines())
	return 0
}

func (a *app) doAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(ui.Stderr())
	recurring := fs.Bool("r", false, "recurring task")
	tag := fs.String("t", a.cfg.DefaultTag, "tag")
	desc := fs.String("d", "", "description")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		ui.Fail("usage: controldesk add [-r] [-t tag] [-d text] <title...>")
		return 2
	}

	typ := model.OneOff
	if *recurring {
		typ = model.Recurring
	}
	t, err := a.svc.CreateTemplate(tasks.Fields{
		Text:        strings.Join(fs.Args(), " "),
		Description: *desc,
		Tag:         model.Tag(*tag),
		Type:        typ,
		StartDate:   a.day,
	})
	if errors.Is(err, tasks.ErrInvalidTask) {
		ui.Fail("add: " + err.Error())
		return 2
	}
	kind := "one-off"
	if t.IsRecurring() {
		kind = "recurring"
	}
	return finish(err, fmt.Sprintf("added %s task %q", kind, t.Text))
}

func (a *app) doToggle(args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: controldesk done <n|id>")
		return 2
	}
	e, ok := a.resolve(args[0])
	if !ok {
		return 1
	}
	in, found, err := a.svc.ToggleCompletion(e.Instance.ID)
	if !found {
		ui.Warn("no task with id " + e.Instance.ID)
		return 1
	}
	msg := "marked pending"
	if in.Completed {
		msg = "completed"
	}
	return finish(err, msg+": "+e.Template.Text)
}

func (a *app) doRemove(args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: controldesk rm <n|id>")
		return 2
	}
	e, ok := a.resolve(args[0])
	if !ok {
		return 1
	}

	if e.Template.IsRecurring() {
		if !a.confirm(fmt.Sprintf("Discontinue %q? Past occurrences are kept.", e.Template.Text)) {
			fmt.Fprintln(ui.Stdout(), ui.Dim("cancelled"))
			return 0
		}
		_, err := a.svc.DiscontinueTemplate(e.Template.ID)
		return finish(err, "discontinued")
	}

	if !a.confirm(fmt.Sprintf("Delete one-off task %q?", e.Template.Text)) {
		fmt.Fprintln(ui.Stdout(), ui.Dim("cancelled"))
		return 0
	}
	_, err := a.svc.DeleteOneOffTask(e.Instance.ID)
	return finish(err, "deleted")
}

func (a *app) doShow(args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: controldesk show <n|id>")
		return 2
	}
	e, ok := a.resolve(args[0])
	if !ok {
		return 1
	}
	ui.Panel(detailLines(e))
	return 0
}

func (a *app) doCalendar(args []string) int {
	year, month := a.day.Year(), a.day.Month()
	switch len(args) {
	case 0:
	case 1:
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			ui.Fail("cal: month must be YYYY-MM: " + args[0])
			return 2
		}
		year, month = t.Year(), t.Month()
	default:
		ui.Fail("usage: controldesk cal [YYYY-MM]")
		return 2
	}
	cal := report.Month(a.db(), year, month, dates.Midnight(a.opt.Now()))
	ui.Panel(calendarLines(cal))
	return 0
}

func (a *app) doStats(args []string) int {
	if len(args) != 0 {
		ui.Fail("usage: controldesk stats")
		return 2
	}
	fmt.Fprintln(ui.Stdout(), renderStats(report.Summarize(a.db())))
	return 0
}

func (a *app) doExport(args []string) int {
	if len(args) > 1 {
		ui.Fail("usage: controldesk export [file|-]")
		return 2
	}
	b, err := jsonstore.Export(a.db())
	if err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	path := jsonstore.ExportFileName(a.opt.Now())
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" {
		fmt.Fprintln(ui.Stdout(), string(b))
		return 0
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		ui.Fail("export: " + err.Error())
		return 1
	}
	ui.OK("exported to " + path)
	return 0
}

func (a *app) doImport(args []string) int {
	if len(args) != 1 {
		ui.Fail("usage: controldesk import <file|->")
		return 2
	}
	var (
		b   []byte
		err error
	)
	if args[0] == "-" {
		b, err = io.ReadAll(a.in)
	} else {
		b, err = os.ReadFile(args[0])
	}
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}
	db, err := a.gw.Import(b)
	if err != nil {
		ui.Fail("import: " + err.Error())
		return 1
	}
	if !a.confirm("Import this file? All current data will be replaced by the backup.") {
		fmt.Fprintln(ui.Stdout(), ui.Dim("cancelled"))
		return 0
	}
	return finish(a.svc.Replace(db), fmt.Sprintf("imported %d tasks, %d occurrences",
		len(db.Templates), len(db.Instances)))
}

func (a *app) doTheme(args []string) int {
	switch len(args) {
	case 0:
		fmt.Fprintln(ui.Stdout(), ui.Current().Name)
		return 0
	case 1:
	default:
		ui.Fail("usage: controldesk theme [" + strings.Join(ui.ThemeNames(), "|") + "]")
		return 2
	}
	name := strings.ToLower(args[0])
	if !ui.ValidTheme(name) {
		ui.Fail("theme: unknown theme " + args[0])
		return 2
	}
	ui.SetTheme(name)
	return finish(a.gw.SaveTheme(name), "theme set to "+name)
}

func (a *app) doTUI(args []string) int {
	if len(args) != 0 {
		ui.Fail("usage: controldesk tui")
		return 2
	}
	if err := tui.Run(a.svc, a.day, a.cfg.DefaultTag); err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}
