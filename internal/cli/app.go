package cli

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/idilsaglam/controldesk/internal/config"
	"github.com/idilsaglam/controldesk/internal/dates"
	"github.com/idilsaglam/controldesk/internal/model"
	"github.com/idilsaglam/controldesk/internal/report"
	"github.com/idilsaglam/controldesk/internal/store/jsonstore"
	"github.com/idilsaglam/controldesk/internal/store/kv"
	"github.com/idilsaglam/controldesk/internal/tasks"
	"github.com/idilsaglam/controldesk/internal/ui"
)

// app is what one invocation works on: config, storage and the loaded state.
type app struct {
	opt   Options
	cfg   config.Config
	gw    *jsonstore.Gateway
	svc   *tasks.Service
	day   time.Time
	in    *bufio.Reader
	close func()
}

func open(opt Options) (*app, int) {
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.In == nil {
		opt.In = os.Stdin
	}

	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		ui.Fail(err.Error())
		return nil, 1
	}
	ui.SetColorMode(cfg.Color)

	store, err := kv.Open(cfg.DataDir)
	if err != nil {
		ui.Fail("storage: " + err.Error())
		return nil, 1
	}
	closeLog := setupLog(store.Dir())

	gw := jsonstore.New(store, cfg.DBSlot)
	theme := gw.LoadTheme()
	if cfg.Theme != "" {
		theme = cfg.Theme
	}
	ui.SetTheme(theme)

	day := dates.Midnight(opt.Now())
	if opt.Date != "" {
		d, err := dates.ParseISO(opt.Date)
		if err != nil {
			closeLog()
			ui.Fail(err.Error())
			return nil, 2
		}
		day = d
	}

	a := &app{
		opt:   opt,
		cfg:   cfg,
		gw:    gw,
		svc:   tasks.NewService(gw.Load(), gw, tasks.WithClock(opt.Now)),
		day:   day,
		in:    bufio.NewReader(opt.In),
		close: closeLog,
	}
	if _, err := a.svc.Generate(); err != nil {
		ui.Warn(err.Error())
	}
	return a, 0
}

// setupLog sends diagnostics to controldesk.log in the data dir.
func setupLog(dir string) func() {
	log.SetPrefix("controldesk: ")
	log.SetFlags(log.LstdFlags)
	f, err := os.OpenFile(filepath.Join(dir, "controldesk.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return func() {}
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}
}

func (a *app) db() *model.Database { return a.svc.Database() }

func (a *app) confirm(prompt string) bool {
	if a.opt.Yes {
		return true
	}
	fmt.Fprint(ui.Stdout(), prompt+" [y/N] ")
	line, _ := a.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// finish reports the outcome of a mutation. A storage failure is a warning:
// the change happened but could not be written.
func finish(err error, okMsg string) int {
	switch {
	case err == nil:
		ui.OK(okMsg)
		return 0
	case errors.Is(err, jsonstore.ErrStorage):
		ui.Warn(err.Error())
		return 1
	default:
		ui.Fail(err.Error())
		return 1
	}
}

// resolve finds an instance by its 1-based position in the day's list or by id.
func (a *app) resolve(ref string) (report.Entry, bool) {
	entries := report.ForDate(a.db(), a.day)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(entries) {
			ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(entries), n))
			fmt.Fprintln(ui.Stderr(), ui.Dim("Hint: run `controldesk ls` to see valid indexes"))
			return report.Entry{}, false
		}
		return entries[n-1], true
	}
	in, ok := a.db().FindInstance(ref)
	if !ok {
		ui.Warn("no task with id " + ref)
		return report.Entry{}, false
	}
	t, ok := a.db().FindTemplate(in.TemplateID)
	if !ok {
		ui.Warn("task " + ref + " has no template")
		return report.Entry{}, false
	}
	return report.Entry{Instance: *in, Template: *t}, true
}
