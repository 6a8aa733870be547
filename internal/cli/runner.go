package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/idilsaglam/controldesk/internal/ui"
)

// Options tune behavior from root flags.
type Options struct {
	Group      bool   // list grouped by pending/done
	Yes        bool   // answer yes to every confirmation
	Date       string // YYYY-MM-DD; empty means today
	ConfigPath string

	In  io.Reader        // confirmations; stdin when nil
	Now func() time.Time // time.Now when nil
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp()
		return 0
	}

	handlers := map[string]func(*app, []string) int{
		"ls":     (*app).doList,
		"add":    (*app).doAdd,
		"done":   (*app).doToggle,
		"rm":     (*app).doRemove,
		"show":   (*app).doShow,
		"cal":    (*app).doCalendar,
		"stats":  (*app).doStats,
		"export": (*app).doExport,
		"import": (*app).doImport,
		"theme":  (*app).doTheme,
		"tui":    (*app).doTUI,
	}
	h, ok := handlers[cmd]
	if !ok {
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(ui.Stderr())
		PrintHelp()
		return 2
	}

	a2, code := open(opt)
	if a2 == nil {
		return code
	}
	defer a2.close()
	return h(a2, a)
}

func PrintHelp() {
	fmt.Fprint(ui.Stdout(), strings.TrimLeft(`
controldesk - daily and one-off tasks, tracked per date

Usage:
  controldesk [-date YYYY-MM-DD] [-y] [-group] [-config file] <subcommand> [args]

Subcommands:
  ls                         Tasks for the date, with counters
  add [flags] <title...>     New task starting on the date
      -r                     recurring (every day from the date on)
      -t <tag>               general, sql, report, meeting, support
      -d <text>              description
  done <n|id>                Toggle completion of the n-th task listed
  rm <n|id>                  Discontinue a recurring task or delete a one-off
  show <n|id>                Task details
  cal [YYYY-MM]              Month calendar with completed/pending counts
  stats                      Totals, adherence and tasks per tag
  export [file|-]            Write a backup (default backup_control_desk_<date>.json)
  import <file>              Replace all data with a backup
  theme [dark|light|mono]    Show or set the theme
  tui                        Interactive day view

Examples:
  controldesk add -r -t sql "Check overnight jobs"
  controldesk -date 2024-01-10 add "Pay invoice"
  controldesk done 2
  controldesk cal 2024-01
`, "\n"))
}
