package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/controldesk/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group the day list by pending/done")
	yes := flag.Bool("y", false, "answer yes to confirmations")
	date := flag.String("date", "", "work on this date (YYYY-MM-DD) instead of today")
	configPath := flag.String("config", "", "config file (default <data_dir>/config.yaml)")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		Group:      *groupPending,
		Yes:        *yes,
		Date:       *date,
		ConfigPath: *configPath,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
