package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/epiflow-xyz/go-epiflow/store"
)

func listRuns(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "epiflow.db", "SQLite database path")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: epiflow runs [options]

List stored runs, newest first.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs stored.")
		return nil
	}

	fmt.Printf("%-36s  %-10s  %-6s  %-20s  %7s  %12s  %10s  %12s\n",
		"RUN", "POLICY", "SEED", "STOP", "PERIODS", "INFECTED", "DEATHS", "YLL")
	for _, r := range runs {
		fmt.Printf("%-36s  %-10s  %-6d  %-20s  %7d  %12.0f  %10.0f  %12.1f\n",
			r.RunID, r.Policy, r.Seed, r.StopReason, r.Periods,
			r.TotalInfected, r.TotalDeaths, r.YLL)
	}
	return nil
}
