package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/epiflow-xyz/go-epiflow/results"
	"github.com/epiflow-xyz/go-epiflow/store"
)

func run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	output := fs.String("output", "", "Output file for the results document (required)")
	policyName := fs.String("policy", "", "Override the scenario's policy")
	seed := fs.Int64("seed", 42, "Random seed for stochastic draws and the random policy")
	analyze := fs.Bool("analyze", true, "Compute automatic analysis")
	dbPath := fs.String("db", "", "Also save the run to this SQLite database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: epiflow run <scenario.yaml> [options]

Run one simulation to completion and write the results document.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("scenario file required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	sc, err := LoadScenario(fs.Arg(0))
	if err != nil {
		return err
	}
	name := *policyName
	if name == "" {
		name = sc.Policy
	}

	r, err := executeRun(sc, name, *seed, *analyze)
	if err != nil {
		return err
	}

	if err := results.WriteJSON(r, *output); err != nil {
		return err
	}
	fmt.Printf("Run %s finished: %d periods, %s\n",
		r.Metadata.RunID, r.Results.Summary.Periods, r.Metadata.StopReason)
	fmt.Printf("Total infected: %.0f, deaths: %.0f, YLL: %.0f\n",
		r.Results.Summary.TotalInfected, r.Results.Summary.TotalDeaths, r.Results.Summary.YLL)
	fmt.Printf("Results written to %s\n", *output)

	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveRun(r); err != nil {
			return err
		}
		fmt.Printf("Run saved to %s\n", *dbPath)
	}
	return nil
}

// executeRun builds and runs one simulation and packages the results.
func executeRun(sc *Scenario, policyName string, seed int64, analyze bool) (*results.Results, error) {
	runSpec, err := sc.BuildRun(policyName, seed)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	path, reason := runSpec.Process.Run()
	elapsed := time.Since(start).Seconds()

	initial := path[0]
	r := results.NewBuilder().
		WithRun(runSpec.Policy.Name(), seed, sc.Stochastic, string(reason), elapsed).
		WithScenario(results.Scenario{
			Regions:       initial.Regions(),
			AgeGroups:     initial.AgeGroups(),
			Horizon:       sc.Horizon,
			SubPeriods:    sc.SubPeriods,
			PeriodsPerDay: sc.PeriodsPerDay,
			R0:            sc.R0,
			StartDate:     initial.Date,
			Population:    initial.Population().Sum(),
		}).
		WithPath(path).
		Build()

	if analyze {
		results.NewAnalyzer(r).ComputeAll()
	}
	return r, nil
}
