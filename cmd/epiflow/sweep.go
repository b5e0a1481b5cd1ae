package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/epiflow-xyz/go-epiflow/process"
	"github.com/epiflow-xyz/go-epiflow/state"
	"github.com/epiflow-xyz/go-epiflow/sweep"
)

func sweepCmd(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	policies := fs.String("policies", "none,random,population,infection", "Comma-separated policy names to compare")
	seeds := fs.Int("seeds", 5, "Number of seeds per policy")
	baseSeed := fs.Int64("base-seed", 42, "First seed; subsequent seeds increment")
	objective := fs.String("objective", "deaths", "Ranking objective: deaths, infected, or yll")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: epiflow sweep <scenario.yaml> [options]

Run every policy with several seeds in parallel and rank the outcomes.

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

	sc, err := LoadScenario(fs.Arg(0))
	if err != nil {
		return err
	}

	var scorer sweep.Scorer
	switch *objective {
	case "deaths":
		scorer = sweep.TotalDeaths
	case "infected":
		scorer = sweep.TotalInfected
	case "yll":
		scorer = sweep.YearsOfLifeLost
	default:
		return fmt.Errorf("unknown objective %q", *objective)
	}

	seedList := make([]int64, *seeds)
	for i := range seedList {
		seedList[i] = *baseSeed + int64(i)
	}
	specs := sweep.Specs(strings.Split(*policies, ","), seedList)

	runner := func(spec sweep.RunSpec) (state.Path, process.StopReason, error) {
		r, err := sc.BuildRun(spec.Policy, spec.Seed)
		if err != nil {
			return nil, "", err
		}
		path, reason := r.Process.Run()
		return path, reason, nil
	}

	res, err := sweep.Run(specs, runner, scorer)
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-8s %-12s %-20s %s\n", "POLICY", "SEED", "SCORE", "STOP", "PERIODS")
	for _, out := range res.Outcomes {
		if out.Err != nil {
			fmt.Printf("%-12s %-8d failed: %v\n", out.Spec.Policy, out.Spec.Seed, out.Err)
			continue
		}
		fmt.Printf("%-12s %-8d %-12.1f %-20s %d\n",
			out.Spec.Policy, out.Spec.Seed, out.Score, out.StopReason, out.Final.TimeStep)
	}
	if res.Best != nil {
		fmt.Printf("\nBest: %s (seed %d) with %s = %.1f\n",
			res.Best.Spec.Policy, res.Best.Spec.Seed, *objective, res.Best.Score)
	}
	return nil
}
