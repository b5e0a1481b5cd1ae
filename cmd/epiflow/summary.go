package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/epiflow-xyz/go-epiflow/results"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: epiflow summary <results.json>

Print a human-readable summary of a results document.
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}

	r, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("Run:        %s\n", r.Metadata.RunID)
	fmt.Printf("Policy:     %s\n", r.Metadata.Policy)
	fmt.Printf("Seed:       %d (stochastic=%v)\n", r.Metadata.Seed, r.Metadata.Stochastic)
	fmt.Printf("Stop:       %s after %d periods\n", r.Metadata.StopReason, r.Results.Summary.Periods)
	fmt.Println()
	fmt.Printf("Total infected:     %.0f\n", r.Results.Summary.TotalInfected)
	fmt.Printf("Total deaths:       %.0f\n", r.Results.Summary.TotalDeaths)
	fmt.Printf("Vaccines given:     %.0f\n", r.Results.Summary.VaccinesGiven)
	fmt.Printf("Recovered fraction: %.4f\n", r.Results.Summary.RecoveredFraction)
	fmt.Printf("Years of life lost: %.1f\n", r.Results.Summary.YLL)

	if len(r.Results.Summary.FinalState) > 0 {
		fmt.Println()
		fmt.Println("Final compartments:")
		for _, name := range results.CompartmentNames {
			if v, ok := r.Results.Summary.FinalState[name]; ok {
				fmt.Printf("  %-2s %14.1f\n", name, v)
			}
		}
	}

	if r.Analysis != nil {
		fmt.Println()
		fmt.Println("Analysis:")
		c := r.Analysis.Conservation
		fmt.Printf("  Population conserved: %v (drift %.2e)\n", c.Conserved, c.MaxDrift)
		for _, p := range r.Analysis.Peaks {
			fmt.Printf("  Peak %-2s period %4d value %.1f\n", p.Variable, p.Period, p.Value)
		}
	}
	return nil
}
