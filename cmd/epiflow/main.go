package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "run":
		if err := run(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sweep":
		if err := sweepCmd(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "plot":
		if err := plot(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "runs":
		if err := listRuns(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("epiflow version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`epiflow - epidemic vaccine-allocation simulation tool

Usage:
  epiflow <command> [options]

Commands:
  run        Run one simulation from a scenario file
  sweep      Compare allocation policies across seeds
  plot       Generate SVG compartment curves from run results
  summary    Display quick summary of run results
  runs       List runs stored in a results database
  help       Show this help message
  version    Show version information

Examples:
  # Run a scenario and write the results document
  epiflow run scenario.yaml --output results.json

  # Compare policies over ten seeds each
  epiflow sweep scenario.yaml --policies random,population,infection --seeds 10

  # Plot the infectious compartments
  epiflow plot results.json --compartments E2,A,I --output curves.svg`)
}
