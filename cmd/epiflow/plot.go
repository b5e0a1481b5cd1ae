package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/epiflow-xyz/go-epiflow/plotter"
	"github.com/epiflow-xyz/go-epiflow/results"
)

func plot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	output := fs.String("output", "", "Output SVG file (required)")
	compartments := fs.String("compartments", "", "Comma-separated compartments to plot (default: all)")
	width := fs.Float64("width", 800, "Plot width in pixels")
	height := fs.Float64("height", 500, "Plot height in pixels")
	title := fs.String("title", "", "Plot title (default: policy name)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: epiflow plot <results.json> [options]

Generate SVG compartment curves from a results document.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("results file required")
	}
	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	r, err := results.ReadJSON(fs.Arg(0))
	if err != nil {
		return err
	}

	var names []string
	if *compartments != "" {
		names = strings.Split(*compartments, ",")
	}
	t := *title
	if t == "" {
		t = fmt.Sprintf("Epidemic path (%s policy)", r.Metadata.Policy)
	}

	svg := plotter.PlotResults(r, names, *width, *height, t)
	if err := os.WriteFile(*output, []byte(svg), 0644); err != nil {
		return fmt.Errorf("write SVG: %w", err)
	}
	fmt.Printf("Plot written to %s\n", *output)
	return nil
}
