package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pyhub-apps/pdffill-golang"
)

const usage = `Usage:
  pdffill fill -template <pdf> [-values <yaml|json>] [-set key=value]... -out <pdf> [-v]
  pdffill inspect -template <pdf> [-text-layer]

Environment:
  PDFFILL_DEFAULT_FONT_SIZE, PDFFILL_FONT, PDFFILL_DECODE_POLICY,
  PDFFILL_METRICS, PDFFILL_STREAM_ENCODING
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	logger := log.New(stderr, "pdffill: ", 0)

	var err error
	switch args[0] {
	case "fill":
		err = runFill(args[1:], stdout, logger)
	case "inspect":
		err = runInspect(args[1:], stdout, logger)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		logger.Printf("%v", err)
		return 1
	}
	return 0
}

func runFill(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("fill", flag.ContinueOnError)
	fs.SetOutput(logger.Writer())
	template := fs.String("template", "", "template PDF")
	valuesPath := fs.String("values", "", "YAML or JSON file of placeholder values")
	out := fs.String("out", "", "output PDF")
	verbose := fs.Bool("v", false, "log every page")
	sets := setFlags{}
	fs.Var(sets, "set", "placeholder value as key=value, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *template == "" || *out == "" {
		return fmt.Errorf("fill needs -template and -out")
	}

	table := pdffill.Table{}
	if *valuesPath != "" {
		values, err := loadValues(*valuesPath)
		if err != nil {
			return err
		}
		table = values
	}
	for k, v := range sets {
		table[k] = v
	}

	data, report, err := pdffill.FillFile(*template, table,
		pdffill.WithLogger(logger),
		pdffill.WithVerbose(*verbose),
	)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *out, err)
	}

	fmt.Fprintf(stdout, "Filled %d placeholders on %d pages into %s\n",
		report.OverlayCount(), len(report.Pages), *out)
	for _, p := range report.Skipped() {
		fmt.Fprintf(stdout, "  page %d skipped: %v\n", p.Number, p.Err)
	}
	return nil
}

func runInspect(args []string, stdout io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(logger.Writer())
	template := fs.String("template", "", "template PDF")
	textLayer := fs.Bool("text-layer", false, "also print the text layer of every page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *template == "" {
		return fmt.Errorf("inspect needs -template")
	}

	data, err := os.ReadFile(*template)
	if err != nil {
		return &pdffill.Error{Kind: pdffill.TemplateUnavailable, Err: err}
	}

	pages, err := pdffill.Inspect(data, nil, pdffill.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Template: %s\n", *template)
	fmt.Fprintf(stdout, "Pages: %d\n\n", len(pages))
	for _, p := range pages {
		fmt.Fprintf(stdout, "=== Page %d ===\n", p.Number)
		if p.Err != nil {
			fmt.Fprintf(stdout, "  unreadable: %v\n", p.Err)
			continue
		}
		if len(p.Matches) == 0 {
			fmt.Fprintln(stdout, "  no placeholders")
			continue
		}
		for _, m := range p.Matches {
			fmt.Fprintf(stdout, "  %q at (%.2f, %.2f) size=%.2f line=%d [%s]\n",
				m.Run.Text, m.Run.X, m.Run.Y, m.Run.FontSize, m.Run.Line,
				strings.Join(m.Identifiers, ", "))
		}
	}

	if !*textLayer {
		return nil
	}

	layers, err := pdffill.ReadTextLayer(data)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "\n=== Text layer ===")
	for _, l := range layers {
		fmt.Fprintf(stdout, "Page %d:\n", l.PageNumber)
		for _, line := range l.Lines(pdffill.DefaultLineTolerance) {
			fmt.Fprintf(stdout, "  %s\n", line)
		}
	}
	return nil
}
