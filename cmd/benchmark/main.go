package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/pyhub-apps/pdffill-golang"
	"github.com/pyhub-apps/pdffill-golang/pkg/pdf"
)

func main() {
	iterations := flag.Int("n", 10, "number of fill runs")
	metrics := flag.String("metrics", "heuristic", "width metrics: heuristic or sfnt")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: benchmark [-n runs] [-metrics heuristic|sfnt] <template.pdf> [key=value ...]")
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	template, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Fatalf("Failed to read template: %v", err)
	}

	table := pdffill.Table{}
	for _, arg := range flag.Args()[1:] {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			log.Fatalf("Expected key=value, got %q", arg)
		}
		table[key] = value
	}

	// Benchmark loading
	start := time.Now()
	doc, err := pdf.Load(template, pdf.PDFCPU{})
	if err != nil {
		log.Fatalf("Failed to load PDF: %v", err)
	}
	loadTime := time.Since(start)
	pageCount := doc.PageCount()
	doc.Close()

	fmt.Printf("=== pdffill Benchmark ===\n")
	fmt.Printf("File: %s\n", pdfPath)
	fmt.Printf("Pages: %d\n", pageCount)
	fmt.Printf("Load time: %v\n", loadTime)

	// Benchmark placeholder discovery
	start = time.Now()
	pages, err := pdffill.Inspect(template, table, pdffill.WithMetrics(*metrics))
	if err != nil {
		log.Fatalf("Failed to inspect PDF: %v", err)
	}
	inspectTime := time.Since(start)

	var totalRuns int
	for _, p := range pages {
		totalRuns += len(p.Matches)
	}
	fmt.Printf("Inspect time: %v\n", inspectTime)
	fmt.Printf("Placeholder runs: %d\n", totalRuns)

	// Benchmark filling
	var outSize int
	start = time.Now()
	for i := 0; i < *iterations; i++ {
		out, _, err := pdffill.Fill(template, table, pdffill.WithMetrics(*metrics))
		if err != nil {
			log.Fatalf("Fill run %d failed: %v", i+1, err)
		}
		outSize = len(out)
	}
	fillTime := time.Since(start)

	fmt.Printf("Fill time: %v for %d runs\n", fillTime, *iterations)
	fmt.Printf("Output size: %d bytes\n", outSize)

	// Summary
	perRun := fillTime / time.Duration(max(*iterations, 1))
	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Time per fill: %v\n", perRun)
	fmt.Printf("Pages/sec: %.2f\n", float64(pageCount)/perRun.Seconds())
}
