package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/adventure/internal/importer"
	"github.com/cory-johannsen/adventure/internal/importer/legacy"
)

func main() {
	format := flag.String("format", "", "source format: legacy")
	sourceDir := flag.String("source", "", "path to source bundle directory")
	outputDir := flag.String("output", "", "path to output theme directory (its base name becomes the theme name)")
	flag.Parse()

	if *format == "" || *sourceDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "usage: import-theme -format <fmt> -source <dir> -output <dir>")
		os.Exit(1)
	}

	var src importer.Source
	switch *format {
	case "legacy":
		src = legacy.NewSource()
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: legacy)\n", *format)
		os.Exit(1)
	}

	start := time.Now()
	imp := importer.New(src)
	if err := imp.Run(*sourceDir, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("import complete in %s\n", time.Since(start).Round(time.Millisecond))
}
