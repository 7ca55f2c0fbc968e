// Command docextract extracts keyword-associated numeric values and
// personal identity fields from a PDF, DOCX or DOC document and writes an
// aligned plain-text report into the output directory.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/dkolev/docextract/internal/config"
	"github.com/dkolev/docextract/internal/document"
	"github.com/dkolev/docextract/internal/extract"
	"github.com/dkolev/docextract/internal/history"
	"github.com/dkolev/docextract/internal/parser"
	"github.com/dkolev/docextract/internal/report"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("docextract: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		return err
	}

	args := pflag.Args()
	if len(args) != 1 {
		return fmt.Errorf("usage: docextract [flags] <document>")
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	keywords, store := resolveKeywords(cfg)
	if len(keywords) == 0 {
		return fmt.Errorf("no keywords given and keyword history is empty, use --keywords")
	}

	doc, err := document.FromPath(path)
	if err != nil {
		return err
	}

	p, err := parser.ForFile(path, parser.Options{
		ConvertTimeout: cfg.ConvertTimeout,
		WordsPerPage:   cfg.WordsPerPage,
	})
	if err != nil {
		return err
	}

	// Pre-flight validation gives one clear message per failure kind
	// before the full parse is attempted.
	if v := p.Validate(path); !v.Valid {
		return fmt.Errorf("%s: %s", v.ErrorKind, v.ErrorMessage)
	}

	parsed, err := p.Parse(path)
	if err != nil {
		return fmt.Errorf("%s: %v", parser.KindOf(err), err)
	}
	doc.PageCount = parsed.PageCount

	sep, err := extract.ParseSeparatorMode(cfg.DecimalSeparator)
	if err != nil {
		return err
	}
	prox, err := extract.ParseProximity(cfg.Proximity)
	if err != nil {
		return err
	}

	engine := extract.NewEngine(sep, extract.Policy{
		Proximity:  prox,
		WordWindow: cfg.WordWindow,
		CrossLines: cfg.CrossLines,
	})
	result := engine.Extract(parsed.Pages, keywords, doc)
	result.Warnings = append(parsed.Warnings, result.Warnings...)

	writer := report.NewWriter(cfg.OutputDir)
	outPath, err := writer.Write(result)
	if err != nil {
		return err
	}

	if store != nil {
		for _, kw := range keywords {
			store.Add(kw)
		}
		if err := store.Save(); err != nil {
			log.Printf("warning: %v", err)
		}
	}

	fmt.Printf("Processed %s (%d pages)\n", doc.Filename, doc.PageCount)
	fmt.Printf("Keywords: %d total, %d extracted, %d not found, %d ambiguous\n",
		len(result.Keywords), result.SuccessCount(), result.NotFoundCount(), result.AmbiguousCount())
	fmt.Printf("Report written to %s\n", outPath)
	return nil
}

// resolveKeywords prefers the --keywords flag and falls back to the
// keyword history file. History load errors are not fatal; they just leave
// the history empty.
func resolveKeywords(cfg *config.Config) ([]string, *history.Store) {
	store := history.NewStore(cfg.HistoryFile)
	if err := store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if len(cfg.Keywords) > 0 {
		return cfg.Keywords, store
	}
	return store.Keywords(), store
}
