package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/deep-enzyme/kinetics-audit/internal/batch"
	"github.com/deep-enzyme/kinetics-audit/internal/common"
	"github.com/deep-enzyme/kinetics-audit/internal/export"
	"github.com/deep-enzyme/kinetics-audit/internal/extraction"
	"github.com/deep-enzyme/kinetics-audit/internal/genai"
	"github.com/deep-enzyme/kinetics-audit/internal/remote"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// readManifest parses a bundle manifest: CSV records of
// "name,file1;file2;...". Blank lines and #-prefixed lines are skipped.
func readManifest(path string) ([]batch.Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	var bundles []batch.Bundle
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("manifest line %d: want name,file1;file2;... got %q", i+1, strings.Join(rec, ","))
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			return nil, fmt.Errorf("manifest line %d: empty bundle name", i+1)
		}
		var files []string
		for _, p := range strings.Split(rec[1], ";") {
			if p = strings.TrimSpace(p); p != "" {
				files = append(files, p)
			}
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("manifest line %d: bundle %q has no files", i+1, name)
		}
		bundles = append(bundles, batch.Bundle{Name: name, Files: files})
	}
	return bundles, nil
}

func main() {
	var (
		manifest = flag.String("manifest", "", "bundle manifest: lines of name,file1;file2;... (required)")
		out      = flag.String("out", ".", "output directory")
	)
	flag.Parse()

	if *manifest == "" {
		printError("Error: --manifest is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.GenAI.APIKey == "" {
		logger.Error("GEMINI_API_KEY env var is required")
		os.Exit(2)
	}

	bundles, err := readManifest(*manifest)
	if err != nil {
		logger.Error("manifest rejected", "path", *manifest, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client := genai.NewClientFromConfig(cfg.GenAI, logger)
	orch := extraction.NewOrchestrator(client, remote.FromCommon(cfg.Remote), logger)
	runner := batch.NewRunner(orch, logger)

	table, ledger, summary := runner.Run(ctx, bundles)

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error("create output directory", "dir", *out, "error", err)
		os.Exit(1)
	}

	combinedPath := filepath.Join(*out, "combined.csv")
	f, err := os.Create(combinedPath)
	if err != nil {
		logger.Error("create combined export", "path", combinedPath, "error", err)
		os.Exit(1)
	}
	if err := export.WriteTableCSV(f, table); err != nil {
		_ = f.Close()
		logger.Error("write combined export", "path", combinedPath, "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		logger.Error("close combined export", "path", combinedPath, "error", err)
		os.Exit(1)
	}

	ledgerPath := filepath.Join(*out, "errors.csv")
	lf, err := os.Create(ledgerPath)
	if err != nil {
		logger.Error("create error ledger", "path", ledgerPath, "error", err)
		os.Exit(1)
	}
	if err := export.WriteLedgerCSV(lf, ledger); err != nil {
		_ = lf.Close()
		logger.Error("write error ledger", "path", ledgerPath, "error", err)
		os.Exit(1)
	}
	if err := lf.Close(); err != nil {
		logger.Error("close error ledger", "path", ledgerPath, "error", err)
		os.Exit(1)
	}

	logger.Info("batch.exports.ok",
		"combined", combinedPath,
		"ledger", ledgerPath,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	// Per-bundle failures are ledger entries, not a batch failure.
}
