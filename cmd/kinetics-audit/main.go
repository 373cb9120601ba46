package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/deep-enzyme/kinetics-audit/constants"
	"github.com/deep-enzyme/kinetics-audit/internal/common"
	"github.com/deep-enzyme/kinetics-audit/internal/export"
	"github.com/deep-enzyme/kinetics-audit/internal/extraction"
	"github.com/deep-enzyme/kinetics-audit/internal/flatten"
	"github.com/deep-enzyme/kinetics-audit/internal/genai"
	"github.com/deep-enzyme/kinetics-audit/internal/remote"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		files    = flag.String("files", "", "comma-separated evidence files for one article (required)")
		out      = flag.String("out", ".", "output directory")
		withJSON = flag.Bool("json", false, "also write the structured JSON export")
		withXLSX = flag.Bool("xlsx", false, "also write an XLSX workbook")
	)
	flag.Parse()

	if *files == "" {
		printError("Error: --files is required\n")
		os.Exit(1)
	}
	paths := strings.Split(*files, ",")
	for i, p := range paths {
		paths[i] = strings.TrimSpace(p)
	}
	for _, p := range paths {
		if !constants.IsAllowedExt(filepath.Ext(p)) {
			printError("Error: unsupported input file type: %s\n", p)
			os.Exit(1)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; real env always wins.
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if cfg.GenAI.APIKey == "" {
		logger.Error("GEMINI_API_KEY env var is required")
		os.Exit(2)
	}

	ctx := context.Background()
	client := genai.NewClientFromConfig(cfg.GenAI, logger)
	orch := extraction.NewOrchestrator(client, remote.FromCommon(cfg.Remote), logger)

	result, err := orch.Extract(ctx, paths)
	if err != nil {
		logger.Error("extraction failed", "kind", common.ErrorKind(err), "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*out, 0o755); err != nil {
		logger.Error("create output directory", "dir", *out, "error", err)
		os.Exit(1)
	}

	table := flatten.Flatten(result)
	csvPath := filepath.Join(*out, "extraction.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		logger.Error("create csv export", "path", csvPath, "error", err)
		os.Exit(1)
	}
	if err := export.WriteTableCSV(f, table); err != nil {
		_ = f.Close()
		logger.Error("write csv export", "path", csvPath, "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		logger.Error("close csv export", "path", csvPath, "error", err)
		os.Exit(1)
	}
	logger.Info("export.csv.ok", "path", csvPath, "rows", len(table.Rows))

	if *withJSON {
		b, err := export.ResultJSON(result)
		if err != nil {
			logger.Error("render json export", "error", err)
			os.Exit(1)
		}
		jsonPath := filepath.Join(*out, "extraction.json")
		if err := os.WriteFile(jsonPath, b, 0o644); err != nil {
			logger.Error("write json export", "path", jsonPath, "error", err)
			os.Exit(1)
		}
		logger.Info("export.json.ok", "path", jsonPath)
	}

	if *withXLSX {
		b, err := export.TableXLSX(table)
		if err != nil {
			logger.Error("render xlsx export", "error", err)
			os.Exit(1)
		}
		xlsxPath := filepath.Join(*out, "extraction.xlsx")
		if err := os.WriteFile(xlsxPath, b, 0o644); err != nil {
			logger.Error("write xlsx export", "path", xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("export.xlsx.ok", "path", xlsxPath)
	}
}
