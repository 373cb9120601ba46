// Package extraction coordinates one extraction call: acquire a remote
// resource per input file, invoke the generation endpoint over the ready
// handles, parse the response into the typed graph, and release every
// acquired resource on every exit path.
package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/deep-enzyme/kinetics-audit/internal/common"
	"github.com/deep-enzyme/kinetics-audit/internal/genai"
	"github.com/deep-enzyme/kinetics-audit/internal/remote"
	"github.com/deep-enzyme/kinetics-audit/internal/schema"
)

// rawSnippetLimit bounds how much of an unparseable response is echoed into
// the error for diagnosis.
const rawSnippetLimit = 1000

// Backend is the full extraction-service surface the orchestrator drives.
type Backend interface {
	remote.Files
	GenerateContent(ctx context.Context, req genai.GenerateRequest) (*genai.GenerateResponse, error)
}

// Orchestrator runs single-bundle extractions. It exclusively owns the
// resources it acquires; no two concurrent calls share a resource.
type Orchestrator struct {
	backend   Backend
	remoteCfg remote.Config
	log       *slog.Logger

	// acquire is swappable in tests.
	acquire func(ctx context.Context, client remote.Files, path string, cfg remote.Config, logger *slog.Logger) (*remote.Resource, error)
}

func NewOrchestrator(backend Backend, remoteCfg remote.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		backend:   backend,
		remoteCfg: remoteCfg,
		log:       logger,
		acquire:   remote.Acquire,
	}
}

// Extract submits every input file, runs the extraction call over the ones
// that reached READY and returns the validated graph. A single bad file is
// skipped with a warning; everything else in the §7 taxonomy is fatal for the
// bundle. Every acquired resource is released before returning, whatever the
// outcome.
func (o *Orchestrator) Extract(ctx context.Context, paths []string) (*schema.ExtractionResult, error) {
	start := time.Now()
	o.log.Info("extract.start", "files", len(paths))

	var acquired []*remote.Resource
	defer func() {
		for _, r := range acquired {
			r.Release(ctx)
		}
	}()

	var ready []*remote.Resource
	for _, path := range paths {
		res, err := o.acquire(ctx, o.backend, path, o.remoteCfg, o.log)
		if res != nil {
			acquired = append(acquired, res)
		}
		if err != nil {
			// One bad file must not abort the bundle.
			o.log.Warn("extract.file.skipped", "path", path, "error", err)
			continue
		}
		ready = append(ready, res)
	}
	if len(ready) == 0 {
		return nil, common.NewExtractionError(common.KindNoUsableInput,
			fmt.Sprintf("all %d input files failed remote processing", len(paths)), nil)
	}

	handles := make([]genai.FilePart, 0, len(ready))
	for _, r := range ready {
		handles = append(handles, r.Handle())
	}

	resp, err := o.backend.GenerateContent(ctx, genai.GenerateRequest{
		Files:          handles,
		Instruction:    buildInstruction(),
		ResponseSchema: schema.BuildExtractionSchema(),
	})
	if err != nil {
		return nil, common.WrapError(err, "extraction call")
	}

	if !resp.HasParts() {
		return nil, common.NewExtractionError(common.KindGenerationBlocked,
			fmt.Sprintf("extraction call returned no content parts: %s", resp.FeedbackSummary()), nil)
	}
	text := resp.Text()
	if text == "" {
		return nil, common.NewExtractionError(common.KindEmptyResponse,
			"extraction call returned no parseable text", nil)
	}

	result, err := schema.ParseResult([]byte(text))
	if err != nil {
		return nil, common.NewExtractionError(common.KindResponseSchemaMismatch,
			fmt.Sprintf("response did not match the extraction schema; raw response starts: %q", truncateRaw(text)), err)
	}

	if n := len(result.FiguresRequiringDigitization); n > 0 {
		o.log.Warn("extract.figures_flagged", "count", n)
	}
	o.log.Info("extract.ok",
		"files_ready", len(ready),
		"files_skipped", len(paths)-len(ready),
		"variants", len(result.Variants),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func truncateRaw(s string) string {
	if len(s) <= rawSnippetLimit {
		return s
	}
	return s[:rawSnippetLimit]
}
