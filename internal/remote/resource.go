// Package remote owns the lifecycle of one externally-processed file: upload,
// remote-processing poll, ready/failed classification and guaranteed
// best-effort release of both the remote artifact and any local conversion
// artifact.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/deep-enzyme/kinetics-audit/constants"
	"github.com/deep-enzyme/kinetics-audit/internal/common"
	"github.com/deep-enzyme/kinetics-audit/internal/genai"
)

// Files is the slice of the extraction service the resource manager needs.
type Files interface {
	UploadFile(ctx context.Context, path, mimeType string) (genai.FileInfo, error)
	GetFile(ctx context.Context, name string) (genai.FileInfo, error)
	DeleteFile(ctx context.Context, name string) error
}

// Config controls polling and local conversion. Sleep and Now exist so tests
// can drive PROCESSING transitions without wall-clock delay.
type Config struct {
	PollInterval     time.Duration
	PollTimeout      time.Duration
	ArtifactCacheDir string

	Sleep func(time.Duration)
	Now   func() time.Time
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 2 * time.Second
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = 5 * time.Minute
	}
	if c.ArtifactCacheDir == "" {
		c.ArtifactCacheDir = "./tmp"
	}
	if c.Sleep == nil {
		c.Sleep = time.Sleep
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// FromCommon adapts the application config.
func FromCommon(cfg common.RemoteConfig) Config {
	return Config{
		PollInterval:     cfg.PollInterval,
		PollTimeout:      cfg.PollTimeout,
		ArtifactCacheDir: cfg.ArtifactCacheDir,
	}
}

// Resource tracks one acquired remote file. It is always returned from
// Acquire, even on failure, so the caller can put it on its release list
// before inspecting the error.
type Resource struct {
	SourcePath string

	client   Files
	log      *slog.Logger
	state    constants.FileState
	info     genai.FileInfo
	artifact string // local conversion artifact, "" when the source was uploaded as-is
	released bool
}

// State returns the current lifecycle state.
func (r *Resource) State() constants.FileState {
	return r.state
}

// Handle returns the file part to reference in a generation call. Only valid
// in state READY.
func (r *Resource) Handle() genai.FilePart {
	return genai.FilePart{URI: r.info.URI, MIMEType: r.info.MIMEType}
}

// Acquire uploads path (converting spreadsheets to delimited text first) and
// blocks until the remote side reports the file ready or failed. The returned
// Resource is non-nil whenever there is anything to release; callers must
// Release it regardless of the returned error.
func Acquire(ctx context.Context, client Files, path string, cfg Config, logger *slog.Logger) (*Resource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	r := &Resource{
		SourcePath: path,
		client:     client,
		log:        logger,
		state:      constants.FileStateUploading,
	}

	uploadPath := path
	ext := filepath.Ext(path)
	mimeType := constants.MIMEType(ext)
	if constants.IsSpreadsheetExt(ext) {
		artifact, err := ConvertSpreadsheet(path, cfg.ArtifactCacheDir)
		if err != nil {
			r.state = constants.FileStateFailed
			return r, common.NewExtractionError(common.KindRemoteProcessingFailed,
				fmt.Sprintf("convert spreadsheet %s", path), err)
		}
		r.artifact = artifact
		uploadPath = artifact
		mimeType = "text/csv"
		logger.Info("upload.converted", "path", path, "artifact", artifact)
	}

	info, err := client.UploadFile(ctx, uploadPath, mimeType)
	if err != nil {
		r.state = constants.FileStateFailed
		return r, common.NewExtractionError(common.KindRemoteProcessingFailed,
			fmt.Sprintf("upload %s", path), err)
	}
	r.info = info
	r.state = constants.FileStateProcessing

	deadline := cfg.Now().Add(cfg.PollTimeout)
	for r.info.State == genai.RemoteStateProcessing {
		if cfg.Now().After(deadline) {
			r.state = constants.FileStateFailed
			return r, common.NewExtractionError(common.KindRemoteProcessingFailed,
				fmt.Sprintf("remote processing of %s timed out after %s", path, cfg.PollTimeout), nil)
		}
		cfg.Sleep(cfg.PollInterval)
		info, err := client.GetFile(ctx, r.info.Name)
		if err != nil {
			r.state = constants.FileStateFailed
			return r, common.NewExtractionError(common.KindRemoteProcessingFailed,
				fmt.Sprintf("poll %s", path), err)
		}
		r.info = info
	}

	if r.info.State != genai.RemoteStateActive {
		r.state = constants.FileStateFailed
		return r, common.NewExtractionError(common.KindRemoteProcessingFailed,
			fmt.Sprintf("remote processing of %s failed: %s", path, r.info.StateMessage()), nil)
	}

	r.state = constants.FileStateReady
	logger.Info("upload.ready", "path", path, "name", r.info.Name)
	return r, nil
}

// Release attempts deletion of the remote artifact and any local conversion
// artifact exactly once. Deletion failures are logged as warnings and never
// escalate: the operation this resource served must not fail merely because
// cleanup of a side effect did.
func (r *Resource) Release(ctx context.Context) {
	if r.released {
		return
	}
	r.released = true

	if r.info.Name != "" {
		if err := r.client.DeleteFile(ctx, r.info.Name); err != nil {
			r.log.Warn("release.remote_delete_failed", "name", r.info.Name, "error", err)
		}
	}
	if r.artifact != "" {
		if err := os.Remove(r.artifact); err != nil {
			r.log.Warn("release.artifact_delete_failed", "artifact", r.artifact, "error", err)
		}
	}
}
