package genai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Remote file states as reported by the service.
const (
	RemoteStateProcessing = "PROCESSING"
	RemoteStateActive     = "ACTIVE"
	RemoteStateFailed     = "FAILED"
)

// FileError is the diagnostic the remote side attaches to a failed file.
type FileError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// FileInfo describes one uploaded file on the remote side.
type FileInfo struct {
	Name        string     `json:"name"` // e.g. "files/abc-123"
	DisplayName string     `json:"displayName,omitempty"`
	MIMEType    string     `json:"mimeType,omitempty"`
	URI         string     `json:"uri,omitempty"`
	State       string     `json:"state,omitempty"`
	Error       *FileError `json:"error,omitempty"`
}

// StateMessage returns whatever diagnostic the remote side attached to a
// failed file, or the bare state when there is none.
func (f FileInfo) StateMessage() string {
	if f.Error != nil && f.Error.Message != "" {
		return f.Error.Message
	}
	return f.State
}

// UploadFile uploads one local file through the resumable upload protocol
// (start + single upload-and-finalize round trip) and returns its remote
// descriptor. The returned state is usually PROCESSING.
func (c *Client) UploadFile(ctx context.Context, path, mimeType string) (FileInfo, error) {
	rid := uuid.New().String()
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return FileInfo{}, fmt.Errorf("read upload source: %w", err)
	}
	displayName := filepath.Base(path)

	c.log.Info("files.upload.start",
		"req_id", rid,
		"path", path,
		"mime_type", mimeType,
		"size", len(data),
	)

	// Step 1: start the resumable session.
	startURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/upload/v1beta/files?key=" + c.cfg.APIKey
	meta := map[string]any{"file": map[string]any{"display_name": displayName}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, startURL, bytes.NewReader(mustJSON(meta)))
	if err != nil {
		return FileInfo{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.Itoa(len(data)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FileInfo{}, fmt.Errorf("upload start: %w", err)
	}
	uploadURL := resp.Header.Get("X-Goog-Upload-URL")
	if err := drainAndClose(resp); err != nil {
		return FileInfo{}, err
	}
	if uploadURL == "" {
		return FileInfo{}, fmt.Errorf("upload start: missing upload URL in response")
	}

	// Step 2: send the bytes and finalize.
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return FileInfo{}, err
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")
	req.Header.Set("X-Goog-Upload-Offset", "0")

	var out struct {
		File FileInfo `json:"file"`
	}
	if err := c.doJSON(req, &out); err != nil {
		c.log.Error("files.upload.failed",
			"req_id", rid, "path", path, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return FileInfo{}, fmt.Errorf("upload finalize: %w", err)
	}

	c.log.Info("files.upload.ok",
		"req_id", rid,
		"name", out.File.Name,
		"state", out.File.State,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.File, nil
}

// GetFile fetches the current remote descriptor for name ("files/...").
func (c *Client) GetFile(ctx context.Context, name string) (FileInfo, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1beta/" + name + "?key=" + c.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FileInfo{}, err
	}
	var out FileInfo
	if err := c.doJSON(req, &out); err != nil {
		return FileInfo{}, fmt.Errorf("get file %s: %w", name, err)
	}
	return out, nil
}

// DeleteFile requests deletion of the remote file.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1beta/" + name + "?key=" + c.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete file %s: %w", name, err)
	}
	if err := drainAndClose(resp); err != nil {
		return fmt.Errorf("delete file %s: %w", name, err)
	}
	c.log.Info("files.delete.ok", "name", name)
	return nil
}

// drainAndClose consumes the body, closes it and converts non-2xx statuses to
// errors carrying the response text.
func drainAndClose(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
