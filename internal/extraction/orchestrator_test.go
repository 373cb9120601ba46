package extraction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deep-enzyme/kinetics-audit/internal/common"
	"github.com/deep-enzyme/kinetics-audit/internal/genai"
	"github.com/deep-enzyme/kinetics-audit/internal/remote"
)

const validResponse = `{
	"variants": [{
		"sample_id": "LCC-ICCG",
		"tm_c": 94.5,
		"measurements": [{
			"time_h": 24,
			"reported_metrics": [{"type": "kcat", "value": 5.2, "unit": "min-1"}],
			"evidence": {
				"raw_text_snippet": "kcat of 5.2 min-1",
				"page_number": 4,
				"location_type": "Table 2",
				"confidence_score": 0.95
			}
		}]
	}]
}`

// fakeBackend scripts remote file states per path and the generation outcome,
// counting deletions per remote name for the cleanup guarantee.
type fakeBackend struct {
	fileStates map[string]string // base name → upload state (ACTIVE or FAILED)
	genResp    *genai.GenerateResponse
	genErr     error

	genCalls    int
	genFiles    int
	deleted     map[string]int
	uploadNames []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		fileStates: map[string]string{},
		deleted:    map[string]int{},
	}
}

func (b *fakeBackend) UploadFile(_ context.Context, path, mimeType string) (genai.FileInfo, error) {
	base := filepath.Base(path)
	state, ok := b.fileStates[base]
	if !ok {
		state = genai.RemoteStateActive
	}
	name := "files/" + base
	b.uploadNames = append(b.uploadNames, name)
	return genai.FileInfo{Name: name, URI: "https://" + name, MIMEType: mimeType, State: state}, nil
}

func (b *fakeBackend) GetFile(_ context.Context, name string) (genai.FileInfo, error) {
	return genai.FileInfo{Name: name, State: genai.RemoteStateActive}, nil
}

func (b *fakeBackend) DeleteFile(_ context.Context, name string) error {
	b.deleted[name]++
	return nil
}

func (b *fakeBackend) GenerateContent(_ context.Context, req genai.GenerateRequest) (*genai.GenerateResponse, error) {
	b.genCalls++
	b.genFiles = len(req.Files)
	if b.genErr != nil {
		return nil, b.genErr
	}
	return b.genResp, nil
}

func textResponse(text string) *genai.GenerateResponse {
	return &genai.GenerateResponse{
		Candidates: []genai.Candidate{
			{Content: genai.Content{Parts: []genai.Part{{Text: text}}}},
		},
	}
}

func testFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("content"), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestExtractSuccess(t *testing.T) {
	backend := newFakeBackend()
	backend.genResp = textResponse(validResponse)
	orch := NewOrchestrator(backend, remote.Config{}, nil)

	paths := testFiles(t, "paper.pdf", "supp.txt")
	result, err := orch.Extract(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, result.Variants, 1)
	assert.Equal(t, "LCC-ICCG", result.Variants[0].SampleID)
	assert.Equal(t, 2, backend.genFiles)

	// Every acquired resource was released exactly once.
	assert.Equal(t, map[string]int{"files/paper.pdf": 1, "files/supp.txt": 1}, backend.deleted)
}

func TestExtractSkipsFailedFile(t *testing.T) {
	backend := newFakeBackend()
	backend.genResp = textResponse(validResponse)
	backend.fileStates["broken.pdf"] = genai.RemoteStateFailed
	orch := NewOrchestrator(backend, remote.Config{}, nil)

	paths := testFiles(t, "broken.pdf", "good.pdf")
	result, err := orch.Extract(context.Background(), paths)
	require.NoError(t, err)
	require.NotNil(t, result)

	// Only the ready handle went into the call; both remote files got cleaned.
	assert.Equal(t, 1, backend.genFiles)
	assert.Equal(t, map[string]int{"files/broken.pdf": 1, "files/good.pdf": 1}, backend.deleted)
}

func TestExtractNoUsableInput(t *testing.T) {
	backend := newFakeBackend()
	backend.fileStates["a.pdf"] = genai.RemoteStateFailed
	backend.fileStates["b.pdf"] = genai.RemoteStateFailed
	orch := NewOrchestrator(backend, remote.Config{}, nil)

	paths := testFiles(t, "a.pdf", "b.pdf")
	_, err := orch.Extract(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, common.KindNoUsableInput, common.ErrorKind(err))
	assert.Zero(t, backend.genCalls)
	assert.Equal(t, map[string]int{"files/a.pdf": 1, "files/b.pdf": 1}, backend.deleted)
}

func TestExtractGenerationBlocked(t *testing.T) {
	backend := newFakeBackend()
	backend.genResp = &genai.GenerateResponse{} // no candidates at all
	orch := NewOrchestrator(backend, remote.Config{}, nil)

	paths := testFiles(t, "paper.pdf")
	_, err := orch.Extract(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, common.KindGenerationBlocked, common.ErrorKind(err))
	assert.Equal(t, map[string]int{"files/paper.pdf": 1}, backend.deleted)
}

func TestExtractEmptyResponse(t *testing.T) {
	backend := newFakeBackend()
	backend.genResp = textResponse("   ")
	orch := NewOrchestrator(backend, remote.Config{}, nil)

	paths := testFiles(t, "paper.pdf")
	_, err := orch.Extract(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, common.KindEmptyResponse, common.ErrorKind(err))
	assert.Equal(t, map[string]int{"files/paper.pdf": 1}, backend.deleted)
}

func TestExtractResponseSchemaMismatch(t *testing.T) {
	backend := newFakeBackend()
	backend.genResp = textResponse(`{"variants": [{"measurements": []}]}`)
	orch := NewOrchestrator(backend, remote.Config{}, nil)

	paths := testFiles(t, "paper.pdf")
	_, err := orch.Extract(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, common.KindResponseSchemaMismatch, common.ErrorKind(err))
	// The raw response is echoed for diagnosis.
	assert.Contains(t, err.Error(), "raw response starts")
	assert.Equal(t, map[string]int{"files/paper.pdf": 1}, backend.deleted)
}

func TestExtractTransportErrorStillReleases(t *testing.T) {
	backend := newFakeBackend()
	backend.genErr = fmt.Errorf("connection reset by peer")
	orch := NewOrchestrator(backend, remote.Config{}, nil)

	paths := testFiles(t, "paper.pdf", "supp.txt")
	_, err := orch.Extract(context.Background(), paths)
	require.Error(t, err)
	assert.Equal(t, common.KindUnknown, common.ErrorKind(err))
	assert.Equal(t, map[string]int{"files/paper.pdf": 1, "files/supp.txt": 1}, backend.deleted)
}
