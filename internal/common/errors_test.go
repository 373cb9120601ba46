package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionErrorMessage(t *testing.T) {
	err := NewExtractionError(KindRemoteProcessingFailed, "upload supp.xlsx", fmt.Errorf("status 500"))
	assert.Equal(t, "REMOTE_PROCESSING_FAILED: upload supp.xlsx: status 500", err.Error())
	assert.Equal(t, "status 500", err.Unwrap().Error())

	bare := NewExtractionError(KindEmptyResponse, "no parseable text", nil)
	assert.Equal(t, "EMPTY_RESPONSE: no parseable text", bare.Error())
	require.NoError(t, bare.Unwrap())
}

func TestErrorKind(t *testing.T) {
	err := NewExtractionError(KindGenerationBlocked, "safety filtered", nil)
	assert.Equal(t, KindGenerationBlocked, ErrorKind(err))

	// Kind survives wrapping.
	wrapped := WrapError(err, "bundle paper-2")
	assert.Equal(t, KindGenerationBlocked, ErrorKind(wrapped))

	assert.Equal(t, KindUnknown, ErrorKind(fmt.Errorf("plain")))
}

func TestWrapErrorNil(t *testing.T) {
	require.NoError(t, WrapError(nil, "context"))
}
