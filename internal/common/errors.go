package common

import (
	"errors"
	"fmt"
)

// Error kinds for extraction failures. Stable values: these exact strings are
// written to the batch error ledger.
const (
	KindSchemaViolation        = "SCHEMA_VIOLATION"         // structured document does not match the schema
	KindRemoteProcessingFailed = "REMOTE_PROCESSING_FAILED" // remote side could not process an uploaded file
	KindNoUsableInput          = "NO_USABLE_INPUT"          // every file in a bundle failed remote processing
	KindGenerationBlocked      = "GENERATION_BLOCKED"       // extraction call refused to produce content
	KindEmptyResponse          = "EMPTY_RESPONSE"           // extraction call produced no text
	KindResponseSchemaMismatch = "RESPONSE_SCHEMA_MISMATCH" // text produced but did not parse into the expected structure
	KindUnknown                = "UNKNOWN"                  // anything outside the taxonomy (transport errors etc.)
)

// ExtractionError is an extraction failure with a taxonomy kind.
type ExtractionError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError builds an ExtractionError for one of the kind constants.
func NewExtractionError(kind, message string, cause error) *ExtractionError {
	return &ExtractionError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// ErrorKind reports the taxonomy kind of err, or KindUnknown when err carries
// no ExtractionError anywhere in its chain.
func ErrorKind(err error) string {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return KindUnknown
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
