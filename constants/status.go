package constants

// FileState is the local lifecycle state of one remotely-processed file.
type FileState string

// Stable values (these exact strings appear in logs).
const (
	FileStateUploading  FileState = "UPLOADING"  // submission in flight
	FileStateProcessing FileState = "PROCESSING" // remote side acknowledged, being processed
	FileStateReady      FileState = "READY"      // terminal success, handle usable
	FileStateFailed     FileState = "FAILED"     // terminal failure
)
