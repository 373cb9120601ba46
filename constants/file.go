package constants

import "strings"

// AllowedExtensions holds the default allowed file extensions for evidence
// bundles: papers, supplementary spreadsheets, figures and plain-text exports.
// Only OOXML workbooks are accepted; legacy .xls cannot be converted.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"xlsx": {},
	"xlsm": {},
	"csv":  {},
	"tsv":  {},
	"txt":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// SpreadsheetExtensions are the formats rendered to delimited text before
// upload; the extraction service reads text far more reliably than binary
// workbooks.
var SpreadsheetExtensions = map[string]struct{}{
	"xlsx": {},
	"xlsm": {},
}

// mimeTypes maps a normalized extension to the MIME type declared on upload.
var mimeTypes = map[string]string{
	"pdf":  "application/pdf",
	"csv":  "text/csv",
	"tsv":  "text/tab-separated-values",
	"txt":  "text/plain",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt checks if a file extension is in the allowed set.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// IsSpreadsheetExt checks if a file extension is a spreadsheet format.
func IsSpreadsheetExt(ext string) bool {
	_, ok := SpreadsheetExtensions[NormalizeExt(ext)]
	return ok
}

// MIMEType returns the upload MIME type for a file extension, defaulting to
// application/octet-stream for anything unmapped.
func MIMEType(ext string) string {
	if mt, ok := mimeTypes[NormalizeExt(ext)]; ok {
		return mt
	}
	return "application/octet-stream"
}
