package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedExt(t *testing.T) {
	assert.True(t, IsAllowedExt(".pdf"))
	assert.True(t, IsAllowedExt("XLSX"))
	assert.False(t, IsAllowedExt(".docx"))

	// Legacy binary workbooks cannot be converted, so they are not accepted.
	assert.False(t, IsAllowedExt(".xls"))
	assert.False(t, IsSpreadsheetExt(".xls"))
}

func TestIsSpreadsheetExt(t *testing.T) {
	assert.True(t, IsSpreadsheetExt(".xlsx"))
	assert.True(t, IsSpreadsheetExt("xlsm"))
	assert.False(t, IsSpreadsheetExt(".csv"))
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", MIMEType(".pdf"))
	assert.Equal(t, "text/csv", MIMEType("csv"))
	assert.Equal(t, "application/octet-stream", MIMEType(".xlsx"))
}
