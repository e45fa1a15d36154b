package domain

import (
	"sort"
	"strings"
)

// Drive MIME types for tabular files.
const (
	MimeTypeGoogleSheet = "application/vnd.google-apps.spreadsheet"
	MimeTypeExcel       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeTypeExcelLegacy = "application/vnd.ms-excel"
	MimeTypeCSV         = "text/csv"
)

// Spreadsheet is a tabular file visible in Google Drive. Timestamps keep
// the RFC 3339 strings the Drive API returns.
type Spreadsheet struct {
	ID           string
	Name         string
	MIMEType     string
	WebViewLink  string
	CreatedTime  string
	ModifiedTime string
}

// IsGoogleSheet returns true for native Google Sheets (as opposed to
// Excel or CSV files that need conversion before the Sheets API can
// read them).
func (s Spreadsheet) IsGoogleSheet() bool {
	return s.MIMEType == MimeTypeGoogleSheet
}

// BaseName strips a tabular file extension from the spreadsheet name.
// Used to match converted copies against their originals.
func (s Spreadsheet) BaseName() string {
	name := strings.TrimSpace(s.Name)
	lower := strings.ToLower(name)
	for _, ext := range []string{".xlsx", ".xls", ".csv"} {
		if strings.HasSuffix(lower, ext) {
			return strings.TrimSpace(name[:len(name)-len(ext)])
		}
	}
	return name
}

// SheetInfo describes one tab within a spreadsheet.
type SheetInfo struct {
	Title       string
	SheetID     int64
	RowCount    int64
	ColumnCount int64
}

// SpreadsheetInfo describes a spreadsheet and its tabs.
type SpreadsheetInfo struct {
	Title  string
	Sheets []SheetInfo
}

// ResponseRow is one data row keyed by the header row of its sheet.
// Cells missing from ragged rows are present with an empty value.
type ResponseRow map[string]string

// Columns returns the row's column names sorted, so rendered output is
// stable across runs.
func (r ResponseRow) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// AutoConvertResult summarises a bulk conversion pass.
type AutoConvertResult struct {
	// Converted counts files copied into native Google Sheets.
	Converted int

	// Skipped counts tabular files left alone because a Google Sheet
	// with the same base name already exists.
	Skipped int
}
