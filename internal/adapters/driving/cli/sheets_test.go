package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

func withSpreadsheets(t *testing.T, mock *mockSpreadsheetService) {
	t.Helper()
	old := spreadsheetService
	spreadsheetService = mock
	t.Cleanup(func() { spreadsheetService = old })
}

func TestSheetsList(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{sheets: []domain.Spreadsheet{
		{ID: "s1", Name: "Survey", MIMEType: domain.MimeTypeGoogleSheet, ModifiedTime: "2026-08-01T10:00:00Z"},
		{ID: "x1", Name: "Budget.xlsx", MIMEType: domain.MimeTypeExcel},
	}})

	out, err := execute(t, "sheets", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 spreadsheet(s)")
	assert.Contains(t, out, "Survey")
	assert.Contains(t, out, "Budget.xlsx [Excel]")
}

func TestSheetsList_Empty(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{})

	out, err := execute(t, "sheets", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No spreadsheets found")
	assert.Contains(t, out, "Share files with the service account")
}

func TestSheetsResponses_ByName(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{
		sheets: []domain.Spreadsheet{
			{ID: "s1", Name: "Survey", MIMEType: domain.MimeTypeGoogleSheet},
		},
		rows: []domain.ResponseRow{{"Name": "Ana", "Score": "42"}},
	})

	out, err := execute(t, "sheets", "responses", "survey")

	require.NoError(t, err)
	assert.Contains(t, out, `Responses from "Survey" - 1 total`)
	assert.Contains(t, out, "Name: Ana")
}

func TestSheetsResponses_ColumnsInStableOrder(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{
		sheets: []domain.Spreadsheet{
			{ID: "s1", Name: "Survey", MIMEType: domain.MimeTypeGoogleSheet},
		},
		rows: []domain.ResponseRow{{"Timestamp": "t1", "Name": "Ana", "Score": "42"}},
	})

	out, err := execute(t, "sheets", "responses", "s1")

	require.NoError(t, err)
	name := strings.Index(out, "Name: Ana")
	score := strings.Index(out, "Score: 42")
	ts := strings.Index(out, "Timestamp: t1")
	require.NotEqual(t, -1, name)
	assert.Less(t, name, score)
	assert.Less(t, score, ts)
}

func TestSheetsResponses_NotFound(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{
		sheets: []domain.Spreadsheet{{ID: "s1", Name: "Survey"}},
	})

	_, err := execute(t, "sheets", "responses", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSheetsInfo(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{
		sheets: []domain.Spreadsheet{{ID: "s1", Name: "Survey"}},
		info: &domain.SpreadsheetInfo{
			Title: "Survey",
			Sheets: []domain.SheetInfo{
				{Title: "Responses", RowCount: 120, ColumnCount: 8},
			},
		},
	})

	out, err := execute(t, "sheets", "info", "s1")

	require.NoError(t, err)
	assert.Contains(t, out, "Responses (120 rows x 8 columns)")
}

func TestSheetsConvert(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{
		sheets: []domain.Spreadsheet{
			{ID: "x1", Name: "Budget.xlsx", MIMEType: domain.MimeTypeExcel},
		},
	})

	out, err := execute(t, "sheets", "convert", "Budget.xlsx")

	require.NoError(t, err)
	assert.Contains(t, out, `Converted "Budget.xlsx" to Google Sheet "Budget"`)
}

func TestSheetsConvert_All(t *testing.T) {
	mock := &mockSpreadsheetService{autoResult: domain.AutoConvertResult{Converted: 2, Skipped: 3}}
	withSpreadsheets(t, mock)
	t.Cleanup(func() { sheetsConvertAllFlag = false })

	out, err := execute(t, "sheets", "convert", "--all", "--max", "5")

	require.NoError(t, err)
	assert.Equal(t, 5, mock.autoMaxSeen)
	assert.Contains(t, out, "Converted 2 file(s), skipped 3")
}

func TestSheetsConvert_NoArgsWithoutAll(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{})

	_, err := execute(t, "sheets", "convert")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --all")
}

func TestSheetsConvert_AlreadyNative(t *testing.T) {
	withSpreadsheets(t, &mockSpreadsheetService{
		sheets: []domain.Spreadsheet{
			{ID: "s1", Name: "Survey", MIMEType: domain.MimeTypeGoogleSheet},
		},
	})

	_, err := execute(t, "sheets", "convert", "s1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already a native Google Sheet")
}

func TestSheets_NotConfigured(t *testing.T) {
	old := spreadsheetService
	spreadsheetService = nil
	t.Cleanup(func() { spreadsheetService = old })

	_, err := execute(t, "sheets", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "alphy creds check")
}
