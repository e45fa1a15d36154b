package driven

import (
	"context"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

// ListOptions filters a spreadsheet catalog listing.
type ListOptions struct {
	// FolderID limits results to one Drive folder when set.
	FolderID string

	// IncludeExcel also returns Excel and CSV files.
	IncludeExcel bool

	// MaxResults caps the number of files returned. Zero means the
	// gateway default.
	MaxResults int64
}

// SheetsGateway provides read access to Google Drive spreadsheets and
// their contents, plus the one write-shaped operation the original
// product had: copying an Excel file into a native Google Sheet so the
// Sheets API can read it.
type SheetsGateway interface {
	// ListSpreadsheets returns tabular files visible to the service
	// account across all drives, newest modified first.
	ListSpreadsheets(ctx context.Context, opts ListOptions) ([]domain.Spreadsheet, error)

	// SpreadsheetInfo returns a spreadsheet's title and tabs.
	SpreadsheetInfo(ctx context.Context, spreadsheetID string) (*domain.SpreadsheetInfo, error)

	// FormResponses reads a sheet's rows mapped by its header row.
	// An empty sheetName selects the first tab.
	FormResponses(ctx context.Context, spreadsheetID, sheetName string) ([]domain.ResponseRow, error)

	// ConvertToGoogleSheet copies an Excel/CSV Drive file into a native
	// Google Sheet and returns the new file.
	ConvertToGoogleSheet(ctx context.Context, fileID, title, folderID string) (*domain.Spreadsheet, error)
}
