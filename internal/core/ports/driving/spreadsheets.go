package driving

import (
	"context"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

// SpreadsheetService drives the spreadsheet catalog and reads.
type SpreadsheetService interface {
	// Catalog returns the spreadsheets visible to the service account.
	// Results are cached per session; reload forces a refresh.
	Catalog(ctx context.Context, reload bool) ([]domain.Spreadsheet, error)

	// Responses reads header-mapped rows from a spreadsheet. Excel and
	// CSV files are converted to a native Google Sheet first.
	Responses(ctx context.Context, sheet domain.Spreadsheet) ([]domain.ResponseRow, error)

	// Info returns a spreadsheet's title and tabs.
	Info(ctx context.Context, spreadsheetID string) (*domain.SpreadsheetInfo, error)

	// Convert copies an Excel/CSV Drive file into a native Google Sheet.
	Convert(ctx context.Context, fileID, title string) (*domain.Spreadsheet, error)

	// AutoConvert converts every Excel/CSV file whose base name has no
	// native Google Sheet yet, up to maxConversions copies.
	AutoConvert(ctx context.Context, maxConversions int) (domain.AutoConvertResult, error)
}
