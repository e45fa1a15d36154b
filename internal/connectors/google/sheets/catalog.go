package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/alpha-insights/alphy-cli/internal/connectors/google"
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// DefaultMaxResults caps a catalog listing when the caller does not.
const DefaultMaxResults = 100

// pageSize is the per-request page size for Drive listings.
const pageSize = 100

// listFields is the Drive fields selector for catalog listings.
const listFields = "nextPageToken, files(id, name, mimeType, webViewLink, createdTime, modifiedTime)"

// Gateway implements the spreadsheet gateway against the live Drive and
// Sheets APIs.
type Gateway struct {
	drive   *drive.Service
	sheets  *sheetsapi.Service
	driveRL *google.RateLimiter
	sheetRL *google.RateLimiter
}

var _ driven.SheetsGateway = (*Gateway)(nil)

// NewGateway creates a gateway over already-authenticated API clients.
func NewGateway(drv *drive.Service, shs *sheetsapi.Service) *Gateway {
	return &Gateway{
		drive:   drv,
		sheets:  shs,
		driveRL: google.NewRateLimiter(google.ServiceDrive),
		sheetRL: google.NewRateLimiter(google.ServiceSheets),
	}
}

// ListSpreadsheets returns tabular files visible to the service account,
// newest modified first. The listing spans shared drives because service
// accounts mostly see files through sharing.
func (g *Gateway) ListSpreadsheets(ctx context.Context, opts driven.ListOptions) ([]domain.Spreadsheet, error) {
	max := opts.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}

	var (
		results   []domain.Spreadsheet
		pageToken string
	)

	for {
		if err := g.driveRL.Wait(ctx); err != nil {
			return nil, err
		}

		call := g.drive.Files.List().
			Context(ctx).
			Q(buildQuery(opts)).
			Fields(listFields).
			OrderBy("modifiedTime desc").
			PageSize(pageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("sheets: list drive files: %w", google.WrapError(err))
		}

		for _, f := range page.Files {
			results = append(results, fileToSpreadsheet(f))
			if int64(len(results)) >= max {
				logger.Debug("catalog listing capped at %d files", max)
				return results, nil
			}
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	logger.Debug("catalog listing returned %d files", len(results))
	return results, nil
}

// buildQuery renders the Drive search query for a catalog listing.
func buildQuery(opts driven.ListOptions) string {
	mimes := []string{domain.MimeTypeGoogleSheet}
	if opts.IncludeExcel {
		mimes = append(mimes, domain.MimeTypeExcel, domain.MimeTypeExcelLegacy, domain.MimeTypeCSV)
	}

	clauses := make([]string, 0, len(mimes))
	for _, m := range mimes {
		clauses = append(clauses, fmt.Sprintf("mimeType='%s'", m))
	}

	query := "(" + strings.Join(clauses, " or ") + ") and trashed=false"
	if opts.FolderID != "" {
		query += fmt.Sprintf(" and '%s' in parents", opts.FolderID)
	}
	return query
}

func fileToSpreadsheet(f *drive.File) domain.Spreadsheet {
	return domain.Spreadsheet{
		ID:           f.Id,
		Name:         f.Name,
		MIMEType:     f.MimeType,
		WebViewLink:  f.WebViewLink,
		CreatedTime:  f.CreatedTime,
		ModifiedTime: f.ModifiedTime,
	}
}
