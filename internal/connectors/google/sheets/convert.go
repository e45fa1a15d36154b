package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"

	"github.com/alpha-insights/alphy-cli/internal/connectors/google"
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// ConvertToGoogleSheet copies an Excel/CSV Drive file into a native
// Google Sheet. Drive performs the format conversion as part of the
// copy when the target MIME type is the Google Sheets type. The source
// file is left untouched.
func (g *Gateway) ConvertToGoogleSheet(ctx context.Context, fileID, title, folderID string) (*domain.Spreadsheet, error) {
	if err := g.driveRL.Wait(ctx); err != nil {
		return nil, err
	}

	target := &drive.File{
		Name:     title,
		MimeType: domain.MimeTypeGoogleSheet,
	}
	if folderID != "" {
		target.Parents = []string{folderID}
	}

	copied, err := g.drive.Files.Copy(fileID, target).
		Context(ctx).
		Fields("id, name, mimeType, webViewLink, createdTime, modifiedTime").
		SupportsAllDrives(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: convert file %s: %w", fileID, google.WrapError(err))
	}

	logger.Info("converted %s into google sheet %s", fileID, copied.Id)
	result := fileToSpreadsheet(copied)
	return &result, nil
}
