package google

import (
	"context"
	"fmt"

	gauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

// Scopes requested for the service account. Drive needs write access so
// Excel uploads can be copied into native Google Sheets; Sheets access
// is read-only because form responses are never mutated.
var Scopes = []string{
	drive.DriveScope,
	sheets.SpreadsheetsReadonlyScope,
}

// NewDriveService builds a Drive API client authenticated as the service account.
func NewDriveService(ctx context.Context, cred *domain.ServiceAccountCredential) (*drive.Service, error) {
	client, err := serviceClient(ctx, cred)
	if err != nil {
		return nil, err
	}
	return drive.NewService(ctx, client)
}

// NewSheetsService builds a Sheets API client authenticated as the service account.
func NewSheetsService(ctx context.Context, cred *domain.ServiceAccountCredential) (*sheets.Service, error) {
	client, err := serviceClient(ctx, cred)
	if err != nil {
		return nil, err
	}
	return sheets.NewService(ctx, client)
}

func serviceClient(ctx context.Context, cred *domain.ServiceAccountCredential) (option.ClientOption, error) {
	if cred == nil {
		return nil, fmt.Errorf("google: %w", domain.ErrCredentialInvalid)
	}

	cfg, err := gauth.JWTConfigFromJSON(cred.JSON(), Scopes...)
	if err != nil {
		// The error from the oauth2 package never echoes the key material,
		// so wrapping it is safe to surface.
		return nil, fmt.Errorf("google: build jwt config for %s: %w", cred.ClientEmail, err)
	}

	return option.WithHTTPClient(cfg.Client(ctx)), nil
}
