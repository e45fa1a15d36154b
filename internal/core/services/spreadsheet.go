package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driving"
	"github.com/alpha-insights/alphy-cli/internal/logger"
)

// Ensure SpreadsheetService implements the interface.
var _ driving.SpreadsheetService = (*SpreadsheetService)(nil)

// SpreadsheetService drives the spreadsheet catalog and reads. The
// catalog cache is per service instance, which is per session - there
// is deliberately no process-wide cache.
type SpreadsheetService struct {
	gateway  driven.SheetsGateway
	settings domain.SheetsSettings

	mu      sync.Mutex
	catalog []domain.Spreadsheet
	loaded  bool
}

// NewSpreadsheetService creates a spreadsheet service. A nil gateway
// puts the service in degraded mode: every call returns
// domain.ErrSheetsUnavailable.
func NewSpreadsheetService(gateway driven.SheetsGateway, settings domain.SheetsSettings) *SpreadsheetService {
	return &SpreadsheetService{
		gateway:  gateway,
		settings: settings,
	}
}

// Catalog returns the spreadsheets visible to the service account,
// cached for the session until reload is requested.
func (s *SpreadsheetService) Catalog(ctx context.Context, reload bool) ([]domain.Spreadsheet, error) {
	if s.gateway == nil {
		return nil, domain.ErrSheetsUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && !reload {
		return s.catalog, nil
	}

	sheets, err := s.gateway.ListSpreadsheets(ctx, driven.ListOptions{
		FolderID:     s.settings.FolderID,
		IncludeExcel: s.settings.IncludeExcel,
		MaxResults:   s.settings.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("list spreadsheets: %w", err)
	}

	logger.Info("catalog: %d spreadsheet(s) visible", len(sheets))
	s.catalog = sheets
	s.loaded = true
	return sheets, nil
}

// Responses reads header-mapped rows from a spreadsheet. Excel and CSV
// files are first copied into a native Google Sheet, since the Sheets
// API cannot read them directly.
func (s *SpreadsheetService) Responses(ctx context.Context, sheet domain.Spreadsheet) ([]domain.ResponseRow, error) {
	if s.gateway == nil {
		return nil, domain.ErrSheetsUnavailable
	}

	target := sheet
	if !sheet.IsGoogleSheet() {
		if existing := s.findConverted(ctx, sheet); existing != nil {
			target = *existing
		} else {
			converted, err := s.Convert(ctx, sheet.ID, sheet.BaseName())
			if err != nil {
				return nil, fmt.Errorf("convert %q before reading: %w", sheet.Name, err)
			}
			target = *converted
		}
	}

	rows, err := s.gateway.FormResponses(ctx, target.ID, "")
	if err != nil {
		return nil, fmt.Errorf("read responses from %q: %w", target.Name, err)
	}
	return rows, nil
}

// DefaultMaxConversions bounds a bulk conversion pass.
const DefaultMaxConversions = 10

// AutoConvert copies every Excel/CSV file whose base name has no native
// Google Sheet yet, leaving already-converted files alone. The pass is
// bounded by maxConversions (DefaultMaxConversions when <= 0).
func (s *SpreadsheetService) AutoConvert(ctx context.Context, maxConversions int) (domain.AutoConvertResult, error) {
	var result domain.AutoConvertResult
	if s.gateway == nil {
		return result, domain.ErrSheetsUnavailable
	}
	if maxConversions <= 0 {
		maxConversions = DefaultMaxConversions
	}

	catalog, err := s.Catalog(ctx, true)
	if err != nil {
		return result, err
	}

	converted := make(map[string]bool)
	for _, sheet := range catalog {
		if sheet.IsGoogleSheet() {
			converted[strings.ToLower(sheet.BaseName())] = true
		}
	}

	for _, sheet := range catalog {
		if sheet.IsGoogleSheet() {
			continue
		}
		name := strings.ToLower(sheet.BaseName())
		if converted[name] {
			result.Skipped++
			continue
		}
		if _, err := s.Convert(ctx, sheet.ID, sheet.BaseName()); err != nil {
			return result, fmt.Errorf("auto-convert %q: %w", sheet.Name, err)
		}
		converted[name] = true
		result.Converted++
		if result.Converted >= maxConversions {
			break
		}
	}

	logger.Info("auto-convert: %d converted, %d skipped", result.Converted, result.Skipped)
	return result, nil
}

// findConverted looks for an earlier conversion of an Excel/CSV file: a
// native Google Sheet in the catalog whose name matches the file's base
// name (case-insensitive). Avoids piling up duplicate copies in Drive.
func (s *SpreadsheetService) findConverted(ctx context.Context, sheet domain.Spreadsheet) *domain.Spreadsheet {
	catalog, err := s.Catalog(ctx, false)
	if err != nil {
		return nil
	}
	want := strings.ToLower(sheet.BaseName())
	for i := range catalog {
		if catalog[i].IsGoogleSheet() && strings.ToLower(catalog[i].Name) == want {
			return &catalog[i]
		}
	}
	return nil
}

// Info returns a spreadsheet's title and tabs.
func (s *SpreadsheetService) Info(ctx context.Context, spreadsheetID string) (*domain.SpreadsheetInfo, error) {
	if s.gateway == nil {
		return nil, domain.ErrSheetsUnavailable
	}
	return s.gateway.SpreadsheetInfo(ctx, spreadsheetID)
}

// Convert copies an Excel/CSV Drive file into a native Google Sheet and
// invalidates the catalog cache so the copy shows up.
func (s *SpreadsheetService) Convert(ctx context.Context, fileID, title string) (*domain.Spreadsheet, error) {
	if s.gateway == nil {
		return nil, domain.ErrSheetsUnavailable
	}

	converted, err := s.gateway.ConvertToGoogleSheet(ctx, fileID, title, s.settings.FolderID)
	if err != nil {
		return nil, fmt.Errorf("convert to google sheet: %w", err)
	}

	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()

	logger.Info("converted %q to google sheet %s", title, converted.ID)
	return converted, nil
}
