package cli

import (
	"context"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/ports/driven"
)

// mockCredentialService returns a fixed diagnostic result.
type mockCredentialService struct {
	result domain.DiagnosticResult
	cred   *domain.ServiceAccountCredential
	err    error
}

func (m *mockCredentialService) Diagnose() domain.DiagnosticResult {
	return m.result
}

func (m *mockCredentialService) Load() (*domain.ServiceAccountCredential, error) {
	return m.cred, m.err
}

// mockChatService replies with a fixed message.
type mockChatService struct {
	reply   string
	sendErr error
	lastMsg string
}

func (m *mockChatService) Send(_ context.Context, text string) (<-chan driven.StreamChunk, error) {
	m.lastMsg = text
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	out := make(chan driven.StreamChunk, 1)
	out <- driven.StreamChunk{Content: m.reply}
	close(out)
	return out, nil
}

func (m *mockChatService) History() []domain.Message { return nil }
func (m *mockChatService) Clear()                    {}
func (m *mockChatService) ModelName() string         { return "mock-model" }

// mockSpreadsheetService serves fixed data.
type mockSpreadsheetService struct {
	sheets      []domain.Spreadsheet
	rows        []domain.ResponseRow
	info        *domain.SpreadsheetInfo
	converted   *domain.Spreadsheet
	autoResult  domain.AutoConvertResult
	autoMaxSeen int
	err         error
}

func (m *mockSpreadsheetService) Catalog(context.Context, bool) ([]domain.Spreadsheet, error) {
	return m.sheets, m.err
}

func (m *mockSpreadsheetService) Responses(context.Context, domain.Spreadsheet) ([]domain.ResponseRow, error) {
	return m.rows, m.err
}

func (m *mockSpreadsheetService) Info(context.Context, string) (*domain.SpreadsheetInfo, error) {
	return m.info, m.err
}

func (m *mockSpreadsheetService) Convert(_ context.Context, fileID, title string) (*domain.Spreadsheet, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.converted != nil {
		return m.converted, nil
	}
	return &domain.Spreadsheet{ID: fileID + "-converted", Name: title, MIMEType: domain.MimeTypeGoogleSheet}, nil
}

func (m *mockSpreadsheetService) AutoConvert(_ context.Context, maxConversions int) (domain.AutoConvertResult, error) {
	m.autoMaxSeen = maxConversions
	if m.err != nil {
		return domain.AutoConvertResult{}, m.err
	}
	return m.autoResult, nil
}
