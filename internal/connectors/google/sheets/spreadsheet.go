package sheets

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alpha-insights/alphy-cli/internal/connectors/google"
	"github.com/alpha-insights/alphy-cli/internal/core/domain"
)

// SpreadsheetInfo returns a spreadsheet's title and tabs.
func (g *Gateway) SpreadsheetInfo(ctx context.Context, spreadsheetID string) (*domain.SpreadsheetInfo, error) {
	if err := g.sheetRL.Wait(ctx); err != nil {
		return nil, err
	}

	ss, err := g.sheets.Spreadsheets.Get(spreadsheetID).
		Context(ctx).
		Fields("properties.title,sheets.properties").
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: get spreadsheet %s: %w", spreadsheetID, google.WrapError(err))
	}

	info := &domain.SpreadsheetInfo{}
	if ss.Properties != nil {
		info.Title = ss.Properties.Title
	}
	for _, sh := range ss.Sheets {
		props := sh.Properties
		if props == nil {
			continue
		}
		tab := domain.SheetInfo{Title: props.Title, SheetID: props.SheetId}
		if props.GridProperties != nil {
			tab.RowCount = props.GridProperties.RowCount
			tab.ColumnCount = props.GridProperties.ColumnCount
		}
		info.Sheets = append(info.Sheets, tab)
	}
	return info, nil
}

// FormResponses reads a sheet's rows mapped by its header row. An empty
// sheetName selects the first tab.
func (g *Gateway) FormResponses(ctx context.Context, spreadsheetID, sheetName string) ([]domain.ResponseRow, error) {
	if sheetName == "" {
		info, err := g.SpreadsheetInfo(ctx, spreadsheetID)
		if err != nil {
			return nil, err
		}
		if len(info.Sheets) == 0 {
			return nil, fmt.Errorf("sheets: spreadsheet %s has no tabs", spreadsheetID)
		}
		sheetName = info.Sheets[0].Title
	}

	if err := g.sheetRL.Wait(ctx); err != nil {
		return nil, err
	}

	// Quoting the tab name makes names with spaces valid A1 notation.
	resp, err := g.sheets.Spreadsheets.Values.Get(spreadsheetID, "'"+sheetName+"'").
		Context(ctx).
		ValueRenderOption("FORMATTED_VALUE").
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read values of %s: %w", spreadsheetID, google.WrapError(err))
	}

	return mapRows(resp.Values), nil
}

// mapRows keys each data row by the header row. Ragged rows are padded
// with empty strings; extra cells beyond the header are dropped, which
// matches how form response sheets behave when columns are removed.
func mapRows(values [][]any) []domain.ResponseRow {
	if len(values) < 2 {
		return nil
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = cellString(cell)
	}

	rows := make([]domain.ResponseRow, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(domain.ResponseRow, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			var cell string
			if i < len(raw) {
				cell = cellString(raw[i])
			}
			if cell != "" {
				empty = false
			}
			row[name] = cell
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}
