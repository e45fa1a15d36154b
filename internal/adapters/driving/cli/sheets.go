package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpha-insights/alphy-cli/internal/core/domain"
	"github.com/alpha-insights/alphy-cli/internal/core/services"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Browse spreadsheets visible to the service account",
	Long: `List spreadsheets, read form responses, and convert Excel uploads to
native Google Sheets. Only files shared with the service account email
are visible.`,
	RunE: runSheetsList,
}

var sheetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible spreadsheets",
	RunE:  runSheetsList,
}

var sheetsResponsesCmd = &cobra.Command{
	Use:   "responses <name-or-id>",
	Short: "Print a spreadsheet's form responses",
	Long: `Reads the first tab of a spreadsheet, keyed by its header row. Excel
files are converted to a native Google Sheet first.`,
	Args: cobra.ExactArgs(1),
	RunE: runSheetsResponses,
}

var sheetsInfoCmd = &cobra.Command{
	Use:   "info <name-or-id>",
	Short: "Show a spreadsheet's tabs and dimensions",
	Args:  cobra.ExactArgs(1),
	RunE:  runSheetsInfo,
}

var sheetsConvertCmd = &cobra.Command{
	Use:   "convert [name-or-id]",
	Short: "Copy Excel/CSV files into native Google Sheets",
	Long: `Copy one Excel/CSV file into a native Google Sheet, or with --all
convert every tabular file that has no Google Sheet copy yet (matched
by base name, case-insensitive).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSheetsConvert,
}

var (
	sheetsReloadFlag     bool
	sheetsTitleFlag      string
	sheetsConvertAllFlag bool
	sheetsMaxConvertFlag int
)

func init() {
	sheetsListCmd.Flags().BoolVar(&sheetsReloadFlag, "reload", false,
		"bypass the session cache and refetch the catalog")
	sheetsConvertCmd.Flags().StringVar(&sheetsTitleFlag, "title", "",
		"name for the converted sheet (default: source name without extension)")
	sheetsConvertCmd.Flags().BoolVar(&sheetsConvertAllFlag, "all", false,
		"convert every tabular file without a Google Sheet copy")
	sheetsConvertCmd.Flags().IntVar(&sheetsMaxConvertFlag, "max", services.DefaultMaxConversions,
		"cap conversions in an --all pass")

	sheetsCmd.AddCommand(sheetsListCmd)
	sheetsCmd.AddCommand(sheetsResponsesCmd)
	sheetsCmd.AddCommand(sheetsInfoCmd)
	sheetsCmd.AddCommand(sheetsConvertCmd)
	rootCmd.AddCommand(sheetsCmd)
}

func runSheetsList(cmd *cobra.Command, _ []string) error {
	if spreadsheetService == nil {
		return sheetsUnavailableErr()
	}

	sheets, err := spreadsheetService.Catalog(cmd.Context(), sheetsReloadFlag)
	if err != nil {
		return fmt.Errorf("list spreadsheets: %w", err)
	}
	if len(sheets) == 0 {
		cmd.Println("No spreadsheets found. Share files with the service account email to make them visible.")
		return nil
	}

	cmd.Printf("Found %d spreadsheet(s):\n\n", len(sheets))
	for i, sheet := range sheets {
		label := ""
		if !sheet.IsGoogleSheet() {
			label = " [Excel]"
		}
		cmd.Printf("%d. %s%s\n   ID: %s\n   Modified: %s\n",
			i+1, sheet.Name, label, sheet.ID, orDash(sheet.ModifiedTime))
	}
	return nil
}

func runSheetsResponses(cmd *cobra.Command, args []string) error {
	if spreadsheetService == nil {
		return sheetsUnavailableErr()
	}

	sheet, err := findSpreadsheet(cmd, args[0])
	if err != nil {
		return err
	}

	rows, err := spreadsheetService.Responses(cmd.Context(), *sheet)
	if err != nil {
		return fmt.Errorf("read responses: %w", err)
	}
	if len(rows) == 0 {
		cmd.Printf("No responses in %q.\n", sheet.Name)
		return nil
	}

	cmd.Printf("Responses from %q - %d total:\n\n", sheet.Name, len(rows))
	for i, row := range rows {
		cmd.Printf("Response %d:\n", i+1)
		for _, key := range row.Columns() {
			cmd.Printf("  %s: %s\n", key, row[key])
		}
		cmd.Println()
	}
	return nil
}

func runSheetsInfo(cmd *cobra.Command, args []string) error {
	if spreadsheetService == nil {
		return sheetsUnavailableErr()
	}

	sheet, err := findSpreadsheet(cmd, args[0])
	if err != nil {
		return err
	}

	info, err := spreadsheetService.Info(cmd.Context(), sheet.ID)
	if err != nil {
		return fmt.Errorf("get spreadsheet info: %w", err)
	}

	cmd.Printf("%s\n", info.Title)
	for _, tab := range info.Sheets {
		cmd.Printf("  - %s (%d rows x %d columns)\n", tab.Title, tab.RowCount, tab.ColumnCount)
	}
	return nil
}

func runSheetsConvert(cmd *cobra.Command, args []string) error {
	if spreadsheetService == nil {
		return sheetsUnavailableErr()
	}

	if sheetsConvertAllFlag {
		result, err := spreadsheetService.AutoConvert(cmd.Context(), sheetsMaxConvertFlag)
		if err != nil {
			return fmt.Errorf("auto-convert: %w", err)
		}
		cmd.Printf("Converted %d file(s), skipped %d already covered by a Google Sheet.\n",
			result.Converted, result.Skipped)
		return nil
	}

	if len(args) == 0 {
		return errors.New("name a spreadsheet to convert, or pass --all")
	}

	sheet, err := findSpreadsheet(cmd, args[0])
	if err != nil {
		return err
	}
	if sheet.IsGoogleSheet() {
		return fmt.Errorf("%q is already a native Google Sheet", sheet.Name)
	}

	title := sheetsTitleFlag
	if title == "" {
		title = sheet.BaseName()
	}

	converted, err := spreadsheetService.Convert(cmd.Context(), sheet.ID, title)
	if err != nil {
		return fmt.Errorf("convert spreadsheet: %w", err)
	}

	cmd.Printf("Converted %q to Google Sheet %q (ID: %s)\n", sheet.Name, converted.Name, converted.ID)
	return nil
}

// findSpreadsheet resolves a catalog entry by ID or (case-insensitive)
// name.
func findSpreadsheet(cmd *cobra.Command, nameOrID string) (*domain.Spreadsheet, error) {
	sheets, err := spreadsheetService.Catalog(cmd.Context(), false)
	if err != nil {
		return nil, fmt.Errorf("list spreadsheets: %w", err)
	}

	for i := range sheets {
		if sheets[i].ID == nameOrID {
			return &sheets[i], nil
		}
	}
	lower := strings.ToLower(nameOrID)
	for i := range sheets {
		if strings.ToLower(sheets[i].Name) == lower ||
			strings.ToLower(sheets[i].BaseName()) == lower {
			return &sheets[i], nil
		}
	}
	return nil, fmt.Errorf("spreadsheet %q not found: %w", nameOrID, domain.ErrNotFound)
}

func sheetsUnavailableErr() error {
	return errors.New("Google Sheets is not configured; run 'alphy creds check'")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
