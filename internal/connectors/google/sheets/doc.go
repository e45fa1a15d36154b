// Package sheets implements the spreadsheet gateway on top of the
// Google Drive and Sheets APIs.
//
// Drive supplies the catalog (which tabular files the service account
// can see) and the copy-based Excel conversion; Sheets supplies tab
// metadata and row reads. Rows are keyed by the sheet's header row so
// callers never deal in A1 ranges.
package sheets
