// Package google provides shared infrastructure for the Drive and Sheets
// connectors.
//
// This package contains common utilities used by the sheets connector
// including:
//   - Service factories building Drive/Sheets clients from a validated
//     service-account credential (JWT flow, no interactive consent)
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	drv, err := google.NewDriveService(ctx, cred)
//	shs, err := google.NewSheetsService(ctx, cred)
//
// Service accounts only see files explicitly shared with their client
// email, so a 403 here usually means a sharing problem rather than a
// credential problem.
package google
