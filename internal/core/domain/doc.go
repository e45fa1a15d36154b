// Package domain defines the core business entities for Alphy.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - CredentialSource / ServiceAccountCredential: located and parsed
//     Google service account key material
//   - DiagnosticResult: redacted credential status for display
//   - Spreadsheet / SpreadsheetInfo / ResponseRow: Drive and Sheets data
//   - Message / Conversation: chat history
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
