// Package services implements the application's business logic.
//
// Services implement the driving ports and depend on the driven ports,
// never on concrete adapters:
//
//   - CredentialService: the locate/normalize/validate/report pipeline
//     for the Google service account key
//   - SpreadsheetService: spreadsheet catalog, reads, and conversion
//   - ChatService: session history, built-in commands, model dispatch
//   - CredentialWatcher: filesystem notifications for key file changes
package services
