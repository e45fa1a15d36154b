// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SheetsGateway: Drive/Sheets access. Without it (credential resolution
//     failed), spreadsheet commands are disabled and chat keeps working.
//   - ChatModel: LLM backend. Without it, only the built-in spreadsheet
//     commands are answered.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
