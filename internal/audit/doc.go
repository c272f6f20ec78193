// Package audit provides audit trail logging for cofre operations.
//
// Every operation that touches the store (encrypt, decrypt, clean) is
// recorded in a JSON Lines file next to the record:
//
//	<store dir>/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Local user name and host
//   - Operation name
//   - The record identifier and UUID, when one is involved
//
// Entries never contain passwords, keys, IVs or ciphertext.
//
// # Usage
//
//	entry := audit.NewEntry("encrypt")
//	entry.Identifier = "alice"
//	audit.Log(layout.AuditLogPath(), entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// ReadEntries parses the audit log for display. Malformed lines are skipped
// so that a partial write does not hide the rest of the history.
package audit
