// Package history provides implementations of the core.HistoryStore contract
// for persisting conversation turns between agent invocations. The in-memory
// store in this package suits tests and ephemeral demos; the sqlite
// subpackage adds file-backed persistence, and the chromem subpackage
// implements the alternative user-keyed semantic search contract
// (core.SearchStore).
package history
