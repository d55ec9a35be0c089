// Package service implements the application use cases: document
// creation, the approval transitions with their budget side effects, and
// the invoice payment ledger. Services orchestrate repositories inside
// transactions and publish domain events after commit.
package service

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// normalizePage clamps list pagination to sane bounds.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
