package ledger

import "errors"

// Failure classes callers branch on with errors.Is. All are recoverable:
// the store reports them and keeps its state intact, it never prints and
// never retries.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("record not found")
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)
