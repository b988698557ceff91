package quota

import (
	"errors"
	"fmt"
)

// returned when an authenticated identity has no account record at all,
// as opposed to an account that simply has zero usage
var ErrAccountNotFound = errors.New("account not found")

// QuotaExceededError is returned by Debit when the counter is already at
// the limit. It carries used/limit so callers can render remaining quota.
type QuotaExceededError struct {
	Used  int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily credit limit reached (%d/%d)", e.Used, e.Limit)
}
