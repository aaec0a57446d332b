package login

import (
	"fmt"
	"time"
)

// Result is the outcome of one account's login attempt.
type Result struct {
	// Account is the positional label, e.g. "user1". Usernames are never
	// used as labels.
	Account string

	// Success reports whether the page looked logged in.
	Success bool

	// Message is the human-readable outcome used in the summary.
	Message string

	// Duration is how long the attempt took.
	Duration time.Duration

	// Err is the step error when the attempt raised one.
	Err error `json:"-"`
}

// AccountLabel returns the label for the account at zero-based index.
func AccountLabel(index int) string {
	return fmt.Sprintf("user%d", index+1)
}
