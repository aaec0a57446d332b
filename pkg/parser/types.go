// Package parser turns raw configuration and log text into typed values.
package parser

import "strings"

// Credential is a single account taken from the accounts string.
type Credential struct {
	Username string
	Password string
}

// String masks the password so credentials can be printed safely.
func (c Credential) String() string {
	return c.Username + ":" + strings.Repeat("*", len(c.Password))
}
