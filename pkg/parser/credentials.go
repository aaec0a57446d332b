package parser

import (
	"errors"
	"strings"
)

var (
	// ErrNoAccounts is returned when the accounts string is empty or blank.
	ErrNoAccounts = errors.New("no accounts configured")

	// ErrNoValidAccounts is returned when no entry has both a username and
	// a password.
	ErrNoValidAccounts = errors.New("no valid accounts found")
)

// ParseCredentials splits s into "user:password" pairs separated by ',' or
// ';'. Each pair is split on its first colon and both halves are trimmed.
// Pairs missing either half are skipped. Delimiters inside a credential
// cannot be escaped.
func ParseCredentials(s string) ([]Credential, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrNoAccounts
	}

	entries := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})

	creds := make([]Credential, 0, len(entries))
	for _, entry := range entries {
		user, pass, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}

		user = strings.TrimSpace(user)
		pass = strings.TrimSpace(pass)
		if user == "" || pass == "" {
			continue
		}

		creds = append(creds, Credential{Username: user, Password: pass})
	}

	if len(creds) == 0 {
		return nil, ErrNoValidAccounts
	}

	return creds, nil
}
