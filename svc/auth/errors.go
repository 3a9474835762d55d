package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidUserEntry   = errors.New("auth: invalid user entry")
	ErrIssueToken         = errors.New("auth: failed to issue token")
)
