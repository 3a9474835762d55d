package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Config lists the accounts allowed to log in. Each entry has the form
// "username:bcrypt-hash:role1|role2"; entries are separated by ";".
type Config struct {
	Users []string `env:"AUTH_USERS" envSeparator:";"`
}

// User is an account that may obtain a token.
type User struct {
	Username     string
	PasswordHash []byte
	Roles        []string
}

// ParseUsers parses the entries of Config.Users. Hashes are checked for
// bcrypt format, so a typo fails at startup rather than at login.
func ParseUsers(entries []string) ([]User, error) {
	users := make([]User, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, rest, ok := strings.Cut(entry, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUserEntry, name)
		}
		hash, roles, _ := strings.Cut(rest, ":")
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidUserEntry, name, err)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate user %q", ErrInvalidUserEntry, name)
		}
		seen[name] = true

		u := User{Username: name, PasswordHash: []byte(hash)}
		for role := range strings.SplitSeq(roles, "|") {
			if role = strings.TrimSpace(role); role != "" {
				u.Roles = append(u.Roles, role)
			}
		}
		users = append(users, u)
	}
	return users, nil
}

// HashPassword returns the bcrypt hash to put into a user entry.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
