package gemaelde

import (
	"errors"
	"fmt"
)

var (
	// ErrStore wraps every failure of the underlying document store.
	ErrStore = errors.New("gemaelde: store failure")
	// ErrDuplicateTitel is returned by a Store when the unique title index rejects a write.
	ErrDuplicateTitel = errors.New("gemaelde: duplicate titel")
	// ErrDuplicateZertifizierung is returned by a Store when the unique code index rejects a write.
	ErrDuplicateZertifizierung = errors.New("gemaelde: duplicate zertifizierung")
	// ErrFileNotFound is returned when a painting has no stored file.
	ErrFileNotFound = errors.New("gemaelde: file not found")
)

// Failure is a domain outcome of a write operation that is not a success.
// The set of implementations is closed: InvalidError, TitleExistsError,
// CodeExistsError, NotFoundError, VersionInvalidError and VersionOutdatedError.
type Failure interface {
	error
	failure()
}

// InvalidError carries the field -> message map of a schema violation.
type InvalidError struct {
	Errors map[string]string
}

// TitleExistsError reports that another painting already uses the title.
type TitleExistsError struct {
	Title string
	ID    string
}

// CodeExistsError reports that another painting already uses the certification code.
type CodeExistsError struct {
	Code string
	ID   string
}

// NotFoundError reports an update of a painting that does not exist.
type NotFoundError struct {
	ID string
}

// VersionInvalidError reports a missing or non-numeric version.
type VersionInvalidError struct {
	Value string
}

// VersionOutdatedError reports a version older than the stored one.
type VersionOutdatedError struct {
	ID      string
	Version int
}

func (InvalidError) failure()         {}
func (TitleExistsError) failure()     {}
func (CodeExistsError) failure()      {}
func (NotFoundError) failure()        {}
func (VersionInvalidError) failure()  {}
func (VersionOutdatedError) failure() {}

func (e InvalidError) Error() string {
	return fmt.Sprintf("gemaelde: invalid input (%d fields)", len(e.Errors))
}

func (e TitleExistsError) Error() string {
	return fmt.Sprintf("Der Titel %q existiert bereits bei %s.", e.Title, e.ID)
}

func (e CodeExistsError) Error() string {
	return fmt.Sprintf("Die Zertifizierungsnummer %q existiert bereits bei %s.", e.Code, e.ID)
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("Es gibt kein Gemaelde mit der ID %q.", e.ID)
}

func (e VersionInvalidError) Error() string {
	return fmt.Sprintf("Die Versionsnummer %q ist ungueltig.", e.Value)
}

func (e VersionOutdatedError) Error() string {
	return fmt.Sprintf("Die Versionsnummer \"%d\" ist nicht aktuell.", e.Version)
}

// AsFailure reports whether err is a domain failure and returns it.
func AsFailure(err error) (Failure, bool) {
	var f Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
