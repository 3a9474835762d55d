package gemaelde

import "context"

// Store persists paintings. Lookups return (nil, nil) when nothing matches.
// Returned records never carry creation or update timestamps.
type Store interface {
	FindByID(ctx context.Context, id string) (*Gemaelde, error)
	FindByTitel(ctx context.Context, titel string) (*Gemaelde, error)
	FindByZertifizierung(ctx context.Context, code string) (*Gemaelde, error)
	Find(ctx context.Context, c Criteria) ([]Gemaelde, error)
	Insert(ctx context.Context, g Gemaelde) error
	// Replace overwrites every field but the id when the stored version still
	// equals expectedVersion, and increments the version. It reports false
	// when no document with that id and version exists.
	Replace(ctx context.Context, g Gemaelde, expectedVersion int) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// MaxTitelPatternLength bounds the title fragments searched as substrings.
// Longer titles are matched exactly.
const MaxTitelPatternLength = 10

// Criteria narrows Find. The zero value matches every painting.
type Criteria struct {
	Titel       string
	Art         string
	Haendler    string
	Bewertung   string
	Ausgestellt *bool
	// Kategorien must all be present on a match, compared case-insensitively.
	Kategorien []string
}

// IsEmpty reports whether c has no criteria at all.
func (c Criteria) IsEmpty() bool {
	return c.Titel == "" && c.Art == "" && c.Haendler == "" && c.Bewertung == "" &&
		c.Ausgestellt == nil && len(c.Kategorien) == 0
}

// TitelIsFragment reports whether the title is searched as a case-insensitive substring.
func (c Criteria) TitelIsFragment() bool {
	return c.Titel != "" && len([]rune(c.Titel)) < MaxTitelPatternLength
}
