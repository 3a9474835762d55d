package gemaelde

import (
	"regexp"
	"strings"

	"github.com/acme/gemaelde/pkg/validator"
)

var (
	titelPattern = regexp.MustCompile(`^\w.*`)

	isbnPrefix = regexp.MustCompile(`^ISBN(?:-1[03])?:? `)
	isbn10     = regexp.MustCompile(`^[0-9]{9}[0-9X]$`)
	isbn13     = regexp.MustCompile(`^97[89][0-9]{10}$`)
	isbnChars  = regexp.MustCompile(`^[0-9X]+(?:[- ][0-9X]+)*$`)
)

// Schema is the rule table every painting must satisfy before it is stored.
var Schema = validator.Schema{
	Properties: map[string]validator.Property{
		"titel": {
			Message: "Ein Gemaeldetitel muss mit einem Buchstaben oder einer Ziffer beginnen.",
			Constraints: []validator.Constraint{
				validator.String(),
				validator.Pattern(titelPattern),
			},
		},
		"art": {
			Message: "Die Art eines Gemaeldes muss OELGEMAELDE, SIEBDRUCK oder WASSERFARBENGEMAELDE sein.",
			Constraints: []validator.Constraint{
				validator.Enum(ArtOelgemaelde, ArtSiebdruck, ArtWasserfarbengemaelde),
			},
		},
		"haendler": {
			Message: "Der Haendler eines Gemaeldes muss HAENDLER1 oder HAENDLER2 sein.",
			Constraints: []validator.Constraint{
				validator.Enum(Haendler1, Haendler2),
			},
		},
		"bewertung": {
			Message: "Eine Bewertung muss zwischen AAA und C liegen.",
			Constraints: []validator.Constraint{
				validator.Enum("AAA", "AA", "A", "BBB", "BB", "B", "C"),
			},
		},
		"beschreibung": {
			Message:     "Die Beschreibung muss ein Text sein.",
			Constraints: []validator.Constraint{validator.String()},
		},
		"wert": {
			Message: "Der Wert darf nicht negativ sein.",
			Constraints: []validator.Constraint{
				validator.Number(),
				validator.Minimum(0),
			},
		},
		"ausgestellt": {
			Message:     `"ausgestellt" muss auf true oder false gesetzt sein.`,
			Constraints: []validator.Constraint{validator.Boolean()},
		},
		"datum": {
			Message:     "Das Datum muss im Format yyyy-MM-dd sein.",
			Constraints: []validator.Constraint{validator.Date(DateLayout)},
		},
		"zertifizierung": {
			Message: "Die Zertifizierungsnummer ist nicht korrekt.",
			Constraints: []validator.Constraint{
				validator.StringFunc("zertifizierung", ValidZertifizierung),
			},
		},
		"kategorien": {
			Message:     "Die Kategorien muessen eine Liste von Texten sein.",
			Constraints: []validator.Constraint{validator.Array(validator.String())},
		},
		"kuenstler": {
			Message:     "Die Kuenstler muessen eine Liste von Objekten sein.",
			Constraints: []validator.Constraint{validator.Array(validator.Object())},
		},
	},
	Required:       []string{"titel", "art", "haendler"},
	UnknownMessage: "Unbekannte Eigenschaft.",
}

// Validate checks g against Schema and returns field -> message, or nil.
func Validate(g Gemaelde) map[string]string {
	err := Schema.Validate(g.Document())
	if err == nil {
		return nil
	}
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return verrs.Map()
	}
	return map[string]string{"": err.Error()}
}

// ValidZertifizierung accepts ISBN-10 and ISBN-13 shaped certification codes,
// optionally prefixed with "ISBN", "ISBN-10" or "ISBN-13" and grouped by
// hyphens or spaces. Check digits are not verified.
func ValidZertifizierung(code string) bool {
	code = isbnPrefix.ReplaceAllString(code, "")
	if !isbnChars.MatchString(code) {
		return false
	}
	groups := len(strings.FieldsFunc(code, func(r rune) bool { return r == '-' || r == ' ' }))
	digits := strings.NewReplacer("-", "", " ", "").Replace(code)

	switch len(digits) {
	case 10:
		return isbn10.MatchString(digits) && (groups == 1 || groups == 4)
	case 13:
		// 978-3897225831 style: prefix group plus a single block is allowed too.
		return isbn13.MatchString(digits) && groups <= 5
	default:
		return false
	}
}
