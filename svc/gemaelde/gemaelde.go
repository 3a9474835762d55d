package gemaelde

import (
	"encoding/json"
	"fmt"
	"time"
)

// Art enumerates the kinds of painting.
const (
	ArtOelgemaelde          = "OELGEMAELDE"
	ArtSiebdruck            = "SIEBDRUCK"
	ArtWasserfarbengemaelde = "WASSERFARBENGEMAELDE"
)

// Haendler enumerates the dealers.
const (
	Haendler1 = "HAENDLER1"
	Haendler2 = "HAENDLER2"
)

// DateLayout is the wire format of Gemaelde.Datum.
const DateLayout = time.DateOnly

// Gemaelde is one painting in the catalog.
//
// ID and Version are bookkeeping: they never appear in the JSON body and are
// carried by links and ETags instead.
type Gemaelde struct {
	ID             string           `json:"-" bson:"_id" yaml:"id"`
	Version        int              `json:"-" bson:"__v" yaml:"version"`
	Titel          string           `json:"titel" bson:"titel"`
	Art            string           `json:"art,omitempty" bson:"art,omitempty"`
	Haendler       string           `json:"haendler,omitempty" bson:"haendler,omitempty"`
	Bewertung      string           `json:"bewertung,omitempty" bson:"bewertung,omitempty"`
	Beschreibung   string           `json:"beschreibung,omitempty" bson:"beschreibung,omitempty"`
	Wert           *float64         `json:"wert,omitempty" bson:"wert,omitempty"`
	Ausgestellt    *bool            `json:"ausgestellt,omitempty" bson:"ausgestellt,omitempty"`
	Datum          string           `json:"datum,omitempty" bson:"datum,omitempty"`
	Zertifizierung string           `json:"zertifizierung,omitempty" bson:"zertifizierung,omitempty"`
	Kategorien     []string         `json:"kategorien,omitempty" bson:"kategorien,omitempty"`
	Kuenstler      []map[string]any `json:"kuenstler,omitempty" bson:"kuenstler,omitempty"`

	// rejected holds input keys that were unknown or had the wrong JSON type,
	// so the schema can report them by field name.
	rejected map[string]any
}

// keys accepted in request bodies but ignored: clients may send back what they read.
var ignoredKeys = map[string]bool{
	"_id":    true,
	"__v":    true,
	"_links": true,
}

// UnmarshalJSON decodes a painting leniently. Fields with an unexpected JSON
// type and unknown fields do not fail decoding; they are kept aside and
// surface as validation errors.
func (g *Gemaelde) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("gemaelde must be a JSON object: %w", err)
	}

	*g = Gemaelde{}
	for key, value := range raw {
		if ignoredKeys[key] {
			continue
		}
		target := g.field(key)
		if target != nil && validElements(key, value) && json.Unmarshal(value, target) == nil {
			continue
		}
		var generic any
		if err := json.Unmarshal(value, &generic); err != nil {
			return err
		}
		if g.rejected == nil {
			g.rejected = make(map[string]any)
		}
		g.rejected[key] = generic
	}
	return nil
}

// validElements checks list items before the typed decode, which would turn
// a null item into an empty string or a nil map.
func validElements(key string, value json.RawMessage) bool {
	var want func(any) bool
	switch key {
	case "kategorien":
		want = func(v any) bool { _, ok := v.(string); return ok }
	case "kuenstler":
		want = func(v any) bool { m, ok := v.(map[string]any); return ok && m != nil }
	default:
		return true
	}

	var items []any
	if err := json.Unmarshal(value, &items); err != nil {
		return false
	}
	for _, item := range items {
		if !want(item) {
			return false
		}
	}
	return true
}

func (g *Gemaelde) field(key string) any {
	switch key {
	case "titel":
		return &g.Titel
	case "art":
		return &g.Art
	case "haendler":
		return &g.Haendler
	case "bewertung":
		return &g.Bewertung
	case "beschreibung":
		return &g.Beschreibung
	case "wert":
		return &g.Wert
	case "ausgestellt":
		return &g.Ausgestellt
	case "datum":
		return &g.Datum
	case "zertifizierung":
		return &g.Zertifizierung
	case "kategorien":
		return &g.Kategorien
	case "kuenstler":
		return &g.Kuenstler
	default:
		return nil
	}
}

// Document returns the painting as the field map the schema validates.
// Empty optional fields are omitted.
func (g Gemaelde) Document() map[string]any {
	doc := make(map[string]any, 12)
	putString(doc, "titel", g.Titel)
	putString(doc, "art", g.Art)
	putString(doc, "haendler", g.Haendler)
	putString(doc, "bewertung", g.Bewertung)
	putString(doc, "beschreibung", g.Beschreibung)
	putString(doc, "datum", g.Datum)
	putString(doc, "zertifizierung", g.Zertifizierung)
	if g.Wert != nil {
		doc["wert"] = *g.Wert
	}
	if g.Ausgestellt != nil {
		doc["ausgestellt"] = *g.Ausgestellt
	}
	if g.Kategorien != nil {
		doc["kategorien"] = g.Kategorien
	}
	if g.Kuenstler != nil {
		doc["kuenstler"] = g.Kuenstler
	}
	for k, v := range g.rejected {
		doc[k] = v
	}
	return doc
}

func putString(doc map[string]any, key, value string) {
	if value != "" {
		doc[key] = value
	}
}
