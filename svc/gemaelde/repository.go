package gemaelde

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	pkgmongo "github.com/acme/gemaelde/pkg/mongo"
)

// CollectionName is the MongoDB collection holding the catalog.
const CollectionName = "gemaelde"

const (
	titelIndex          = "titel_1"
	zertifizierungIndex = "zertifizierung_1"
)

// storedFields are the record fields a replace overwrites. Absent ones are unset.
var storedFields = []string{
	"titel", "art", "haendler", "bewertung", "beschreibung", "wert",
	"ausgestellt", "datum", "zertifizierung", "kategorien", "kuenstler",
}

// timestamps never leave the repository.
var leanProjection = bson.D{{Key: "createdAt", Value: 0}, {Key: "updatedAt", Value: 0}}

// record is the stored shape: the painting plus bookkeeping timestamps.
type record struct {
	Gemaelde  `bson:",inline"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// Repository is the MongoDB Store.
type Repository struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ Store = (*Repository)(nil)

// NewRepository binds a Repository to the catalog collection of db.
// Nested documents decode as maps so artists round-trip as plain JSON objects.
func NewRepository(db *mongo.Database) *Repository {
	coll := db.Collection(CollectionName,
		options.Collection().SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}),
	)
	return &Repository{coll: coll, now: time.Now}
}

// FindByID returns the painting with id or nil.
func (r *Repository) FindByID(ctx context.Context, id string) (*Gemaelde, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

// FindByTitel returns the painting with exactly this title or nil.
func (r *Repository) FindByTitel(ctx context.Context, titel string) (*Gemaelde, error) {
	return r.findOne(ctx, bson.D{{Key: "titel", Value: titel}})
}

// FindByZertifizierung returns the painting with this certification code or nil.
func (r *Repository) FindByZertifizierung(ctx context.Context, code string) (*Gemaelde, error) {
	return r.findOne(ctx, bson.D{{Key: "zertifizierung", Value: code}})
}

func (r *Repository) findOne(ctx context.Context, filter bson.D) (*Gemaelde, error) {
	var g Gemaelde
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(leanProjection)).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return &g, nil
}

// Find returns the paintings matching c sorted by title.
func (r *Repository) Find(ctx context.Context, c Criteria) ([]Gemaelde, error) {
	opts := options.Find().
		SetProjection(leanProjection).
		SetSort(bson.D{{Key: "titel", Value: 1}})

	cursor, err := r.coll.Find(ctx, filterFor(c), opts)
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	result := []Gemaelde{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, errors.Join(ErrStore, err)
	}
	return result, nil
}

func filterFor(c Criteria) bson.D {
	filter := bson.D{}
	switch {
	case c.TitelIsFragment():
		filter = append(filter, bson.E{Key: "titel", Value: bson.Regex{
			Pattern: regexp.QuoteMeta(c.Titel),
			Options: "i",
		}})
	case c.Titel != "":
		filter = append(filter, bson.E{Key: "titel", Value: c.Titel})
	}
	for _, eq := range []struct{ key, value string }{
		{"art", c.Art},
		{"haendler", c.Haendler},
		{"bewertung", c.Bewertung},
	} {
		if eq.value != "" {
			filter = append(filter, bson.E{Key: eq.key, Value: eq.value})
		}
	}
	if c.Ausgestellt != nil {
		filter = append(filter, bson.E{Key: "ausgestellt", Value: *c.Ausgestellt})
	}
	if len(c.Kategorien) > 0 {
		all := make(bson.A, 0, len(c.Kategorien))
		for _, k := range c.Kategorien {
			all = append(all, bson.Regex{
				Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(k)) + "$",
				Options: "i",
			})
		}
		filter = append(filter, bson.E{Key: "kategorien", Value: bson.D{{Key: "$all", Value: all}}})
	}
	return filter
}

// Insert stores g with fresh timestamps.
func (r *Repository) Insert(ctx context.Context, g Gemaelde) error {
	now := r.now().UTC()
	if _, err := r.coll.InsertOne(ctx, record{Gemaelde: g, CreatedAt: now, UpdatedAt: now}); err != nil {
		return classify(err)
	}
	return nil
}

// Replace overwrites g.ID when its stored version equals expectedVersion.
func (r *Repository) Replace(ctx context.Context, g Gemaelde, expectedVersion int) (bool, error) {
	doc := g.Document()
	set := bson.M{"updatedAt": r.now().UTC()}
	unset := bson.M{}
	for _, field := range storedFields {
		if v, ok := doc[field]; ok {
			set[field] = v
		} else {
			unset[field] = ""
		}
	}

	update := bson.M{
		"$set": set,
		"$inc": bson.M{"__v": 1},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.coll.UpdateOne(ctx, bson.D{
		{Key: "_id", Value: g.ID},
		{Key: "__v", Value: expectedVersion},
	}, update)
	if err != nil {
		return false, classify(err)
	}
	return res.MatchedCount == 1, nil
}

// Delete removes id and reports whether a document was removed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return false, errors.Join(ErrStore, err)
	}
	return res.DeletedCount > 0, nil
}

// EnsureIndexes creates the unique title index and the partial unique
// certification index. Existing identical indexes are left alone.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "titel", Value: 1}},
			Options: options.Index().SetName(titelIndex).SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "zertifizierung", Value: 1}},
			Options: options.Index().
				SetName(zertifizierungIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "zertifizierung", Value: bson.D{{Key: "$type", Value: "string"}}},
				}),
		},
	})
	if err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Reload drops the collection, inserts seed and recreates the indexes.
func (r *Repository) Reload(ctx context.Context, seed []Gemaelde) error {
	if err := r.coll.Drop(ctx); err != nil {
		return errors.Join(ErrStore, err)
	}

	if len(seed) > 0 {
		now := r.now().UTC()
		docs := make([]any, 0, len(seed))
		for _, g := range seed {
			docs = append(docs, record{Gemaelde: g, CreatedAt: now, UpdatedAt: now})
		}
		if _, err := r.coll.InsertMany(ctx, docs); err != nil {
			return classify(err)
		}
	}

	return r.EnsureIndexes(ctx)
}

// classify maps a unique index violation to its sentinel.
func classify(err error) error {
	index, dup := pkgmongo.DuplicateKeyIndex(err)
	switch {
	case dup && index == zertifizierungIndex:
		return errors.Join(ErrDuplicateZertifizierung, err)
	case dup && index == titelIndex:
		return errors.Join(ErrDuplicateTitel, err)
	default:
		return errors.Join(ErrStore, err)
	}
}
