package repositories

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
	"github.com/azeem8271/trek-tours/internal/pkg/query"
)

var validate = validator.New()

// Document is the capability a stored entity must provide: identity
// assignment after insert and a pre-persist transformation (password
// hashing, slug derivation, defaults).
type Document interface {
	SetID(primitive.ObjectID)
	BeforeSave() error
}

// Store implements generic CRUD over a MongoDB collection. A base
// visibility filter is merged into every read (secret tours, inactive
// users), and hidden fields are excluded from default projections. Any
// backend exposing the same five operations can substitute for it in the
// handler factory.
type Store[T any, PT interface {
	*T
	Document
}] struct {
	coll       *mongo.Collection
	baseFilter bson.M
	hidden     []string

	// fieldByBSON maps bson keys to struct field names so partial updates
	// can re-run validation on just the patched fields.
	fieldByBSON map[string]string
}

// NewStore creates a Store over coll. baseFilter may be nil; hidden lists
// bson field names excluded from default read projections.
func NewStore[T any, PT interface {
	*T
	Document
}](coll *mongo.Collection, baseFilter bson.M, hidden ...string) *Store[T, PT] {
	if baseFilter == nil {
		baseFilter = bson.M{}
	}
	return &Store[T, PT]{
		coll:        coll,
		baseFilter:  baseFilter,
		hidden:      hidden,
		fieldByBSON: bsonFieldMap(reflect.TypeOf((*T)(nil)).Elem()),
	}
}

// Collection exposes the underlying collection for repository extensions.
func (s *Store[T, PT]) Collection() *mongo.Collection { return s.coll }

// Find runs the full query-feature pipeline over the raw query values and
// returns the matching page. extra narrows the result further (nested
// routes); it may be nil.
func (s *Store[T, PT]) Find(ctx context.Context, values url.Values, extra bson.M) ([]T, error) {
	f := query.New(values).Hidden(s.hidden...).Filter().Sort().Select().Paginate()

	filter := f.MergeFilter(s.visibility(extra))
	cur, err := s.coll.Find(ctx, filter, f.FindOptions())
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}
	defer cur.Close(ctx)

	docs := []T{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	return docs, nil
}

// FindByID looks up a single visible document.
func (s *Store[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetProjection(s.hiddenProjection())
	var doc T
	err = s.coll.FindOne(ctx, s.withID(oid), opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("No document found with that ID")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup failed: %w", err)
	}
	return &doc, nil
}

// Create validates the document, runs its pre-persist transformation, and
// inserts it. The generated identifier is written back onto doc.
func (s *Store[T, PT]) Create(ctx context.Context, doc PT) error {
	if err := validate.Struct(doc); err != nil {
		return err
	}
	if err := doc.BeforeSave(); err != nil {
		return err
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.SetID(oid)
	}
	return nil
}

// UpdateByID merges the patch into the stored document, re-runs validation
// on the patched fields against the merged result, and applies the patch.
// Pre-persist hooks deliberately do not run here; partial updates must not
// re-hash passwords or re-derive slugs.
func (s *Store[T, PT]) UpdateByID(ctx context.Context, id string, patch bson.M) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	delete(patch, "_id")
	delete(patch, "id")
	if len(patch) == 0 {
		return s.FindByID(ctx, id)
	}

	var raw bson.M
	err = s.coll.FindOne(ctx, s.withID(oid)).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("No document found with that ID")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup failed: %w", err)
	}

	for k, v := range patch {
		raw[k] = v
	}
	merged, err := s.decode(raw)
	if err != nil {
		return nil, err
	}
	if fields := s.patchedFields(patch); len(fields) > 0 {
		if err := validate.StructPartial(merged, fields...); err != nil {
			return nil, err
		}
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(s.hiddenProjection())
	var updated T
	err = s.coll.FindOneAndUpdate(ctx, s.withID(oid), bson.M{"$set": patch}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.NewNotFoundError("No document found with that ID")
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteByID removes a visible document.
func (s *Store[T, PT]) DeleteByID(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	err = s.coll.FindOneAndDelete(ctx, s.withID(oid)).Err()
	if err == mongo.ErrNoDocuments {
		return apperrors.NewNotFoundError("No document found with that ID")
	}
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}

// visibility merges the base filter with a per-request narrowing filter.
func (s *Store[T, PT]) visibility(extra bson.M) bson.M {
	merged := bson.M{}
	for k, v := range s.baseFilter {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (s *Store[T, PT]) withID(oid primitive.ObjectID) bson.M {
	filter := s.visibility(nil)
	filter["_id"] = oid
	return filter
}

func (s *Store[T, PT]) hiddenProjection() bson.D {
	proj := bson.D{}
	for _, field := range s.hidden {
		proj = append(proj, bson.E{Key: field, Value: 0})
	}
	return proj
}

func (s *Store[T, PT]) decode(raw bson.M) (PT, error) {
	data, err := bson.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	doc := PT(new(T))
	if err := bson.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("merge failed: %w", err)
	}
	return doc, nil
}

// patchedFields resolves patch keys to struct field names; unknown keys
// pass through to the engine unvalidated.
func (s *Store[T, PT]) patchedFields(patch bson.M) []string {
	fields := []string{}
	for key := range patch {
		if name, ok := s.fieldByBSON[key]; ok {
			fields = append(fields, name)
		}
	}
	return fields
}

// ParseID converts a hex identifier, reporting a bad cast as an
// operational 400.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewBadRequestError(fmt.Sprintf("Invalid ID: %s", id))
	}
	return oid, nil
}

// bsonFieldMap indexes a struct's bson keys by Go field name.
func bsonFieldMap(t reflect.Type) map[string]string {
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("bson")
		if tag == "" || tag == "-" {
			continue
		}
		key := strings.Split(tag, ",")[0]
		if key == "" {
			key = strings.ToLower(field.Name)
		}
		m[key] = field.Name
	}
	return m
}
