package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// reserved keys are consumed by the non-filter steps and stripped from the
// filter document.
var reservedKeys = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// comparisonKey matches filter keys of the form field[gte] as they arrive in
// a raw query string, e.g. ?price[gte]=500.
var comparisonKey = regexp.MustCompile(`^(.+)\[(gte|gt|lte|lt)\]$`)

// Features translates a raw key-value query description into MongoDB
// filter, sort, projection, and pagination instructions. The four steps are
// independent and chainable:
//
//	f := query.New(values).Filter().Sort().Select().Paginate()
//	cur, err := coll.Find(ctx, f.MergeFilter(base), f.FindOptions())
//
// No step validates input beyond syntactic rewriting; malformed filter keys
// pass through for the engine to reject.
type Features struct {
	values url.Values
	filter bson.M
	sort   bson.D
	fields []string
	hidden []string
	skip   int64
	limit  int64
}

// New creates a Features builder over a parsed query string.
func New(values url.Values) *Features {
	return &Features{
		values: values,
		filter: bson.M{},
	}
}

// Hidden registers fields excluded from default projections. The store
// supplies them; explicit field selection never re-includes them.
func (f *Features) Hidden(fields ...string) *Features {
	f.hidden = fields
	return f
}

// Filter strips the reserved keys and rewrites comparison suffixes
// (gte, gt, lte, lt) into MongoDB operator documents. Plain keys become
// equality matches.
func (f *Features) Filter() *Features {
	filter := bson.M{}
	for key, vals := range f.values {
		if reservedKeys[key] || len(vals) == 0 {
			continue
		}

		if m := comparisonKey.FindStringSubmatch(key); m != nil {
			field, op := m[1], "$"+m[2]
			cond, ok := filter[field].(bson.M)
			if !ok {
				cond = bson.M{}
			}
			cond[op] = coerce(vals[0])
			filter[field] = cond
			continue
		}

		filter[key] = coerce(vals[0])
	}
	f.filter = filter
	return f
}

// Sort parses a comma-separated field list, a leading '-' meaning
// descending. Defaults to newest first.
func (f *Features) Sort() *Features {
	sort := bson.D{}
	if raw := f.values.Get("sort"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			order := 1
			if strings.HasPrefix(field, "-") {
				order = -1
				field = field[1:]
			}
			sort = append(sort, bson.E{Key: field, Value: order})
		}
	}
	if len(sort) == 0 {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	f.sort = sort
	return f
}

// Select parses the comma-separated projection allow-list. Without one, the
// store's hidden fields are excluded instead.
func (f *Features) Select() *Features {
	f.fields = nil
	if raw := f.values.Get("fields"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field == "" || contains(f.hidden, field) {
				continue
			}
			f.fields = append(f.fields, field)
		}
	}
	return f
}

// Paginate reads the 1-based page number and page size, computing skip as
// (page-1)*limit.
func (f *Features) Paginate() *Features {
	page := intParam(f.values.Get("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	limit := intParam(f.values.Get("limit"), DefaultLimit)
	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	f.skip = int64(page-1) * int64(limit)
	f.limit = int64(limit)
	return f
}

// MergeFilter combines the parsed filter with a base visibility filter; base
// conditions win on key collisions.
func (f *Features) MergeFilter(base bson.M) bson.M {
	merged := bson.M{}
	for k, v := range f.filter {
		merged[k] = v
	}
	for k, v := range base {
		merged[k] = v
	}
	return merged
}

// FindOptions assembles the driver options the Sort, Select, and Paginate
// steps produced.
func (f *Features) FindOptions() *options.FindOptions {
	opts := options.Find()
	if len(f.sort) > 0 {
		opts.SetSort(f.sort)
	}
	opts.SetProjection(f.Projection())
	if f.limit > 0 {
		opts.SetSkip(f.skip).SetLimit(f.limit)
	}
	return opts
}

// Projection returns the field selection document: an inclusion projection
// when fields were requested, otherwise an exclusion of the hidden fields.
func (f *Features) Projection() bson.D {
	proj := bson.D{}
	if len(f.fields) > 0 {
		for _, field := range f.fields {
			proj = append(proj, bson.E{Key: field, Value: 1})
		}
		return proj
	}
	for _, field := range f.hidden {
		proj = append(proj, bson.E{Key: field, Value: 0})
	}
	return proj
}

// Skip returns the computed pagination offset.
func (f *Features) Skip() int64 { return f.skip }

// Limit returns the computed page size.
func (f *Features) Limit() int64 { return f.limit }

// coerce converts numeric and boolean literals so range operators compare
// numerically; everything else stays a string.
func coerce(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		return fl
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
