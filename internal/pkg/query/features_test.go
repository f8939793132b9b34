package query

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("failed to parse query %q: %v", raw, err)
	}
	return values
}

func TestFilterRewritesComparisonKeys(t *testing.T) {
	f := New(parseQuery(t, "duration[gte]=5&price[lt]=1500&difficulty=easy")).Filter()

	want := bson.M{
		"duration":   bson.M{"$gte": int64(5)},
		"price":      bson.M{"$lt": int64(1500)},
		"difficulty": "easy",
	}
	if !reflect.DeepEqual(f.filter, want) {
		t.Errorf("filter = %#v, want %#v", f.filter, want)
	}
}

func TestFilterCombinesOperatorsOnOneField(t *testing.T) {
	f := New(parseQuery(t, "price[gte]=500&price[lte]=2000")).Filter()

	cond, ok := f.filter["price"].(bson.M)
	if !ok {
		t.Fatalf("price condition is %#v, want bson.M", f.filter["price"])
	}
	if cond["$gte"] != int64(500) || cond["$lte"] != int64(2000) {
		t.Errorf("price condition = %#v", cond)
	}
}

func TestFilterStripsReservedKeys(t *testing.T) {
	f := New(parseQuery(t, "page=2&sort=price&limit=5&fields=name&duration=7")).Filter()

	if len(f.filter) != 1 {
		t.Errorf("filter has %d keys, want 1: %#v", len(f.filter), f.filter)
	}
	if f.filter["duration"] != int64(7) {
		t.Errorf("duration = %#v, want 7", f.filter["duration"])
	}
}

func TestFilterCoercesValueTypes(t *testing.T) {
	f := New(parseQuery(t, "duration=5&ratingsAverage=4.7&secretTour=true&name=Forest")).Filter()

	if f.filter["duration"] != int64(5) {
		t.Errorf("duration = %#v, want int64", f.filter["duration"])
	}
	if f.filter["ratingsAverage"] != 4.7 {
		t.Errorf("ratingsAverage = %#v, want float64", f.filter["ratingsAverage"])
	}
	if f.filter["secretTour"] != true {
		t.Errorf("secretTour = %#v, want bool", f.filter["secretTour"])
	}
	if f.filter["name"] != "Forest" {
		t.Errorf("name = %#v, want string", f.filter["name"])
	}
}

func TestSortParsesDirections(t *testing.T) {
	f := New(parseQuery(t, "sort=-ratingsAverage,price")).Sort()

	want := bson.D{{Key: "ratingsAverage", Value: -1}, {Key: "price", Value: 1}}
	if !reflect.DeepEqual(f.sort, want) {
		t.Errorf("sort = %#v, want %#v", f.sort, want)
	}
}

func TestSortDefaultsToNewestFirst(t *testing.T) {
	f := New(url.Values{}).Sort()

	want := bson.D{{Key: "createdAt", Value: -1}}
	if !reflect.DeepEqual(f.sort, want) {
		t.Errorf("sort = %#v, want %#v", f.sort, want)
	}
}

func TestSelectBuildsInclusionProjection(t *testing.T) {
	f := New(parseQuery(t, "fields=name,duration,price")).Select()

	want := bson.D{
		{Key: "name", Value: 1},
		{Key: "duration", Value: 1},
		{Key: "price", Value: 1},
	}
	if got := f.Projection(); !reflect.DeepEqual(got, want) {
		t.Errorf("projection = %#v, want %#v", got, want)
	}
}

func TestSelectNeverReincludesHiddenFields(t *testing.T) {
	f := New(parseQuery(t, "fields=name,password")).Hidden("password").Select()

	want := bson.D{{Key: "name", Value: 1}}
	if got := f.Projection(); !reflect.DeepEqual(got, want) {
		t.Errorf("projection = %#v, want %#v", got, want)
	}
}

func TestProjectionExcludesHiddenByDefault(t *testing.T) {
	f := New(url.Values{}).Hidden("password", "passwordResetToken").Select()

	want := bson.D{
		{Key: "password", Value: 0},
		{Key: "passwordResetToken", Value: 0},
	}
	if got := f.Projection(); !reflect.DeepEqual(got, want) {
		t.Errorf("projection = %#v, want %#v", got, want)
	}
}

func TestPaginateDefaults(t *testing.T) {
	f := New(url.Values{}).Paginate()

	if f.Skip() != 0 {
		t.Errorf("skip = %d, want 0", f.Skip())
	}
	if f.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", f.Limit(), DefaultLimit)
	}
}

func TestPaginateComputesSkip(t *testing.T) {
	f := New(parseQuery(t, "page=3&limit=20")).Paginate()

	if f.Skip() != 40 {
		t.Errorf("skip = %d, want 40", f.Skip())
	}
	if f.Limit() != 20 {
		t.Errorf("limit = %d, want 20", f.Limit())
	}
}

func TestPaginateClampsBadInput(t *testing.T) {
	cases := []struct {
		name  string
		query string
		skip  int64
		limit int64
	}{
		{"negative page", "page=-1&limit=10", 0, 10},
		{"zero limit", "limit=0", 0, DefaultLimit},
		{"limit above max", "limit=500", 0, DefaultLimit},
		{"non-numeric", "page=abc&limit=xyz", 0, DefaultLimit},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := New(parseQuery(t, tc.query)).Paginate()
			if f.Skip() != tc.skip {
				t.Errorf("skip = %d, want %d", f.Skip(), tc.skip)
			}
			if f.Limit() != tc.limit {
				t.Errorf("limit = %d, want %d", f.Limit(), tc.limit)
			}
		})
	}
}

func TestMergeFilterBaseWins(t *testing.T) {
	f := New(parseQuery(t, "secretTour=true&duration=5")).Filter()

	merged := f.MergeFilter(bson.M{"secretTour": bson.M{"$ne": true}})

	want := bson.M{
		"secretTour": bson.M{"$ne": true},
		"duration":   int64(5),
	}
	if !reflect.DeepEqual(merged, want) {
		t.Errorf("merged = %#v, want %#v", merged, want)
	}
}

func TestChainedPipeline(t *testing.T) {
	values := parseQuery(t, "duration[gte]=5&sort=price&fields=name,price&page=2&limit=5")
	f := New(values).Filter().Sort().Select().Paginate()

	if _, ok := f.filter["duration"]; !ok {
		t.Error("filter lost the duration condition")
	}
	if f.sort[0].Key != "price" || f.sort[0].Value != 1 {
		t.Errorf("sort = %#v", f.sort)
	}
	if f.Skip() != 5 || f.Limit() != 5 {
		t.Errorf("pagination = (%d, %d), want (5, 5)", f.Skip(), f.Limit())
	}
	if opts := f.FindOptions(); opts == nil {
		t.Fatal("FindOptions returned nil")
	}
}
