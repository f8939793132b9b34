package repositories

import (
	"net/http"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/azeem8271/trek-tours/internal/app/models"
	"github.com/azeem8271/trek-tours/internal/pkg/apperrors"
)

func TestParseIDValid(t *testing.T) {
	oid, err := ParseID("507f1f77bcf86cd799439011")
	if err != nil {
		t.Fatalf("ParseID returned error: %v", err)
	}
	if oid.Hex() != "507f1f77bcf86cd799439011" {
		t.Errorf("oid = %s", oid.Hex())
	}
}

func TestParseIDInvalidIsOperational400(t *testing.T) {
	_, err := ParseID("not-an-object-id")
	if err == nil {
		t.Fatal("ParseID should reject a malformed id")
	}

	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("err %v should be an AppError", err)
	}
	if appErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status code = %d, want 400", appErr.StatusCode)
	}
}

func TestBsonFieldMap(t *testing.T) {
	m := bsonFieldMap(reflect.TypeOf(models.User{}))

	cases := map[string]string{
		"name":              "Name",
		"email":             "Email",
		"password":          "Password",
		"passwordChangedAt": "PasswordChangedAt",
		"role":              "Role",
	}
	for key, field := range cases {
		if m[key] != field {
			t.Errorf("m[%q] = %q, want %q", key, m[key], field)
		}
	}

	// PasswordConfirm carries bson:"-" and must never be patchable.
	for _, field := range m {
		if field == "PasswordConfirm" {
			t.Error("PasswordConfirm should not appear in the bson field map")
		}
	}
}

func TestCreateValidationRequiresReviewRefs(t *testing.T) {
	review := &models.Review{Review: "Loved it!", Rating: 5}
	if err := validate.Struct(review); err == nil {
		t.Fatal("a review without tour and user refs should fail validation")
	}

	review.Tour = primitive.NewObjectID()
	if err := validate.Struct(review); err == nil {
		t.Fatal("a review without a user ref should fail validation")
	}

	review.User = primitive.NewObjectID()
	if err := validate.Struct(review); err != nil {
		t.Fatalf("review with both refs should validate, got %v", err)
	}
}

func TestPatchValidationRejectsZeroRating(t *testing.T) {
	zero := 0.0
	merged := &models.Tour{
		Name: "The Forest Hiker", Duration: 5, MaxGroupSize: 25,
		Difficulty: models.DifficultyEasy, Price: 397,
		Summary: "Breathtaking hike", ImageCover: "tour-1-cover.jpg",
		RatingsAverage: &zero,
	}

	if err := validate.StructPartial(merged, "RatingsAverage"); err == nil {
		t.Fatal("an explicit ratingsAverage of 0 should fail the range check")
	}

	merged.RatingsAverage = nil
	if err := validate.StructPartial(merged, "RatingsAverage"); err != nil {
		t.Fatalf("an absent ratingsAverage should pass, got %v", err)
	}
}

func TestVisibilityFilterMerging(t *testing.T) {
	store := &Store[models.Review, *models.Review]{baseFilter: bson.M{"active": true}}
	merged := store.visibility(bson.M{"tour": "abc"})

	if merged["active"] != true || merged["tour"] != "abc" {
		t.Errorf("merged = %#v", merged)
	}
}
