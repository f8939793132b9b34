package models

import (
	"encoding/json"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty defines the tour difficulty enum
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// Location is a GeoJSON point on a tour itinerary
type Location struct {
	Type        string    `bson:"type" json:"type" validate:"omitempty,eq=Point"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty" json:"day,omitempty"`
}

// Tour defines the tour document in the 'tours' collection
type Tour struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name" validate:"required,min=3,max=40"`
	Slug            string               `bson:"slug,omitempty" json:"slug,omitempty"`
	Duration        float64              `bson:"duration" json:"duration" validate:"required,gt=0"`
	MaxGroupSize    int                  `bson:"maxGroupSize" json:"maxGroupSize" validate:"required,gt=0"`
	Difficulty      Difficulty           `bson:"difficulty" json:"difficulty" validate:"required,oneof=easy medium difficult"`
	// Pointer so an explicit zero in a patch is distinguishable from an
	// absent field and fails the range check.
	RatingsAverage  *float64             `bson:"ratingsAverage" json:"ratingsAverage" validate:"omitempty,gte=1,lte=5"`
	RatingsQuantity int                  `bson:"ratingsQuantity" json:"ratingsQuantity"`
	Price           float64              `bson:"price" json:"price" validate:"required,gt=0"`
	PriceDiscount   float64              `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty" validate:"omitempty,ltefield=Price"`
	Summary         string               `bson:"summary" json:"summary" validate:"required"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	ImageCover      string               `bson:"imageCover" json:"imageCover" validate:"required"`
	Images          []string             `bson:"images,omitempty" json:"images,omitempty"`
	StartDates      []time.Time          `bson:"startDates,omitempty" json:"startDates,omitempty"`
	SecretTour      bool                 `bson:"secretTour" json:"-"`
	StartLocation   *Location            `bson:"startLocation,omitempty" json:"startLocation,omitempty"`
	Locations       []Location           `bson:"locations,omitempty" json:"locations,omitempty"`
	Guides          []primitive.ObjectID `bson:"guides,omitempty" json:"guides,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`

	// Populated relations, resolved at read time and never stored.
	GuideDetails []User   `bson:"-" json:"guideDetails,omitempty"`
	Reviews      []Review `bson:"-" json:"reviews,omitempty"`
}

// SetID implements the store document interface
func (t *Tour) SetID(id primitive.ObjectID) { t.ID = id }

// BeforeSave derives the slug and fills defaulted fields before the document
// is written.
func (t *Tour) BeforeSave() error {
	t.Slug = slug.Make(t.Name)
	if t.RatingsAverage == nil {
		rating := 4.5
		t.RatingsAverage = &rating
	}
	if t.StartLocation != nil && t.StartLocation.Type == "" {
		t.StartLocation.Type = "Point"
	}
	for i := range t.Locations {
		if t.Locations[i].Type == "" {
			t.Locations[i].Type = "Point"
		}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return nil
}

// DurationWeeks is derived from Duration, never stored.
func (t *Tour) DurationWeeks() float64 {
	return t.Duration / 7
}

// MarshalJSON attaches the durationWeeks virtual field.
func (t Tour) MarshalJSON() ([]byte, error) {
	type alias Tour
	return json.Marshal(struct {
		alias
		DurationWeeks float64 `json:"durationWeeks"`
	}{
		alias:         alias(t),
		DurationWeeks: t.DurationWeeks(),
	})
}
