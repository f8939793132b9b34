package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/azeem8271/trek-tours/internal/app/models"
)

// secretTourFilter keeps secret tours out of every default read path.
var secretTourFilter = bson.M{"secretTour": bson.M{"$ne": true}}

// TourStats is one row of the by-difficulty aggregate.
type TourStats struct {
	Difficulty string  `bson:"_id" json:"difficulty"`
	NumTours   int     `bson:"numTours" json:"numTours"`
	NumRatings int     `bson:"numRatings" json:"numRatings"`
	AvgRating  float64 `bson:"avgRating" json:"avgRating"`
	AvgPrice   float64 `bson:"avgPrice" json:"avgPrice"`
	MinPrice   float64 `bson:"minPrice" json:"minPrice"`
	MaxPrice   float64 `bson:"maxPrice" json:"maxPrice"`
}

// MonthlyPlanEntry is one row of the per-month start-date aggregate.
type MonthlyPlanEntry struct {
	Month         int      `bson:"month" json:"month"`
	NumTourStarts int      `bson:"numTourStarts" json:"numTourStarts"`
	Tours         []string `bson:"tours" json:"tours"`
}

// TourRepository handles tour persistence
type TourRepository struct {
	*Store[models.Tour, *models.Tour]
	users   *mongo.Collection
	reviews *mongo.Collection
}

// NewTourRepository creates a new TourRepository
func NewTourRepository(db *mongo.Database) *TourRepository {
	return &TourRepository{
		Store:   NewStore[models.Tour](db.Collection("tours"), secretTourFilter),
		users:   db.Collection("users"),
		reviews: db.Collection("reviews"),
	}
}

// FindByIDPopulated looks up a tour and resolves its guide references and
// review relation.
func (r *TourRepository) FindByIDPopulated(ctx context.Context, id string) (*models.Tour, error) {
	tour, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(tour.Guides) > 0 {
		opts := options.Find().SetProjection(bson.D{
			{Key: "password", Value: 0},
			{Key: "passwordChangedAt", Value: 0},
			{Key: "passwordResetToken", Value: 0},
			{Key: "passwordResetExpires", Value: 0},
		})
		cur, err := r.users.Find(ctx, bson.M{
			"_id":    bson.M{"$in": tour.Guides},
			"active": bson.M{"$ne": false},
		}, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve guides: %w", err)
		}
		if err := cur.All(ctx, &tour.GuideDetails); err != nil {
			return nil, fmt.Errorf("failed to decode guides: %w", err)
		}
	}

	cur, err := r.reviews.Find(ctx, bson.M{"tour": tour.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reviews: %w", err)
	}
	if err := cur.All(ctx, &tour.Reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return tour, nil
}

// Stats groups non-secret, highly rated tours by difficulty with rating and
// price aggregates, cheapest difficulty first.
func (r *TourRepository) Stats(ctx context.Context) ([]TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: secretTourFilter}},
		{{Key: "$match", Value: bson.M{"ratingsAverage": bson.M{"$gte": 4.5}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	cur, err := r.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("stats aggregation failed: %w", err)
	}
	defer cur.Close(ctx)

	stats := []TourStats{}
	if err := cur.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("stats decode failed: %w", err)
	}
	return stats, nil
}

// MonthlyPlan counts tour starts per month of the given year, busiest month
// first.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: secretTourFilter}},
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"startDates": bson.M{"$gte": from, "$lte": to},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
	}

	cur, err := r.Collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("monthly plan aggregation failed: %w", err)
	}
	defer cur.Close(ctx)

	plan := []MonthlyPlanEntry{}
	if err := cur.All(ctx, &plan); err != nil {
		return nil, fmt.Errorf("monthly plan decode failed: %w", err)
	}
	return plan, nil
}
