package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/azeem8271/trek-tours/internal/config"
)

// MongoDB database connection structure
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// NewMongoDB connects to MongoDB and returns a handle on the configured
// database.
func NewMongoDB(cfg *config.Config) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI()).
		SetMaxPoolSize(100).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.Database.Name),
	}, nil
}

// Close disconnects the client
func (db *MongoDB) Close(ctx context.Context) error {
	if db.Client != nil {
		return db.Client.Disconnect(ctx)
	}
	return nil
}

// EnsureIndexes creates the unique indexes the data model relies on:
// tour names, user emails, and one review per user per tour.
func (db *MongoDB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := db.Database.Collection("tours").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create tour name index: %w", err)
	}

	_, err = db.Database.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user email index: %w", err)
	}

	_, err = db.Database.Collection("reviews").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create review tour/user index: %w", err)
	}

	return nil
}
