package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"fixhub/pkg/client"
	"fixhub/pkg/logger"
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	testLogger := logger.New(logger.Config{
		Service: "test",
		Level:   "debug",
		Format:  logger.FormatText,
	})

	prodClient := client.NewClient()
	prodClient.SetMongo(testLogger, mongoURI, ConnectionTimeout)

	return &MongoHelper{
		Client:   prodClient.Mongo,
		Database: prodClient.Mongo.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

func (m *MongoHelper) CleanDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collections, err := m.Database.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to list collections: %v", err)
	}

	for _, collName := range collections {
		if collName == "_migrations" || collName == "system.indexes" {
			continue
		}
		if err := m.Database.Collection(collName).Drop(ctx); err != nil {
			t.Fatalf("failed to drop collection %s: %v", collName, err)
		}
	}
}

// SeedService inserts a service document and returns its hex ID.
func (m *MongoHelper) SeedService(t *testing.T, name, category string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := primitive.NewObjectID()
	_, err := m.Database.Collection("services").InsertOne(ctx, bson.M{
		"_id":      id,
		"name":     name,
		"category": category,
	})
	if err != nil {
		t.Fatalf("failed to seed service: %v", err)
	}
	return id.Hex()
}

// SeedPartner inserts a partner user document.
func (m *MongoHelper) SeedPartner(t *testing.T, id string, skills []string, rating float64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.Database.Collection("users").InsertOne(ctx, bson.M{
		"_id":          id,
		"display_name": "Partner " + id,
		"role":         "partner",
		"status":       "active",
		"skills":       skills,
		"rating":       rating,
	})
	if err != nil {
		t.Fatalf("failed to seed partner: %v", err)
	}
}

// SeedCustomer inserts a customer user document with device tokens.
func (m *MongoHelper) SeedCustomer(t *testing.T, id string, tokens []string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.Database.Collection("users").InsertOne(ctx, bson.M{
		"_id":           id,
		"display_name":  "Customer " + id,
		"role":          "customer",
		"device_tokens": tokens,
	})
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
}

func (m *MongoHelper) CountDocuments(t *testing.T, collectionName string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := m.Database.Collection(collectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collectionName, err)
	}
	return count
}
