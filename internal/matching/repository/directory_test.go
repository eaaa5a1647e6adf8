package repository

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fixhub/pkg/client"
	"fixhub/pkg/config"
)

func TestNewMongoDirectoryRepository(t *testing.T) {
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("failed to create mongo client: %v", err)
	}
	t.Cleanup(func() {
		_ = mongoClient.Disconnect(context.Background())
	})

	cfg := &config.Config{
		MongoDatabaseName: "fixhub_test",
		Client:            &client.Client{Mongo: mongoClient},
	}

	repo := NewMongoDirectoryRepository(cfg)
	if repo == nil {
		t.Fatal("expected repository to be constructed")
	}
}
