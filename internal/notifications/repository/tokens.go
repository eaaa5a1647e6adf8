package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	notificationserrors "fixhub/internal/notifications/errors"
	"fixhub/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const UsersCollection = "users"

// TokenRepository manages the device token set stored on the user
// document.
type TokenRepository interface {
	GetDeviceTokens(ctx context.Context, userID string) ([]string, error)
	ReplaceDeviceTokens(ctx context.Context, userID string, expectedPrior, newSet []string) error
	AddDeviceToken(ctx context.Context, userID, token string) error
}

type mongoTokenRepository struct {
	cfg   *config.Config
	users *mongo.Collection
}

func NewMongoTokenRepository(cfg *config.Config) TokenRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTokenRepository{
		cfg:   cfg,
		users: db.Collection(UsersCollection),
	}
}

func (r *mongoTokenRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTokenRepository) GetDeviceTokens(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var doc struct {
		DeviceTokens []string `bson:"device_tokens"`
	}
	err := r.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notificationserrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read device tokens: %w", err)
	}

	return doc.DeviceTokens, nil
}

// ReplaceDeviceTokens writes the new token set only if the stored set still
// equals expectedPrior. This is the compare-and-swap that keeps a cleanup
// from discarding tokens registered concurrently.
func (r *mongoTokenRepository) ReplaceDeviceTokens(ctx context.Context, userID string, expectedPrior, newSet []string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":           userID,
		"device_tokens": expectedPrior,
	}

	result, err := r.users.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"device_tokens": newSet},
	})
	if err != nil {
		return fmt.Errorf("failed to replace device tokens: %w", err)
	}

	if result.MatchedCount == 0 {
		count, countErr := r.users.CountDocuments(ctx, bson.M{"_id": userID})
		if countErr != nil {
			return fmt.Errorf("failed to check user existence: %w", countErr)
		}
		if count == 0 {
			return notificationserrors.ErrUserNotFound
		}
		return notificationserrors.ErrTokenConflict
	}

	return nil
}

func (r *mongoTokenRepository) AddDeviceToken(ctx context.Context, userID, token string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"device_tokens": token}},
	)
	if err != nil {
		return fmt.Errorf("failed to add device token: %w", err)
	}

	if result.MatchedCount == 0 {
		return notificationserrors.ErrUserNotFound
	}

	return nil
}
