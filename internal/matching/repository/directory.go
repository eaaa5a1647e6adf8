package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	matchingerrors "fixhub/internal/matching/errors"
	"fixhub/pkg/config"
	"fixhub/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection        = "users"
	ServicesCollection     = "services"
	ApplicationsCollection = "partnerApplications"
)

// DirectoryRepository reads the user directory, service catalog, and
// partner application store. All reads; matching never writes.
type DirectoryRepository interface {
	GetPartnersByRole(ctx context.Context, role string) ([]*model.Partner, error)
	GetServiceByID(ctx context.Context, id string) (*model.Service, error)
	GetApplicationByUserID(ctx context.Context, userID string) (*model.PartnerApplication, error)
}

type mongoDirectoryRepository struct {
	cfg          *config.Config
	users        *mongo.Collection
	services     *mongo.Collection
	applications *mongo.Collection
}

func NewMongoDirectoryRepository(cfg *config.Config) DirectoryRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDirectoryRepository{
		cfg:          cfg,
		users:        db.Collection(UsersCollection),
		services:     db.Collection(ServicesCollection),
		applications: db.Collection(ApplicationsCollection),
	}
}

func (r *mongoDirectoryRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

// GetPartnersByRole returns candidates in a deterministic order so that
// the engine's stable sort produces reproducible tie-breaks. The result
// is capped to keep the fan-out bounded on large directories.
func (r *mongoDirectoryRepository) GetPartnersByRole(ctx context.Context, role string) ([]*model.Partner, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(r.cfg.MaxMatchCandidates))

	cursor, err := r.users.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find users by role: %w", err)
	}
	defer cursor.Close(ctx)

	var partners []*model.Partner
	if err = cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return partners, nil
}

func (r *mongoDirectoryRepository) GetServiceByID(ctx context.Context, id string) (*model.Service, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", matchingerrors.ErrInvalidID, id)
	}

	var service model.Service
	err = r.services.FindOne(ctx, bson.M{"_id": objectID}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, matchingerrors.ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}

	return &service, nil
}

func (r *mongoDirectoryRepository) GetApplicationByUserID(ctx context.Context, userID string) (*model.PartnerApplication, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var application model.PartnerApplication
	err := r.applications.FindOne(ctx, bson.M{"_id": userID}).Decode(&application)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, matchingerrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to find partner application: %w", err)
	}

	return &application, nil
}
