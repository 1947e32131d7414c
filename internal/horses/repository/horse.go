package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	horseserrors "paddock/internal/horses/errors"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	"paddock/pkg/model"
)

const (
	CollectionName = "Horses"
)

type HorseRepository interface {
	Create(ctx context.Context, horse *model.Horse) error
	FindByID(ctx context.Context, id string) (*model.Horse, error)
	FindByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Horse, error)
	Update(ctx context.Context, id string, horse *model.Horse) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	AddVaccination(ctx context.Context, id string, vaccination *model.Vaccination) error
	AddTransport(ctx context.Context, id string, entry *model.TransportEntry) error
	FindVaccinationsDue(ctx context.Context, stableID string, cutoff time.Time) ([]*model.Horse, error)
	CountByStable(ctx context.Context, stableID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoHorseRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoHorseRepository(cfg *config.Config) HorseRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHorseRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoHorseRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

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

func (r *mongoHorseRepository) Create(ctx context.Context, horse *model.Horse) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	horse.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, horse)
	if err != nil {
		return fmt.Errorf("failed to create horse: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		horse.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHorseRepository) FindByID(ctx context.Context, id string) (*model.Horse, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", horseserrors.ErrInvalidID, id)
	}

	var horse model.Horse
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&horse)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, horseserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find horse: %w", err)
	}

	return &horse, nil
}

func (r *mongoHorseRepository) FindByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Horse, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"stable_id": stableID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find horses: %w", err)
	}
	defer cursor.Close(ctx)

	var horses []*model.Horse
	if err = cursor.All(ctx, &horses); err != nil {
		return nil, fmt.Errorf("failed to decode horses: %w", err)
	}

	return horses, nil
}

func (r *mongoHorseRepository) Update(ctx context.Context, id string, horse *model.Horse) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", horseserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":          horse.Name,
			"breed":         horse.Breed,
			"date_of_birth": horse.DateOfBirth,
			"tack_labels":   horse.TackLabels,
			"notes":         horse.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update horse: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, horseserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoHorseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", horseserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete horse: %w", err)
	}

	if result.DeletedCount == 0 {
		return horseserrors.ErrNotFound
	}

	return nil
}

func (r *mongoHorseRepository) AddVaccination(ctx context.Context, id string, vaccination *model.Vaccination) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", horseserrors.ErrInvalidID, id)
	}

	update := bson.M{"$push": bson.M{"vaccinations": vaccination}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to add vaccination: %w", err)
	}

	if result.MatchedCount == 0 {
		return horseserrors.ErrNotFound
	}
	return nil
}

func (r *mongoHorseRepository) AddTransport(ctx context.Context, id string, entry *model.TransportEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", horseserrors.ErrInvalidID, id)
	}

	update := bson.M{"$push": bson.M{"transports": entry}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to add transport entry: %w", err)
	}

	if result.MatchedCount == 0 {
		return horseserrors.ErrNotFound
	}
	return nil
}

// FindVaccinationsDue returns horses in the stable with at least one
// vaccination expiring on or before the cutoff.
func (r *mongoHorseRepository) FindVaccinationsDue(ctx context.Context, stableID string, cutoff time.Time) ([]*model.Horse, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"stable_id": stableID,
		"vaccinations.valid_until": bson.M{
			"$lte": cutoff,
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find horses with due vaccinations: %w", err)
	}
	defer cursor.Close(ctx)

	var horses []*model.Horse
	if err = cursor.All(ctx, &horses); err != nil {
		return nil, fmt.Errorf("failed to decode horses: %w", err)
	}

	return horses, nil
}

func (r *mongoHorseRepository) CountByStable(ctx context.Context, stableID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"stable_id": stableID})
	if err != nil {
		return 0, fmt.Errorf("failed to count horses: %w", err)
	}

	return count, nil
}

func (r *mongoHorseRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
