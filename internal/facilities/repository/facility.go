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

	facilitieserrors "paddock/internal/facilities/errors"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	"paddock/pkg/model"
)

const (
	CollectionName = "Facilities"
)

type FacilityRepository interface {
	Create(ctx context.Context, facility *model.Facility) error
	FindByID(ctx context.Context, id string) (*model.Facility, error)
	FindByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Facility, error)
	Update(ctx context.Context, id string, facility *model.Facility) (*mongo.UpdateResult, error)
	UpdateDaySchedule(ctx context.Context, id string, day config.Weekday, blocks []model.TimeBlock) error
	Delete(ctx context.Context, id string) error
	CountByStable(ctx context.Context, stableID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoFacilityRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoFacilityRepository(cfg *config.Config) FacilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFacilityRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoFacilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoFacilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	facility.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, facility)
	if err != nil {
		return fmt.Errorf("failed to create facility: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		facility.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFacilityRepository) FindByID(ctx context.Context, id string) (*model.Facility, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, id)
	}

	var facility model.Facility
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&facility)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, facilitieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find facility: %w", err)
	}

	return &facility, nil
}

func (r *mongoFacilityRepository) FindByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Facility, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"stable_id": stableID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find facilities: %w", err)
	}
	defer cursor.Close(ctx)

	var facilities []*model.Facility
	if err = cursor.All(ctx, &facilities); err != nil {
		return nil, fmt.Errorf("failed to decode facilities: %w", err)
	}

	return facilities, nil
}

func (r *mongoFacilityRepository) Update(ctx context.Context, id string, facility *model.Facility) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":                       facility.Name,
			"capacity":                   facility.Capacity,
			"max_horses_per_reservation": facility.MaxHorsesPerReservation,
			"slot_granularity_min":       facility.SlotGranularityMin,
			"availability_schedule":      facility.AvailabilitySchedule,
			"time_zone":                  facility.TimeZone,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update facility: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, facilitieserrors.ErrNotFound
	}

	return result, nil
}

// UpdateDaySchedule replaces one weekday's blocks without touching the rest of
// the schedule. An empty slice closes the day.
func (r *mongoFacilityRepository) UpdateDaySchedule(ctx context.Context, id string, day config.Weekday, blocks []model.TimeBlock) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, id)
	}

	field := fmt.Sprintf("availability_schedule.%s", day)
	var update bson.M
	if len(blocks) == 0 {
		update = bson.M{"$unset": bson.M{field: ""}}
	} else {
		update = bson.M{"$set": bson.M{field: blocks}}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update day schedule: %w", err)
	}

	if result.MatchedCount == 0 {
		return facilitieserrors.ErrNotFound
	}
	return nil
}

func (r *mongoFacilityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", facilitieserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete facility: %w", err)
	}

	if result.DeletedCount == 0 {
		return facilitieserrors.ErrNotFound
	}

	return nil
}

func (r *mongoFacilityRepository) CountByStable(ctx context.Context, stableID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"stable_id": stableID})
	if err != nil {
		return 0, fmt.Errorf("failed to count facilities: %w", err)
	}

	return count, nil
}

func (r *mongoFacilityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
