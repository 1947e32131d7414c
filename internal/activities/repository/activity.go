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

	activitieserrors "paddock/internal/activities/errors"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	"paddock/pkg/model"
)

const (
	CollectionName         = "Activities"
	WorkloadCollectionName = "WorkloadEntries"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	FindByID(ctx context.Context, id string) (*model.Activity, error)
	FindByStable(ctx context.Context, stableID string, status string, limit int, offset int64) ([]*model.Activity, error)
	Update(ctx context.Context, id string, activity *model.Activity) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	CountByStable(ctx context.Context, stableID string, status string) (int64, error)
	AppendWorkloadEntry(ctx context.Context, entry *model.WorkloadEntry) error
	FindWorkloadEntries(ctx context.Context, stableID string, from, to *time.Time) ([]model.WorkloadEntry, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoActivityRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	workload   *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoActivityRepository(cfg *config.Config) ActivityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoActivityRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		workload:   db.Collection(WorkloadCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoActivityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	activity.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		activity.ID = oid.Hex()
	}
	return nil
}

func (r *mongoActivityRepository) FindByID(ctx context.Context, id string) (*model.Activity, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", activitieserrors.ErrInvalidID, id)
	}

	var activity model.Activity
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, activitieserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find activity: %w", err)
	}

	return &activity, nil
}

func (r *mongoActivityRepository) FindByStable(ctx context.Context, stableID string, status string, limit int, offset int64) ([]*model.Activity, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"stable_id": stableID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find activities: %w", err)
	}
	defer cursor.Close(ctx)

	var activities []*model.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}

	return activities, nil
}

func (r *mongoActivityRepository) Update(ctx context.Context, id string, activity *model.Activity) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", activitieserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"title":          activity.Title,
			"start_time":     activity.StartTime,
			"end_time":       activity.EndTime,
			"assignee_phone": activity.AssigneePhone,
			"points":         activity.Points,
			"status":         activity.Status,
			"completed_at":   activity.CompletedAt,
			"completed_by":   activity.CompletedBy,
			"notes":          activity.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, activitieserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoActivityRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", activitieserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	if result.DeletedCount == 0 {
		return activitieserrors.ErrNotFound
	}

	return nil
}

func (r *mongoActivityRepository) CountByStable(ctx context.Context, stableID string, status string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"stable_id": stableID}
	if status != "" {
		filter["status"] = status
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}

	return count, nil
}

func (r *mongoActivityRepository) AppendWorkloadEntry(ctx context.Context, entry *model.WorkloadEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	result, err := r.workload.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append workload entry: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

func (r *mongoActivityRepository) FindWorkloadEntries(ctx context.Context, stableID string, from, to *time.Time) ([]model.WorkloadEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"stable_id": stableID}
	if from != nil || to != nil {
		window := bson.M{}
		if from != nil {
			window["$gte"] = *from
		}
		if to != nil {
			window["$lt"] = *to
		}
		filter["recorded_at"] = window
	}

	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: 1}})

	cursor, err := r.workload.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find workload entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []model.WorkloadEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode workload entries: %w", err)
	}

	return entries, nil
}

func (r *mongoActivityRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
