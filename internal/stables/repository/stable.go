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

	stableserrors "paddock/internal/stables/errors"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	"paddock/pkg/model"
)

const (
	CollectionName = "Stables"
)

type StableRepository interface {
	Create(ctx context.Context, stable *model.Stable) error
	FindByID(ctx context.Context, id string) (*model.Stable, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Stable, error)
	Update(ctx context.Context, id string, stable *model.Stable) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, cities []string, labels []string) ([]*model.Stable, error)
	FindByMemberPhone(ctx context.Context, phone string) ([]*model.Stable, error)
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoStableRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoStableRepository(cfg *config.Config) StableRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStableRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoStableRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoStableRepository) Create(ctx context.Context, stable *model.Stable) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	stable.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, stable)
	if err != nil {
		return fmt.Errorf("failed to create stable: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		stable.ID = oid.Hex()
	}
	return nil
}

func (r *mongoStableRepository) FindByID(ctx context.Context, id string) (*model.Stable, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", stableserrors.ErrInvalidID, id)
	}

	var stable model.Stable
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&stable)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, stableserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find stable: %w", err)
	}

	return &stable, nil
}

func (r *mongoStableRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Stable, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find stables: %w", err)
	}
	defer cursor.Close(ctx)

	var stables []*model.Stable
	if err = cursor.All(ctx, &stables); err != nil {
		return nil, fmt.Errorf("failed to decode stables: %w", err)
	}

	return stables, nil
}

func (r *mongoStableRepository) Update(ctx context.Context, id string, stable *model.Stable) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", stableserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":      stable.Name,
			"cities":    stable.Cities,
			"labels":    stable.Labels,
			"members":   stable.Members,
			"time_zone": stable.TimeZone,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update stable: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, stableserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoStableRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", stableserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete stable: %w", err)
	}

	if result.DeletedCount == 0 {
		return stableserrors.ErrNotFound
	}

	return nil
}

func (r *mongoStableRepository) Search(ctx context.Context, cities []string, labels []string) ([]*model.Stable, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if len(cities) > 0 {
		filter["cities"] = bson.M{"$in": cities}
	}
	if len(labels) > 0 {
		filter["labels"] = bson.M{"$in": labels}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search stables: %w", err)
	}
	defer cursor.Close(ctx)

	var stables []*model.Stable
	if err = cursor.All(ctx, &stables); err != nil {
		return nil, fmt.Errorf("failed to decode stables: %w", err)
	}

	return stables, nil
}

func (r *mongoStableRepository) FindByMemberPhone(ctx context.Context, phone string) ([]*model.Stable, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"$or": []bson.M{
			{"owner_phone": phone},
			{"members.phone": phone},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find stables by member phone: %w", err)
	}
	defer cursor.Close(ctx)

	var stables []*model.Stable
	if err = cursor.All(ctx, &stables); err != nil {
		return nil, fmt.Errorf("failed to decode stables: %w", err)
	}

	return stables, nil
}

func (r *mongoStableRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count stables: %w", err)
	}

	return count, nil
}

func (r *mongoStableRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
