// Package mongo provisions the collections, schema validators, and indexes
// the services expect. The job is idempotent and safe to re-run on deploy.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"paddock/internal/migrations/mongo/validators"
	"paddock/pkg/config"
)

var (
	StablesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_phone", Value: 1}}},
		{Keys: bson.D{{Key: "members.phone", Value: 1}}},
		{Keys: bson.D{
			{Key: "cities", Value: 1},
			{Key: "labels", Value: 1},
		}},
	}

	HorsesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "stable_id", Value: 1}}},
		{Keys: bson.D{{Key: "vaccinations.valid_until", Value: 1}}},
	}

	FacilitiesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "stable_id", Value: 1}}},
	}

	// The window query filters on facility_id plus the start/end interval, so
	// the compound index covers the conflict lookup on every booking attempt.
	ReservationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "facility_id", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "stable_id", Value: 1},
			{Key: "start_time", Value: -1},
		}},
	}

	ActivitiesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "stable_id", Value: 1},
			{Key: "status", Value: 1},
		}},
	}

	WorkloadEntriesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "stable_id", Value: 1},
			{Key: "recorded_at", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "source", Value: 1},
			{Key: "source_id", Value: 1},
		}},
	}
)

func RunMigration(ctx context.Context, cfg *config.Config) error {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	cfg.Log.Info("Running Mongo migrations", "database", cfg.MongoDatabaseName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Stables": {
			Indexes:   StablesIndexes,
			Validator: validators.StableValidator,
		},
		"Horses": {
			Indexes:   HorsesIndexes,
			Validator: validators.HorseValidator,
		},
		"Facilities": {
			Indexes:   FacilitiesIndexes,
			Validator: validators.FacilityValidator,
		},
		"Reservations": {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		"Activities": {
			Indexes:   ActivitiesIndexes,
			Validator: validators.ActivityValidator,
		},
		"WorkloadEntries": {
			Indexes:   WorkloadEntriesIndexes,
			Validator: validators.WorkloadEntryValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, cfg, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, cfg, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	cfg.Log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, cfg *config.Config, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		cfg.Log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	cfg.Log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		cfg.Log.Warn("Failed updating validator", "collection", name, "error", err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, cfg *config.Config, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	cfg.Log.Info("Ensured indexes", "collection", name)
	return nil
}
