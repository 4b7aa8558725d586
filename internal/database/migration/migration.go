package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// namespaceExists is the server code for creating a collection that already exists.
const namespaceExists = 48

// EnsureCollections creates any of the named collections that do not exist yet.
// Existing collections are left untouched, so it is safe to run on every start.
// A collection created by a concurrent replica between the listing and the
// create counts as a skipped step.
func EnsureCollections(ctx context.Context, db *mongo.Database, names []string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "database", "db_name", db.Name())
	start := time.Now()

	logger.Info("db_migration_check", "status", "starting")

	existing, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		logger.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to list collections: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to list collections: %w", err)
	}

	var missing []string
	for _, name := range names {
		if !slices.Contains(existing, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		logger.Info("db_migration_skip",
			"status", "success",
			"detail", "collections already exist, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	logger.Info("db_migration_start", "status", "in_progress", "missing", missing)

	for _, name := range missing {
		stepStart := time.Now()
		err := db.CreateCollection(ctx, name)
		if isNamespaceExists(err) {
			logger.Info("db_migration_step",
				"status", "skipped",
				"migration_step", "create_collection_"+name,
				"detail", "collection created concurrently",
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			continue
		}
		if err != nil {
			logger.Error("db_migration_failed",
				"status", "error",
				"migration_step", "create_collection_"+name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("create collection %s failed: %w", name, err)
		}

		logger.Info("db_migration_step",
			"status", "success",
			"migration_step", "create_collection_"+name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	logger.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func isNamespaceExists(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists
}
