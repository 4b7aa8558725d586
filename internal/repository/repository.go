package repository

import (
	"context"
	"errors"

	"assetapi/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., mongo) inside this directory.

var (
	// ErrNotFound is returned when no document matches the given id.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when an id cannot be parsed as a store identifier.
	ErrInvalidID = errors.New("malformed document id")
	// ErrUnavailable wraps connectivity failures talking to the document store.
	ErrUnavailable = errors.New("document store unavailable")
)

// Repository defines persistence for one collection of records of type T.
// No business logic here, strictly one store operation per call.
type Repository[T any] interface {
	// Create inserts a new record and returns it with the store-assigned ID set.
	Create(ctx context.Context, rec *T) (*T, error)

	// List returns every record in the collection in store-native order.
	// Binary payloads are not loaded.
	List(ctx context.Context) ([]T, error)

	// Replace overwrites all mutable fields of the record with the given ID.
	// It returns ErrNotFound if no record matched.
	Replace(ctx context.Context, id string, rec *T) error

	// Delete removes the record with the given ID.
	// It returns ErrNotFound if no record was deleted.
	Delete(ctx context.Context, id string) error
}

// AssetRepository persists sprites or audio clips, depending on the collection it is bound to.
type AssetRepository = Repository[model.Asset]

// ScoreRepository persists player scores.
type ScoreRepository = Repository[model.PlayerScore]
