package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"assetapi/internal/model"
	"assetapi/internal/repository"
)

// AssetService defines the use cases for one binary asset kind (sprites or audio).
type AssetService interface {
	// Kind returns the constants (allow-list, ceiling, messages) this service enforces.
	Kind() model.AssetKind

	// Create validates the upload and stores it, returning the new id.
	Create(ctx context.Context, up model.Upload) (string, error)

	// List returns metadata for every stored asset; content is never loaded.
	List(ctx context.Context) ([]model.Asset, error)

	// Replace validates the upload and overwrites filename and content of id.
	Replace(ctx context.Context, id string, up model.Upload) error

	// Delete removes the asset with the given id.
	Delete(ctx context.Context, id string) error
}

type assetService struct {
	kind model.AssetKind
	repo repository.AssetRepository
}

// NewAssetService constructs an AssetService enforcing kind's constraints over repo.
func NewAssetService(kind model.AssetKind, repo repository.AssetRepository) AssetService {
	return &assetService{kind: kind, repo: repo}
}

func (s *assetService) Kind() model.AssetKind { return s.kind }

// validate checks the content type first, then the size. Nothing is stored on failure.
func (s *assetService) validate(up model.Upload) error {
	if !s.kind.AllowsType(up.ContentType) {
		return &ValidationError{Field: "content_type", Message: s.kind.TypeMessage}
	}
	if !s.kind.FitsSize(len(up.Content)) {
		return &ValidationError{Field: "file", Message: s.kind.SizeMessage}
	}
	return nil
}

func (s *assetService) Create(ctx context.Context, up model.Upload) (string, error) {
	ctx, span := startSpan(ctx, s.kind.Collection, "create", attribute.Int("app.upload.bytes", len(up.Content)))
	if err := s.validate(up); err != nil {
		return "", endSpan(span, err)
	}
	a := up.Asset()
	stored, err := s.repo.Create(ctx, &a)
	if err != nil {
		return "", endSpan(span, translate(err))
	}
	endSpan(span, nil)
	return stored.ID, nil
}

func (s *assetService) List(ctx context.Context) ([]model.Asset, error) {
	ctx, span := startSpan(ctx, s.kind.Collection, "list")
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, endSpan(span, translate(err))
	}
	span.SetAttributes(attribute.Int("app.result.count", len(items)))
	endSpan(span, nil)
	return items, nil
}

func (s *assetService) Replace(ctx context.Context, id string, up model.Upload) error {
	ctx, span := startSpan(ctx, s.kind.Collection, "replace", attribute.String("app.id", id))
	if err := s.validate(up); err != nil {
		return endSpan(span, err)
	}
	a := up.Asset()
	return endSpan(span, translate(s.repo.Replace(ctx, id, &a)))
}

func (s *assetService) Delete(ctx context.Context, id string) error {
	ctx, span := startSpan(ctx, s.kind.Collection, "delete", attribute.String("app.id", id))
	return endSpan(span, translate(s.repo.Delete(ctx, id)))
}
