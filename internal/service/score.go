package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"assetapi/internal/model"
	"assetapi/internal/repository"
)

// ScoreService defines the use cases for player scores. Scores carry no
// constraints beyond their shape, which callers enforce when decoding.
type ScoreService interface {
	Create(ctx context.Context, s model.PlayerScore) (string, error)
	List(ctx context.Context) ([]model.PlayerScore, error)
	Replace(ctx context.Context, id string, s model.PlayerScore) error
	Delete(ctx context.Context, id string) error
}

type scoreService struct {
	repo repository.ScoreRepository
}

// NewScoreService constructs a ScoreService over repo.
func NewScoreService(repo repository.ScoreRepository) ScoreService {
	return &scoreService{repo: repo}
}

func (s *scoreService) Create(ctx context.Context, in model.PlayerScore) (string, error) {
	ctx, span := startSpan(ctx, model.ScoresCollection, "create")
	in.ID = ""
	stored, err := s.repo.Create(ctx, &in)
	if err != nil {
		return "", endSpan(span, translate(err))
	}
	endSpan(span, nil)
	return stored.ID, nil
}

func (s *scoreService) List(ctx context.Context) ([]model.PlayerScore, error) {
	ctx, span := startSpan(ctx, model.ScoresCollection, "list")
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, endSpan(span, translate(err))
	}
	span.SetAttributes(attribute.Int("app.result.count", len(items)))
	endSpan(span, nil)
	return items, nil
}

func (s *scoreService) Replace(ctx context.Context, id string, in model.PlayerScore) error {
	ctx, span := startSpan(ctx, model.ScoresCollection, "replace", attribute.String("app.id", id))
	in.ID = ""
	return endSpan(span, translate(s.repo.Replace(ctx, id, &in)))
}

func (s *scoreService) Delete(ctx context.Context, id string) error {
	ctx, span := startSpan(ctx, model.ScoresCollection, "delete", attribute.String("app.id", id))
	return endSpan(span, translate(s.repo.Delete(ctx, id)))
}
