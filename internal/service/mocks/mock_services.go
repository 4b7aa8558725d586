package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"assetapi/internal/model"
)

type MockAssetService struct {
	mock.Mock
	AssetKind model.AssetKind
}

func (m *MockAssetService) Kind() model.AssetKind { return m.AssetKind }

func (m *MockAssetService) Create(ctx context.Context, up model.Upload) (string, error) {
	args := m.Called(ctx, up)
	return args.String(0), args.Error(1)
}

func (m *MockAssetService) List(ctx context.Context) ([]model.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Asset), args.Error(1)
}

func (m *MockAssetService) Replace(ctx context.Context, id string, up model.Upload) error {
	args := m.Called(ctx, id, up)
	return args.Error(0)
}

func (m *MockAssetService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockScoreService struct {
	mock.Mock
}

func (m *MockScoreService) Create(ctx context.Context, s model.PlayerScore) (string, error) {
	args := m.Called(ctx, s)
	return args.String(0), args.Error(1)
}

func (m *MockScoreService) List(ctx context.Context) ([]model.PlayerScore, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PlayerScore), args.Error(1)
}

func (m *MockScoreService) Replace(ctx context.Context, id string, s model.PlayerScore) error {
	args := m.Called(ctx, id, s)
	return args.Error(0)
}

func (m *MockScoreService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
