package storage

import (
	"context"

	"unlockbot/models"
)

// Counter — минимальный набор методов для подсчёта статистики.
// Его реализуют и Postgres-, и Mongo-хранилище.
type Counter interface {
	CountPosts(ctx context.Context) (int, error)
	CountProfiles(ctx context.Context) (int, error)
	CountPremium(ctx context.Context) (int, error)
}

// CollectStatistics собирает общие показатели из любого хранилища.
func CollectStatistics(ctx context.Context, c Counter) (*models.Statistics, error) {
	var s models.Statistics
	var err error
	if s.Posts, err = c.CountPosts(ctx); err != nil {
		return nil, err
	}
	if s.Profiles, err = c.CountProfiles(ctx); err != nil {
		return nil, err
	}
	if s.Premium, err = c.CountPremium(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}
