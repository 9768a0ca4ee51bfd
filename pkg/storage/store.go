package storage

import (
	"context"
	"time"

	"unlockbot/models"
)

// Store — полный контракт хранилища бота.
// Реализации: *DB (Postgres) и mongostore.Store (MongoDB).
type Store interface {
	Counter

	CreatePost(ctx context.Context, p models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)

	GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	AppendChannel(ctx context.Context, userID int64, ch models.ChannelLink) error
	ClearChannels(ctx context.Context, userID int64) error
	SetUserZone(ctx context.Context, userID int64, zoneID string) error

	GetSetting(ctx context.Context, key, def string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	GetPremium(ctx context.Context, userID int64) (*models.PremiumMembership, error)
	UpsertPremium(ctx context.Context, m models.PremiumMembership) error
	DeletePremium(ctx context.Context, userID int64) (bool, error)
	DeleteExpiredPremium(ctx context.Context, userID int64, now time.Time) (bool, error)
}

var _ Store = (*DB)(nil)
