package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"unlockbot/models"
)

// GetUserProfile возвращает профиль пользователя.
// Если профиля нет, возвращается пустой профиль без личной зоны.
func (db *DB) GetUserProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile := models.UserProfile{UserID: userID}
	var channels []byte
	var zone sql.NullString
	err := db.Conn.QueryRowContext(ctx,
		`SELECT channels, zone_id FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&channels, &zone)
	if errors.Is(err, sql.ErrNoRows) {
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	if len(channels) > 0 {
		if err := json.Unmarshal(channels, &profile.Channels); err != nil {
			return nil, fmt.Errorf("разбор каналов пользователя %d: %w", userID, err)
		}
	}
	if zone.Valid {
		z := zone.String
		profile.ZoneID = &z
	}
	return &profile, nil
}

// AppendChannel добавляет канал в конец списка пользователя одним запросом.
// Профиль создаётся, если его ещё нет.
func (db *DB) AppendChannel(ctx context.Context, userID int64, ch models.ChannelLink) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	_, err = db.Conn.ExecContext(ctx,
		"INSERT INTO user_profiles (user_id, channels) VALUES ($1, jsonb_build_array($2::jsonb)) "+
			"ON CONFLICT (user_id) DO UPDATE SET channels = user_profiles.channels || EXCLUDED.channels",
		userID,
		string(data),
	)
	return err
}

// ClearChannels удаляет все сохранённые каналы пользователя.
func (db *DB) ClearChannels(ctx context.Context, userID int64) error {
	_, err := db.Conn.ExecContext(ctx,
		`UPDATE user_profiles SET channels = '[]'::jsonb WHERE user_id = $1`,
		userID,
	)
	return err
}

// SetUserZone сохраняет личную рекламную зону пользователя.
func (db *DB) SetUserZone(ctx context.Context, userID int64, zoneID string) error {
	_, err := db.Conn.ExecContext(ctx,
		"INSERT INTO user_profiles (user_id, zone_id) VALUES ($1, $2) "+
			"ON CONFLICT (user_id) DO UPDATE SET zone_id = EXCLUDED.zone_id",
		userID,
		zoneID,
	)
	return err
}

// CountProfiles возвращает число пользователей с профилем.
func (db *DB) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profiles`).Scan(&n)
	return n, err
}
