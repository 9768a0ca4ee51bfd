package storage

import (
	"context"
	"database/sql"
	"errors"
)

// GetSetting возвращает значение настройки или def, если ключ не задан.
func (db *DB) GetSetting(ctx context.Context, key, def string) (string, error) {
	var value string
	err := db.Conn.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SetSetting записывает значение настройки (upsert). Проверка значения — забота вызывающего.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.Conn.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES ($1, $2) "+
			"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
		key,
		value,
	)
	return err
}
