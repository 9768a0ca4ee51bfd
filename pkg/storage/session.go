package storage

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/gotd/td/session"
)

// SessionStorage хранит и загружает MTProto-сессию бота из таблицы bot_session.
type SessionStorage struct {
	DB   *sql.DB
	Name string
}

// BotSession возвращает хранилище сессии с указанным именем.
func (db *DB) BotSession(name string) *SessionStorage {
	return &SessionStorage{DB: db.Conn, Name: name}
}

// LoadSession загружает текст сессии из БД.
func (s *SessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	if s == nil || s.DB == nil {
		return nil, session.ErrNotFound
	}

	var data string
	err := s.DB.QueryRowContext(ctx, "SELECT data_json FROM bot_session WHERE name = $1", s.Name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		log.Printf("[SessionStorage] ошибка чтения сессии: %v", err)
		return nil, err
	}
	return []byte(data), nil
}

// StoreSession сохраняет текст сессии в БД.
func (s *SessionStorage) StoreSession(ctx context.Context, data []byte) error {
	if s == nil || s.DB == nil {
		return session.ErrNotFound
	}
	// Одна запись на имя, поэтому обновляем её вместо вставки дубликата
	_, err := s.DB.ExecContext(
		ctx,
		"INSERT INTO bot_session (name, data_json) VALUES ($1, $2) "+
			"ON CONFLICT (name) DO UPDATE SET data_json = EXCLUDED.data_json, date_time = NOW()",
		s.Name,
		string(data),
	)
	if err != nil {
		log.Printf("[SessionStorage] ошибка сохранения сессии: %v", err)
		return err
	}
	return nil
}

var _ session.Storage = (*SessionStorage)(nil)
