package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log"

	"github.com/lib/pq"
)

var (
	// ErrNotFound возвращается, когда запись отсутствует.
	ErrNotFound = errors.New("запись не найдена")
	// ErrDuplicateID возвращается при коллизии идентификатора поста.
	ErrDuplicateID = errors.New("идентификатор уже занят")
)

//go:embed schema.sql
var schema string

type DB struct {
	Conn *sql.DB
}

func NewDB(conn *sql.DB) *DB {
	return &DB{Conn: conn}
}

// EnsureSchema создаёт таблицы, если их ещё нет.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Conn.ExecContext(ctx, schema); err != nil {
		log.Printf("[DB ERROR] не удалось применить схему: %v", err)
		return err
	}
	return nil
}

// isUniqueViolation проверяет код ошибки Postgres 23505 (unique_violation).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
