package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"unlockbot/models"
)

// GetPremium возвращает подписку пользователя или ErrNotFound.
// Истечение срока здесь не проверяется.
func (db *DB) GetPremium(ctx context.Context, userID int64) (*models.PremiumMembership, error) {
	var m models.PremiumMembership
	err := db.Conn.QueryRowContext(ctx,
		`SELECT user_id, plan, expires_at FROM premium_members WHERE user_id = $1`,
		userID,
	).Scan(&m.UserID, &m.Plan, &m.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpsertPremium создаёт подписку или заменяет тариф и срок существующей.
func (db *DB) UpsertPremium(ctx context.Context, m models.PremiumMembership) error {
	_, err := db.Conn.ExecContext(ctx,
		"INSERT INTO premium_members (user_id, plan, expires_at) VALUES ($1, $2, $3) "+
			"ON CONFLICT (user_id) DO UPDATE SET plan = EXCLUDED.plan, expires_at = EXCLUDED.expires_at",
		m.UserID,
		m.Plan,
		m.ExpiresAt,
	)
	return err
}

// DeletePremium удаляет подписку. Возвращает false, если удалять было нечего.
func (db *DB) DeletePremium(ctx context.Context, userID int64) (bool, error) {
	res, err := db.Conn.ExecContext(ctx, `DELETE FROM premium_members WHERE user_id = $1`, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteExpiredPremium удаляет подписку, только если к моменту now её срок истёк.
// Подписку, продлённую после чтения, запрос не трогает.
func (db *DB) DeleteExpiredPremium(ctx context.Context, userID int64, now time.Time) (bool, error) {
	res, err := db.Conn.ExecContext(ctx,
		`DELETE FROM premium_members WHERE user_id = $1 AND expires_at <= $2`,
		userID,
		now,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountPremium возвращает число записей о подписках, включая ещё не очищенные просроченные.
func (db *DB) CountPremium(ctx context.Context) (int, error) {
	var n int
	err := db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM premium_members`).Scan(&n)
	return n, err
}
