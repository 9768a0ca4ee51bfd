package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"unlockbot/models"
)

// CreatePost сохраняет готовый пост. При занятом id возвращает ErrDuplicateID,
// чтобы вызывающий код мог повторить попытку с новым идентификатором.
func (db *DB) CreatePost(ctx context.Context, p models.Post) error {
	links, err := json.Marshal(p.Links)
	if err != nil {
		return fmt.Errorf("кодирование ссылок: %w", err)
	}
	channels := p.Channels
	if channels == nil {
		channels = []models.ChannelLink{}
	}
	chJSON, err := json.Marshal(channels)
	if err != nil {
		return fmt.Errorf("кодирование каналов: %w", err)
	}

	query := `
               INSERT INTO posts (id, creator_id, title, image, language, links, channels, zone_id, clicks, created_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
       `
	_, err = db.Conn.ExecContext(ctx, query,
		p.ID,
		p.CreatorID,
		p.Title,
		p.Image,
		p.Language,
		links,
		chJSON,
		p.ZoneID,
		p.Clicks,
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		log.Printf("[DB ERROR] не удалось сохранить пост %s: %v", p.ID, err)
		return err
	}
	return nil
}

// GetPostByID возвращает пост или ErrNotFound.
func (db *DB) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	var links, channels []byte
	query := `
               SELECT id, creator_id, title, image, language, links, channels, zone_id, clicks, created_at
               FROM posts
               WHERE id = $1
       `
	err := db.Conn.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.CreatorID,
		&p.Title,
		&p.Image,
		&p.Language,
		&links,
		&channels,
		&p.ZoneID,
		&p.Clicks,
		&p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(links, &p.Links); err != nil {
		return nil, fmt.Errorf("разбор ссылок поста %s: %w", id, err)
	}
	if len(channels) > 0 {
		if err := json.Unmarshal(channels, &p.Channels); err != nil {
			return nil, fmt.Errorf("разбор каналов поста %s: %w", id, err)
		}
	}
	return &p, nil
}

// CountPosts возвращает общее число постов.
func (db *DB) CountPosts(ctx context.Context) (int, error) {
	var n int
	err := db.Conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}
