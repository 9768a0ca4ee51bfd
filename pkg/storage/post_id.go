package storage

import (
	"crypto/rand"
	"encoding/base64"
)

// postIDBytes даёт 64 бита случайности, в base64url это 11 символов.
const postIDBytes = 8

// NewPostID генерирует короткий URL-безопасный идентификатор поста.
// Идентификатор напрямую встраивается в путь /post/:id.
func NewPostID() (string, error) {
	buf := make([]byte, postIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
