package models

import "time"

// PremiumMembership описывает платную подписку пользователя.
// Подписка активна, пока текущее время строго меньше ExpiresAt.
type PremiumMembership struct {
	UserID    int64     `json:"user_id" bson:"userId"`
	Plan      string    `json:"plan" bson:"packageName"`
	ExpiresAt time.Time `json:"expires_at" bson:"expiryDate"`
}

// Active сообщает, действует ли подписка в момент now.
func (m PremiumMembership) Active(now time.Time) bool {
	return now.Before(m.ExpiresAt)
}
