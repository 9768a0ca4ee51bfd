package models

import "time"

// QualityLink — одна вариация контента: метка качества и ссылка на скачивание.
type QualityLink struct {
	Quality string `json:"quality" bson:"quality"`
	Link    string `json:"link" bson:"link"`
}

// ChannelLink — канал, который автор продвигает на странице разблокировки.
type ChannelLink struct {
	Name string `json:"name" bson:"name"`
	Link string `json:"link" bson:"link"`
}

// Post описывает сгенерированную страницу разблокировки
// id - короткий URL-безопасный токен, по нему страница отдаётся на /post/:id
// links - качества в порядке добавления, не пустой список
// channels - снимок каналов автора на момент подтверждения
// zone_id, clicks - фиксируются один раз при создании
//
// Комментарии в коде на русском языке по требованию пользователя

type Post struct {
	ID        string        `json:"id" bson:"id"`
	CreatorID int64         `json:"creator_id" bson:"creatorId"`
	Title     string        `json:"title" bson:"title"`
	Image     string        `json:"image" bson:"image"`
	Language  string        `json:"language" bson:"language"`
	Links     []QualityLink `json:"links" bson:"links"`
	Channels  []ChannelLink `json:"channels" bson:"channels"`
	ZoneID    string        `json:"zone_id" bson:"zoneId"`
	Clicks    int           `json:"clicks" bson:"clicks"`
	CreatedAt time.Time     `json:"created_at" bson:"createdAt"`
}
