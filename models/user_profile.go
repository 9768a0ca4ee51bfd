package models

// UserProfile хранит сохранённые каналы пользователя и его личную рекламную зону.
// ZoneID == nil означает, что используется глобальная зона по умолчанию.
type UserProfile struct {
	UserID   int64         `json:"user_id" bson:"userId"`
	Channels []ChannelLink `json:"channels" bson:"savedChannels"`
	ZoneID   *string       `json:"zone_id" bson:"userZoneId"`
}
