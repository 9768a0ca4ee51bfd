package models

// Setting — пара ключ/значение для глобальных настроек бота.
type Setting struct {
	Key   string `json:"key" bson:"key"`
	Value string `json:"value" bson:"value"`
}
