package models

// Statistics — агрегированные показатели для владельца бота.
type Statistics struct {
	Posts    int `json:"posts"`
	Profiles int `json:"profiles"`
	Premium  int `json:"premium"`
}
