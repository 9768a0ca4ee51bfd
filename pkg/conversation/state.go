package conversation

import (
	"encoding/json"
	"fmt"

	"unlockbot/models"
)

// State — шаг диалога пользователя. Набор шагов закрыт: реализации есть только в этом пакете.
// Отсутствие состояния означает, что пользователь ничего не заполняет.
type State interface {
	kind() string
}

// PostDraft — накопленные поля поста до подтверждения.
type PostDraft struct {
	Title    string               `json:"title"`
	Image    string               `json:"image"`
	Language string               `json:"language"`
	Links    []models.QualityLink `json:"links"`
}

// AdminField — настройка, которую владелец меняет одним сообщением.
type AdminField string

const (
	FieldZone         AdminField = "zone"
	FieldClicks       AdminField = "clicks"
	FieldOffer        AdminField = "offer"
	FieldAddMember    AdminField = "add_member"
	FieldRemoveMember AdminField = "remove_member"
)

type AwaitingTitle struct{}

type AwaitingImage struct {
	Draft PostDraft `json:"draft"`
}

type AwaitingLanguage struct {
	Draft PostDraft `json:"draft"`
}

type AwaitingQualityName struct {
	Draft PostDraft `json:"draft"`
}

type AwaitingQualityLink struct {
	Draft   PostDraft `json:"draft"`
	Quality string    `json:"quality"`
}

type AwaitingConfirmation struct {
	Draft PostDraft `json:"draft"`
}

type AwaitingChannelName struct{}

type AwaitingChannelLink struct {
	Name string `json:"name"`
}

type AwaitingUserZone struct{}

type AwaitingAdminValue struct {
	Field AdminField `json:"field"`
}

func (AwaitingTitle) kind() string        { return "awaiting_title" }
func (AwaitingImage) kind() string        { return "awaiting_image" }
func (AwaitingLanguage) kind() string     { return "awaiting_language" }
func (AwaitingQualityName) kind() string  { return "awaiting_quality_name" }
func (AwaitingQualityLink) kind() string  { return "awaiting_quality_link" }
func (AwaitingConfirmation) kind() string { return "awaiting_confirmation" }
func (AwaitingChannelName) kind() string  { return "awaiting_channel_name" }
func (AwaitingChannelLink) kind() string  { return "awaiting_channel_link" }
func (AwaitingUserZone) kind() string     { return "awaiting_user_zone" }
func (AwaitingAdminValue) kind() string   { return "awaiting_value" }

// StateName возвращает стабильное имя шага для логов.
func StateName(s State) string {
	if s == nil {
		return "idle"
	}
	return s.kind()
}

type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// encodeState сериализует шаг вместе с его именем.
func encodeState(s State) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: s.kind(), Data: data})
}

// decodeState восстанавливает шаг по имени.
func decodeState(b []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	var s State
	var err error
	switch env.Kind {
	case AwaitingTitle{}.kind():
		s = AwaitingTitle{}
	case AwaitingImage{}.kind():
		var v AwaitingImage
		err = json.Unmarshal(env.Data, &v)
		s = v
	case AwaitingLanguage{}.kind():
		var v AwaitingLanguage
		err = json.Unmarshal(env.Data, &v)
		s = v
	case AwaitingQualityName{}.kind():
		var v AwaitingQualityName
		err = json.Unmarshal(env.Data, &v)
		s = v
	case AwaitingQualityLink{}.kind():
		var v AwaitingQualityLink
		err = json.Unmarshal(env.Data, &v)
		s = v
	case AwaitingConfirmation{}.kind():
		var v AwaitingConfirmation
		err = json.Unmarshal(env.Data, &v)
		s = v
	case AwaitingChannelName{}.kind():
		s = AwaitingChannelName{}
	case AwaitingChannelLink{}.kind():
		var v AwaitingChannelLink
		err = json.Unmarshal(env.Data, &v)
		s = v
	case AwaitingUserZone{}.kind():
		s = AwaitingUserZone{}
	case AwaitingAdminValue{}.kind():
		var v AwaitingAdminValue
		err = json.Unmarshal(env.Data, &v)
		s = v
	default:
		return nil, fmt.Errorf("неизвестный шаг %q", env.Kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
