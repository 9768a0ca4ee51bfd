package settings

import (
	"context"
	"strconv"
)

// Ключи глобальных настроек.
const (
	KeyZoneID         = "zone_id"
	KeyRequiredClicks = "required_clicks"
	KeyPremiumOffer   = "premium_offer"
)

// Значения по умолчанию, если владелец ещё ничего не настроил.
const (
	DefaultZoneID         = "10341337"
	DefaultRequiredClicks = 3
	DefaultPremiumOffer   = "বর্তমানে কোনো অফার নেই। ওনারের সাথে যোগাযোগ করুন।"
)

// KV — хранилище ключ/значение. Значения непрозрачны, их разбирает вызывающий.
type KV interface {
	GetSetting(ctx context.Context, key, def string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Settings даёт типизированный доступ к глобальным настройкам.
// Каждый вызов читает актуальное значение, ничего не кешируется.
type Settings struct {
	KV KV
}

func New(kv KV) *Settings {
	return &Settings{KV: kv}
}

func (s *Settings) ZoneID(ctx context.Context) (string, error) {
	return s.KV.GetSetting(ctx, KeyZoneID, DefaultZoneID)
}

func (s *Settings) SetZoneID(ctx context.Context, zoneID string) error {
	return s.KV.SetSetting(ctx, KeyZoneID, zoneID)
}

// RequiredClicks возвращает порог кликов. Нечитаемое значение заменяется значением по умолчанию.
func (s *Settings) RequiredClicks(ctx context.Context) (int, error) {
	v, err := s.KV.GetSetting(ctx, KeyRequiredClicks, strconv.Itoa(DefaultRequiredClicks))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return DefaultRequiredClicks, nil
	}
	return n, nil
}

func (s *Settings) SetRequiredClicks(ctx context.Context, n int) error {
	return s.KV.SetSetting(ctx, KeyRequiredClicks, strconv.Itoa(n))
}

func (s *Settings) PremiumOffer(ctx context.Context) (string, error) {
	return s.KV.GetSetting(ctx, KeyPremiumOffer, DefaultPremiumOffer)
}

func (s *Settings) SetPremiumOffer(ctx context.Context, text string) error {
	return s.KV.SetSetting(ctx, KeyPremiumOffer, text)
}
