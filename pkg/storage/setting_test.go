package storage

import (
	"context"
	"database/sql/driver"
	"strings"
	"testing"
)

// TestGetSettingDefault проверяет возврат значения по умолчанию для отсутствующего ключа.
func TestGetSettingDefault(t *testing.T) {
	db := openScript(t, scriptStep{columns: []string{"value"}})

	v, err := db.GetSetting(context.Background(), "zone_id", "10341337")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if v != "10341337" {
		t.Fatalf("ожидалось значение по умолчанию, получено %q", v)
	}
}

// TestGetSettingStored проверяет, что сохранённое значение важнее значения по умолчанию.
func TestGetSettingStored(t *testing.T) {
	db := openScript(t, scriptStep{columns: []string{"value"}, rows: [][]driver.Value{{"5"}}})

	v, err := db.GetSetting(context.Background(), "required_clicks", "3")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if v != "5" {
		t.Fatalf("ожидалось сохранённое значение, получено %q", v)
	}
}

// TestSetSettingUpsert проверяет, что запись настройки выполняется через ON CONFLICT.
func TestSetSettingUpsert(t *testing.T) {
	db := openScript(t, scriptStep{affected: 1})

	if err := db.SetSetting(context.Background(), "premium_offer", "30 дней — 100"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !strings.Contains(scriptQueries[0], "ON CONFLICT (key) DO UPDATE") {
		t.Fatalf("в запросе отсутствует upsert: %s", scriptQueries[0])
	}
}
