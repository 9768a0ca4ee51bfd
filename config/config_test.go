package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"BOT_TOKEN":    "123:abc",
		"APP_ID":       "42",
		"APP_HASH":     "hash",
		"APP_URL":      "https://movies.example",
		"DATABASE_URL": "postgres://u:p@localhost:5432/bot?sslmode=disable",
		"ADMIN_ID":     "1001",
	}
}

func TestLoadFromEnv(t *testing.T) {
	cfg, err := load("", env(baseEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bot.AppID != 42 || cfg.Owner.ID != 1001 || cfg.Server.Port != defaultPort {
		t.Fatalf("неверные значения: %+v", cfg)
	}
	if d, _ := cfg.Storage.Driver(); d != DriverPostgres {
		t.Fatalf("ожидался postgres, получено %s", d)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
[server]
port = "9090"
app_url = "https://file.example"

[storage]
database_url = "mongodb://localhost:27017"
database = "films"

[owner]
username = "@boss"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	values := baseEnv()
	delete(values, "DATABASE_URL")
	values["APP_URL"] = "https://env.example"

	cfg, err := load(path, env(values))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Server.AppURL != "https://env.example" {
		t.Fatalf("неверный приоритет источников: %+v", cfg.Server)
	}
	if d, _ := cfg.Storage.Driver(); d != DriverMongo || cfg.Storage.Database != "films" {
		t.Fatalf("неверное хранилище: %+v", cfg.Storage)
	}
	if cfg.OwnerHandle() != "boss" {
		t.Fatalf("неверное имя владельца: %q", cfg.OwnerHandle())
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]func(map[string]string){
		"нет токена":        func(v map[string]string) { delete(v, "BOT_TOKEN") },
		"нечисловой APP_ID": func(v map[string]string) { v["APP_ID"] = "abc" },
		"нет владельца":     func(v map[string]string) { delete(v, "ADMIN_ID") },
		"схема базы":        func(v map[string]string) { v["DATABASE_URL"] = "mysql://localhost/db" },
		"адрес прокси":      func(v map[string]string) { v["PROXY_ADDR"] = "not a host" },
	}
	for name, mutate := range cases {
		values := baseEnv()
		mutate(values)
		if _, err := load("", env(values)); err == nil {
			t.Fatalf("%s: ожидалась ошибка", name)
		} else if strings.TrimSpace(err.Error()) == "" {
			t.Fatalf("%s: пустое сообщение об ошибке", name)
		}
	}
}
