package bot

import (
	"fmt"
	"log"

	"github.com/go-faster/errors"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/dcs"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"
)

// Proxy — параметры SOCKS5-прокси для подключения к Telegram.
type Proxy struct {
	Addr     string
	Login    string
	Password string
}

// newClient создаёт клиент Telegram с хранилищем сессии и, при необходимости, прокси.
func newClient(appID int, appHash string, storage session.Storage, p *Proxy, h telegram.UpdateHandler, logger *zap.Logger) (*telegram.Client, error) {
	if storage == nil {
		storage = &session.StorageMemory{}
	}
	opts := telegram.Options{
		SessionStorage: storage,
		UpdateHandler:  h,
		Logger:         logger,
	}
	if p != nil && p.Addr != "" {
		var auth *proxy.Auth
		if p.Login != "" || p.Password != "" {
			auth = &proxy.Auth{User: p.Login, Password: p.Password}
		}
		d, err := proxy.SOCKS5("tcp", p.Addr, auth, proxy.Direct)
		if err != nil {
			return nil, errors.Wrap(err, "proxy dialer")
		}
		dc, ok := d.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("proxy dialer missing context")
		}
		opts.Resolver = dcs.Plain(dcs.PlainOptions{Dial: dc.DialContext})
		log.Printf("[PROXY] бот подключается через %s", p.Addr)
	}
	return telegram.NewClient(appID, appHash, opts), nil
}
