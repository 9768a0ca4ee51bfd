package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unlockbot/config"
	"unlockbot/internal/post"
	"unlockbot/internal/statistics"
	"unlockbot/pkg/conversation"
	"unlockbot/pkg/premium"
	"unlockbot/pkg/settings"
	"unlockbot/pkg/storage"
	"unlockbot/pkg/storage/mongostore"
	"unlockbot/pkg/telegram/bot"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/gotd/td/session"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Инициализация хранилища
	store, botSession, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("[DB ERROR] %v", err)
	}
	defer closeStore()

	sessions, closeSessions, err := openSessions(ctx, cfg.Storage.RedisURL)
	if err != nil {
		log.Fatalf("[REDIS ERROR] %v", err)
	}
	defer closeSessions()

	engine := conversation.New(conversation.Options{
		Store:       store,
		Membership:  premium.NewOracle(store, cfg.Owner.ID),
		Settings:    settings.New(store),
		Sessions:    sessions,
		BaseURL:     cfg.Server.AppURL,
		OwnerHandle: cfg.OwnerHandle(),
	})

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("[BOT] logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	var proxy *bot.Proxy
	if cfg.Proxy.Addr != "" {
		proxy = &bot.Proxy{Addr: cfg.Proxy.Addr, Login: cfg.Proxy.Login, Password: cfg.Proxy.Password}
	}
	tgBot := bot.New(bot.Config{
		AppID:     cfg.Bot.AppID,
		AppHash:   cfg.Bot.AppHash,
		Token:     cfg.Bot.Token,
		Proxy:     proxy,
		PerSecond: cfg.Bot.RatePerSecond,
	}, engine, botSession, logger.Named("gotd"))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           setupRouter(store, cfg.Server.StatsToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return tgBot.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[MAIN] остановка с ошибкой: %v", err)
		os.Exit(1)
	}
	log.Printf("[MAIN] остановлено")
}

// Путь к необязательному файлу настроек
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.toml"
}

// openStore подключается к Postgres или MongoDB в зависимости от схемы DATABASE_URL.
// База при старте может быть ещё недоступна, поэтому подключение повторяется с экспоненциальной задержкой.
func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, session.Storage, func(), error) {
	driver, err := cfg.Driver()
	if err != nil {
		return nil, nil, nil, err
	}
	retry := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	notify := func(err error, d time.Duration) {
		log.Printf("[DB] база недоступна: %v, повтор через %s", err, d)
	}

	switch driver {
	case config.DriverMongo:
		var s *mongostore.Store
		err := backoff.RetryNotify(func() error {
			var err error
			s, err = mongostore.Connect(ctx, cfg.DatabaseURL, cfg.Database)
			return err
		}, retry, notify)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			return nil, nil, nil, err
		}
		log.Printf("[DB] подключено к MongoDB, база %s", cfg.Database)
		return s, s.BotSession("bot"), func() { _ = s.Close(context.Background()) }, nil

	default:
		conn, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := backoff.RetryNotify(func() error { return conn.PingContext(ctx) }, retry, notify); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		db := storage.NewDB(conn)
		if err := db.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, nil, err
		}
		log.Printf("[DB] подключено к Postgres")
		return db, db.BotSession("bot"), func() { conn.Close() }, nil
	}
}

// openSessions выбирает хранилище шагов диалога: Redis, если задан REDIS_URL, иначе память процесса.
func openSessions(ctx context.Context, redisURL string) (conversation.Sessions, func(), error) {
	if redisURL == "" {
		log.Printf("[REDIS] REDIS_URL не задан, шаги диалогов хранятся в памяти")
		return conversation.NewMemorySessions(), func() {}, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	log.Printf("[REDIS] шаги диалогов хранятся в Redis")
	return conversation.NewRedisSessions(rdb, "movie_bot:step:"), func() { rdb.Close() }, nil
}

// Настройка маршрутов
func setupRouter(store storage.Store, statsToken string) *gin.Engine {
	r := gin.Default()

	// Публичные страницы постов
	post.SetupRoutes(r.Group("/post"), store)

	// Статистика для владельца
	statistics.SetupRoutes(r.Group("/stats"), store, statsToken)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Логирование зарегистрированных роутов
	log.Printf("[ROUTER] Routes initialized:")
	log.Printf("[ROUTER] GET /post/:id")
	log.Printf("[ROUTER] GET /stats")
	log.Printf("[ROUTER] GET /health")

	return r
}
