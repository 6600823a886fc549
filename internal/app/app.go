package app

import (
	"carsurvey/internal/cache"
	"carsurvey/internal/config"
	"carsurvey/internal/repository"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App holds the opened storage backends shared by the binaries
type App struct {
	Responses repository.ResponseRepo
	Sessions  cache.SessionCache

	closers []func(context.Context) error
}

// Open connects the backends selected in cfg
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to ping Redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		log.Println("Connected to Redis")
	}

	switch cfg.StoreBackend {
	case config.BackendMongo:
		db, err := connectMongo(ctx, cfg)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, db.Client().Disconnect)
		a.Responses = repository.NewMongoResponseRepo(db)
	case config.BackendRedis:
		a.Responses = cache.NewResponseStore(rdb)
	case config.BackendSQLite:
		repo, err := repository.NewSQLiteResponseRepo(cfg.SQLitePath)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return repo.Close() })
		a.Responses = repo
		log.Printf("Opened SQLite store at %s", cfg.SQLitePath)
	case config.BackendMemory:
		a.Responses = repository.NewMemoryResponseRepo()
		log.Println("Warning: using in-memory response store, responses are lost on exit")
	}

	switch cfg.SessionBackend {
	case config.BackendRedis:
		a.Sessions = cache.NewSessionCache(rdb, cfg.SessionTTL)
	case config.BackendMemory:
		a.Sessions = cache.NewMemorySessionCache(cfg.SessionTTL)
	}

	return a, nil
}

func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	return client.Database(cfg.MongoDB), nil
}

// Close releases backends in reverse open order
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("Close error: %v", err)
		}
	}
	a.closers = nil
}
