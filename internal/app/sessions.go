package app

import (
	"context"

	"github.com/router-for-me/PrizeCheck/internal/config"
	"github.com/router-for-me/PrizeCheck/internal/http/api/admin/handlers"
	"github.com/router-for-me/PrizeCheck/internal/session"
	log "github.com/sirupsen/logrus"
)

// sessionBackend is the configured session store plus what the process needs to manage it.
type sessionBackend struct {
	store   session.Store
	memory  *session.MemoryStore       // Set for the in-memory driver; purged by the scheduler.
	pingers map[string]handlers.Pinger // Health checks.
	close   func()
}

func newSessionBackend(cfg *config.Config) (*sessionBackend, error) {
	if !cfg.UsesRedisSessions() {
		mem := session.NewMemoryStore()
		log.Info("admin sessions kept in memory")
		return &sessionBackend{store: mem, memory: mem, close: func() {}}, nil
	}

	client, err := session.NewRedisClient(cfg.Session.Redis)
	if err != nil {
		return nil, err
	}
	store := session.NewRedisStore(client)
	log.Infof("admin sessions kept in redis at %s", cfg.Session.Redis.Addr)
	return &sessionBackend{
		store: store,
		pingers: map[string]handlers.Pinger{
			"redis": handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		},
		close: func() {
			if errClose := store.Close(); errClose != nil {
				log.WithError(errClose).Warn("close redis failed")
			}
		},
	}, nil
}
