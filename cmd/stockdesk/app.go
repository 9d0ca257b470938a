package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/datsun80zx/stockdesk/internal/apiclient"
	"github.com/datsun80zx/stockdesk/internal/config"
	"github.com/datsun80zx/stockdesk/internal/importer"
	"github.com/datsun80zx/stockdesk/internal/session"
	"github.com/datsun80zx/stockdesk/internal/store"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// minImportLockTTL is the floor of importLockTTL
const minImportLockTTL = time.Minute

// importLockTTL bounds how long a crashed run can keep its file locked. The
// importer refreshes the key after every row, so the TTL only has to cover
// one row: a rate-limit wait plus one create call, with room to spare.
func importLockTTL(cfg *config.Config) time.Duration {
	perRow := cfg.API.Timeout
	if cfg.Import.RatePerSecond > 0 {
		perRow += time.Duration(float64(time.Second) / cfg.Import.RatePerSecond)
	}
	if ttl := 3 * perRow; ttl > minImportLockTTL {
		return ttl
	}
	return minImportLockTTL
}

// app carries the collaborators every command shares. Redis and Postgres
// are connected on first use.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	session *session.Session
	client  *apiclient.Client

	unsubscribe func()
	redis       *redis.Client
	history     *store.Store
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	sess, err := session.New(cfg.API.Token)
	if err != nil {
		return nil, fmt.Errorf("invalid STOCKDESK_TOKEN: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		session: sess,
		client:  apiclient.New(cfg.API.BaseURL, cfg.API.Timeout, sess, log),
	}

	a.unsubscribe = sess.OnAuthStateChange(func(u *session.User) {
		if u == nil {
			log.Debug("No user signed in")
			return
		}
		log.Debug("User signed in",
			zap.String("uid", u.UID),
			zap.String("email", u.Email),
			zap.Time("expires_at", u.ExpiresAt),
		)
	})

	return a, nil
}

func (a *app) close() {
	a.unsubscribe()
	a.session.Close()
	if a.redis != nil {
		a.redis.Close()
	}
	if a.history != nil {
		a.history.Close()
	}
}

// requireUser exits when no ID token is configured
func (a *app) requireUser() *session.User {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println("❌ Not signed in")
		fmt.Println()
		fmt.Println("Set STOCKDESK_TOKEN to your ID token:")
		fmt.Println(`  export STOCKDESK_TOKEN="eyJhbGciOi..."`)
		os.Exit(1)
	}
	return user
}

// redisClient connects when REDIS_URL is set and returns nil otherwise
func (a *app) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.cfg.RedisURL == "" || a.redis != nil {
		return a.redis, nil
	}

	opt, err := redis.ParseURL(a.cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	a.log.Info("Connected to Redis", zap.String("addr", opt.Addr))
	a.redis = client
	return client, nil
}

// historyStore opens the import history when DATABASE_URL is set and
// returns nil otherwise
func (a *app) historyStore(ctx context.Context) (*store.Store, error) {
	if a.cfg.DatabaseURL == "" || a.history != nil {
		return a.history, nil
	}

	s, err := store.Open(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.history = s
	return s, nil
}

// newImporter wires the optional rate limit, Redis lock and history
// recorder into an importer
func (a *app) newImporter(ctx context.Context) (*importer.Importer, error) {
	opts := []importer.Option{importer.WithRateLimit(a.cfg.Import.RatePerSecond)}

	rdb, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		opts = append(opts, importer.WithLocker(importer.NewRedisLock(rdb, importLockTTL(a.cfg))))
	}

	history, err := a.historyStore(ctx)
	if err != nil {
		return nil, err
	}
	if history != nil {
		opts = append(opts, importer.WithRecorder(history))
	}

	return importer.NewImporter(a.client, a.log, opts...), nil
}
