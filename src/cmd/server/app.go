package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/adapter/http/controller"
	"github.com/api-sage/bankist/src/internal/adapter/http/middleware"
	"github.com/api-sage/bankist/src/internal/adapter/http/router"
	"github.com/api-sage/bankist/src/internal/adapter/repository/memory"
	"github.com/api-sage/bankist/src/internal/adapter/repository/postgres"
	"github.com/api-sage/bankist/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/bankist/src/internal/config"
	"github.com/api-sage/bankist/src/internal/format"
	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/seed"
	"github.com/api-sage/bankist/src/internal/session"
	"github.com/api-sage/bankist/src/internal/usecase/services"
)

const limiterSweepInterval = time.Minute

type app struct {
	handler  http.Handler
	sessions *session.Manager
	storage  string
	db       *sql.DB
	stop     chan struct{}
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{stop: make(chan struct{})}

	directory, err := a.openDirectory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := seedDirectory(ctx, cfg, directory); err != nil {
		a.closeDB()
		return nil, err
	}

	warnInsecureDefaults(cfg)

	tokens := session.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.GetTokenExpiry())
	a.sessions = session.NewManager(session.Config{
		Ticks:        cfg.Session.Ticks,
		TickInterval: cfg.Session.GetTickInterval(),
	}, tokens, session.NewHub())

	f := format.Default()
	accountService := services.NewAccountService(directory, a.sessions, f)

	limiter := middleware.NewIPRateLimiter(cfg.Auth.LoginRateLimit, cfg.Auth.LoginBurst, cfg.Auth.TrustProxy)
	go a.sweep(limiter)

	sessionAuth := middleware.SessionAuth(a.sessions, false)
	a.handler = router.New(
		router.Group{Routes: controller.NewSessionController(services.NewSessionService(directory, a.sessions, f), limiter.Middleware()), Auth: sessionAuth},
		router.Group{Routes: controller.NewAccountController(accountService), Auth: sessionAuth},
		router.Group{Routes: controller.NewTransferController(services.NewTransferService(directory, f)), Auth: sessionAuth},
		router.Group{Routes: controller.NewLoanController(services.NewLoanService(directory, cfg.Loan.GetApprovalDelay())), Auth: sessionAuth},
		router.Group{Routes: controller.NewEventsController(a.sessions.Hub()), Auth: middleware.SessionAuth(a.sessions, true)},
		router.Group{Routes: controller.NewDirectoryController(accountService), Auth: middleware.BasicAuth(cfg.Auth.ChannelID, cfg.Auth.ChannelKey)},
	)

	return a, nil
}

func (a *app) openDirectory(ctx context.Context, cfg config.Config) (repo_interfaces.AccountDirectory, error) {
	if cfg.Database.DSN == "" {
		a.storage = "memory"
		return memory.NewAccountDirectory(), nil
	}

	db, err := postgres.Open(ctx, cfg.Database.DSN, postgres.Pool{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, db, cfg.Database.MigrationsDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a.db = db
	a.storage = "postgres"
	return postgres.NewAccountDirectory(db), nil
}

func seedDirectory(ctx context.Context, cfg config.Config, directory repo_interfaces.AccountDirectory) error {
	records := seed.Defaults()
	if cfg.Seed.File != "" {
		loaded, err := seed.LoadFile(cfg.Seed.File)
		if err != nil {
			return err
		}
		records = loaded
	}

	accounts, err := seed.Build(records, time.Now().UTC(), cfg.Seed.BcryptCost)
	if err != nil {
		return err
	}
	if err := directory.Load(ctx, accounts); err != nil {
		return fmt.Errorf("seed account directory: %w", err)
	}

	count, err := directory.Count(ctx)
	if err != nil {
		return err
	}
	logger.Info("account directory ready", logger.Fields{"accounts": count})
	return nil
}

// warnInsecureDefaults reports settings that are only fit for development.
// It returns how many warnings were logged.
func warnInsecureDefaults(cfg config.Config) int {
	warned := 0
	if cfg.Auth.UsesDefaultSecret() {
		logger.Warn("session tokens are signed with the built-in development secret; set auth.jwt_secret or BANKIST_JWT_SECRET", logger.Fields{
			"environment": cfg.Environment,
		})
		warned++
	}
	if cfg.Auth.TrustProxy {
		logger.Warn("login limiter trusts X-Forwarded-For; run only behind a proxy that overwrites it", nil)
		warned++
	}
	return warned
}

func (a *app) sweep(limiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := limiter.Sweep(); n > 0 {
				logger.Debug("login limiter swept idle clients", logger.Fields{"removed": n})
			}
		case <-a.stop:
			return
		}
	}
}

func (a *app) close() {
	close(a.stop)
	a.sessions.Shutdown()
	a.closeDB()
}

func (a *app) closeDB() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		logger.Error("close database", err, nil)
	}
}
