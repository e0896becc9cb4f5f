package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ojakoo/springbot/bot/flow"
	"github.com/ojakoo/springbot/bot/handlers"
	"github.com/ojakoo/springbot/bot/service"
	"github.com/ojakoo/springbot/bot/session"
	"github.com/ojakoo/springbot/bot/storage"
	"github.com/ojakoo/springbot/core/bootstrap"
	coretelegram "github.com/ojakoo/springbot/core/telegram"
)

// App is the fully wired application.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	handlers *handlers.Handlers
}

// Bootstrap initializes infrastructure and wires the domain services.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	var modules bootstrap.Modules
	if cfg.Battle.Seed {
		modules.Seeders = append(modules.Seeders, bootstrap.SeederFunc(storage.Seed))
	}

	result, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
		Modules:  modules,
	})
	if err != nil {
		return nil, err
	}
	db := result.DB

	users := service.NewUsers(storage.NewUsers(db))
	logs := service.NewLogs(storage.NewLogs(db))
	stats := service.NewStats(storage.NewStats(db))
	engine := flow.NewEngine(session.NewStore(), users, logs)

	h := handlers.New(handlers.Config{
		AdminIDs: cfg.Core.Telegram.AdminIDs,
		Contact:  cfg.Battle.Contact,
	}, engine, users, stats)

	return &App{cfg: cfg, db: db, handlers: h}, nil
}

// TelegramRunOptions builds the runtime options for the shared runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      a.handlers.Routes(reg),
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
