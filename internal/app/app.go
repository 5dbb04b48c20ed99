// Package app wires configuration into the tournament components shared by
// the server and the CLI.
package app

import (
	"context"
	"net/http"

	"coffee-tournament/internal/api"
	"coffee-tournament/internal/common/config"
	"coffee-tournament/internal/common/database"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/observability"
	"coffee-tournament/internal/judge"
	"coffee-tournament/internal/places"
	"coffee-tournament/internal/runner"
	battle "coffee-tournament/internal/workers/tournament/battle-coffee-shops"
	discover "coffee-tournament/internal/workers/tournament/find-coffee-shops"
	locate "coffee-tournament/internal/workers/tournament/resolve-location"
	"coffee-tournament/pkg/registry"
)

type App struct {
	Config *config.Config
	Redis  *database.RedisClient

	Places *places.Client
	Judge  *judge.Judge

	Locate   *locate.Handler
	Discover *discover.Handler
	Battle   *battle.Handler

	logger logger.Logger
}

// New builds every component from cfg. rc may be nil, which disables the
// provider cache and rate limiting. A judge that cannot be configured is
// logged and replaced by the rating fallback.
func New(ctx context.Context, cfg *config.Config, rc *database.RedisClient, log logger.Logger) *App {
	a := &App{Config: cfg, Redis: rc, logger: log}

	var cache *places.Cache
	placesCfg := places.LoadConfig(cfg.Places)
	if rc != nil && placesCfg.CacheTTL > 0 {
		cache = places.NewCache(rc, placesCfg.CacheTTL, log)
	}
	a.Places = places.NewClient(placesCfg, nil, places.EnvKey, cache, log)

	judgeCfg := judge.LoadConfig(cfg.Judge)
	llm, err := judge.NewCompleter(ctx, judgeCfg, &http.Client{Timeout: judgeCfg.Timeout})
	if err != nil {
		log.Warn("judge LLM unavailable, battles will use the rating fallback", map[string]interface{}{
			"provider": judgeCfg.Provider,
			"error":    err.Error(),
		})
		llm = nil
	}
	a.Judge = judge.New(judgeCfg, llm, log)

	a.Locate = locate.NewHandler(locate.LoadConfig(cfg), a.Places, log)
	a.Discover = discover.NewHandler(discover.LoadConfig(cfg), a.Places, log)
	a.Battle = battle.NewHandler(battle.LoadConfig(cfg), a.Judge, log)

	return a
}

// Services assembles the HTTP server dependencies.
func (a *App) Services(obs *observability.Observability) api.Services {
	var rl *api.RateLimiter
	if a.Redis != nil {
		rl = api.NewRateLimiter(a.Config.RateLimit, a.Redis.GetClient(), a.logger)
	}
	return api.Services{
		Locate:        a.Locate,
		Discover:      a.Discover,
		Battle:        a.Battle,
		Judge:         a.Judge,
		Registry:      registry.Default(),
		RateLimiter:   rl,
		Observability: obs,
		Ready:         a.Ready,
		Logger:        a.logger,
	}
}

// Runner returns an auto-play driver over the same handlers.
func (a *App) Runner(cfg runner.Config) *runner.Runner {
	return runner.New(cfg, a.Locate, a.Discover, a.Judge, a.logger)
}

// Ready reports whether redis, when configured, answers.
func (a *App) Ready(ctx context.Context) error {
	if a.Redis == nil {
		return nil
	}
	return a.Redis.Ping(ctx)
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.logger.Warn("redis close failed", map[string]interface{}{"error": err.Error()})
		}
	}
}
