// Package runner plays a whole tournament for a location without user input:
// it resolves the location, seeds the bracket and judges every round.
package runner

import (
	"context"
	"fmt"
	"time"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/models"
	"coffee-tournament/internal/tournament"
	battle "coffee-tournament/internal/workers/tournament/battle-coffee-shops"
	discover "coffee-tournament/internal/workers/tournament/find-coffee-shops"
	locate "coffee-tournament/internal/workers/tournament/resolve-location"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type Config struct {
	// Radius is passed to the nearby search; zero means the provider default.
	Radius int
	// Concurrency bounds how many battles of one round are judged at once.
	Concurrency int
}

// Result is the finished tournament and where it was played.
type Result struct {
	Location   models.LocationResult
	Tournament *tournament.Tournament
	Duration   time.Duration
}

type Runner struct {
	config   Config
	locate   *locate.Handler
	discover *discover.Handler
	judge    battle.Judge
	logger   logger.Logger

	// OnBattle, if set, is called after each battle is committed, in bracket
	// order.
	OnBattle func(t *tournament.Tournament, result models.BattleResult)
}

func New(cfg Config, loc *locate.Handler, disc *discover.Handler, judge battle.Judge, log logger.Logger) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Runner{
		config:   cfg,
		locate:   loc,
		discover: disc,
		judge:    judge,
		logger:   log.With(map[string]interface{}{"component": "runner"}),
	}
}

// Run plays location's tournament to a champion.
func (r *Runner) Run(ctx context.Context, location string) (*Result, error) {
	start := time.Now()

	loc, err := r.locate.Execute(ctx, &locate.Input{Location: location})
	if err != nil {
		return nil, err
	}
	resolved := models.LocationResult{Lat: loc.Lat, Lng: loc.Lng, FormattedAddress: loc.FormattedAddress}

	found, err := r.discover.Execute(ctx, &discover.Input{Lat: &loc.Lat, Lng: &loc.Lng, Radius: r.config.Radius})
	if err != nil {
		return nil, err
	}

	t := tournament.New()
	t.SetLocation(resolved)
	if err := t.InitializeBracket(found.CoffeeShops); err != nil {
		return nil, err
	}
	r.logger.Info("bracket seeded", map[string]interface{}{
		"tournamentId": t.ID,
		"location":     t.Location,
	})

	for t.Champion == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.playRound(ctx, t); err != nil {
			return nil, err
		}
	}

	r.logger.Info("tournament finished", map[string]interface{}{
		"tournamentId": t.ID,
		"champion":     t.Champion.Name,
		"battles":      len(t.Battles),
	})
	return &Result{Location: resolved, Tournament: t, Duration: time.Since(start)}, nil
}

// playRound judges every pairing of the current round concurrently and then
// commits the verdicts in pairing order.
func (r *Runner) playRound(ctx context.Context, t *tournament.Tournament) error {
	round := t.CurrentRound
	pairs := t.Pairings()
	if len(pairs) == 0 {
		return errors.NewInternalError(fmt.Errorf("no pairings left in the %s", round))
	}

	results := make([]models.BattleResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)
	for i, p := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.judge.JudgeBattle(gctx, p[0], p[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, p := range pairs {
		t.SelectShop(p[0])
		t.SelectShop(p[1])
		if err := t.ValidatePairing(*t.Selection[0], *t.Selection[1]); err != nil {
			return err
		}
		if err := t.CommitBattle(results[i]); err != nil {
			return err
		}
		t.ClearSelection()

		if r.OnBattle != nil {
			r.OnBattle(t, t.Battles[len(t.Battles)-1])
		}
	}

	r.logger.Debug("round complete", map[string]interface{}{
		"round":   string(round),
		"battles": len(pairs),
	})
	return nil
}
