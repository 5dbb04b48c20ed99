package judge

import (
	"context"
	"fmt"
	"time"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/common/logger"
	"coffee-tournament/internal/common/metrics"
	"coffee-tournament/internal/models"

	"github.com/google/uuid"
)

// Judge decides battles. It always produces a result: any failure on the
// LLM path degrades to the rating-based fallback.
type Judge struct {
	config Config
	llm    Completer
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// New returns a judge. A nil llm judges every battle with the fallback.
func New(cfg Config, llm Completer, log logger.Logger) *Judge {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Judge{
		config: cfg.withDefaults(),
		llm:    llm,
		logger: log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// UsesLLM reports whether an LLM is configured.
func (j *Judge) UsesLLM() bool {
	return j.llm != nil
}

// JudgeBattle runs one battle between a (shop1) and b (shop2).
func (j *Judge) JudgeBattle(ctx context.Context, a, b models.Shop) models.BattleResult {
	start := time.Now()
	v := j.Decide(ctx, a, b)
	elapsed := time.Since(start)

	winner := a
	if v.Winner == SideB {
		winner = b
	}

	result := models.BattleResult{
		ID:        j.newID(),
		ShopA:     a,
		ShopB:     b,
		Winner:    winner,
		Reasoning: v.Reasoning,
		Scores:    v.Scores,
		Timestamp: models.FormatTimestamp(j.now()),
		Fallback:  v.Source == SourceFallback,
	}

	metrics.BattlesTotal.WithLabelValues(string(v.Source)).Inc()
	metrics.JudgeDuration.Observe(elapsed.Seconds())

	fields := map[string]interface{}{
		"battle_id":   result.ID,
		"shop1":       a.Name,
		"shop2":       b.Name,
		"winner":      winner.Name,
		"source":      string(v.Source),
		"duration_ms": elapsed.Milliseconds(),
	}
	if v.Cause != nil && j.llm != nil {
		fields["cause"] = v.Cause
		j.logger.Warn("judge fell back to rating comparison", fields)
	} else {
		j.logger.Info("battle judged", fields)
	}

	return result
}

// Decide returns the verdict for a battle without stamping a result.
func (j *Judge) Decide(ctx context.Context, a, b models.Shop) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			v = fallbackWithCause(a, b, errors.NewJudgmentFailureError("panic", fmt.Errorf("%v", r)))
		}
	}()

	if j.llm == nil {
		return fallbackWithCause(a, b, errors.NewJudgmentFailureError("disabled", nil))
	}

	callCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	text, err := j.llm.Complete(callCtx, BuildPrompt(a, b))
	if err != nil {
		return fallbackWithCause(a, b, errors.NewJudgmentFailureError("completion", err))
	}

	parsed, err := ParseVerdict(text, a, b)
	if err != nil {
		return fallbackWithCause(a, b, errors.NewJudgmentFailureError("parse", err))
	}
	return parsed
}

func fallbackWithCause(a, b models.Shop, cause error) Verdict {
	v := Fallback(a, b)
	v.Cause = cause
	return v
}
