package tournament

import (
	"fmt"

	"coffee-tournament/internal/common/errors"
	"coffee-tournament/internal/common/metrics"
	"coffee-tournament/internal/models"

	"github.com/google/uuid"
)

var newID = uuid.NewString

// Slot is one position in the bracket.
type Slot struct {
	Position int          `json:"position"`
	Round    Round        `json:"round"`
	Shop     *models.Shop `json:"shop"`
}

// Tournament is the aggregate a caller carries between requests.
type Tournament struct {
	ID           string                `json:"id,omitempty"`
	Location     string                `json:"location"`
	Coordinates  *models.Coordinates   `json:"coordinates,omitempty"`
	Seeds        []models.Shop         `json:"seeds"`
	Bracket      []Slot                `json:"bracket"`
	Selection    [2]*models.Shop       `json:"selection"`
	Battles      []models.BattleResult `json:"battles"`
	Champion     *models.Shop          `json:"champion"`
	CurrentRound Round                 `json:"currentRound"`
}

// New returns the empty initial state.
func New() *Tournament {
	t := &Tournament{}
	t.Reset()
	return t
}

func emptyBracket() []Slot {
	slots := make([]Slot, SlotCount)
	for i := range slots {
		slots[i] = Slot{Position: i, Round: RoundOf(i)}
	}
	return slots
}

// Reset restores the empty initial state. Calling it twice is a no-op.
func (t *Tournament) Reset() {
	*t = Tournament{
		Seeds:        []models.Shop{},
		Bracket:      emptyBracket(),
		Battles:      []models.BattleResult{},
		CurrentRound: Quarterfinal,
	}
}

// SetLocation records where the seeds were discovered.
func (t *Tournament) SetLocation(loc models.LocationResult) {
	t.Location = loc.FormattedAddress
	coords := loc.Coordinates()
	t.Coordinates = &coords
}

// InitializeBracket seeds positions 0..7 in input order and clears all
// progress. Location and coordinates are kept.
func (t *Tournament) InitializeBracket(shops []models.Shop) error {
	if len(shops) != SeedCount {
		return errors.NewInvalidSeedingError(len(shops), SeedCount)
	}

	seen := make(map[string]struct{}, len(shops))
	for _, s := range shops {
		if _, dup := seen[s.Key()]; dup {
			err := errors.NewInvalidSeedingError(len(shops), SeedCount)
			err.Message = fmt.Sprintf("Shop %s is seeded twice", s.Name)
			return err.WithMetadata("duplicate", s.Key())
		}
		seen[s.Key()] = struct{}{}
	}

	location, coords := t.Location, t.Coordinates
	t.Reset()
	t.ID = newID()
	t.Location, t.Coordinates = location, coords

	t.Seeds = append([]models.Shop(nil), shops...)
	for i := range shops {
		shop := shops[i]
		t.Bracket[i].Shop = &shop
	}
	return nil
}

// SelectShop applies the selection policy: toggle off if already selected,
// else fill the first empty side, else replace side A.
func (t *Tournament) SelectShop(shop models.Shop) {
	for i, s := range t.Selection {
		if s != nil && s.Key() == shop.Key() {
			t.Selection[i] = nil
			return
		}
	}

	sel := shop
	switch {
	case t.Selection[0] == nil:
		t.Selection[0] = &sel
	case t.Selection[1] == nil:
		t.Selection[1] = &sel
	default:
		t.Selection[0] = &sel
	}
}

// ClearSelection empties both sides.
func (t *Tournament) ClearSelection() {
	t.Selection = [2]*models.Shop{}
}

// SelectionComplete reports whether both sides are chosen.
func (t *Tournament) SelectionComplete() bool {
	return t.Selection[0] != nil && t.Selection[1] != nil
}

// CommitBattle records result and advances its winner out of the current
// round. The bracket is left untouched when the advance is refused.
func (t *Tournament) CommitBattle(result models.BattleResult) error {
	from := t.CurrentRound
	if err := t.Advance(result.Winner, from); err != nil {
		return err
	}

	result.Round = string(from)
	t.Battles = append(t.Battles, result)
	metrics.BracketCommits.WithLabelValues(string(from)).Inc()
	return nil
}

// Advance writes winner into the first empty slot of the round after from.
// The current round moves forward once that round is full; reaching
// Champion also sets the champion.
func (t *Tournament) Advance(winner models.Shop, from Round) error {
	next, ok := from.Next()
	if !ok {
		return errors.NewBracketOverflowError(string(from), "none")
	}
	if len(t.Bracket) != SlotCount {
		return errors.NewInvalidArgumentError(fmt.Sprintf("bracket must have %d slots, got %d", SlotCount, len(t.Bracket)))
	}

	lo, hi := next.Range()
	target := -1
	for i := lo; i < hi; i++ {
		if t.Bracket[i].Shop == nil {
			target = i
			break
		}
	}
	if target < 0 {
		return errors.NewBracketOverflowError(string(from), string(next))
	}

	w := winner
	t.Bracket[target].Shop = &w

	if t.roundFull(next) {
		t.CurrentRound = next
		if next == Champion {
			champ := winner
			t.Champion = &champ
		}
	}
	return nil
}

func (t *Tournament) roundFull(r Round) bool {
	lo, hi := r.Range()
	for i := lo; i < hi; i++ {
		if t.Bracket[i].Shop == nil {
			return false
		}
	}
	return true
}

// SlotsByRound returns a copy of r's slots in position order.
func (t *Tournament) SlotsByRound(r Round) []Slot {
	if !r.Valid() || len(t.Bracket) != SlotCount {
		return nil
	}
	lo, hi := r.Range()
	return append([]Slot(nil), t.Bracket[lo:hi]...)
}

// Contenders lists shops in the current round that have not battled in it
// yet, in slot order.
func (t *Tournament) Contenders() []models.Shop {
	if t.CurrentRound == Champion {
		return nil
	}

	played := make(map[string]struct{})
	for _, b := range t.Battles {
		if b.Round == string(t.CurrentRound) {
			played[b.ShopA.Key()] = struct{}{}
			played[b.ShopB.Key()] = struct{}{}
		}
	}

	var out []models.Shop
	for _, slot := range t.SlotsByRound(t.CurrentRound) {
		if slot.Shop == nil {
			continue
		}
		if _, done := played[slot.Shop.Key()]; done {
			continue
		}
		out = append(out, *slot.Shop)
	}
	return out
}

// Pairings splits the contenders into adjacent pairs: (0,1), (2,3), ...
// An odd contender out is left unpaired.
func (t *Tournament) Pairings() [][2]models.Shop {
	contenders := t.Contenders()
	pairs := make([][2]models.Shop, 0, len(contenders)/2)
	for i := 0; i+1 < len(contenders); i += 2 {
		pairs = append(pairs, [2]models.Shop{contenders[i], contenders[i+1]})
	}
	return pairs
}

// ValidatePairing checks that a and b are distinct contenders of the current
// round. CommitBattle does not call it.
func (t *Tournament) ValidatePairing(a, b models.Shop) error {
	if t.CurrentRound == Champion {
		return errors.NewInvalidArgumentError("Tournament already has a champion")
	}
	if a.Key() == b.Key() {
		return errors.NewInvalidArgumentError("A shop cannot battle itself")
	}

	contenders := make(map[string]struct{})
	for _, c := range t.Contenders() {
		contenders[c.Key()] = struct{}{}
	}
	for _, s := range []models.Shop{a, b} {
		if _, ok := contenders[s.Key()]; !ok {
			return errors.NewInvalidArgumentError(
				fmt.Sprintf("%s is not an active contender in the %s", s.Name, t.CurrentRound))
		}
	}
	return nil
}

// FindShop looks a shop up anywhere in the bracket by key.
func (t *Tournament) FindShop(key string) (models.Shop, bool) {
	for _, slot := range t.Bracket {
		if slot.Shop != nil && slot.Shop.Key() == key {
			return *slot.Shop, true
		}
	}
	return models.Shop{}, false
}

// Validate checks the structural invariants of a caller-supplied aggregate.
func (t *Tournament) Validate() error {
	if len(t.Bracket) != SlotCount {
		return errors.NewInvalidArgumentError(fmt.Sprintf("bracket must have %d slots, got %d", SlotCount, len(t.Bracket)))
	}
	for i, slot := range t.Bracket {
		if slot.Position != i || slot.Round != RoundOf(i) {
			return errors.NewInvalidArgumentError(fmt.Sprintf("bracket slot %d is malformed", i))
		}
	}
	if !t.CurrentRound.Valid() {
		return errors.NewInvalidArgumentError(fmt.Sprintf("unknown round %q", t.CurrentRound))
	}
	return nil
}
