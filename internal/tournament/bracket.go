// Package tournament implements the 8-entry single-elimination bracket.
// The Tournament value is owned by the caller; every operation mutates the
// receiver in place and holds no reference after returning.
package tournament

import "fmt"

// Round names a bracket stage.
type Round string

const (
	Quarterfinal Round = "quarterfinal"
	Semifinal    Round = "semifinal"
	Final        Round = "final"
	Champion     Round = "champion"
)

const (
	// SeedCount is the number of shops a bracket starts with.
	SeedCount = 8
	// SlotCount is the flat bracket size: 8 + 4 + 2 + 1.
	SlotCount = 15
)

// Rounds lists every stage in play order.
var Rounds = []Round{Quarterfinal, Semifinal, Final, Champion}

// positions are half-open [lo, hi) ranges into the flat slot array.
var positions = map[Round][2]int{
	Quarterfinal: {0, 8},
	Semifinal:    {8, 12},
	Final:        {12, 14},
	Champion:     {14, 15},
}

// Range returns the half-open slot range of r.
func (r Round) Range() (lo, hi int) {
	p := positions[r]
	return p[0], p[1]
}

// Size is the number of slots in r.
func (r Round) Size() int {
	lo, hi := r.Range()
	return hi - lo
}

// Next returns the round winners of r advance into.
func (r Round) Next() (Round, bool) {
	switch r {
	case Quarterfinal:
		return Semifinal, true
	case Semifinal:
		return Final, true
	case Final:
		return Champion, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the four known rounds.
func (r Round) Valid() bool {
	_, ok := positions[r]
	return ok
}

// Short is the single-letter form used in logs: Q, S, F, C.
func (r Round) Short() string {
	switch r {
	case Quarterfinal:
		return "Q"
	case Semifinal:
		return "S"
	case Final:
		return "F"
	case Champion:
		return "C"
	}
	return "?"
}

// RoundOf returns the round a slot position belongs to.
func RoundOf(position int) Round {
	for _, r := range Rounds {
		lo, hi := r.Range()
		if position >= lo && position < hi {
			return r
		}
	}
	panic(fmt.Sprintf("tournament: slot position %d out of range", position))
}

// ParseRound accepts either the full name or the single-letter form.
func ParseRound(s string) (Round, error) {
	switch s {
	case "Q", "q", string(Quarterfinal):
		return Quarterfinal, nil
	case "S", "s", string(Semifinal):
		return Semifinal, nil
	case "F", "f", string(Final):
		return Final, nil
	case "C", "c", string(Champion):
		return Champion, nil
	}
	return "", fmt.Errorf("unknown round %q", s)
}
