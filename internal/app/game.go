package app

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/gridglow/internal/clock"
	diag "github.com/coreman2200/gridglow/internal/diagnostics"
	"github.com/coreman2200/gridglow/internal/input"
	"github.com/coreman2200/gridglow/internal/model"
	"github.com/coreman2200/gridglow/internal/progress"
)

// RoundConfig tunes the grid game.
type RoundConfig struct {
	// Cells is how many cells the target pattern lights; it is also the
	// progress bar's max.
	Cells uint16
	// RestartDelayMs is how long a won or failed round stays on the bar.
	RestartDelayMs int64
	Seed           int64
}

// Round is the game played on the grid: find every cell of a target
// pattern with the stick and press to light it. Each correct cell is one
// step on the bar; lighting a cell outside the pattern fails the round.
type Round struct {
	Grid   *model.Grid
	Target *model.Grid

	ctl    *input.Controller
	cursor *input.Cursor
	bar    *progress.Animator
	clock  clock.Clock
	rng    *rand.Rand
	log    zerolog.Logger

	cfg       RoundConfig
	restartAt int64
	pos       model.Coordinate
	rounds    int

	// OnEvent receives round results and mistakes.
	OnEvent func(diag.Diagnostic)
}

func NewRound(ctl *input.Controller, cursor *input.Cursor, bar *progress.Animator, clk clock.Clock, cfg RoundConfig) (*Round, error) {
	if cfg.Cells == 0 || int(cfg.Cells) > model.GridSize*model.GridSize {
		return nil, fmt.Errorf("target cells must be in 1..%d, got %d", model.GridSize*model.GridSize, cfg.Cells)
	}
	return &Round{
		Grid:      model.NewGrid(),
		Target:    model.NewGrid(),
		ctl:       ctl,
		cursor:    cursor,
		bar:       bar,
		clock:     clk,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		log:       log.With().Str("component", "game").Logger(),
		cfg:       cfg,
		restartAt: -1,
	}, nil
}

// Start clears the field, draws a new target and resets the bar.
func (r *Round) Start() error {
	r.Grid.Clear()
	r.Target.Clear()

	free := r.Target.OffPositions()
	r.rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for _, c := range free[:r.cfg.Cells] {
		r.Target.SetAt(c, true)
	}

	r.restartAt = -1
	r.rounds++
	r.log.Info().Int("round", r.rounds).Uint16("cells", r.cfg.Cells).Msg("round start")
	r.event(diag.Diagnostic{Severity: diag.Info, Code: "GAME.START", Summary: "New round",
		Evidence: map[string]any{"round": r.rounds, "cells": r.cfg.Cells}})

	if err := r.bar.Reset(r.cfg.Cells); err != nil {
		return err
	}
	return r.bar.SetState(progress.AnimatedProgression)
}

// Step runs one frame: read the stick, apply a press, advance the bar,
// then latch the button and cursor for the next frame.
func (r *Round) Step() error {
	defer r.ctl.DoAction()
	defer r.cursor.DoAction()

	pos, err := r.cursor.Position()
	if err != nil {
		return err
	}
	if pos != r.pos {
		r.log.Debug().Stringer("cell", pos).Msg("cursor")
		r.pos = pos
	}

	switch r.bar.State() {
	case progress.Win, progress.Fail:
		if r.restartAt >= 0 && r.clock.Millis() >= r.restartAt {
			if err := r.Start(); err != nil {
				return err
			}
		}
		return r.bar.Tick()
	}

	if r.ctl.IsButtonJustDown() {
		if err := r.press(pos); err != nil {
			return err
		}
	}
	return r.bar.Tick()
}

func (r *Round) press(pos model.Coordinate) error {
	on := r.Grid.Toggle(pos)
	if on && !r.Target.GetAt(pos) {
		r.log.Info().Stringer("cell", pos).Msg("wrong cell")
		r.event(diag.Diagnostic{Severity: diag.Warn, Code: "GAME.FAIL", Summary: "Wrong cell",
			Detail: "the cell is not part of the pattern", Evidence: map[string]any{"cell": pos.String()}})
		return r.finish(progress.Fail)
	}

	matches := r.Grid.Matches(r.Target)
	if err := r.bar.SetProgressWithAnim(uint16(matches)); err != nil {
		return err
	}
	if r.Grid.Equal(r.Target) {
		r.log.Info().Int("round", r.rounds).Msg("pattern complete")
		r.event(diag.Diagnostic{Severity: diag.Info, Code: "GAME.WIN", Summary: "Pattern complete"})
		return r.finish(progress.Win)
	}
	return nil
}

func (r *Round) finish(s progress.State) error {
	r.restartAt = r.clock.Millis() + r.cfg.RestartDelayMs
	return r.bar.SetState(s)
}

func (r *Round) event(d diag.Diagnostic) {
	if r.OnEvent != nil {
		r.OnEvent(d)
	}
}

// Cursor is the position the last Step read.
func (r *Round) Cursor() model.Coordinate { return r.pos }

func (r *Round) CursorOn() bool { return r.cursor.LedIsOn() }

// Rounds counts Start calls.
func (r *Round) Rounds() int { return r.rounds }
