// Package view holds the player summary view: it loads one summary when
// initialized and keeps it for rendering until it is destroyed.
package view

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/courtvision/player-summary/internal/models"
	"github.com/courtvision/player-summary/internal/players"
)

var errNoResult = errors.New("summary subscription closed without a result")

// State of a PlayerSummaryView
type State int

const (
	Uninitialized State = iota
	Loading
	Loaded
	Failed
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case Destroyed:
		return "destroyed"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SummaryFetcher is implemented by *players.Service
type SummaryFetcher interface {
	GetPlayerSummary(ctx context.Context, playerID int) <-chan players.Result
}

type Config struct {
	Players  SummaryFetcher
	PlayerID int
	Logger   *zap.Logger
}

// Snapshot is the renderable state of the view
type Snapshot struct {
	State      State                 `json:"state"`
	PlayerID   int                   `json:"player_id"`
	PlayerData *models.PlayerSummary `json:"player_data"`
	Error      string                `json:"error,omitempty"`
}

// PlayerSummaryView loads the summary of one player.
//
// Destroy releases the subscription: once it returns, a response that
// arrives later is dropped. The request itself is left to finish.
type PlayerSummaryView struct {
	players  SummaryFetcher
	playerID int
	logger   *zap.SugaredLogger

	initOnce    sync.Once
	destroyOnce sync.Once
	settleOnce  sync.Once
	destroyed   chan struct{}
	settled     chan struct{}

	mu    sync.RWMutex
	state State
	data  *models.PlayerSummary
	err   error
}

func New(cfg Config) *PlayerSummaryView {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlayerSummaryView{
		players:   cfg.Players,
		playerID:  cfg.PlayerID,
		logger:    logger.Sugar(),
		destroyed: make(chan struct{}),
		settled:   make(chan struct{}),
	}
}

// Init requests the summary and subscribes to the result. Only the first
// call has an effect; a destroyed view stays destroyed.
func (v *PlayerSummaryView) Init(ctx context.Context) {
	v.initOnce.Do(func() {
		v.mu.Lock()
		if v.state == Destroyed {
			v.mu.Unlock()
			return
		}
		v.state = Loading
		v.mu.Unlock()

		results := v.players.GetPlayerSummary(ctx, v.playerID)
		go v.subscribe(results)
	})
}

func (v *PlayerSummaryView) subscribe(results <-chan players.Result) {
	select {
	case <-v.destroyed:
	case res, ok := <-results:
		if !ok {
			res = players.Result{Err: errNoResult}
		}
		v.deliver(res)
	}
}

func (v *PlayerSummaryView) deliver(res players.Result) {
	v.mu.Lock()
	if v.state == Destroyed {
		v.mu.Unlock()
		return
	}
	if res.OK() {
		v.state = Loaded
		v.data = res.Summary
		v.err = nil
	} else {
		err := res.Err
		if err == nil {
			err = errNoResult
		}
		v.state = Failed
		v.err = err
	}
	state, data, err := v.state, v.data, v.err
	v.mu.Unlock()

	if state == Loaded {
		v.logger.Infow("Player data loaded",
			"player_id", data.PlayerID,
			"player_name", data.PlayerName,
			"team_name", data.TeamName,
			"shots", len(data.Shots),
			"passes", len(data.Passes),
			"turnovers", len(data.Turnovers))
	} else {
		v.logger.Errorw("Failed to load player data", "player_id", v.playerID, "error", err)
	}
	v.settle()
}

// Destroy releases the subscription. It is safe to call more than once and
// before Init.
func (v *PlayerSummaryView) Destroy() {
	v.destroyOnce.Do(func() {
		v.mu.Lock()
		v.state = Destroyed
		v.mu.Unlock()
		close(v.destroyed)
		v.settle()
	})
}

func (v *PlayerSummaryView) settle() {
	v.settleOnce.Do(func() { close(v.settled) })
}

// Settled is closed once a result has been stored or the view is destroyed
func (v *PlayerSummaryView) Settled() <-chan struct{} {
	return v.settled
}

func (v *PlayerSummaryView) PlayerID() int {
	return v.playerID
}

func (v *PlayerSummaryView) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// PlayerData returns the loaded summary, or nil before a successful load.
func (v *PlayerSummaryView) PlayerData() *models.PlayerSummary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data
}

// Err returns the load failure, if any
func (v *PlayerSummaryView) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

func (v *PlayerSummaryView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	snap := Snapshot{
		State:      v.state,
		PlayerID:   v.playerID,
		PlayerData: v.data,
	}
	if v.err != nil {
		snap.Error = v.err.Error()
	}
	return snap
}
