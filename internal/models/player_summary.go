package models

import "encoding/json"

// PlayType is a key of stats_by_action
type PlayType string

const (
	PickAndRoll   PlayType = "pickAndRoll"
	Isolation     PlayType = "isolation"
	PostUp        PlayType = "postUp"
	OffBallScreen PlayType = "offBallScreen"
)

// PlayTypes returns the play types in wire order.
func PlayTypes() []PlayType {
	return []PlayType{PickAndRoll, Isolation, PostUp, OffBallScreen}
}

type Shot struct {
	ShotLocX   float64 `json:"shot_loc_x"`
	ShotLocY   float64 `json:"shot_loc_y"`
	ActionType string  `json:"action_type"`
}

type Pass struct {
	PassStartLocX float64 `json:"pass_start_loc_x"`
	PassStartLocY float64 `json:"pass_start_loc_y"`
	PassEndLocX   float64 `json:"pass_end_loc_x"`
	PassEndLocY   float64 `json:"pass_end_loc_y"`
	ActionType    string  `json:"action_type"`
}

type Turnover struct {
	TurnoverLocX float64 `json:"turnover_loc_x"`
	TurnoverLocY float64 `json:"turnover_loc_y"`
	ActionType   string  `json:"action_type"`
}

// ActionStats holds the counters for a single play type
type ActionStats struct {
	Points           int `json:"points"`
	Shots            int `json:"shots"`
	Passes           int `json:"passes"`
	Turnovers        int `json:"turnovers"`
	PotentialAssists int `json:"potential_assists"`
	ShootingFouls    int `json:"shooting_fouls"`
}

// Totals holds the same counters aggregated across all play types
type Totals struct {
	TotalPoints           int `json:"total_points"`
	TotalShots            int `json:"total_shots"`
	TotalPasses           int `json:"total_passes"`
	TotalTurnovers        int `json:"total_turnovers"`
	TotalPotentialAssists int `json:"total_potential_assists"`
	TotalShootingFouls    int `json:"total_shooting_fouls"`
}

// Ranks are rank positions computed by the summary API. Direction and base
// are owned by the API, values are stored as received.
type Ranks struct {
	Points           int `json:"points"`
	Shots            int `json:"shots"`
	Passes           int `json:"passes"`
	Turnovers        int `json:"turnovers"`
	PotentialAssists int `json:"potential_assists"`
	ShootingFouls    int `json:"shooting_fouls"`
}

// StatsByAction has one ActionStats per play type. The key set is fixed.
type StatsByAction struct {
	PickAndRoll   ActionStats `json:"pickAndRoll"`
	Isolation     ActionStats `json:"isolation"`
	PostUp        ActionStats `json:"postUp"`
	OffBallScreen ActionStats `json:"offBallScreen"`
}

// Get returns the stats for a play type. ok is false for unknown keys.
func (s StatsByAction) Get(pt PlayType) (ActionStats, bool) {
	switch pt {
	case PickAndRoll:
		return s.PickAndRoll, true
	case Isolation:
		return s.Isolation, true
	case PostUp:
		return s.PostUp, true
	case OffBallScreen:
		return s.OffBallScreen, true
	}
	return ActionStats{}, false
}

// Each calls fn for every play type in wire order.
func (s StatsByAction) Each(fn func(PlayType, ActionStats)) {
	for _, pt := range PlayTypes() {
		stats, _ := s.Get(pt)
		fn(pt, stats)
	}
}

// PlayerSummary is the payload of GET /api/v1/playerSummary/{playerID}
type PlayerSummary struct {
	PlayerID      int           `json:"player_id"`
	PlayerName    string        `json:"player_name"`
	TeamName      string        `json:"team_name"`
	Shots         []Shot        `json:"shots"`
	Passes        []Pass        `json:"passes"`
	Turnovers     []Turnover    `json:"turnovers"`
	StatsByAction StatsByAction `json:"stats_by_action"`
	Totals        Totals        `json:"totals"`
	Ranks         Ranks         `json:"ranks"`
}

// MarshalJSON encodes nil event sequences as empty arrays so the shape
// matches what the API sends.
func (p PlayerSummary) MarshalJSON() ([]byte, error) {
	type Alias PlayerSummary
	a := Alias(p)
	if a.Shots == nil {
		a.Shots = []Shot{}
	}
	if a.Passes == nil {
		a.Passes = []Pass{}
	}
	if a.Turnovers == nil {
		a.Turnovers = []Turnover{}
	}
	return json.Marshal(a)
}
