package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedSummary is returned when a payload is not valid JSON or does
// not have the player summary shape.
var ErrMalformedSummary = errors.New("malformed player summary")

var (
	summaryValidator     *validator.Validate
	summaryValidatorOnce sync.Once
)

func getSummaryValidator() *validator.Validate {
	summaryValidatorOnce.Do(func() {
		summaryValidator = validator.New()
		summaryValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
			return strings.Split(f.Tag.Get("json"), ",")[0]
		})
	})
	return summaryValidator
}

// summaryShape mirrors PlayerSummary with pointer fields so that absent and
// null members can be told apart from zero values, at every level.
type summaryShape struct {
	PlayerID      *int             `json:"player_id" validate:"required"`
	PlayerName    *string          `json:"player_name" validate:"required"`
	TeamName      *string          `json:"team_name" validate:"required"`
	Shots         *[]shotShape     `json:"shots" validate:"required,dive"`
	Passes        *[]passShape     `json:"passes" validate:"required,dive"`
	Turnovers     *[]turnoverShape `json:"turnovers" validate:"required,dive"`
	StatsByAction *actionShape     `json:"stats_by_action" validate:"required"`
	Totals        *totalsShape     `json:"totals" validate:"required"`
	Ranks         *countersShape   `json:"ranks" validate:"required"`
}

type shotShape struct {
	ShotLocX   *float64 `json:"shot_loc_x" validate:"required"`
	ShotLocY   *float64 `json:"shot_loc_y" validate:"required"`
	ActionType *string  `json:"action_type" validate:"required"`
}

type passShape struct {
	PassStartLocX *float64 `json:"pass_start_loc_x" validate:"required"`
	PassStartLocY *float64 `json:"pass_start_loc_y" validate:"required"`
	PassEndLocX   *float64 `json:"pass_end_loc_x" validate:"required"`
	PassEndLocY   *float64 `json:"pass_end_loc_y" validate:"required"`
	ActionType    *string  `json:"action_type" validate:"required"`
}

type turnoverShape struct {
	TurnoverLocX *float64 `json:"turnover_loc_x" validate:"required"`
	TurnoverLocY *float64 `json:"turnover_loc_y" validate:"required"`
	ActionType   *string  `json:"action_type" validate:"required"`
}

// countersShape is shared by ActionStats and Ranks, which use the same keys
type countersShape struct {
	Points           *int `json:"points" validate:"required"`
	Shots            *int `json:"shots" validate:"required"`
	Passes           *int `json:"passes" validate:"required"`
	Turnovers        *int `json:"turnovers" validate:"required"`
	PotentialAssists *int `json:"potential_assists" validate:"required"`
	ShootingFouls    *int `json:"shooting_fouls" validate:"required"`
}

type totalsShape struct {
	TotalPoints           *int `json:"total_points" validate:"required"`
	TotalShots            *int `json:"total_shots" validate:"required"`
	TotalPasses           *int `json:"total_passes" validate:"required"`
	TotalTurnovers        *int `json:"total_turnovers" validate:"required"`
	TotalPotentialAssists *int `json:"total_potential_assists" validate:"required"`
	TotalShootingFouls    *int `json:"total_shooting_fouls" validate:"required"`
}

type actionShape struct {
	PickAndRoll   *countersShape `json:"pickAndRoll" validate:"required"`
	Isolation     *countersShape `json:"isolation" validate:"required"`
	PostUp        *countersShape `json:"postUp" validate:"required"`
	OffBallScreen *countersShape `json:"offBallScreen" validate:"required"`
}

// DecodePlayerSummary decodes a summary payload without transforming it.
// Every member down to the counters and event locations must be present and
// non-null; unknown members are ignored.
func DecodePlayerSummary(data []byte) (*PlayerSummary, error) {
	var shape summaryShape
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSummary, err)
	}

	if err := getSummaryValidator().Struct(&shape); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: missing %s", ErrMalformedSummary, missingFields(verrs))
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedSummary, err)
	}

	summary := &PlayerSummary{
		PlayerID:   *shape.PlayerID,
		PlayerName: *shape.PlayerName,
		TeamName:   *shape.TeamName,
		Shots:      make([]Shot, 0, len(*shape.Shots)),
		Passes:     make([]Pass, 0, len(*shape.Passes)),
		Turnovers:  make([]Turnover, 0, len(*shape.Turnovers)),
		StatsByAction: StatsByAction{
			PickAndRoll:   shape.StatsByAction.PickAndRoll.actionStats(),
			Isolation:     shape.StatsByAction.Isolation.actionStats(),
			PostUp:        shape.StatsByAction.PostUp.actionStats(),
			OffBallScreen: shape.StatsByAction.OffBallScreen.actionStats(),
		},
		Totals: Totals{
			TotalPoints:           *shape.Totals.TotalPoints,
			TotalShots:            *shape.Totals.TotalShots,
			TotalPasses:           *shape.Totals.TotalPasses,
			TotalTurnovers:        *shape.Totals.TotalTurnovers,
			TotalPotentialAssists: *shape.Totals.TotalPotentialAssists,
			TotalShootingFouls:    *shape.Totals.TotalShootingFouls,
		},
		Ranks: Ranks(shape.Ranks.actionStats()),
	}

	for _, s := range *shape.Shots {
		summary.Shots = append(summary.Shots, Shot{
			ShotLocX:   *s.ShotLocX,
			ShotLocY:   *s.ShotLocY,
			ActionType: *s.ActionType,
		})
	}
	for _, p := range *shape.Passes {
		summary.Passes = append(summary.Passes, Pass{
			PassStartLocX: *p.PassStartLocX,
			PassStartLocY: *p.PassStartLocY,
			PassEndLocX:   *p.PassEndLocX,
			PassEndLocY:   *p.PassEndLocY,
			ActionType:    *p.ActionType,
		})
	}
	for _, t := range *shape.Turnovers {
		summary.Turnovers = append(summary.Turnovers, Turnover{
			TurnoverLocX: *t.TurnoverLocX,
			TurnoverLocY: *t.TurnoverLocY,
			ActionType:   *t.ActionType,
		})
	}

	return summary, nil
}

func (c *countersShape) actionStats() ActionStats {
	return ActionStats{
		Points:           *c.Points,
		Shots:            *c.Shots,
		Passes:           *c.Passes,
		Turnovers:        *c.Turnovers,
		PotentialAssists: *c.PotentialAssists,
		ShootingFouls:    *c.ShootingFouls,
	}
}

// missingFields lists failed members by JSON path, e.g.
// "stats_by_action.postUp".
func missingFields(verrs validator.ValidationErrors) string {
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		names = append(names, ns)
	}
	return strings.Join(names, ", ")
}
