package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/courtvision/player-summary/internal/apiclient"
	"github.com/courtvision/player-summary/internal/models"
)

var errNoResponse = errors.New("request finished without a result")

// API is the subset of *apiclient.Client used by the players client
type API interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Go(ctx context.Context, path string) <-chan apiclient.Result
}

// Result is the outcome of a summary request. Exactly one of Summary and
// Err is set; Raw keeps the body as received when there was one.
type Result struct {
	Summary *models.PlayerSummary
	Raw     json.RawMessage
	Err     error
}

// OK reports whether the request produced a summary
func (r Result) OK() bool {
	return r.Err == nil && r.Summary != nil
}

type Config struct {
	API    API
	Logger *zap.Logger
}

// Service fetches player summaries from the summary API
type Service struct {
	api    API
	logger *zap.SugaredLogger
}

func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:    cfg.API,
		logger: logger.Sugar(),
	}
}

// SummaryPath builds the endpoint path for a player. The id is not
// validated.
func SummaryPath(playerID int) string {
	return fmt.Sprintf("/api/v1/playerSummary/%d", playerID)
}

// GetPlayerSummary requests a summary asynchronously. One Result is
// delivered on the returned channel, which is then closed.
func (s *Service) GetPlayerSummary(ctx context.Context, playerID int) <-chan Result {
	path := SummaryPath(playerID)
	in := s.api.Go(ctx, path)

	out := make(chan Result, 1)
	go func() {
		defer close(out)
		res, ok := <-in
		if !ok {
			res = apiclient.Result{Err: &apiclient.Error{Kind: apiclient.KindTransport, Path: path, Err: errNoResponse}}
		}
		out <- s.transform(path, playerID, res.Body, res.Err)
	}()
	return out
}

// FetchPlayerSummary is the blocking form of GetPlayerSummary.
func (s *Service) FetchPlayerSummary(ctx context.Context, playerID int) (*models.PlayerSummary, error) {
	path := SummaryPath(playerID)
	body, err := s.api.Get(ctx, path)
	res := s.transform(path, playerID, body, err)
	return res.Summary, res.Err
}

// transform passes a decoded payload through unchanged and keeps errors on
// the error side of the Result.
func (s *Service) transform(path string, playerID int, body json.RawMessage, err error) Result {
	if err != nil {
		return Result{Err: fmt.Errorf("fetching summary for player %d: %w", playerID, err)}
	}

	summary, err := models.DecodePlayerSummary(body)
	if err != nil {
		s.logger.Warnw("Player summary payload rejected", "player_id", playerID, "error", err)
		return Result{Raw: body, Err: fmt.Errorf("fetching summary for player %d: %w", playerID, apiclient.DecodeError(path, err))}
	}

	return Result{Summary: summary, Raw: body}
}
