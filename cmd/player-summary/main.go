package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/courtvision/player-summary/internal/apiclient"
	"github.com/courtvision/player-summary/internal/config"
	"github.com/courtvision/player-summary/internal/handlers"
	"github.com/courtvision/player-summary/internal/players"
	"github.com/courtvision/player-summary/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger, os.Stdout)
	stop()

	if err != nil {
		logger.Error("Player summary failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// run loads the configured player's summary and writes it to out. When the
// ops server is enabled it keeps serving until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	summaries := players.New(players.Config{API: client, Logger: logger})
	v := view.New(view.Config{
		Players:  summaries,
		PlayerID: cfg.PlayerID,
		Logger:   logger,
	})
	defer v.Destroy()

	sugar := logger.Sugar()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.OpsPort > 0 {
		h := handlers.New(handlers.Config{
			View:           v,
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         logger,
		})
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.OpsPort),
			Handler:           h.Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			sugar.Infow("Ops server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ops server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		sugar.Infow("Loading player summary", "base_url", client.BaseURL(), "player_id", cfg.PlayerID)
		v.Init(gctx)

		wait := gctx
		if cfg.LoadTimeout > 0 {
			var cancel context.CancelFunc
			wait, cancel = context.WithTimeout(gctx, cfg.LoadTimeout)
			defer cancel()
		}

		select {
		case <-v.Settled():
		case <-wait.Done():
			return fmt.Errorf("waiting for player %d summary: %w", cfg.PlayerID, wait.Err())
		}

		if err := v.Err(); err != nil {
			return err
		}
		data := v.PlayerData()
		if data == nil {
			// destroyed before the response arrived
			return nil
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}
