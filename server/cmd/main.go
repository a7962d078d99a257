package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"skirmish/server"
	"skirmish/server/application"
	"skirmish/server/config"
	"skirmish/server/domain"
	"skirmish/server/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stdout := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	logger, shutdownTelemetry, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, stdout)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	slog.SetDefault(logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "err", err)
		}
	}()

	codec, err := domain.NewCodec(cfg.WireCodec)
	if err != nil {
		return fmt.Errorf("codec: %w", err)
	}

	hub := domain.NewHub()
	simConfig := application.DefaultConfig()
	simConfig.TickInterval = cfg.TickInterval
	simConfig.RespawnDelay = cfg.RespawnDelay
	simulation := application.NewSimulation(simConfig, domain.SystemClock{}, codec, application.NewCodecBroadcaster(codec, hub))

	room := domain.NewRoom("default", simulation, cfg.TickInterval)

	handler := server.Route(room, hub, codec, server.RouteConfig{
		Endpoint: domain.EndpointConfig{
			PingInterval: cfg.PingInterval,
			IdleTimeout:  cfg.IdleTimeout,
		},
		AuthSecret: []byte(cfg.AuthSecret),
	})
	s := server.NewServer(cfg.ListenAddr(), handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return room.Run(gctx)
	})
	g.Go(func() error {
		slog.InfoContext(gctx, "server listening", "addr", s.Addr(), "codec", codec.Name())
		if err := s.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.InfoContext(gctx, "shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "graceful shutdown failed", "err", err)
			if err := s.Close(); err != nil {
				slog.ErrorContext(shutdownCtx, "forced close failed", "err", err)
			}
		}
		return nil
	})

	err = g.Wait()
	slog.Info("server shutdown complete")
	return err
}
