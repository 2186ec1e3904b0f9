package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"soularena/internal/config"
	"soularena/internal/httpapi"
	"soularena/internal/session"
	"soularena/internal/store"
	"soularena/internal/transport"
)

func main() {
	var (
		hostFlag = flag.Bool("host", false, "host a new room")
		joinCode = flag.String("join", "", "join an existing room by code")
		vsAI     = flag.Bool("ai", false, "host a single-player match against the AI")
		name     = flag.String("name", "", "display name")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	role := session.RoleHost
	switch {
	case *joinCode != "":
		role = session.RoleClient
	case !*hostFlag && !*vsAI:
		log.Fatal("pass -host, -ai, or -join CODE")
	}

	var recorder store.Recorder
	if cfg.DatabaseURL != "" {
		st, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("match store unavailable", zap.Error(err))
		}
		recorder = st
	}

	brokers := cfg.Brokers
	dial := func(endpoint, clientID string) transport.Adapter {
		return transport.DialMQTT(endpoint, clientID, logger)
	}
	if *vsAI {
		// Single-player never leaves the process.
		bus := transport.NewBus()
		brokers = []string{"memory://local"}
		dial = func(string, string) transport.Adapter { return bus.Open() }
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(ctx, session.Config{
		Role:       role,
		Room:       *joinCode,
		PlayerName: *name,
		VsAI:       *vsAI,
		MaxRounds:  cfg.MaxRounds,
		Brokers:    brokers,
		Dial:       dial,
		Recorder:   recorder,
		Log:        logger,
	})
	if role == session.RoleHost {
		logger.Info("room ready", zap.String("code", sess.Room()))
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: httpapi.SetupRoutes(sess, logger)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sess.Inbox() <- session.Shutdown{}
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("exited", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
