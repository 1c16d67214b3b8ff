package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gold-economy/internal/app/account"
	"gold-economy/internal/config"
	"gold-economy/internal/daykey"
	"gold-economy/internal/economy"
	"gold-economy/internal/engine"
	"gold-economy/internal/events"
	"gold-economy/internal/logging"
	"gold-economy/internal/mcpserver"
	"gold-economy/internal/remote"
	"gold-economy/internal/scheduler"
	"gold-economy/internal/store"
	httptransport "gold-economy/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	loaded, envErr := config.LoadEnvFiles()
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)
	defer logging.Close()
	if envErr != nil {
		log.Fatal().Err(envErr).Msg("load env files failed")
	}
	if len(loaded) > 0 {
		log.Info().Strs("files", loaded).Msg("env files loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("store ping failed")
	}

	days, err := daykey.FromName(cfg.Economy.LocalTimezone)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid LOCAL_TIMEZONE")
	}
	ctrl := economy.NewController(economy.DefaultCatalog(), economy.Rules{
		DailyClaimBase: cfg.Economy.DailyClaimBase,
		StreakAdd:      cfg.Economy.StreakAdd,
		StreakCap:      cfg.Economy.StreakCap,
		MintNFTPrice:   cfg.Economy.MintNFTPrice,
	}, days)

	backend := remote.New(remote.Options{
		BaseURL:    cfg.Sync.RemoteBaseURL,
		Token:      cfg.Sync.RemoteToken,
		Timeout:    cfg.Sync.Timeout(),
		MaxRetries: cfg.Sync.RetryMax,
		RetryBase:  cfg.Sync.RetryBase(),
	})

	emitter := events.NewEmitter(events.Config{
		Enabled:     cfg.Sync.EventsEnabled && cfg.Sync.Enabled(),
		Buffer:      cfg.Sync.EventsBuffer,
		RetryMax:    cfg.Sync.EventsRetryMax,
		RetryBase:   cfg.Sync.RetryBase(),
		SendTimeout: cfg.Sync.Timeout(),
	}, backend)
	emitter.Start(ctx)
	defer emitter.Stop()

	eng := engine.New(engine.Options{
		Controller:     ctrl,
		Store:          st,
		StateKey:       cfg.Storage.StateKey,
		Remote:         backend,
		Events:         emitter,
		InitialRole:    economy.Role(cfg.Economy.InitialRole),
		InitialBalance: cfg.Economy.InitialBalance,
	})
	if err := eng.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("load economy state failed")
	}
	flushDone := make(chan struct{})
	go func() {
		defer close(flushDone)
		eng.Run(ctx, cfg.Storage.FlushInterval())
	}()

	sched, err := scheduler.New(eng, scheduler.Config{
		SyncInterval: cfg.Sync.Interval(),
		SyncTimeout:  cfg.Sync.Timeout(),
		Location:     days.Location(daykey.Local),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init failed")
	}
	sched.Start()

	deps := httptransport.Deps{Engine: eng, Store: st}
	if cfg.Server.MCPEnabled {
		deps.MCP = mcpserver.New(account.NewService(eng)).Handler()
	}
	r := httptransport.NewRouter(deps, cfg.Server)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().
		Str("addr", cfg.Server.HTTPAddr).
		Str("store", cfg.Storage.Driver).
		Bool("sync", cfg.Sync.Enabled()).
		Bool("mcp", cfg.Server.MCPEnabled).
		Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		stop()
	}

	if err := sched.Stop(); err != nil {
		log.Warn().Err(err).Msg("scheduler shutdown failed")
	}
	<-flushDone
	log.Info().Msg("economy stopped")
}
