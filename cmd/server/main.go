package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/catalog"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/config"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/httpapi"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/hub"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/lobby"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/logging"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	flush, err := logging.Init(logCfg)
	if err != nil {
		panic(err)
	}
	defer flush()

	cfg, err := config.LoadServer()
	if err != nil {
		zap.L().Fatal("load server config failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openCatalog(ctx, cfg)
	if err != nil {
		zap.L().Fatal("catalog init failed", zap.Error(err))
	}
	defer closeStore()

	g, gctx := errgroup.WithContext(ctx)

	// lobbies shut down with the hub when gctx ends
	h := hub.NewHub(gctx)
	handler := httpapi.SetupRoutes(httpapi.Deps{
		Hub:        h,
		Catalog:    store,
		Lobby:      lobby.Options{SendAssets: cfg.SendAssets, StackDistance: cfg.StackDistance},
		MaxPlayers: cfg.MaxPlayers,
		WS:         ws.Options{OriginPatterns: cfg.OriginPatterns},
	})
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g.Go(func() error {
		zap.L().Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
	}
}

// openCatalog serves games from Postgres when a DSN is configured, importing
// the catalog directory into it first if one exists. Without a DSN the
// directory is served directly.
func openCatalog(ctx context.Context, cfg config.ServerConfig) (catalog.Store, func(), error) {
	dir := catalog.NewDirStore(cfg.CatalogDir)
	if cfg.DatabaseDSN == "" {
		return dir, func() {}, nil
	}

	db, err := catalog.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			zap.L().Warn("close catalog db", zap.Error(err))
		}
	}
	if info, err := os.Stat(cfg.CatalogDir); err == nil && info.IsDir() {
		n, err := catalog.Import(ctx, dir, db)
		if err != nil {
			zap.L().Warn("catalog import incomplete", zap.Int("imported", n), zap.Error(err))
		} else {
			zap.L().Info("catalog imported", zap.Int("games", n), zap.String("dir", cfg.CatalogDir))
		}
	}
	return db, closeDB, nil
}
