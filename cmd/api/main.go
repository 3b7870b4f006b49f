package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"starcuak/internal/adapters/audit"
	server "starcuak/internal/adapters/http_server"
	"starcuak/internal/adapters/observability"
	redisad "starcuak/internal/adapters/redis"
	"starcuak/internal/adapters/scorer"
	"starcuak/internal/app"
	"starcuak/internal/shared"
	mysqlrepo "starcuak/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}
	log.Info().Msg("database connection ok")

	// model selection happens exactly once, here
	selectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	sc, err := scorer.Select(selectCtx, cfg.ScorerBase, cfg.ScorerKey, cfg.ScorerModel, cfg.ScorerFallback, cfg.ScorerRPS)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("no sentiment model available")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	trail := audit.New(cfg.AuditLogPath)
	analyzer := app.NewAnalyzer(sc)
	cmds := app.NewAnalysisService(analyzer, repo, cache, trail, cfg.Workers)
	q := app.NewReportService(repo, cache, cfg.CacheTTL, cfg.FallbackProduct)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{A: cmds, Q: q, Products: cfg.Products})

	log.Info().Str("addr", cfg.HTTPAddr).Str("model", sc.Model()).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
