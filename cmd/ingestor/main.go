package main

import (
	"context"
	"database/sql"
	"flag"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"starcuak/internal/adapters/audit"
	"starcuak/internal/adapters/csvfile"
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

	log.Logger = observability.NewLogger(cfg.AppEnv)

	path := flag.String("file", "", "delimited review file to ingest")
	flag.Parse()
	if *path == "" {
		log.Fatal().Msg("-file is required")
	}

	log.Info().
		Str("file", *path).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	table, err := csvfile.ReadFile(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("read input failed")
	}

	norm := app.NewNormalizer(cfg.FallbackProduct)
	cands, err := norm.Normalize(table)
	if err != nil {
		// a missing comment column aborts before any row is classified
		log.Fatal().Err(err).Msg("normalization failed")
	}
	log.Info().Int("rows", len(cands)).Msg("input normalized")

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

	selectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	sc, err := scorer.Select(selectCtx, cfg.ScorerBase, cfg.ScorerKey, cfg.ScorerModel, cfg.ScorerFallback, cfg.ScorerRPS)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("no sentiment model available")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	trail := audit.New(cfg.AuditLogPath)
	svc := app.NewAnalysisService(app.NewAnalyzer(sc), repo, cache, trail, cfg.Workers)

	res, err := svc.IngestBatch(ctx, cands)
	if err != nil {
		log.Fatal().Err(err).Msg("batch aborted")
	}
	for _, f := range res.Failures {
		log.Warn().Int("row", f.Row).Err(f.Err).Msg("row failed")
	}

	if err := audit.WriteBackup(cfg.BackupPath, table); err != nil {
		log.Warn().Err(err).Msg("backup snapshot failed")
	}

	log.Info().
		Int("inserted", res.Inserted).
		Int("failed", len(res.Failures)).
		Msg("ingestion completed")
}
