//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"starcuak/internal/domain"
	mysqlrepo "starcuak/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=starcuak",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/starcuak?parseTime=true&charset=utf8mb4,utf8&loc=UTC", hostPort)

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepo_InsertReadResetRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	// empty store reads as an empty, non-error collection
	all, err := repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("fresh table not empty: %d", len(all))
	}

	at := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	id1, err := repo.Insert(ctx, "Latte", "muy rico", domain.Positive, 0.93, &at)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id2, err := repo.Insert(ctx, "Espresso", "frío", domain.Negative, 0.81, nil)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id1 != 1 || id2 <= id1 {
		t.Fatalf("ids = %d, %d; want 1 and strictly increasing", id1, id2)
	}

	all, err = repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("records = %d, want 2", len(all))
	}
	if all[0].Comment != "muy rico" || all[0].Sentiment != domain.Positive || all[0].Confidence != 0.93 {
		t.Fatalf("record mangled: %+v", all[0])
	}
	if !all[0].CreatedAt.Equal(at) {
		t.Fatalf("caller-supplied fecha lost: %v", all[0].CreatedAt)
	}
	if all[1].CreatedAt.IsZero() {
		t.Fatalf("omitted fecha must default at insert time")
	}

	// reset empties the table and rewinds the id counter
	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	all, err = repo.ReadAll(ctx)
	if err != nil {
		t.Fatalf("readAll: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("table not empty after reset: %d", len(all))
	}
	id, err := repo.Insert(ctx, "Latte", "otra vez", domain.Neutral, 0.5, nil)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != 1 {
		t.Fatalf("first id after reset = %d, want 1", id)
	}
}
