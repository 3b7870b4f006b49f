//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	httpserver "starcuak/internal/adapters/http_server"
	"starcuak/internal/adapters/scorer"
	"starcuak/internal/app"
	"starcuak/internal/domain"
	mysqlrepo "starcuak/internal/storage/mysql"
)

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=starcuak"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/starcuak?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

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

// stubModel serves a minimal inference endpoint: POS for anything
// containing "rico", NEG otherwise.
func stubModel(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"loaded":true}`))
			return
		}
		var req struct {
			Inputs string `json:"inputs"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		label, score := "NEG", 0.88
		if strings.Contains(req.Inputs, "rico") {
			label, score = "POS", 0.95
		}
		_ = json.NewEncoder(w).Encode([][]map[string]any{{{"label": label, "score": score}}})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestEndToEnd_AnalyzeReportReset(t *testing.T) {
	ctx := context.Background()
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}

	model := stubModel(t)
	sc, err := scorer.Select(ctx, model.URL, "", "beto", "generic", 100)
	if err != nil {
		t.Fatalf("scorer: %v", err)
	}

	analyzer := app.NewAnalyzer(sc)
	cmds := app.NewAnalysisService(analyzer, repo, nil, nil, 2)
	q := app.NewReportService(repo, nil, time.Minute, "Café")

	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{A: cmds, Q: q, Products: []string{"Latte"}})
	api := httptest.NewServer(srv.Mux())
	t.Cleanup(api.Close)

	post := func(body string) *http.Response {
		t.Helper()
		resp, err := http.Post(api.URL+"/v1/reviews", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		return resp
	}

	// two positives, one negative through the full stack
	for _, b := range []string{
		`{"product":"Latte","comment":"muy rico"}`,
		`{"product":"Latte","comment":"rico de verdad"}`,
		`{"product":"Espresso","comment":"amargo y frío"}`,
	} {
		resp := post(b)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("analyze status = %d", resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(api.URL + "/v1/report")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	defer resp.Body.Close()
	var rep domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.Total != 3 || rep.Distribution[domain.Positive] != 2 || rep.Distribution[domain.Negative] != 1 {
		t.Fatalf("report: %+v", rep)
	}
	if rep.TopPositive == nil || *rep.TopPositive != "Latte" {
		t.Fatalf("topPositive: %v", rep.TopPositive)
	}

	// reset rewinds ids through the whole stack
	req, _ := http.NewRequest(http.MethodDelete, api.URL+"/v1/reviews", nil)
	dresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	dresp.Body.Close()
	if dresp.StatusCode != http.StatusNoContent {
		t.Fatalf("reset status = %d", dresp.StatusCode)
	}

	resp2 := post(`{"product":"Latte","comment":"rico otra vez"}`)
	defer resp2.Body.Close()
	var rv domain.Review
	if err := json.NewDecoder(resp2.Body).Decode(&rv); err != nil {
		t.Fatalf("decode review: %v", err)
	}
	if rv.ID != 1 {
		t.Fatalf("first id after reset = %d, want 1", rv.ID)
	}
}
