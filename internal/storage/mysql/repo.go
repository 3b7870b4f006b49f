package mysql

import (
	"context"
	"database/sql"
	"time"

	"starcuak/internal/adapters/observability"
	"starcuak/internal/domain"
)

func valTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.UTC()
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the Resenas table when it does not exist yet. Called
// once at startup, before any other operation.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createResenasSQL); err != nil {
		return &domain.PersistenceError{Op: "schema", Err: err}
	}
	return nil
}

func (r *Repo) Insert(ctx context.Context, product, comment string, s domain.Sentiment, confidence float64, at *time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertResenaSQL,
		product,
		comment,
		string(s),
		confidence,
		valTime(at),
	)
	observability.ObserveStore("insert", err)
	if err != nil {
		return 0, &domain.PersistenceError{Op: "insert", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &domain.PersistenceError{Op: "insert", Err: err}
	}
	return id, nil
}

func (r *Repo) ReadAll(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, readAllSQL)
	observability.ObserveStore("read", err)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		var sentiment string
		var fecha sql.NullTime
		if err := rows.Scan(&rv.ID, &rv.Product, &rv.Comment, &sentiment, &rv.Confidence, &fecha); err != nil {
			return nil, &domain.PersistenceError{Op: "read", Err: err}
		}
		rv.Sentiment = domain.Sentiment(sentiment)
		if fecha.Valid {
			rv.CreatedAt = fecha.Time
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	return out, nil
}

// Reset empties the table and rewinds the id counter. TRUNCATE is a single
// DDL statement, so a concurrent reader sees the table either fully
// populated or fully empty, never in between.
func (r *Repo) Reset(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, resetSQL)
	observability.ObserveStore("reset", err)
	if err != nil {
		return &domain.PersistenceError{Op: "reset", Err: err}
	}
	return nil
}
