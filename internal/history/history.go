package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ojasva22/frontend-deployment/internal/db"
)

// Tipos de submissão.
const (
	KindUpload = "upload"
	KindSearch = "search"
)

// Entry registra o desfecho de uma submissão. Não guarda bytes nem URLs.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Subject   string    `json:"subject"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Recorder persiste entradas do histórico.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// ErrDisabled indica histórico desligado (sem DB_DSN).
var ErrDisabled = errors.New("history: histórico desabilitado")

// Noop descarta tudo.
type Noop struct{}

func (Noop) Record(ctx context.Context, entry Entry) error { return nil }

func (Noop) Recent(ctx context.Context, limit int) ([]Entry, error) { return nil, ErrDisabled }

// Repository grava o histórico no Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS photo_submissions (
    id         uuid PRIMARY KEY,
    kind       text NOT NULL,
    subject    text NOT NULL,
    outcome    text NOT NULL,
    detail     text,
    created_at timestamptz NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS photo_submissions_created_at_idx ON photo_submissions (created_at DESC)`,
}

// EnsureSchema cria tabela e índice quando ausentes.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Record insere uma entrada; ID e CreatedAt são preenchidos se vazios.
func (r *Repository) Record(ctx context.Context, entry Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	const query = `
        INSERT INTO photo_submissions (id, kind, subject, outcome, detail, created_at)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
    `
	_, err := r.pool.Exec(ctx, query, entry.ID, entry.Kind, entry.Subject, entry.Outcome, entry.Detail, entry.CreatedAt)
	return err
}

// Recent lista as últimas entradas, mais novas primeiro.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	const query = `
        SELECT id, kind, subject, outcome, COALESCE(detail, ''), created_at
        FROM photo_submissions
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.Kind, &e.Subject, &e.Outcome, &e.Detail, &e.CreatedAt)
		return e, err
	})
}

// Ping verifica a conexão.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
