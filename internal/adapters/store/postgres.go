package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/abtiwary/pulsewire/internal/domain"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// PostgresStore appends one row per record into the health table:
// (timestamp, data, status, response_time). Rows are append-only and each
// insert is committed individually so a crash can lose at most one
// uncommitted row.
type PostgresStore struct {
	db        *sql.DB
	tableName string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, tableName: table}
}

func (p *PostgresStore) Name() string { return "postgres" }

func (p *PostgresStore) Insert(ctx context.Context, r *domain.HealthRecord) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	stmt := fmt.Sprintf(
		"INSERT INTO %s (timestamp, data, status, response_time) VALUES ($1,$2,$3,$4)",
		p.tableName,
	)
	if _, err := tx.ExecContext(ctx, stmt, r.ObservedAt, r.Body, r.StatusCode, r.Latency); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(fmt.Errorf("insert: %w", err), fmt.Errorf("rollback: %w", rbErr))
		}
		return fmt.Errorf("insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

var _ ports.Store = (*PostgresStore)(nil)
