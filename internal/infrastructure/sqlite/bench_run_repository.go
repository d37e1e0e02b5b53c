package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zjrosen/clothespin/internal/bench"
)

const benchRunColumns = `id, file, bytes, tokens, iterations, elapsed_ns, lex_error, created_at`

// benchRunRepository implements bench.Repository using SQLite.
type benchRunRepository struct {
	db *sql.DB
}

func newBenchRunRepository(db *sql.DB) *benchRunRepository {
	return &benchRunRepository{db: db}
}

var _ bench.Repository = (*benchRunRepository)(nil)

func scanBenchRun(scanner interface{ Scan(...any) error }) (*benchRunModel, error) {
	var m benchRunModel
	err := scanner.Scan(
		&m.ID, &m.File, &m.Bytes, &m.Tokens, &m.Iterations,
		&m.ElapsedNs, &m.LexError, &m.CreatedAt,
	)
	return &m, err
}

func (r *benchRunRepository) Save(ctx context.Context, run *bench.Run) error {
	m := toBenchRunModel(run)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bench_runs (`+benchRunColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.File, m.Bytes, m.Tokens, m.Iterations, m.ElapsedNs, m.LexError, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bench run: %w", err)
	}
	return nil
}

func (r *benchRunRepository) FindByID(ctx context.Context, id string) (*bench.Run, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+benchRunColumns+` FROM bench_runs WHERE id = ?`, id)
	m, err := scanBenchRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &bench.RunNotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bench run: %w", err)
	}
	return m.toDomain(), nil
}

// List orders by created_at descending; runs saved within the same second
// fall back to insertion order, newest first.
func (r *benchRunRepository) List(ctx context.Context, filter bench.ListFilter) ([]*bench.Run, error) {
	query := `SELECT ` + benchRunColumns + ` FROM bench_runs`
	var args []any
	if filter.File != "" {
		query += ` WHERE file = ?`
		args = append(args, filter.File)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bench runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*bench.Run
	for rows.Next() {
		m, err := scanBenchRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bench run row: %w", err)
		}
		runs = append(runs, m.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bench run rows: %w", err)
	}
	return runs, nil
}

func (r *benchRunRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bench_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bench run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return &bench.RunNotFoundError{ID: id}
	}
	return nil
}
