package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/svgscript/internal/document"
)

// PostgresStore keeps drawings in the drawings table (see db.Migrate).
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const drawingColumns = `id, name, owner_id, format, script, svg, problems, version, created_at, updated_at`

func scanDrawing(row pgx.Row) (*Drawing, error) {
	var (
		d        Drawing
		format   string
		problems []byte
	)
	err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &format, &d.Script, &d.SVG, &problems, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Format = document.Format(format)
	if err := json.Unmarshal(problems, &d.Problems); err != nil {
		return nil, fmt.Errorf("decode problems: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) Create(ctx context.Context, d *Drawing) error {
	problems, err := json.Marshal(d.Problems)
	if err != nil {
		return fmt.Errorf("encode problems: %w", err)
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO drawings (id, name, owner_id, format, script, svg, problems)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+drawingColumns,
		d.ID, d.Name, d.OwnerID, string(d.Format), d.Script, d.SVG, problems)
	created, err := scanDrawing(row)
	if err != nil {
		return fmt.Errorf("create drawing: %w", err)
	}
	*d = *created
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Drawing, error) {
	d, err := scanDrawing(s.pool.QueryRow(ctx, `SELECT `+drawingColumns+` FROM drawings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get drawing: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) List(ctx context.Context, ownerID string) ([]Drawing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+drawingColumns+` FROM drawings
		WHERE owner_id = $1
		ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	defer rows.Close()

	out := []Drawing{}
	for rows.Next() {
		d, err := scanDrawing(rows)
		if err != nil {
			return nil, fmt.Errorf("list drawings: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, d *Drawing) error {
	problems, err := json.Marshal(d.Problems)
	if err != nil {
		return fmt.Errorf("encode problems: %w", err)
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE drawings
		SET name = $2, format = $3, script = $4, svg = $5, problems = $6,
		    version = version + 1, updated_at = now()
		WHERE id = $1
		RETURNING `+drawingColumns,
		d.ID, d.Name, string(d.Format), d.Script, d.SVG, problems)
	updated, err := scanDrawing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update drawing: %w", err)
	}
	*d = *updated
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
