package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"precinct/internal/records/models"
	"precinct/pkg/platform/sentinel"
)

// PostgresStore persists records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectRecords = `
	SELECT c_id, name, sex, national_id, created_at, updated_at
	FROM records
`

func (s *PostgresStore) List(ctx context.Context) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return collectRecords(rows)
}

// ListByPrefix matches c_id literally; LIKE wildcards in prefix are escaped.
func (s *PostgresStore) ListByPrefix(ctx context.Context, prefix string) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		selectRecords+` WHERE c_id LIKE $1 ESCAPE '\' ORDER BY seq`,
		escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("list records by prefix: %w", err)
	}
	return collectRecords(rows)
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecords+` WHERE c_id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (c_id, name, sex, national_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		string(rec.Sex),
		rec.NationalID,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("record %s: %w", rec.ID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, rec *models.Record) error {
	query := `
		UPDATE records
		SET name = $2, sex = $3, national_id = $4, updated_at = $5
		WHERE c_id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Name,
		string(rec.Sex),
		rec.NationalID,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return requireAffected(res, "update record")
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE c_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return requireAffected(res, "delete record")
}

func requireAffected(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type recordRow interface {
	Scan(dest ...any) error
}

func scanRecord(row recordRow) (*models.Record, error) {
	var rec models.Record
	var sex string
	if err := row.Scan(&rec.ID, &rec.Name, &sex, &rec.NationalID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Sex = models.Sex(sex)
	return &rec, nil
}

func collectRecords(rows *sql.Rows) ([]*models.Record, error) {
	defer rows.Close()
	out := make([]*models.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
