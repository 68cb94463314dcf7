package officer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"precinct/internal/officers/models"
	"precinct/pkg/platform/sentinel"
)

// PostgresStore persists officers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const selectOfficers = `
	SELECT police_id, police_name, department, police_address, designation, password_hash, created_at
	FROM officers
`

func (s *PostgresStore) Create(ctx context.Context, o *models.Officer) error {
	query := `
		INSERT INTO officers (police_id, police_name, department, police_address, designation, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		o.PoliceID,
		o.PoliceName,
		o.Department,
		o.PoliceAddress,
		o.Designation,
		o.PasswordHash,
		o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("officer %s: %w", o.PoliceID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create officer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, policeID string) (*models.Officer, error) {
	return s.findOne(ctx, "find officer by id", selectOfficers+` WHERE police_id = $1`, policeID)
}

func (s *PostgresStore) FindByName(ctx context.Context, policeName string) (*models.Officer, error) {
	return s.findOne(ctx, "find officer by name",
		selectOfficers+` WHERE police_name = $1 ORDER BY created_at, police_id LIMIT 1`, policeName)
}

func (s *PostgresStore) findOne(ctx context.Context, op, query string, arg string) (*models.Officer, error) {
	var o models.Officer
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&o.PoliceID,
		&o.PoliceName,
		&o.Department,
		&o.PoliceAddress,
		&o.Designation,
		&o.PasswordHash,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
