package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"servcore/internal/domain"
	"servcore/internal/domain/entities"
	"servcore/internal/ports/output"
)

var _ output.RegistrationRepository = (*RegistrationRepository)(nil)

type RegistrationRepository struct {
	db *pgxpool.Pool
}

func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, event_id, role_id, user_id, status, notes,
	removed_by, registered_at, cancelled_at, created_at, updated_at`

func (r *RegistrationRepository) Create(ctx context.Context, reg *entities.Registration) error {
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx,
		`INSERT INTO registrations (id, event_id, role_id, user_id, status, notes, removed_by, registered_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		reg.ID, reg.EventID, reg.RoleID, reg.UserID, reg.Status, reg.Notes, reg.RemovedBy,
		pgtype.Timestamptz{Time: reg.RegisteredAt, Valid: true},
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		if isActiveUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return fmt.Errorf("create registration: %w", err)
	}
	reg.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	reg.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return nil
}

func (r *RegistrationRepository) FindActive(ctx context.Context, eventID, roleID, userID string) (*entities.Registration, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE event_id = $1 AND role_id = $2 AND user_id = $3 AND status = 'active'`,
		eventID, roleID, userID,
	)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotRegistered
		}
		return nil, fmt.Errorf("get active registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) FindActiveByRole(ctx context.Context, eventID, roleID string) ([]entities.Registration, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE event_id = $1 AND role_id = $2 AND status = 'active'
		 ORDER BY registered_at ASC`,
		eventID, roleID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active registrations: %w", err)
	}
	defer rows.Close()

	var regs []entities.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (r *RegistrationRepository) CountActive(ctx context.Context, eventID, roleID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations
		 WHERE event_id = $1 AND role_id = $2 AND status = 'active'`,
		eventID, roleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active registrations: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepository) CountActiveByEvent(ctx context.Context, eventID string) (map[string]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT role_id, COUNT(*) FROM registrations
		 WHERE event_id = $1 AND status = 'active'
		 GROUP BY role_id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("count active registrations by event: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var roleID string
		var count int64
		if err := rows.Scan(&roleID, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[roleID] = count
	}
	return counts, rows.Err()
}

func (r *RegistrationRepository) MarkCancelled(ctx context.Context, id, removedBy string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE registrations
		 SET status = 'cancelled', removed_by = $2, cancelled_at = now(), updated_at = now()
		 WHERE id = $1 AND status = 'active'`,
		id, removedBy,
	)
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotRegistered
	}
	return nil
}

func (r *RegistrationRepository) UpdateRoleID(ctx context.Context, id, toRoleID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE registrations
		 SET role_id = $2, updated_at = now()
		 WHERE id = $1 AND status = 'active'`,
		id, toRoleID,
	)
	if err != nil {
		if isActiveUniqueViolation(err) {
			return domain.ErrDuplicateRegistration
		}
		return fmt.Errorf("update registration role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotRegistered
	}
	return nil
}

type registrationScanner interface {
	Scan(dest ...any) error
}

func scanRegistration(row registrationScanner) (*entities.Registration, error) {
	var (
		reg          entities.Registration
		registeredAt pgtype.Timestamptz
		cancelledAt  pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.RoleID, &reg.UserID, &reg.Status, &reg.Notes,
		&reg.RemovedBy, &registeredAt, &cancelledAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	reg.RegisteredAt = pgtypeTimestamptzToTime(registeredAt)
	reg.CancelledAt = pgtypeTimestamptzToTime(cancelledAt)
	reg.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	reg.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return &reg, nil
}

// isActiveUniqueViolation reports whether err is the partial unique index on
// active registrations firing (SQLSTATE 23505).
func isActiveUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == "registrations_active_unique"
}
