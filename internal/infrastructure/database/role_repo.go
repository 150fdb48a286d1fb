package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"servcore/internal/domain"
	"servcore/internal/domain/entities"
	"servcore/internal/ports/output"
)

var _ output.RoleRepository = (*RoleRepository)(nil)

type RoleRepository struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, role *entities.EventRole) error {
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx,
		`INSERT INTO event_roles (id, event_id, name, max_participants)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		role.ID, role.EventID, role.Name, role.MaxParticipants,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	role.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	role.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return nil
}

func (r *RoleRepository) FindByID(ctx context.Context, eventID, roleID string) (*entities.EventRole, error) {
	var (
		role    entities.EventRole
		created pgtype.Timestamptz
		updated pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, event_id, name, max_participants, created_at, updated_at
		 FROM event_roles WHERE event_id = $1 AND id = $2`,
		eventID, roleID,
	).Scan(&role.ID, &role.EventID, &role.Name, &role.MaxParticipants, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role by id: %w", err)
	}
	role.CreatedAt = pgtypeTimestamptzToTime(created)
	role.UpdatedAt = pgtypeTimestamptzToTime(updated)
	return &role, nil
}

func (r *RoleRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.EventRole, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, name, max_participants, created_at, updated_at
		 FROM event_roles WHERE event_id = $1
		 ORDER BY created_at ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list roles by event id: %w", err)
	}
	defer rows.Close()

	var roles []entities.EventRole
	for rows.Next() {
		var (
			role    entities.EventRole
			created pgtype.Timestamptz
			updated pgtype.Timestamptz
		)
		if err := rows.Scan(&role.ID, &role.EventID, &role.Name, &role.MaxParticipants, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		role.CreatedAt = pgtypeTimestamptzToTime(created)
		role.UpdatedAt = pgtypeTimestamptzToTime(updated)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *RoleRepository) UpdateMaxParticipants(ctx context.Context, eventID, roleID string, maxParticipants int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE event_roles
		 SET max_participants = $3, updated_at = now()
		 WHERE event_id = $1 AND id = $2`,
		eventID, roleID, maxParticipants,
	)
	if err != nil {
		return fmt.Errorf("update role max participants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}
