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

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	var createdAt, updatedAt pgtype.Timestamptz
	err := r.db.QueryRow(ctx,
		`INSERT INTO events (id, title, starts_at)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		event.ID, event.Title, timeToPgtypeTimestamptz(event.StartsAt),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	event.UpdatedAt = pgtypeTimestamptzToTime(updatedAt)
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	var (
		e        entities.Event
		startsAt pgtype.Timestamptz
		created  pgtype.Timestamptz
		updated  pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, title, starts_at, created_at, updated_at
		 FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Title, &startsAt, &created, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	e.StartsAt = pgtypeTimestamptzToTime(startsAt)
	e.CreatedAt = pgtypeTimestamptzToTime(created)
	e.UpdatedAt = pgtypeTimestamptzToTime(updated)
	return &e, nil
}
