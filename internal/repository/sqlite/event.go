package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uday132/hackhub/internal/models"
)

const eventCols = `id, title, description, location, date, tech_stack, created_by, created, updated`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	var stack string
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.Date, &stack, &e.CreatedBy, &e.Created, &e.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	if stack != "" {
		if err := json.Unmarshal([]byte(stack), &e.TechStack); err != nil {
			return nil, fmt.Errorf("decode tech_stack for event %d: %w", e.ID, err)
		}
	}

	return &e, nil
}

func marshalStack(stack []string) (string, error) {
	if stack == nil {
		stack = []string{}
	}
	b, err := json.Marshal(stack)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (r *SQLiteRepo) CreateEvent(ctx context.Context, e *models.Event) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("event is nil")
	}

	stack, err := marshalStack(e.TechStack)
	if err != nil {
		return 0, err
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO events (title, description, location, date, tech_stack, created_by, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Title, e.Description, e.Location, e.Date, stack, e.CreatedBy, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

func (r *SQLiteRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	return r.listEvents(ctx, `SELECT `+eventCols+` FROM events ORDER BY date ASC`)
}

func (r *SQLiteRepo) ListEventsByCreator(ctx context.Context, creatorID int64) ([]models.Event, error) {
	return r.listEvents(ctx, `SELECT `+eventCols+` FROM events WHERE created_by = ? ORDER BY date ASC`, creatorID)
}

func (r *SQLiteRepo) listEvents(ctx context.Context, query string, args ...any) ([]models.Event, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *e)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateEvent(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("event is nil")
	}

	stack, err := marshalStack(e.TechStack)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx,
		`UPDATE events SET title = ?, description = ?, location = ?, date = ?, tech_stack = ?, updated = ? WHERE id = ?`,
		e.Title, e.Description, e.Location, e.Date, stack, now(), e.ID)
	return err
}

func (r *SQLiteRepo) DeleteEvent(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}
