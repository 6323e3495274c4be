package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository"
)

func (r *SQLiteRepo) CreateRegistration(ctx context.Context, reg *models.Registration) (int64, error) {
	if reg == nil {
		return 0, fmt.Errorf("registration is nil")
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO registrations (user_id, event_id, created) VALUES (?, ?, ?)`,
		reg.UserID, reg.EventID, now())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}

		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetRegistration(ctx context.Context, userID, eventID int64) (*models.Registration, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT id, user_id, event_id, created FROM registrations WHERE user_id = ? AND event_id = ?`,
		userID, eventID)
	var reg models.Registration
	if err := row.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &reg, nil
}

const regJoinCols = `r.id, r.user_id, r.event_id, r.created,
	e.id, e.title, e.description, e.location, e.date, e.tech_stack, e.created_by, e.created, e.updated`

func (r *SQLiteRepo) ListRegistrationsByUser(ctx context.Context, userID int64) ([]models.RegistrationDetail, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT `+regJoinCols+` FROM registrations r JOIN events e ON e.id = r.event_id WHERE r.user_id = ? ORDER BY r.created DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRegistrations(rows, false)
}

// ListAllRegistrations returns every registration joined with its event and a
// credential-free user projection. Admin use only.
func (r *SQLiteRepo) ListAllRegistrations(ctx context.Context) ([]models.RegistrationDetail, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT `+regJoinCols+`, u.id, u.name, u.email, u.created
		 FROM registrations r
		 JOIN events e ON e.id = r.event_id
		 JOIN users u ON u.id = r.user_id
		 ORDER BY r.created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRegistrations(rows, true)
}

func collectRegistrations(rows *sql.Rows, withUser bool) ([]models.RegistrationDetail, error) {
	out := []models.RegistrationDetail{}
	for rows.Next() {
		var d models.RegistrationDetail
		var e models.Event
		var stack string

		dest := []any{
			&d.ID, &d.UserID, &d.EventID, &d.Created,
			&e.ID, &e.Title, &e.Description, &e.Location, &e.Date, &stack, &e.CreatedBy, &e.Created, &e.Updated,
		}
		var u models.UserSummary
		if withUser {
			dest = append(dest, &u.ID, &u.Name, &u.Email, &u.Created)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if stack != "" {
			if err := json.Unmarshal([]byte(stack), &e.TechStack); err != nil {
				return nil, fmt.Errorf("decode tech_stack for event %d: %w", e.ID, err)
			}
		}

		d.Event = &e
		if withUser {
			d.User = &u
		}
		out = append(out, d)
	}

	return out, rows.Err()
}
