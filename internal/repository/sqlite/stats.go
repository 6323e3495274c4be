package sqlite

import (
	"context"

	"github.com/uday132/hackhub/internal/models"
)

// AdminStats aggregates counts scoped to events created by adminID: the
// admin's events, registrations against them, and the distinct users behind
// those registrations. The constituent reads are sequential; no snapshot
// guarantee across them.
func (r *SQLiteRepo) AdminStats(ctx context.Context, adminID int64) (*models.AdminStats, error) {
	stats := &models.AdminStats{RecentUsers: []models.UserSummary{}}

	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM events WHERE created_by = ?`, adminID)
	if err := row.Scan(&stats.TotalEvents); err != nil {
		return nil, err
	}

	row = r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations r JOIN events e ON e.id = r.event_id WHERE e.created_by = ?`,
		adminID)
	if err := row.Scan(&stats.TotalRegistrations); err != nil {
		return nil, err
	}

	row = r.conn.QueryRow(ctx,
		`SELECT COUNT(DISTINCT r.user_id) FROM registrations r JOIN events e ON e.id = r.event_id WHERE e.created_by = ?`,
		adminID)
	if err := row.Scan(&stats.TotalUsers); err != nil {
		return nil, err
	}

	recent, err := r.listParticipants(ctx, adminID, 5)
	if err != nil {
		return nil, err
	}
	stats.RecentUsers = recent

	return stats, nil
}

// ListParticipants returns the distinct users registered for the admin's
// events, newest accounts first.
func (r *SQLiteRepo) ListParticipants(ctx context.Context, adminID int64) ([]models.UserSummary, error) {
	return r.listParticipants(ctx, adminID, 0)
}

func (r *SQLiteRepo) listParticipants(ctx context.Context, adminID int64, limit int) ([]models.UserSummary, error) {
	query := `SELECT DISTINCT u.id, u.name, u.email, u.created
		FROM users u
		JOIN registrations r ON r.user_id = u.id
		JOIN events e ON e.id = r.event_id
		WHERE e.created_by = ?
		ORDER BY u.created DESC`
	args := []any{adminID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Created); err != nil {
			return nil, err
		}

		out = append(out, u)
	}

	return out, rows.Err()
}
