package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uday132/hackhub/internal/models"
)

func (r *SQLiteRepo) CreateRoadmap(ctx context.Context, rm *models.Roadmap) (int64, error) {
	if rm == nil {
		return 0, fmt.Errorf("roadmap is nil")
	}

	months := rm.Months
	if months == nil {
		months = []models.Month{}
	}
	b, err := json.Marshal(months)
	if err != nil {
		return 0, err
	}

	res, err := r.conn.Exec(ctx,
		`INSERT INTO roadmaps (user_id, goal, months, created) VALUES (?, ?, ?, ?)`,
		rm.UserID, rm.Goal, string(b), now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func scanRoadmap(row interface{ Scan(...any) error }) (*models.Roadmap, error) {
	var rm models.Roadmap
	var months string
	if err := row.Scan(&rm.ID, &rm.UserID, &rm.Goal, &months, &rm.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	if err := json.Unmarshal([]byte(months), &rm.Months); err != nil {
		return nil, fmt.Errorf("decode months for roadmap %d: %w", rm.ID, err)
	}
	if rm.Months == nil {
		rm.Months = []models.Month{}
	}

	return &rm, nil
}

func (r *SQLiteRepo) GetRoadmap(ctx context.Context, id int64) (*models.Roadmap, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, user_id, goal, months, created FROM roadmaps WHERE id = ?`, id)
	return scanRoadmap(row)
}

func (r *SQLiteRepo) ListRoadmapsByUser(ctx context.Context, userID int64) ([]models.Roadmap, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, user_id, goal, months, created FROM roadmaps WHERE user_id = ? ORDER BY created DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Roadmap{}
	for rows.Next() {
		rm, err := scanRoadmap(rows)
		if err != nil {
			return nil, err
		}

		out = append(out, *rm)
	}

	return out, rows.Err()
}

// UpdateRoadmapMonths rewrites the whole months document. Callers do a
// read-modify-write; roadmaps are single-owner so last write wins.
func (r *SQLiteRepo) UpdateRoadmapMonths(ctx context.Context, id int64, months []models.Month) error {
	if months == nil {
		months = []models.Month{}
	}
	b, err := json.Marshal(months)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, `UPDATE roadmaps SET months = ? WHERE id = ?`, string(b), id)
	return err
}
