package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository"
)

const userCols = `id, name, email, password_hash, role, avatar, career_goal, skill_level, target_outcome, availability, created, updated`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Avatar, &u.CareerGoal, &u.SkillLevel, &u.TargetOutcome, &u.Availability, &u.Created, &u.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	u.Role = models.Role(role)

	return &u, nil
}

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	role := u.Role
	if !role.Valid() {
		role = models.RoleUser
	}
	skill := u.SkillLevel
	if skill == "" {
		skill = "Beginner"
	}
	availability := u.Availability
	if availability <= 0 {
		availability = 5
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, role, avatar, career_goal, skill_level, target_outcome, availability, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, string(role), u.Avatar, u.CareerGoal, skill, u.TargetOutcome, availability, ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicate
		}

		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx,
		`UPDATE users SET name = ?, avatar = ?, career_goal = ?, skill_level = ?, target_outcome = ?, availability = ?, updated = ? WHERE id = ?`,
		u.Name, u.Avatar, u.CareerGoal, u.SkillLevel, u.TargetOutcome, u.Availability, now(), u.ID)
	return err
}
