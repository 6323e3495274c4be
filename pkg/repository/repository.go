package repository

import (
	"context"
	"errors"

	"github.com/uday132/hackhub/internal/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrDuplicate is returned when an insert violates a uniqueness constraint
// (duplicate signup email, duplicate (user, event) registration).
var ErrDuplicate = errors.New("duplicate record")

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
}

type EventRepo interface {
	CreateEvent(ctx context.Context, e *models.Event) (int64, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsByCreator(ctx context.Context, creatorID int64) ([]models.Event, error)
	UpdateEvent(ctx context.Context, e *models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

type RegistrationRepo interface {
	CreateRegistration(ctx context.Context, reg *models.Registration) (int64, error)
	GetRegistration(ctx context.Context, userID, eventID int64) (*models.Registration, error)
	ListRegistrationsByUser(ctx context.Context, userID int64) ([]models.RegistrationDetail, error)
	ListAllRegistrations(ctx context.Context) ([]models.RegistrationDetail, error)
}

type RoadmapRepo interface {
	CreateRoadmap(ctx context.Context, rm *models.Roadmap) (int64, error)
	GetRoadmap(ctx context.Context, id int64) (*models.Roadmap, error)
	ListRoadmapsByUser(ctx context.Context, userID int64) ([]models.Roadmap, error)
	UpdateRoadmapMonths(ctx context.Context, id int64, months []models.Month) error
}

// StatsRepo aggregates platform activity scoped to one admin's events.
type StatsRepo interface {
	AdminStats(ctx context.Context, adminID int64) (*models.AdminStats, error)
	ListParticipants(ctx context.Context, adminID int64) ([]models.UserSummary, error)
}
