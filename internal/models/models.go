package models

// Domain models matching the database schema in db/migrations/0001_init.sql

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name" validate:"required"`
	Email        string `json:"email" db:"email" validate:"required,email"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         Role   `json:"role" db:"role"`
	Avatar       string `json:"avatar,omitempty" db:"avatar"`

	// Pathfinder profile fields
	CareerGoal    string `json:"careerGoal,omitempty" db:"career_goal"`
	SkillLevel    string `json:"skillLevel,omitempty" db:"skill_level"`
	TargetOutcome string `json:"targetOutcome,omitempty" db:"target_outcome"`
	Availability  int64  `json:"availability,omitempty" db:"availability"`

	Created int64 `json:"created" db:"created"`
	Updated int64 `json:"updated" db:"updated"`
}

// UserSummary is the credential-free projection returned by admin listings
// and registration joins.
type UserSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Created int64  `json:"created"`
}

// Summary strips everything but the public identity fields.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Created: u.Created}
}

type Event struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title" validate:"required"`
	Description string `json:"description,omitempty" db:"description"`
	Location    string `json:"location" db:"location" validate:"required"`
	// Date is a normalized RFC3339 UTC instant; TEXT storage keeps
	// lexicographic order equal to chronological order.
	Date      string   `json:"date" db:"date" validate:"required"`
	TechStack []string `json:"tech_stack,omitempty" db:"tech_stack"`
	CreatedBy int64    `json:"createdBy" db:"created_by"`
	Created   int64    `json:"created" db:"created"`
	Updated   int64    `json:"updated" db:"updated"`
}

type Registration struct {
	ID      int64 `json:"id" db:"id"`
	UserID  int64 `json:"userId" db:"user_id"`
	EventID int64 `json:"eventId" db:"event_id"`
	Created int64 `json:"created" db:"created"`
}

// RegistrationDetail joins a registration with its event and, for admin
// listings, a reduced user projection.
type RegistrationDetail struct {
	Registration
	Event *Event       `json:"event,omitempty"`
	User  *UserSummary `json:"user,omitempty"`
}

// ResourceType is the closed set of learning-resource kinds a roadmap may
// reference.
type ResourceType string

const (
	ResourceVideo         ResourceType = "Video"
	ResourceArticle       ResourceType = "Article"
	ResourceInteractive   ResourceType = "Interactive"
	ResourceDocumentation ResourceType = "Documentation"
	ResourceBook          ResourceType = "Book"
	ResourceCourse        ResourceType = "Course"
)

type Resource struct {
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Type     ResourceType `json:"type"`
	Duration string       `json:"duration,omitempty"`
}

type Topic struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// MonthStatus tracks a month's place in the learner's progression.
type MonthStatus string

const (
	MonthLocked    MonthStatus = "locked"
	MonthUnlocked  MonthStatus = "unlocked"
	MonthCompleted MonthStatus = "completed"
)

type Month struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Description string      `json:"description,omitempty"`
	Skills      []string    `json:"skills"`
	Topics      []Topic     `json:"topics"`
	Resources   []Resource  `json:"resources"`
	Status      MonthStatus `json:"status"`
}

// AdminStats aggregates activity over one admin's events.
type AdminStats struct {
	TotalUsers         int64         `json:"totalUsers"`
	TotalEvents        int64         `json:"totalEvents"`
	TotalRegistrations int64         `json:"totalRegistrations"`
	RecentUsers        []UserSummary `json:"recentUsers"`
}

type Roadmap struct {
	ID      int64   `json:"id" db:"id"`
	UserID  int64   `json:"userId" db:"user_id"`
	Goal    string  `json:"goal" db:"goal"`
	Months  []Month `json:"months" db:"months"`
	Created int64   `json:"created" db:"created"`
}
