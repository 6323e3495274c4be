package mock

import (
	"context"
	"sort"

	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Users    *mockUserRepo
	Events   *mockEventRepo
	Regs     *mockRegistrationRepo
	Roadmaps *mockRoadmapRepo
	Stats    *mockStatsRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:    &mockUserRepo{Stored: map[int64]*models.User{}},
		Events:   &mockEventRepo{Stored: map[int64]*models.Event{}},
		Regs:     &mockRegistrationRepo{},
		Roadmaps: &mockRoadmapRepo{Stored: map[int64]*models.Roadmap{}},
		Stats:    &mockStatsRepo{},
	}
}

type mockUserRepo struct {
	Stored    map[int64]*models.User
	NextID    int64
	CreateErr error
	GetErr    error
	UpdateErr error
}

func (m *mockUserRepo) Add(u models.User) *models.User {
	if u.ID == 0 {
		m.NextID++
		u.ID = m.NextID
	} else if u.ID > m.NextID {
		m.NextID = u.ID
	}
	m.Stored[u.ID] = &u
	return &u
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, e := range m.Stored {
		if e.Email == u.Email {
			return 0, repository.ErrDuplicate
		}
	}
	cp := *u
	if cp.Role == "" {
		cp.Role = models.RoleUser
	}
	created := m.Add(cp)
	return created.ID, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.Stored[id], nil
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	for _, u := range m.Stored {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	cp := *u
	m.Stored[u.ID] = &cp
	return nil
}

type mockEventRepo struct {
	Stored    map[int64]*models.Event
	NextID    int64
	CreateErr error
	ListErr   error
}

func (m *mockEventRepo) Add(e models.Event) *models.Event {
	if e.ID == 0 {
		m.NextID++
		e.ID = m.NextID
	} else if e.ID > m.NextID {
		m.NextID = e.ID
	}
	m.Stored[e.ID] = &e
	return &e
}

func (m *mockEventRepo) CreateEvent(ctx context.Context, e *models.Event) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	created := m.Add(*e)
	return created.ID, nil
}

func (m *mockEventRepo) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return m.Stored[id], nil
}

func (m *mockEventRepo) sorted() []models.Event {
	out := make([]models.Event, 0, len(m.Stored))
	for _, e := range m.Stored {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (m *mockEventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.sorted(), nil
}

func (m *mockEventRepo) ListEventsByCreator(ctx context.Context, creatorID int64) ([]models.Event, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []models.Event{}
	for _, e := range m.sorted() {
		if e.CreatedBy == creatorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) UpdateEvent(ctx context.Context, e *models.Event) error {
	cp := *e
	m.Stored[e.ID] = &cp
	return nil
}

func (m *mockEventRepo) DeleteEvent(ctx context.Context, id int64) error {
	delete(m.Stored, id)
	return nil
}

type mockRegistrationRepo struct {
	Stored    []models.Registration
	NextID    int64
	CreateErr error
}

func (m *mockRegistrationRepo) CreateRegistration(ctx context.Context, reg *models.Registration) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	for _, existing := range m.Stored {
		if existing.UserID == reg.UserID && existing.EventID == reg.EventID {
			return 0, repository.ErrDuplicate
		}
	}
	m.NextID++
	cp := *reg
	cp.ID = m.NextID
	m.Stored = append(m.Stored, cp)
	return cp.ID, nil
}

func (m *mockRegistrationRepo) GetRegistration(ctx context.Context, userID, eventID int64) (*models.Registration, error) {
	for _, reg := range m.Stored {
		if reg.UserID == userID && reg.EventID == eventID {
			cp := reg
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockRegistrationRepo) ListRegistrationsByUser(ctx context.Context, userID int64) ([]models.RegistrationDetail, error) {
	out := []models.RegistrationDetail{}
	for _, reg := range m.Stored {
		if reg.UserID == userID {
			out = append(out, models.RegistrationDetail{Registration: reg})
		}
	}
	return out, nil
}

func (m *mockRegistrationRepo) ListAllRegistrations(ctx context.Context) ([]models.RegistrationDetail, error) {
	out := []models.RegistrationDetail{}
	for _, reg := range m.Stored {
		out = append(out, models.RegistrationDetail{Registration: reg})
	}
	return out, nil
}

type mockRoadmapRepo struct {
	Stored    map[int64]*models.Roadmap
	NextID    int64
	CreateErr error
	UpdateErr error
}

func (m *mockRoadmapRepo) Add(rm models.Roadmap) *models.Roadmap {
	if rm.ID == 0 {
		m.NextID++
		rm.ID = m.NextID
	} else if rm.ID > m.NextID {
		m.NextID = rm.ID
	}
	m.Stored[rm.ID] = &rm
	return &rm
}

func (m *mockRoadmapRepo) CreateRoadmap(ctx context.Context, rm *models.Roadmap) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	created := m.Add(*rm)
	return created.ID, nil
}

func (m *mockRoadmapRepo) GetRoadmap(ctx context.Context, id int64) (*models.Roadmap, error) {
	return m.Stored[id], nil
}

func (m *mockRoadmapRepo) ListRoadmapsByUser(ctx context.Context, userID int64) ([]models.Roadmap, error) {
	out := []models.Roadmap{}
	for _, rm := range m.Stored {
		if rm.UserID == userID {
			out = append(out, *rm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created > out[j].Created })
	return out, nil
}

func (m *mockRoadmapRepo) UpdateRoadmapMonths(ctx context.Context, id int64, months []models.Month) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	if rm, ok := m.Stored[id]; ok {
		rm.Months = months
	}
	return nil
}

type mockStatsRepo struct {
	StatsResult  *models.AdminStats
	Participants []models.UserSummary
	Err          error
}

func (m *mockStatsRepo) AdminStats(ctx context.Context, adminID int64) (*models.AdminStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.StatsResult == nil {
		return &models.AdminStats{RecentUsers: []models.UserSummary{}}, nil
	}
	return m.StatsResult, nil
}

func (m *mockStatsRepo) ListParticipants(ctx context.Context, adminID int64) ([]models.UserSummary, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Participants == nil {
		return []models.UserSummary{}, nil
	}
	return m.Participants, nil
}
