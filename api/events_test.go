package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/uday132/hackhub/api"
	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository/mock"
)

func withCaller(r *http.Request, id int64, role models.Role) *http.Request {
	ctx := context.WithValue(r.Context(), api.CtxUserID, id)
	ctx = context.WithValue(ctx, api.CtxUserRole, role)
	return r.WithContext(ctx)
}

func TestEventsHandlers(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		vars       map[string]string
		body       any
		callerID   int64
		prepare    func(m *mock.Mocks)
		call       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:    "List_SortedByDate",
			method:  http.MethodGet,
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{Title: "Later", Date: "2026-10-05T00:00:00Z", Location: "Pune", CreatedBy: 1})
				m.Events.Add(models.Event{Title: "Sooner", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.List(w, r) },
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var events []models.Event
				if err := json.Unmarshal(b, &events); err != nil {
					t.Fatalf("unmarshal events: %v", err)
				}
				if len(events) != 2 || events[0].Title != "Sooner" {
					t.Fatalf("expected soonest-first ordering, got %+v", events)
				}
			},
		},
		{
			name:     "Mine_OnlyCallersEvents",
			method:   http.MethodGet,
			callerID: 1,
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{Title: "Mine", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
				m.Events.Add(models.Event{Title: "Theirs", Date: "2026-09-21T00:00:00Z", Location: "Delhi", CreatedBy: 2})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Mine(w, r) },
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var events []models.Event
				if err := json.Unmarshal(b, &events); err != nil {
					t.Fatalf("unmarshal events: %v", err)
				}
				if len(events) != 1 || events[0].Title != "Mine" {
					t.Fatalf("expected only caller's events, got %+v", events)
				}
			},
		},
		{
			name:   "Get_Success",
			method: http.MethodGet,
			vars:   map[string]string{"id": "1"},
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{ID: 1, Title: "HackNight", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Get(w, r) },
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var e models.Event
				if err := json.Unmarshal(b, &e); err != nil {
					t.Fatalf("unmarshal event: %v", err)
				}
				if e.Title != "HackNight" {
					t.Fatalf("wrong event: %+v", e)
				}
			},
		},
		{
			name:       "Get_NotFound",
			method:     http.MethodGet,
			vars:       map[string]string{"id": "42"},
			prepare:    func(m *mock.Mocks) {},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Get(w, r) },
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Get_InvalidID",
			method:     http.MethodGet,
			vars:       map[string]string{"id": "abc"},
			prepare:    func(m *mock.Mocks) {},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Get(w, r) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Create_MissingFields",
			method:     http.MethodPost,
			callerID:   1,
			body:       map[string]any{"title": "No date or location"},
			prepare:    func(m *mock.Mocks) {},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Create(w, r) },
			wantStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("Please add all required fields")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
		{
			name:       "Create_InvalidDate",
			method:     http.MethodPost,
			callerID:   1,
			body:       map[string]any{"title": "X", "location": "Y", "date": "next tuesday"},
			prepare:    func(m *mock.Mocks) {},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Create(w, r) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:     "Create_Success",
			method:   http.MethodPost,
			callerID: 9,
			body: map[string]any{
				"title":      "CodeSprint",
				"location":   "Mumbai",
				"date":       "2026-11-01",
				"tech_stack": []string{"Go", "SQLite"},
			},
			prepare:    func(m *mock.Mocks) {},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Create(w, r) },
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte) {
				var e models.Event
				if err := json.Unmarshal(b, &e); err != nil {
					t.Fatalf("unmarshal event: %v", err)
				}
				if e.CreatedBy != 9 {
					t.Fatalf("createdBy should be the caller, got %d", e.CreatedBy)
				}
				if e.Date != "2026-11-01T00:00:00Z" {
					t.Fatalf("date not normalized: %q", e.Date)
				}
				if len(e.TechStack) != 2 {
					t.Fatalf("tech stack lost: %+v", e.TechStack)
				}
			},
		},
		{
			name:     "Update_Success",
			method:   http.MethodPut,
			vars:     map[string]string{"id": "1"},
			callerID: 1,
			body:     map[string]any{"title": "Renamed"},
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{ID: 1, Title: "Old", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Update(w, r) },
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var e models.Event
				if err := json.Unmarshal(b, &e); err != nil {
					t.Fatalf("unmarshal event: %v", err)
				}
				if e.Title != "Renamed" || e.Location != "Delhi" {
					t.Fatalf("partial update wrong: %+v", e)
				}
			},
		},
		{
			name:     "Update_NotCreator",
			method:   http.MethodPut,
			vars:     map[string]string{"id": "1"},
			callerID: 2,
			body:     map[string]any{"title": "Hijack"},
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{ID: 1, Title: "Old", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Update(w, r) },
			wantStatus: http.StatusForbidden,
		},
		{
			name:     "Update_EmptyTitleRejected",
			method:   http.MethodPut,
			vars:     map[string]string{"id": "1"},
			callerID: 1,
			body:     map[string]any{"title": "   "},
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{ID: 1, Title: "Old", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Update(w, r) },
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Update_NotFound",
			method:     http.MethodPut,
			vars:       map[string]string{"id": "77"},
			callerID:   1,
			body:       map[string]any{"title": "X"},
			prepare:    func(m *mock.Mocks) {},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Update(w, r) },
			wantStatus: http.StatusNotFound,
		},
		{
			name:     "Delete_Success",
			method:   http.MethodDelete,
			vars:     map[string]string{"id": "1"},
			callerID: 1,
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{ID: 1, Title: "Gone", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Delete(w, r) },
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var resp map[string]int64
				if err := json.Unmarshal(b, &resp); err != nil {
					t.Fatalf("unmarshal response: %v", err)
				}
				if resp["id"] != 1 {
					t.Fatalf("expected deleted id 1, got %+v", resp)
				}
			},
		},
		{
			name:     "Delete_NotCreator",
			method:   http.MethodDelete,
			vars:     map[string]string{"id": "1"},
			callerID: 5,
			prepare: func(m *mock.Mocks) {
				m.Events.Add(models.Event{ID: 1, Title: "Keep", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 1})
			},
			call:       func(h *api.EventsHandler, w http.ResponseWriter, r *http.Request) { h.Delete(w, r) },
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			handler := api.NewEventsHandler(mocks.Events)

			var bodyReader io.Reader
			if tt.body != nil {
				b, _ := json.Marshal(tt.body)
				bodyReader = bytes.NewReader(b)
			}
			req := httptest.NewRequest(tt.method, "/events", bodyReader)
			if tt.vars != nil {
				req = mux.SetURLVars(req, tt.vars)
			}
			if tt.callerID != 0 {
				req = withCaller(req, tt.callerID, models.RoleAdmin)
			}
			w := httptest.NewRecorder()

			tt.call(handler, w, req)

			res := w.Result()
			defer res.Body.Close()
			if res.StatusCode != tt.wantStatus {
				data, _ := io.ReadAll(res.Body)
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			data, _ := io.ReadAll(res.Body)
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}

func TestEventDeleteThenMineIsEmpty(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Events.Add(models.Event{Title: "Only", Date: "2026-09-20T00:00:00Z", Location: "Delhi", CreatedBy: 3})
	handler := api.NewEventsHandler(mocks.Events)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/events/1", nil), map[string]string{"id": "1"})
	req = withCaller(req, 3, models.RoleAdmin)
	w := httptest.NewRecorder()
	handler.Delete(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d %s", w.Code, w.Body.String())
	}

	req = withCaller(httptest.NewRequest(http.MethodGet, "/events/mine", nil), 3, models.RoleAdmin)
	w = httptest.NewRecorder()
	handler.Mine(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("mine failed: %d", w.Code)
	}
	var events []models.Event
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events after delete, got %+v", events)
	}
}
