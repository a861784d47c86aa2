package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/unihub-club-events/internal/authz"
	"github.com/iliyamo/unihub-club-events/internal/model"
	"github.com/iliyamo/unihub-club-events/internal/repository"
)

// memRequestStore keeps event requests in memory and mirrors the
// repository's transition rules: one decision per request, approval
// records the materialized event.
type memRequestStore struct {
	mu     sync.Mutex
	nextID uint64
	reqs   map[uint64]*model.EventRequest
	events []model.Event
}

func newMemRequestStore() *memRequestStore {
	return &memRequestStore{nextID: 1, reqs: map[uint64]*model.EventRequest{}}
}

func (s *memRequestStore) Create(_ context.Context, req *model.EventRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.nextID
	s.nextID++
	req.Status = model.RequestPending
	cp := *req
	s.reqs[req.ID] = &cp
	return nil
}

func (s *memRequestStore) GetByID(_ context.Context, id uint64) (model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reqs[id]
	if !ok {
		return model.EventRequest{}, repository.ErrRequestNotFound
	}
	return *r, nil
}

func (s *memRequestStore) List(_ context.Context) ([]model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EventRequest, 0, len(s.reqs))
	for _, r := range s.reqs {
		out = append(out, *r)
	}
	return out, nil
}

func (s *memRequestStore) ListByHead(_ context.Context, headID uint64) ([]model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.EventRequest, 0)
	for _, r := range s.reqs {
		if r.HeadID == headID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memRequestStore) Approve(_ context.Context, id uint64) (model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reqs[id]
	if !ok {
		return model.EventRequest{}, repository.ErrRequestNotFound
	}
	if r.Status != model.RequestPending {
		return model.EventRequest{}, &repository.RequestDecidedError{Status: r.Status}
	}
	r.Status = model.RequestApproved
	s.events = append(s.events, model.Event{
		ClubID:    r.ClubID,
		HeadID:    r.HeadID,
		EventName: r.EventName,
		EventDate: r.EventDate,
		Location:  r.Location,
	})
	return *r, nil
}

func (s *memRequestStore) Reject(_ context.Context, id uint64, comment *string) (model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reqs[id]
	if !ok {
		return model.EventRequest{}, repository.ErrRequestNotFound
	}
	if r.Status != model.RequestPending {
		return model.EventRequest{}, &repository.RequestDecidedError{Status: r.Status}
	}
	r.Status = model.RequestRejected
	if comment != nil {
		c := *comment
		r.Comment = &c
	}
	return *r, nil
}

func requestContext(t *testing.T, method, target, body string, uid uint64, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uid)
	c.Set("role", role)
	return c, rec
}

func seedRequest(t *testing.T, s *memRequestStore, headID uint64) uint64 {
	t.Helper()
	r := model.EventRequest{
		ClubID:           3,
		HeadID:           headID,
		EventName:        "Robotics Expo",
		EventDate:        "2026-10-01",
		Location:         "Main Hall",
		ShortDescription: "annual showcase",
		Goal:             "recruit members",
		Organizers:       "robotics club",
		Schedule:         "10:00-18:00",
		ClubHead:         "Dana",
		Phone:            "+1000000",
	}
	if err := s.Create(context.Background(), &r); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return r.ID
}

func TestEventRequestCreateStartsPending(t *testing.T) {
	store := newMemRequestStore()
	h := NewEventRequestHandler(store)

	body := `{"club_id":3,"event_name":"Robotics Expo","event_date":"2026-10-01","location":"Main Hall",
	          "short_description":"annual showcase","goal":"recruit members","organizers":"robotics club",
	          "schedule":"10:00-18:00","club_head":"Dana","phone":"+1000000"}`
	c, rec := requestContext(t, http.MethodPost, "/v1/event-requests", body, 5, authz.RoleHeadAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Create status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body)
	}
	var resp struct {
		ID     uint64 `json:"id"`
		HeadID uint64 `json:"head_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != model.RequestPending {
		t.Fatalf("status = %q, want %q", resp.Status, model.RequestPending)
	}
	if resp.HeadID != 5 {
		t.Fatalf("head_id = %d, want the filing head", resp.HeadID)
	}
}

func TestEventRequestCreateRejectsIncompleteProposal(t *testing.T) {
	h := NewEventRequestHandler(newMemRequestStore())
	c, rec := requestContext(t, http.MethodPost, "/v1/event-requests",
		`{"club_id":3,"event_name":"Expo","event_date":"2026-10-01","location":"Hall"}`,
		5, authz.RoleHeadAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Create status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEventRequestApproveCreatesEvent(t *testing.T) {
	store := newMemRequestStore()
	h := NewEventRequestHandler(store)
	id := seedRequest(t, store, 5)

	c, rec := requestContext(t, http.MethodPost, "/", "", 9, authz.RoleSuperAdmin)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(id, 10))
	if err := h.Approve(c); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Approve status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body)
	}
	got, _ := store.GetByID(context.Background(), id)
	if got.Status != model.RequestApproved {
		t.Fatalf("request status = %q, want %q", got.Status, model.RequestApproved)
	}
	if len(store.events) != 1 || store.events[0].EventName != "Robotics Expo" {
		t.Fatalf("approval should create the proposed event, got %+v", store.events)
	}
}

func TestEventRequestDecideIsFinal(t *testing.T) {
	store := newMemRequestStore()
	h := NewEventRequestHandler(store)
	id := seedRequest(t, store, 5)

	c, rec := requestContext(t, http.MethodPost, "/", "", 9, authz.RoleSuperAdmin)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(id, 10))
	if err := h.Approve(c); err != nil {
		t.Fatalf("first Approve: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("first Approve status = %d", rec.Code)
	}

	c, rec = requestContext(t, http.MethodPost, "/", "", 9, authz.RoleSuperAdmin)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(id, 10))
	if err := h.Reject(c); err != nil {
		t.Fatalf("Reject after approve: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("second decision status = %d, want %d: %s", rec.Code, http.StatusConflict, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "already approved") {
		t.Fatalf("second decision should report the recorded outcome: %s", rec.Body)
	}
	if len(store.events) != 1 {
		t.Fatalf("losing decision must not touch events, got %d", len(store.events))
	}
}

func TestEventRequestRejectRecordsComment(t *testing.T) {
	store := newMemRequestStore()
	h := NewEventRequestHandler(store)
	id := seedRequest(t, store, 5)

	c, rec := requestContext(t, http.MethodPost, "/", `{"comment":"budget too high"}`, 9, authz.RoleSuperAdmin)
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(id, 10))
	if err := h.Reject(c); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Reject status = %d: %s", rec.Code, rec.Body)
	}
	got, _ := store.GetByID(context.Background(), id)
	if got.Status != model.RequestRejected {
		t.Fatalf("status = %q, want %q", got.Status, model.RequestRejected)
	}
	if got.Comment == nil || *got.Comment != "budget too high" {
		t.Fatalf("comment not recorded: %+v", got.Comment)
	}
	if len(store.events) != 0 {
		t.Fatalf("rejection must not create events")
	}
}

func TestEventRequestGetAuthorization(t *testing.T) {
	store := newMemRequestStore()
	h := NewEventRequestHandler(store)
	id := seedRequest(t, store, 5)

	tests := []struct {
		name string
		uid  uint64
		role string
		want int
	}{
		{"filing head", 5, authz.RoleHeadAdmin, http.StatusOK},
		{"foreign head", 6, authz.RoleHeadAdmin, http.StatusForbidden},
		{"super admin", 9, authz.RoleSuperAdmin, http.StatusOK},
		{"student", 7, authz.RoleStudent, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := requestContext(t, http.MethodGet, "/", "", tt.uid, tt.role)
			c.SetParamNames("id")
			c.SetParamValues(strconv.FormatUint(id, 10))
			if err := h.Get(c); err != nil {
				t.Fatalf("Get: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("Get status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestEventRequestUnknownID(t *testing.T) {
	h := NewEventRequestHandler(newMemRequestStore())
	c, rec := requestContext(t, http.MethodPost, "/", "", 9, authz.RoleSuperAdmin)
	c.SetParamNames("id")
	c.SetParamValues("42")
	if err := h.Approve(c); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Approve status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
