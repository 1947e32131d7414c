package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paddock/internal/reservations/capacity"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/logger"
	"paddock/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockReservationService struct {
	createFunc       func(ctx context.Context, reservation *model.FacilityReservation, actorPhone string) (*capacity.Evaluation, error)
	checkFunc        func(ctx context.Context, facilityID string, req capacity.Request) (*capacity.Evaluation, error)
	availabilityFunc func(ctx context.Context, facilityID string, date time.Time) ([]capacity.Slot, error)
}

func (m *mockReservationService) Create(ctx context.Context, reservation *model.FacilityReservation, actorPhone string) (*capacity.Evaluation, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, reservation, actorPhone)
	}
	return &capacity.Evaluation{Classification: capacity.ClassAvailable}, nil
}

func (m *mockReservationService) CreateFromBookingToken(ctx context.Context, token string, reservation *model.FacilityReservation) (*capacity.Evaluation, error) {
	return &capacity.Evaluation{Classification: capacity.ClassAvailable}, nil
}

func (m *mockReservationService) GetByID(ctx context.Context, id string) (*model.FacilityReservation, error) {
	return nil, nil
}

func (m *mockReservationService) GetByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.FacilityReservation, int64, error) {
	return []*model.FacilityReservation{}, 0, nil
}

func (m *mockReservationService) Search(ctx context.Context, facilityID string, start, end time.Time) ([]model.FacilityReservation, error) {
	return nil, nil
}

func (m *mockReservationService) Update(ctx context.Context, id string, updates *model.FacilityReservationUpdate, actorPhone string) (*capacity.Evaluation, error) {
	return nil, nil
}

func (m *mockReservationService) Cancel(ctx context.Context, id string) error {
	return nil
}

func (m *mockReservationService) Check(ctx context.Context, facilityID string, req capacity.Request) (*capacity.Evaluation, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, facilityID, req)
	}
	return &capacity.Evaluation{Classification: capacity.ClassAvailable}, nil
}

func (m *mockReservationService) Availability(ctx context.Context, facilityID string, date time.Time) ([]capacity.Slot, error) {
	if m.availabilityFunc != nil {
		return m.availabilityFunc(ctx, facilityID, date)
	}
	return []capacity.Slot{}, nil
}

func testHandler(svc *mockReservationService) *ReservationHandler {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	return NewReservationHandler(svc, log)
}

func testRouter(h *ReservationHandler) *httprouter.Router {
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreate_ForwardsActorHeader(t *testing.T) {
	var receivedActor string
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation, actorPhone string) (*capacity.Evaluation, error) {
			receivedActor = actorPhone
			return &capacity.Evaluation{Classification: capacity.ClassAvailable}, nil
		},
	}
	router := testRouter(testHandler(svc))

	body := `{"stable_id":"65f000000000000000000001","facility_id":"65f000000000000000000010"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set(HeaderActorPhone, "+14155550122")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if receivedActor != "+14155550122" {
		t.Errorf("actor phone = %q, want %q", receivedActor, "+14155550122")
	}
}

func TestCreate_InvalidBody(t *testing.T) {
	router := testRouter(testHandler(&mockReservationService{}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreate_ConflictSurfacesSuggestedSlots(t *testing.T) {
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, reservation *model.FacilityReservation, actorPhone string) (*capacity.Evaluation, error) {
			return nil, apperrors.CapacityConflict("The requested window has no remaining capacity", map[string]any{
				"classification": string(capacity.ClassFull),
				"suggested_slots": []map[string]string{
					{"start": "2025-03-03T11:00:00Z", "end": "2025-03-03T12:00:00Z"},
				},
			})
		},
	}
	router := testRouter(testHandler(svc))

	body := `{"stable_id":"65f000000000000000000001","facility_id":"65f000000000000000000010"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var resp struct {
		Error   string         `json:"error"`
		Details map[string]any `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected an error message in the response")
	}
	if _, ok := resp.Details["suggested_slots"]; !ok {
		t.Error("expected suggested_slots in conflict details")
	}
}

func TestCheck_PassesRequestThrough(t *testing.T) {
	var received capacity.Request
	svc := &mockReservationService{
		checkFunc: func(ctx context.Context, facilityID string, req capacity.Request) (*capacity.Evaluation, error) {
			received = req
			return &capacity.Evaluation{Classification: capacity.ClassAvailable}, nil
		},
	}
	router := testRouter(testHandler(svc))

	body := `{
		"facility_id": "65f000000000000000000010",
		"start_time": "2025-03-03T10:00:00Z",
		"end_time": "2025-03-03T11:00:00Z",
		"horse_count": 2
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/check", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if received.HorseCount != 2 {
		t.Errorf("HorseCount = %d, want 2", received.HorseCount)
	}
	if !received.Start.Equal(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", received.Start)
	}
}

func TestAvailability_RequiresParams(t *testing.T) {
	router := testRouter(testHandler(&mockReservationService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/availability?facility_id=65f000000000000000000010", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAvailability_RejectsBadDate(t *testing.T) {
	router := testRouter(testHandler(&mockReservationService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/availability?facility_id=65f000000000000000000010&date=03-03-2025", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetByStable_RequiresStableID(t *testing.T) {
	router := testRouter(testHandler(&mockReservationService{}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
