package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"paddock/internal/horses/validator"
	"paddock/pkg/config"
	mongotx "paddock/pkg/db/mongo"
	apperrors "paddock/pkg/errors"
	"paddock/pkg/logger"
	"paddock/pkg/model"
)

type mockHorseRepository struct {
	createFunc              func(ctx context.Context, horse *model.Horse) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Horse, error)
	findByStableFunc        func(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Horse, error)
	updateFunc              func(ctx context.Context, id string, horse *model.Horse) (*mongo.UpdateResult, error)
	addVaccinationFunc      func(ctx context.Context, id string, vaccination *model.Vaccination) error
	findVaccinationsDueFunc func(ctx context.Context, stableID string, cutoff time.Time) ([]*model.Horse, error)
	countByStableFunc       func(ctx context.Context, stableID string) (int64, error)
}

func (m *mockHorseRepository) Create(ctx context.Context, horse *model.Horse) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, horse)
	}
	return nil
}

func (m *mockHorseRepository) FindByID(ctx context.Context, id string) (*model.Horse, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockHorseRepository) FindByStable(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Horse, error) {
	if m.findByStableFunc != nil {
		return m.findByStableFunc(ctx, stableID, limit, offset)
	}
	return []*model.Horse{}, nil
}

func (m *mockHorseRepository) Update(ctx context.Context, id string, horse *model.Horse) (*mongo.UpdateResult, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, horse)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockHorseRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockHorseRepository) AddVaccination(ctx context.Context, id string, vaccination *model.Vaccination) error {
	if m.addVaccinationFunc != nil {
		return m.addVaccinationFunc(ctx, id, vaccination)
	}
	return nil
}

func (m *mockHorseRepository) AddTransport(ctx context.Context, id string, entry *model.TransportEntry) error {
	return nil
}

func (m *mockHorseRepository) FindVaccinationsDue(ctx context.Context, stableID string, cutoff time.Time) ([]*model.Horse, error) {
	if m.findVaccinationsDueFunc != nil {
		return m.findVaccinationsDueFunc(ctx, stableID, cutoff)
	}
	return []*model.Horse{}, nil
}

func (m *mockHorseRepository) CountByStable(ctx context.Context, stableID string) (int64, error) {
	if m.countByStableFunc != nil {
		return m.countByStableFunc(ctx, stableID)
	}
	return 0, nil
}

func (m *mockHorseRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	return &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
}

func testValidator(t *testing.T) *validator.HorseValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
	return validator.NewHorseValidator(log)
}

func validHorse() *model.Horse {
	return &model.Horse{
		StableID: "65f000000000000000000001",
		Name:     "Comet",
		Breed:    "Hanoverian",
	}
}

func TestCreate_Succeeds(t *testing.T) {
	cfg := testConfig(t)
	var saved *model.Horse
	mockRepo := &mockHorseRepository{
		createFunc: func(ctx context.Context, horse *model.Horse) error {
			saved = horse
			return nil
		},
	}
	svc := NewHorseService(mockRepo, testValidator(t), cfg)

	if err := svc.Create(context.Background(), validHorse()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected repository Create to be called")
	}
}

func TestCreate_RejectsFutureDateOfBirth(t *testing.T) {
	cfg := testConfig(t)
	svc := NewHorseService(&mockHorseRepository{}, testValidator(t), cfg)

	horse := validHorse()
	future := time.Now().AddDate(1, 0, 0)
	horse.DateOfBirth = &future

	err := svc.Create(context.Background(), horse)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("expected validation code, got %s", appErr.Code)
	}
}

func TestCreate_RequiresStableID(t *testing.T) {
	cfg := testConfig(t)
	svc := NewHorseService(&mockHorseRepository{}, testValidator(t), cfg)

	horse := validHorse()
	horse.StableID = ""

	if err := svc.Create(context.Background(), horse); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestAddVaccination_RejectsInvertedValidity(t *testing.T) {
	cfg := testConfig(t)
	svc := NewHorseService(&mockHorseRepository{}, testValidator(t), cfg)

	administered := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	vaccination := &model.Vaccination{
		Name:           "Tetanus",
		AdministeredAt: administered,
		ValidUntil:     administered.AddDate(0, -6, 0),
	}

	err := svc.AddVaccination(context.Background(), "65f000000000000000000002", vaccination)
	if err == nil {
		t.Fatal("expected validation error for valid_until before administered_at, got nil")
	}
}

func TestAddVaccination_Succeeds(t *testing.T) {
	cfg := testConfig(t)
	var gotID string
	mockRepo := &mockHorseRepository{
		addVaccinationFunc: func(ctx context.Context, id string, vaccination *model.Vaccination) error {
			gotID = id
			return nil
		},
	}
	svc := NewHorseService(mockRepo, testValidator(t), cfg)

	administered := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	vaccination := &model.Vaccination{
		Name:           "Influenza",
		AdministeredAt: administered,
		ValidUntil:     administered.AddDate(1, 0, 0),
	}

	if err := svc.AddVaccination(context.Background(), "65f000000000000000000002", vaccination); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "65f000000000000000000002" {
		t.Errorf("expected vaccination for horse 65f000000000000000000002, got %s", gotID)
	}
}

func TestGetByStable_ConcurrentCountAndFind(t *testing.T) {
	cfg := testConfig(t)
	mockRepo := &mockHorseRepository{
		countByStableFunc: func(ctx context.Context, stableID string) (int64, error) {
			time.Sleep(10 * time.Millisecond)
			return 7, nil
		},
		findByStableFunc: func(ctx context.Context, stableID string, limit int, offset int64) ([]*model.Horse, error) {
			time.Sleep(10 * time.Millisecond)
			return []*model.Horse{{ID: "1", Name: "Comet"}}, nil
		},
	}
	svc := NewHorseService(mockRepo, testValidator(t), cfg)

	horses, count, err := svc.GetByStable(context.Background(), "65f000000000000000000001", 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("expected count 7, got %d", count)
	}
	if len(horses) != 1 {
		t.Errorf("expected 1 horse, got %d", len(horses))
	}
}

func TestGetVaccinationsDue_PassesCutoff(t *testing.T) {
	cfg := testConfig(t)
	cutoff := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	mockRepo := &mockHorseRepository{
		findVaccinationsDueFunc: func(ctx context.Context, stableID string, got time.Time) ([]*model.Horse, error) {
			if !got.Equal(cutoff) {
				t.Errorf("expected cutoff %v, got %v", cutoff, got)
			}
			return []*model.Horse{{ID: "1"}}, nil
		},
	}
	svc := NewHorseService(mockRepo, testValidator(t), cfg)

	horses, err := svc.GetVaccinationsDue(context.Background(), "65f000000000000000000001", cutoff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(horses) != 1 {
		t.Errorf("expected 1 horse, got %d", len(horses))
	}
}
