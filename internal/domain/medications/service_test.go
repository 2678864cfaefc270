package medications

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[m.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, ErrNotFound
	}
	return m, nil
}

func (r *testRepo) List(ctx context.Context) ([]Medication, error) {
	out := make([]Medication, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	return out, nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) AddPurchase(ctx context.Context, id string, p PurchaseRecord) error {
	m, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.PurchaseHistory = append(m.PurchaseHistory, p)
	r.byID[id] = m
	return nil
}

func (r *testRepo) ListShopping(ctx context.Context) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.OnShoppingList {
			out = append(out, m)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_SetsStartDateToToday(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	m, err := svc.Create(context.Background(), CreateInput{
		Name:      "  Dipirona  ",
		DailyDose: 3,
		BoxSize:   30,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if m.ID == "" {
		t.Fatal("expected assigned id")
	}
	if m.Name != "Dipirona" {
		t.Fatalf("expected trimmed name, got %q", m.Name)
	}
	if m.StartDate == nil || !m.StartDate.Equal(now) {
		t.Fatalf("expected start date = now, got %v", m.StartDate)
	}
	if m.PurchaseHistory == nil || len(m.PurchaseHistory) != 0 {
		t.Fatalf("expected empty history, got %v", m.PurchaseHistory)
	}
}

func TestService_Create_RejectsInvalidInput(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []CreateInput{
		{Name: "   ", DailyDose: 1, BoxSize: 1},
		{Name: "Dipirona", DailyDose: -1, BoxSize: 1},
		{Name: "Dipirona", DailyDose: 1, BoxSize: -1},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Update_PreservesIdentityAndStartDate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }

	m, err := svc.Create(context.Background(), CreateInput{Name: "Dipirona", DailyDose: 3, BoxSize: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Edição dez dias depois: a contagem não pode reiniciar.
	later := created.AddDate(0, 0, 10)
	svc.now = func() time.Time { return later }

	updated, err := svc.Update(context.Background(), m.ID, UpdateInput{
		Name:           "Dipirona 500mg",
		DailyDose:      2,
		BoxSize:        20,
		OnShoppingList: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.ID != m.ID {
		t.Fatalf("id changed: %s -> %s", m.ID, updated.ID)
	}
	if updated.StartDate == nil || !updated.StartDate.Equal(created) {
		t.Fatalf("start date changed on update: %v", updated.StartDate)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed on update: %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(later) {
		t.Fatalf("expected updated_at = %v, got %v", later, updated.UpdatedAt)
	}
	if !updated.OnShoppingList {
		t.Fatal("expected shopping-list flag set")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Update(context.Background(), "nope", UpdateInput{Name: "X", DailyDose: 1, BoxSize: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_DaysRemaining_UsesServiceClock(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }

	m, err := svc.Create(context.Background(), CreateInput{Name: "Dipirona", DailyDose: 3, BoxSize: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := svc.DaysRemaining(m); got != 10 {
		t.Fatalf("day 0: got %d, want 10", got)
	}

	// Mesmo registro, relógio cinco dias à frente: recalcula na leitura.
	svc.now = func() time.Time { return created.AddDate(0, 0, 5) }
	if got := svc.DaysRemaining(m); got != 5 {
		t.Fatalf("day 5: got %d, want 5", got)
	}

	svc.now = func() time.Time { return created.AddDate(0, 0, 20) }
	if got := svc.DaysRemaining(m); got != -10 {
		t.Fatalf("day 20: got %d, want -10", got)
	}
}

func TestService_AddPurchase(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, err := svc.Create(context.Background(), CreateInput{Name: "Dipirona", DailyDose: 3, BoxSize: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AddPurchase(context.Background(), m.ID, PurchaseInput{Price: -1, Place: "Farmacia A"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative price: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.AddPurchase(context.Background(), m.ID, PurchaseInput{Price: 15.5, Place: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty place: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.AddPurchase(context.Background(), "nope", PurchaseInput{Price: 15.5, Place: "Farmacia A"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}

	p, err := svc.AddPurchase(context.Background(), m.ID, PurchaseInput{Price: 15.5, Place: " Farmacia A "})
	if err != nil {
		t.Fatalf("add purchase: %v", err)
	}
	if p.Place != "Farmacia A" || p.Price != 15.5 {
		t.Fatalf("unexpected record: %+v", p)
	}

	got, err := svc.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.PurchaseHistory) != 1 {
		t.Fatalf("expected 1 purchase, got %d", len(got.PurchaseHistory))
	}
}

func TestService_Delete(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	m, err := svc.Create(context.Background(), CreateInput{Name: "Dipirona", DailyDose: 3, BoxSize: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestService_ListShopping(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), CreateInput{Name: "Dipirona", DailyDose: 3, BoxSize: 30}); err != nil {
		t.Fatalf("create: %v", err)
	}
	flagged, err := svc.Create(context.Background(), CreateInput{Name: "Losartana", DailyDose: 1, BoxSize: 30, OnShoppingList: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.ListShopping(context.Background())
	if err != nil {
		t.Fatalf("list shopping: %v", err)
	}
	if len(items) != 1 || items[0].ID != flagged.ID {
		t.Fatalf("expected only flagged medication, got %+v", items)
	}
}
