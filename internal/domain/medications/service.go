package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medication not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name           string
	DailyDose      int
	BoxSize        int
	InsuranceID    string
	OnShoppingList bool
}

// Create registra um remédio novo. StartDate é sempre a data de hoje:
// cadastrar o remédio marca o começo da caixa atual.
func (s *Service) Create(ctx context.Context, in CreateInput) (Medication, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	if in.DailyDose < 0 || in.BoxSize < 0 {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	start := now

	m := Medication{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		DailyDose:       in.DailyDose,
		BoxSize:         in.BoxSize,
		InsuranceID:     strings.TrimSpace(in.InsuranceID),
		StartDate:       &start,
		OnShoppingList:  in.OnShoppingList,
		PurchaseHistory: []PurchaseRecord{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Medication{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Medication, error) {
	return s.repo.List(ctx)
}

// UpdateInput substitui os campos editáveis (PUT).
type UpdateInput struct {
	Name           string
	DailyDose      int
	BoxSize        int
	InsuranceID    string
	OnShoppingList bool
}

// Update preserva ID, StartDate, histórico e CreatedAt do registro
// existente. Nunca reinicia a contagem de dias: não existe ação de
// "abri uma caixa nova" neste sistema, e um update comum não pode
// fazer esse papel por acidente.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}
	if in.DailyDose < 0 || in.BoxSize < 0 {
		return Medication{}, ErrInvalidInput
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.DailyDose = in.DailyDose
	current.BoxSize = in.BoxSize
	current.InsuranceID = strings.TrimSpace(in.InsuranceID)
	current.OnShoppingList = in.OnShoppingList
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Medication{}, err
	}
	return current, nil
}

// Delete apaga o remédio e, junto, todo o histórico de compras dele.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

type PurchaseInput struct {
	Price float64
	Place string
}

func (s *Service) AddPurchase(ctx context.Context, id string, in PurchaseInput) (PurchaseRecord, error) {
	if in.Price < 0 {
		return PurchaseRecord{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Place) == "" {
		return PurchaseRecord{}, ErrInvalidInput
	}

	// Confere existência antes de inserir para os dois backends se
	// comportarem igual (em memória não há FK para reclamar).
	if _, err := s.GetByID(ctx, id); err != nil {
		return PurchaseRecord{}, err
	}

	p := PurchaseRecord{
		Price: in.Price,
		Place: strings.TrimSpace(in.Place),
	}
	if err := s.repo.AddPurchase(ctx, strings.TrimSpace(id), p); err != nil {
		return PurchaseRecord{}, err
	}
	return p, nil
}

func (s *Service) ListShopping(ctx context.Context) ([]Medication, error) {
	return s.repo.ListShopping(ctx)
}

// DaysRemaining avalia o remédio contra o relógio do serviço.
// O relógio fica injetável aqui (campo now) para os testes congelarem
// a data; o cálculo em si é a função pura em supply.go.
func (s *Service) DaysRemaining(m Medication) int {
	return DaysRemaining(m.StartDate, m.BoxSize, m.DailyDose, s.now())
}
