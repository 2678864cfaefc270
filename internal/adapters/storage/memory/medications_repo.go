package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/gskrast/api-remedios-godot/internal/domain/medications"
)

type medicationsRepo struct {
	mu   sync.RWMutex
	byID map[string]medications.Medication
}

// NewMedicationsRepo cria o backend em memória (dev e testes).
func NewMedicationsRepo() medications.Repository {
	return &medicationsRepo{
		byID: make(map[string]medications.Medication),
	}
}

func (r *medicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(m.ID) == "" {
		return errors.New("medication id required")
	}
	if _, exists := r.byID[m.ID]; exists {
		return errors.New("medication already exists")
	}
	r.byID[m.ID] = clone(m)
	return nil
}

func (r *medicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, medications.ErrNotFound
	}
	return clone(m), nil
}

func (r *medicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, clone(m))
	}

	sortByCreation(out)
	return out, nil
}

func (r *medicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byID[m.ID]
	if !exists {
		return medications.ErrNotFound
	}

	// O histórico é gerenciado só por AddPurchase/Delete; um update do
	// remédio não mexe nele.
	m.PurchaseHistory = current.PurchaseHistory
	r.byID[m.ID] = clone(m)
	return nil
}

func (r *medicationsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return medications.ErrNotFound
	}
	// O histórico mora dentro do registro: apagar o remédio já leva
	// as compras junto.
	delete(r.byID, id)
	return nil
}

func (r *medicationsRepo) AddPurchase(ctx context.Context, id string, p medications.PurchaseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.byID[id]
	if !exists {
		return medications.ErrNotFound
	}
	m.PurchaseHistory = append(m.PurchaseHistory, p)
	r.byID[id] = m
	return nil
}

func (r *medicationsRepo) ListShopping(ctx context.Context) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medications.Medication, 0)
	for _, m := range r.byID {
		if m.OnShoppingList {
			out = append(out, clone(m))
		}
	}

	sortByCreation(out)
	return out, nil
}

// clone copia o slice de histórico para o chamador não compartilhar
// memória com o mapa interno.
func clone(m medications.Medication) medications.Medication {
	hist := make([]medications.PurchaseRecord, len(m.PurchaseHistory))
	copy(hist, m.PurchaseHistory)
	m.PurchaseHistory = hist
	return m
}

// Orden estável por criado_em asc (consistência em dev)
func sortByCreation(ms []medications.Medication) {
	sort.Slice(ms, func(i, j int) bool {
		return ms[i].CreatedAt.Before(ms[j].CreatedAt)
	})
}
