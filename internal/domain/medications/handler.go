package medications

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/remedios", func(rr chi.Router) {
		rr.Get("/", listMedicationsHandler(svc))
		rr.Post("/", createMedicationHandler(svc))

		rr.Get("/{remedioID}", getMedicationHandler(svc))
		rr.Put("/{remedioID}", updateMedicationHandler(svc))
		rr.Delete("/{remedioID}", deleteMedicationHandler(svc))

		// Histórico de compras (pertence ao remédio)
		rr.Post("/{remedioID}/compras", addPurchaseHandler(svc))
		rr.Get("/{remedioID}/compras", listPurchasesHandler(svc))
	})

	// Remédios marcados para recompra
	r.Get("/lista-compras", shoppingListHandler(svc))
}

// medicationRequest é o corpo de POST/PUT. Campos que o cliente não
// manda (id, data_inicio, dias_restantes, historico_compras) não
// existem aqui de propósito: dias_restantes é sempre derivado no
// servidor e um valor vindo do cliente seria simplesmente ignorado.
type medicationRequest struct {
	Name           string `json:"nome"`
	DailyDose      int    `json:"dose_diaria"`
	BoxSize        int    `json:"doses_caixa"`
	InsuranceID    string `json:"cpf_convenio"`
	OnShoppingList bool   `json:"na_lista_compras"`
}

type medicationResponse struct {
	ID             string             `json:"id"`
	Name           string             `json:"nome"`
	DailyDose      int                `json:"dose_diaria"`
	BoxSize        int                `json:"doses_caixa"`
	InsuranceID    string             `json:"cpf_convenio"`
	StartDate      string             `json:"data_inicio,omitempty"` // YYYY-MM-DD
	OnShoppingList bool               `json:"na_lista_compras"`
	DaysRemaining  int                `json:"dias_restantes"`
	Purchases      []purchaseResponse `json:"historico_compras"`
	CreatedAt      time.Time          `json:"criado_em"`
	UpdatedAt      time.Time          `json:"atualizado_em"`
}

type purchaseRequest struct {
	Price float64 `json:"preco"`
	Place string  `json:"local"`
}

type purchaseResponse struct {
	Price float64 `json:"preco"`
	Place string  `json:"local"`
}

func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), CreateInput{
			Name:           req.Name,
			DailyDose:      req.DailyDose,
			BoxSize:        req.BoxSize,
			InsuranceID:    req.InsuranceID,
			OnShoppingList: req.OnShoppingList,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(svc, m))
	}
}

func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "erro interno", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(svc, m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "remedioID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(svc, m))
	}
}

func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req medicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "remedioID"), UpdateInput{
			Name:           req.Name,
			DailyDose:      req.DailyDose,
			BoxSize:        req.BoxSize,
			InsuranceID:    req.InsuranceID,
			OnShoppingList: req.OnShoppingList,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(svc, m))
	}
}

func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "remedioID")); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func addPurchaseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json inválido", http.StatusBadRequest)
			return
		}

		p, err := svc.AddPurchase(r.Context(), chi.URLParam(r, "remedioID"), PurchaseInput{
			Price: req.Price,
			Place: req.Place,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, purchaseResponse{Price: p.Price, Place: p.Place})
	}
}

func listPurchasesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "remedioID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPurchaseResponses(m.PurchaseHistory))
	}
}

func shoppingListHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListShopping(r.Context())
		if err != nil {
			http.Error(w, "erro interno", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(svc, m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "remédio não encontrado", http.StatusNotFound)
	default:
		http.Error(w, "erro interno", http.StatusInternalServerError)
	}
}

// toMedicationResponse monta a representação de saída. dias_restantes é
// calculado aqui, na hora da leitura, contra o relógio do serviço — a
// resposta nunca carrega um valor guardado.
func toMedicationResponse(svc *Service, m Medication) medicationResponse {
	start := ""
	if m.StartDate != nil {
		start = m.StartDate.Format("2006-01-02")
	}

	return medicationResponse{
		ID:             m.ID,
		Name:           m.Name,
		DailyDose:      m.DailyDose,
		BoxSize:        m.BoxSize,
		InsuranceID:    m.InsuranceID,
		StartDate:      start,
		OnShoppingList: m.OnShoppingList,
		DaysRemaining:  svc.DaysRemaining(m),
		Purchases:      toPurchaseResponses(m.PurchaseHistory),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toPurchaseResponses(ps []PurchaseRecord) []purchaseResponse {
	out := make([]purchaseResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, purchaseResponse{Price: p.Price, Place: p.Place})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
