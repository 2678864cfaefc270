package medications

import "time"

// Medication representa um remédio acompanhado pelo usuário.
type Medication struct {
	ID string

	Name      string
	DailyDose int // unidades consumidas por dia
	BoxSize   int // unidades em uma caixa fechada

	InsuranceID string // CPF/carteirinha do convênio, texto livre

	// StartDate é a data em que a caixa/curso atual começou.
	// Definida na criação e preservada em updates: editar nome ou dose
	// não reinicia a contagem de dias (ver supply.go).
	StartDate *time.Time

	OnShoppingList bool

	// PurchaseHistory pertence exclusivamente ao remédio:
	// apagar o remédio apaga o histórico junto.
	PurchaseHistory []PurchaseRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PurchaseRecord é uma compra passada de um remédio.
// Não tem identidade própria fora do remédio dono.
type PurchaseRecord struct {
	Price float64
	Place string
}
