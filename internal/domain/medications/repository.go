package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	GetByID(ctx context.Context, id string) (Medication, error)
	List(ctx context.Context) ([]Medication, error)
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error
	AddPurchase(ctx context.Context, id string, p PurchaseRecord) error
	ListShopping(ctx context.Context) ([]Medication, error)
}
