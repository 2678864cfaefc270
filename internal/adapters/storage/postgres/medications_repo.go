package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/gskrast/api-remedios-godot/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO remedios (
			id, nome, dose_diaria, doses_caixa,
			cpf_convenio, data_inicio, na_lista_compras,
			criado_em, atualizado_em
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID,
		m.Name,
		m.DailyDose,
		m.BoxSize,
		m.InsuranceID,
		toNullDate(m.StartDate),
		m.OnShoppingList,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, nome, dose_diaria, doses_caixa,
			cpf_convenio, data_inicio, na_lista_compras,
			criado_em, atualizado_em
		FROM remedios
		WHERE id = $1
	`, id)

	m, err := scanMedication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}

	hist, err := r.listPurchases(ctx, id)
	if err != nil {
		return medications.Medication{}, err
	}
	m.PurchaseHistory = hist

	return m, nil
}

func (r *MedicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	return r.list(ctx, `
		SELECT
			id, nome, dose_diaria, doses_caixa,
			cpf_convenio, data_inicio, na_lista_compras,
			criado_em, atualizado_em
		FROM remedios
		ORDER BY criado_em ASC
	`)
}

func (r *MedicationsRepo) ListShopping(ctx context.Context) ([]medications.Medication, error) {
	return r.list(ctx, `
		SELECT
			id, nome, dose_diaria, doses_caixa,
			cpf_convenio, data_inicio, na_lista_compras,
			criado_em, atualizado_em
		FROM remedios
		WHERE na_lista_compras
		ORDER BY criado_em ASC
	`)
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	// data_inicio fica de fora de propósito: o serviço já preserva a
	// original, e o UPDATE não tocar na coluna garante isso também no
	// nível do banco.
	res, err := r.db.ExecContext(ctx, `
		UPDATE remedios
		SET
			nome = $2,
			dose_diaria = $3,
			doses_caixa = $4,
			cpf_convenio = $5,
			na_lista_compras = $6,
			atualizado_em = $7
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.DailyDose,
		m.BoxSize,
		m.InsuranceID,
		m.OnShoppingList,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	// remedio_compras cai junto via ON DELETE CASCADE.
	res, err := r.db.ExecContext(ctx, `DELETE FROM remedios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) AddPurchase(ctx context.Context, id string, p medications.PurchaseRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO remedio_compras (remedio_id, preco, local)
		VALUES ($1, $2, $3)
	`, id, p.Price, p.Place)
	return err
}

func (r *MedicationsRepo) list(ctx context.Context, query string) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	index := make(map[string]int)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		m.PurchaseHistory = []medications.PurchaseRecord{}
		index[m.ID] = len(out)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Uma query só para o histórico de todos, em vez de N+1.
	prows, err := r.db.QueryContext(ctx, `
		SELECT remedio_id, preco, local
		FROM remedio_compras
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer prows.Close()

	for prows.Next() {
		var remedioID string
		var p medications.PurchaseRecord
		if err := prows.Scan(&remedioID, &p.Price, &p.Place); err != nil {
			return nil, err
		}
		if i, ok := index[remedioID]; ok {
			out[i].PurchaseHistory = append(out[i].PurchaseHistory, p)
		}
	}

	return out, prows.Err()
}

func (r *MedicationsRepo) listPurchases(ctx context.Context, id string) ([]medications.PurchaseRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT preco, local
		FROM remedio_compras
		WHERE remedio_id = $1
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.PurchaseRecord, 0)
	for rows.Next() {
		var p medications.PurchaseRecord
		if err := rows.Scan(&p.Price, &p.Place); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var start sql.NullTime
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.DailyDose,
		&m.BoxSize,
		&m.InsuranceID,
		&start,
		&m.OnShoppingList,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	// data_inicio é DATE nullable. NULL vira StartDate nil, que o
	// cálculo de dias trata como "sem contagem" (resultado 0).
	if start.Valid {
		t := start.Time
		m.StartDate = &t
	}

	return m, nil
}

func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
