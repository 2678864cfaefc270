package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre um pool de conexões ao Postgres usando pgx (database/sql).
//
// Schema esperado:
//
//	CREATE TABLE remedios (
//	    id               TEXT PRIMARY KEY,
//	    nome             TEXT NOT NULL,
//	    dose_diaria      INTEGER NOT NULL DEFAULT 0,
//	    doses_caixa      INTEGER NOT NULL DEFAULT 0,
//	    cpf_convenio     TEXT NOT NULL DEFAULT '',
//	    data_inicio      DATE,
//	    na_lista_compras BOOLEAN NOT NULL DEFAULT FALSE,
//	    criado_em        TIMESTAMPTZ NOT NULL,
//	    atualizado_em    TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE remedio_compras (
//	    seq        BIGSERIAL PRIMARY KEY,
//	    remedio_id TEXT NOT NULL REFERENCES remedios (id) ON DELETE CASCADE,
//	    preco      DOUBLE PRECISION NOT NULL,
//	    local      TEXT NOT NULL
//	);
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razoáveis para o tamanho desse sistema
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
