package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "github.com/gskrast/api-remedios-godot/internal/adapters/storage/memory"
	pg "github.com/gskrast/api-remedios-godot/internal/adapters/storage/postgres"
	"github.com/gskrast/api-remedios-godot/internal/domain/medications"
	"github.com/gskrast/api-remedios-godot/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	// Opcional: se vem, usa Postgres. Se não, in-memory.
	DB *sql.DB

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// CORS liberado: o frontend é um jogo Godot exportado para web e o
	// navegador bloqueia a chamada sem isso. Em produção, restringir
	// AllowedOrigins ao endereço do jogo (ex: itch.io).
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mensagem":"API de Remédios Online!"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var repo medications.Repository

	// Se não te passam DB explícito, tenta por env (dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres indisponível, caindo para memória", map[string]any{"err": err.Error()})
			}
		}
	}

	if db != nil {
		repo = pg.NewMedicationsRepo(db)
		log.Info("storage: postgres", nil)
	} else {
		repo = mem.NewMedicationsRepo()
		log.Info("storage: in-memory (dados somem no restart)", nil)
	}

	svc := medications.NewService(repo)
	medications.RegisterRoutes(r, svc)

	return r
}
