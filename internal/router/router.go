package router

import (
	"database/sql"
	"net/http"
	"time"

	mem "therapy-journal/internal/adapters/storage/memory"
	pg "therapy-journal/internal/adapters/storage/postgres"
	"therapy-journal/internal/domain/items"
	"therapy-journal/internal/domain/notes"
	"therapy-journal/internal/domain/relationships"
	"therapy-journal/internal/domain/shares"
	"therapy-journal/internal/middleware"
	"therapy-journal/internal/platform/logger"
	"therapy-journal/internal/ports/auth"
	"therapy-journal/internal/ports/objectstore"

	_ "therapy-journal/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: object storage para signed links y borrado de binarios.
	// Sin store, los links responden "content unavailable".
	ObjectStore objectstore.Store

	// Opcional: cache Redis de resolución de terapeuta.
	TherapistCache relationships.Cache

	Log logger.Logger

	// TTL de las signed URLs (default 10m).
	LinkTTL time.Duration

	// Hook de dev: siembra links terapeuta<->paciente en el repo in-memory.
	SeedLinks []relationships.Link
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	linkTTL := opts.LinkTTL
	if linkTTL <= 0 {
		linkTTL = 10 * time.Minute
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		itemsRepo  items.Repository
		notesRepo  notes.Repository
		sharesRepo shares.Repository
		linksRepo  relationships.Repository
	)

	if opts.DB != nil {
		itemsRepo = pg.NewItemsRepo(opts.DB)
		notesRepo = pg.NewNotesRepo(opts.DB)
		sharesRepo = pg.NewSharesRepo(opts.DB)
		linksRepo = pg.NewLinksRepo(opts.DB)
	} else {
		memShares := mem.NewSharesRepo()
		memLinks := mem.NewLinksRepo()
		for _, l := range opts.SeedLinks {
			memLinks.Seed(l)
		}

		itemsRepo = mem.NewItemsRepo(memShares)
		notesRepo = mem.NewNotesRepo()
		sharesRepo = memShares
		linksRepo = memLinks
	}

	// Services por módulo
	resolver := relationships.NewResolver(linksRepo, opts.TherapistCache, log)
	notesSvc := notes.NewService(notesRepo)
	sharesSvc := shares.NewService(sharesRepo, resolver, log)
	itemsSvc := items.NewService(itemsRepo, notesSvc, opts.ObjectStore, log)

	// Rutas por módulo
	items.RegisterRoutes(r, itemsSvc, sharesSvc, linkTTL)
	shares.RegisterRoutes(r, sharesSvc, itemsSvc)
	notes.RegisterRoutes(r, notesSvc, itemsSvc)
	relationships.RegisterRoutes(r, resolver)

	return r
}
