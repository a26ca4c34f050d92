package server

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/diewo77/pos-app/internal/handlers"
	"github.com/diewo77/pos-app/internal/httpx"
	"github.com/diewo77/pos-app/internal/upload"
)

type Options struct {
	UploadDir string
	Dev       bool
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(withRecover)
	r.Use(withLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Lightweight DB check (SELECT 1)
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	uploads := upload.NewStore(opts.UploadDir)
	ph := handlers.NewProductHandler(db, uploads, opts.Dev)
	r.Route("/products", func(r chi.Router) {
		r.Get("/", ph.List)            // GET /products?search=
		r.Post("/", ph.Create)         // POST /products (multipart)
		r.Patch("/{productID}", ph.Update) // PATCH /products/{productID}
	})

	rh := handlers.NewReferenceHandler(db)
	r.Get("/categories", rh.Categories)
	r.Get("/stock-units", rh.StockUnits)

	// Uploaded product images
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))

	return r
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.Error(w, r, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
