package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerbridge/ledgerbridge/internal/accounts"
	"github.com/ledgerbridge/ledgerbridge/internal/payments"
	"github.com/ledgerbridge/ledgerbridge/internal/platform/httpx"
	"github.com/ledgerbridge/ledgerbridge/internal/returns"
	"github.com/ledgerbridge/ledgerbridge/internal/shared"
	"github.com/ledgerbridge/ledgerbridge/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	AccountsHandler *accounts.Handler
	PaymentsHandler *payments.Handler
	ReturnsHandler  *returns.Handler
}

// NewRouter constructs the chi.Router with bridge defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// The password gate already vetted the header; reaching this
		// point is the success acknowledgment the frontend expects.
		r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
			httpx.JSON(w, http.StatusOK, httpx.Envelope{Status: shared.StatusSuccess})
		})
		params.AccountsHandler.MountRoutes(r)
		params.PaymentsHandler.MountRoutes(r)
		params.ReturnsHandler.MountRoutes(r)
	})

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.FileServer(http.FS(staticFS))
		r.Handle("/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps the file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
