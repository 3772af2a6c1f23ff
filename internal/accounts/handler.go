package accounts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerbridge/ledgerbridge/internal/ledger"
	"github.com/ledgerbridge/ledgerbridge/internal/platform/httpx"
	"github.com/ledgerbridge/ledgerbridge/internal/shared"
)

// Handler manages account endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers account routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.listAccounts)
	r.Get("/test-connection", h.testConnection)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.PaymentAccounts(r.Context())
	if err != nil {
		h.logger.Error("list payment accounts", slog.Any("error", err))
		httpx.Error(w, http.StatusBadGateway, "failed to fetch accounts", upstreamDetails(err))
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) testConnection(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Ping(r.Context())
	if err != nil {
		h.logger.Error("ledger connection probe", slog.Any("error", err))
		httpx.Error(w, http.StatusBadGateway, "ledger connection failed", upstreamDetails(err))
		return
	}
	httpx.JSON(w, http.StatusOK, struct {
		Status  shared.Status `json:"status"`
		Message string        `json:"message"`
		Count   int           `json:"count"`
	}{shared.StatusSuccess, "ledger connection ok", count})
}

func upstreamDetails(err error) any {
	if le, ok := ledger.AsError(err); ok {
		return le.Details()
	}
	return err.Error()
}
