package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gasdesk/gasdesk/internal/dealer"
	"github.com/gasdesk/gasdesk/internal/invoice"
	"github.com/gasdesk/gasdesk/internal/memo"
	"github.com/gasdesk/gasdesk/internal/platform/httpx"
	"github.com/gasdesk/gasdesk/internal/records"
	"github.com/gasdesk/gasdesk/internal/shared"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	DealerHandler  *dealer.Handler
	RecordsHandler *records.Handler
	InvoiceHandler *invoice.Handler
	MemoHandler    *memo.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Hands out the CSRF token bound to the caller's session.
	r.Get("/csrf", func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		token, err := params.CSRFManager.EnsureToken(r.Context(), sess)
		if err != nil {
			params.Logger.Error("issue csrf token", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
	})

	params.DealerHandler.MountAuthRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(dealer.RequireDealer)
		params.DealerHandler.MountDealerRoutes(r)
		params.RecordsHandler.MountRoutes(r)
		params.InvoiceHandler.MountRoutes(r)
		params.MemoHandler.MountRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(dealer.RequireAdmin)
		params.DealerHandler.MountAdminRoutes(r)
	})

	return r
}
