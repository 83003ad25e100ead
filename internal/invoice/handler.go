package invoice

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gasdesk/gasdesk/internal/platform/httpx"
	"github.com/gasdesk/gasdesk/internal/shared"
)

// Handler manages rate list and invoice preview endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers rate and invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/rates", h.listRates)
	r.Put("/rates", h.saveRates)
	r.Post("/invoices/preview", h.previewInvoice)
}

func (h *Handler) listRates(w http.ResponseWriter, r *http.Request) {
	dealerCode := shared.DealerCodeFromContext(r.Context())
	if dealerCode == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	rates, err := h.service.Rates(r.Context(), dealerCode)
	if err != nil {
		h.logger.Error("list rates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rates": rates})
}

func (h *Handler) saveRates(w http.ResponseWriter, r *http.Request) {
	dealerCode := shared.DealerCodeFromContext(r.Context())
	if dealerCode == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var body struct {
		Rates []RateInput `json:"rates"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	rates, err := h.service.SaveRates(r.Context(), dealerCode, body.Rates)
	if err != nil {
		h.logger.Warn("save rates", slog.String("dealer", dealerCode), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rates": rates})
}

func (h *Handler) previewInvoice(w http.ResponseWriter, r *http.Request) {
	dealerCode := shared.DealerCodeFromContext(r.Context())
	if dealerCode == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	var body struct {
		InvoiceDate string `json:"invoice_date"`
		Lines       []Line `json:"lines"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	var invoiceDate time.Time
	if body.InvoiceDate != "" {
		parsed, err := time.Parse("2006-01-02", body.InvoiceDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "invoice_date must be YYYY-MM-DD")
			return
		}
		invoiceDate = parsed
	}

	totals, err := h.service.Preview(r.Context(), dealerCode, body.Lines, invoiceDate)
	if err != nil {
		h.logger.Error("preview invoice", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, totals)
}
