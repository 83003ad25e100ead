package memo

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gasdesk/gasdesk/internal/platform/httpx"
	"github.com/gasdesk/gasdesk/internal/records"
	"github.com/gasdesk/gasdesk/internal/shared"
)

// Handler serves printable cash memo documents.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers memo routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/memos", h.handlePrint)
}

func (h *Handler) handlePrint(w http.ResponseWriter, r *http.Request) {
	dealerCode := shared.DealerCodeFromContext(r.Context())

	var body struct {
		ConsumerNos []string `json:"consumer_nos"`
		PageType    string   `json:"page_type"`
		Format      string   `json:"format"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if len(body.ConsumerNos) == 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "consumer_nos must not be empty")
		return
	}
	pageType := PageType(body.PageType)
	if body.PageType == "" {
		pageType = PageA4Three
	}

	doc, err := h.service.Compose(r.Context(), dealerCode, body.ConsumerNos, pageType)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownPageType):
			httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		case errors.Is(err, ErrNoSelection), errors.Is(err, records.ErrNoSnapshot):
			httpx.RespondError(w, httpx.ErrNotFound)
		default:
			h.logger.Error("compose memos", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}

	if body.Format == "pdf" {
		pdf, err := h.service.RenderPDF(r.Context(), doc)
		if err != nil {
			h.logger.Error("render memo pdf", slog.Any("error", err))
			httpx.Problem(w, http.StatusBadGateway, "Render Failed", "pdf rendering is unavailable")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="cashmemos.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
		return
	}

	html, err := h.service.RenderHTML(doc)
	if err != nil {
		h.logger.Error("render memo html", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
