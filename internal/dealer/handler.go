package dealer

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gasdesk/gasdesk/internal/platform/httpx"
	"github.com/gasdesk/gasdesk/internal/shared"
)

// AdminCredentials holds the configured back-office login. Admins are
// not dealer rows; a single operator account comes from the environment.
type AdminCredentials struct {
	Code string
	PIN  string
}

// Handler wires HTTP endpoints for registration, login and the admin
// approval surface.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	admin          AdminCredentials
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, admin AdminCredentials) *Handler {
	return &Handler{logger: logger, service: service, sessionManager: sessions, admin: admin}
}

// MountAuthRoutes registers the public authentication routes.
func (h *Handler) MountAuthRoutes(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
}

// MountDealerRoutes registers routes for a signed-in dealer.
func (h *Handler) MountDealerRoutes(r chi.Router) {
	r.Get("/dealers/me", h.handleMe)
	r.Get("/dealers/updates", h.handleListOwnUpdates)
	r.Post("/dealers/updates/{section}", h.handleSubmitUpdate)
}

// MountAdminRoutes registers the back-office routes. RequireAdmin must
// wrap the group.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Get("/admin/summary", h.handleSummary)
	r.Get("/admin/dealers", h.handleListDealers)
	r.Post("/admin/dealers/{code}/approve", h.handleApprove)
	r.Post("/admin/dealers/{code}/block", h.handleBlock)
	r.Get("/admin/updates", h.handleListPendingUpdates)
	r.Post("/admin/dealers/{code}/updates/{section}/approve", h.handleDecideUpdate(true))
	r.Post("/admin/dealers/{code}/updates/{section}/reject", h.handleDecideUpdate(false))
}

// RequireDealer rejects requests without a signed-in dealer session.
func RequireDealer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.DealerCode() == "" {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without an admin session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || sess.DealerCode() == "" {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		if !sess.IsAdmin() {
			httpx.RespondError(w, httpx.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input RegisterInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	creds, err := h.service.Register(r.Context(), input)
	if err != nil {
		if err == ErrDuplicate {
			httpx.RespondError(w, httpx.ErrDuplicate)
			return
		}
		h.logger.Warn("register dealer", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, creds)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DealerCode string `json:"dealer_code"`
		PIN        string `json:"pin"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	if h.isAdminLogin(body.DealerCode, body.PIN) {
		sess.SetDealer(h.admin.Code, true)
		httpx.JSON(w, http.StatusOK, map[string]any{"dealer_code": h.admin.Code, "admin": true})
		return
	}

	acc, err := h.service.Authenticate(r.Context(), strings.ToUpper(strings.TrimSpace(body.DealerCode)), body.PIN)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	sess.SetDealer(acc.DealerCode, false)
	httpx.JSON(w, http.StatusOK, acc)
}

func (h *Handler) isAdminLogin(code, pin string) bool {
	if h.admin.Code == "" || h.admin.PIN == "" {
		return false
	}
	codeOK := subtle.ConstantTimeCompare([]byte(code), []byte(h.admin.Code)) == 1
	pinOK := subtle.ConstantTimeCompare([]byte(pin), []byte(h.admin.PIN)) == 1
	return codeOK && pinOK
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	acc, err := h.service.Account(r.Context(), sess.DealerCode())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, acc)
}

func (h *Handler) handleListOwnUpdates(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	updates, err := h.service.UpdatesFor(r.Context(), sess.DealerCode())
	if err != nil {
		h.logger.Error("list own updates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updates": updates})
}

func (h *Handler) handleSubmitUpdate(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	section := Section(chi.URLParam(r, "section"))
	if !ValidSection(section) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Section", "section must be profile, bank or rates")
		return
	}
	payload, err := httpx.ReadBody(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	req, err := h.service.SubmitUpdate(r.Context(), sess.DealerCode(), section, payload)
	if err != nil {
		h.logger.Warn("submit update", slog.String("section", string(section)), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusAccepted, req)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context())
	if err != nil {
		h.logger.Error("dealer summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) handleListDealers(w http.ResponseWriter, r *http.Request) {
	dealers, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list dealers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"dealers": dealers})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	code := chi.URLParam(r, "code")
	acc, err := h.service.Approve(r.Context(), code, sess.DealerCode())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, acc)
}

func (h *Handler) handleBlock(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	code := chi.URLParam(r, "code")
	if err := h.service.Block(r.Context(), code, sess.DealerCode()); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"dealer_code": code, "status": StatusDisabled})
}

func (h *Handler) handleListPendingUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.service.PendingUpdates(r.Context())
	if err != nil {
		h.logger.Error("list pending updates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updates": updates})
}

func (h *Handler) handleDecideUpdate(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		code := chi.URLParam(r, "code")
		section := Section(chi.URLParam(r, "section"))

		pending, err := h.service.PendingUpdate(r.Context(), code, section)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		var decided *UpdateRequest
		if approve {
			decided, err = h.service.ApproveUpdate(r.Context(), pending.ID, sess.DealerCode())
		} else {
			decided, err = h.service.RejectUpdate(r.Context(), pending.ID, sess.DealerCode())
		}
		if err != nil {
			h.logger.Error("decide update", slog.String("section", string(section)), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, decided)
	}
}
