package records

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gasdesk/gasdesk/internal/platform/httpx"
	"github.com/gasdesk/gasdesk/internal/shared"
)

// maxUploadBytes caps spreadsheet uploads at 20 MB.
const maxUploadBytes = 20 << 20

// Handler manages the uploaded-record endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers record routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/records/upload", h.handleUpload)
	r.Get("/records", h.handleList)
	r.Get("/records/options", h.handleOptions)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	dealerCode := shared.DealerCodeFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "multipart form expected")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", "missing file field")
		return
	}
	defer file.Close()

	snap, err := h.service.Ingest(dealerCode, header.Filename, file)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			httpx.Problem(w, http.StatusUnsupportedMediaType, "Unsupported Format", "upload a .csv or .xlsx file")
			return
		}
		h.logger.Error("ingest upload", slog.String("filename", header.Filename), slog.Any("error", err))
		httpx.Problem(w, http.StatusBadRequest, "Invalid Upload", err.Error())
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"snapshot_id":     snap.ID,
		"uploaded_at":     snap.UploadedAt,
		"record_count":    len(snap.Records),
		"headers":         snap.Headers,
		"visible_headers": snap.VisibleHeaders,
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	dealerCode := shared.DealerCodeFromContext(r.Context())

	state, err := filterStateFromQuery(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	recs, meta, err := h.service.List(dealerCode, state, page, perPage)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("list records", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	rows := make([]map[string]string, len(recs))
	for i, rec := range recs {
		row := make(map[string]string, len(rec))
		for col := range rec {
			row[col] = rec.DisplayField(col)
		}
		rows[i] = row
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"records":    rows,
		"pagination": meta,
	})
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(shared.DealerCodeFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			httpx.RespondError(w, httpx.ErrNotFound)
			return
		}
		h.logger.Error("filter options", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, opts)
}

// filterStateFromQuery builds a FilterState from the request query. Absent
// parameters keep their defaults, so a bare GET /records lists everything.
func filterStateFromQuery(r *http.Request) (FilterState, error) {
	q := r.URL.Query()
	state := DefaultFilterState()

	state.Search = q.Get("search")
	for param, field := range map[string]*string{
		"ekyc_status":           &state.EKYCStatus,
		"delivery_area":         &state.DeliveryArea,
		"consumer_nature":       &state.ConsumerNature,
		"mobile_status":         &state.MobileStatus,
		"consumer_type":         &state.ConsumerType,
		"connection_type":       &state.ConnectionType,
		"online_refill_payment": &state.OnlineRefillPayment,
		"order_status":          &state.OrderStatus,
		"order_source":          &state.OrderSource,
		"order_type":            &state.OrderType,
		"cash_memo_status":      &state.CashMemoStatus,
		"delivery_man":          &state.DeliveryMan,
		"reg_mobile":            &state.RegMobile,
	} {
		if v := q.Get(param); v != "" {
			*field = v
		}
	}

	var err error
	if state.OrderDate, err = rangeFromQuery(q.Get("order_date_from"), q.Get("order_date_to")); err != nil {
		return state, err
	}
	if state.CashMemoDate, err = rangeFromQuery(q.Get("cash_memo_date_from"), q.Get("cash_memo_date_to")); err != nil {
		return state, err
	}

	state.SortBy = q.Get("sort_by")
	state.SortDesc = q.Get("sort_dir") == "desc"
	return state, nil
}

func rangeFromQuery(from, to string) (DateRange, error) {
	var rng DateRange
	var err error
	if from != "" {
		if rng.From, err = time.Parse("2006-01-02", from); err != nil {
			return rng, errors.New("date range bounds must be YYYY-MM-DD")
		}
	}
	if to != "" {
		if rng.To, err = time.Parse("2006-01-02", to); err != nil {
			return rng, errors.New("date range bounds must be YYYY-MM-DD")
		}
	}
	return rng, nil
}
