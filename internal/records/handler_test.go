package records

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/gasdesk/gasdesk/internal/shared"
)

func dealerRequest(t *testing.T, req *http.Request, dealerCode string) *http.Request {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetDealer(dealerCode, false)
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestHandleUploadAndList(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger)
	h := NewHandler(logger, svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(serviceCSV))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/records/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = dealerRequest(t, req, "HP0001")
	res := httptest.NewRecorder()
	h.handleUpload(res, req)

	require.Equal(t, http.StatusCreated, res.Code)
	var uploaded struct {
		RecordCount int      `json:"record_count"`
		Headers     []string `json:"headers"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &uploaded))
	require.Equal(t, 4, uploaded.RecordCount)
	require.Contains(t, uploaded.Headers, ColConsumerNo)

	listReq := httptest.NewRequest(http.MethodGet, "/records?order_status=Delivered&sort_by=Consumer+Name&sort_dir=desc", nil)
	listReq = dealerRequest(t, listReq, "HP0001")
	listRes := httptest.NewRecorder()
	h.handleList(listRes, listReq)

	require.Equal(t, http.StatusOK, listRes.Code)
	var listed struct {
		Records    []map[string]string `json:"records"`
		Pagination shared.Pagination   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(listRes.Body.Bytes(), &listed))
	require.Len(t, listed.Records, 2)
	require.Equal(t, "Chandra Gas", listed.Records[0]["Consumer Name"])
	require.Equal(t, 2, listed.Pagination.Total)
}

func TestHandleUploadRejectsUnknownFormat(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(logger))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/records/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = dealerRequest(t, req, "HP0001")
	res := httptest.NewRecorder()
	h.handleUpload(res, req)

	require.Equal(t, http.StatusUnsupportedMediaType, res.Code)
}

func TestHandleListWithoutUpload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(logger, NewService(logger))

	req := dealerRequest(t, httptest.NewRequest(http.MethodGet, "/records", nil), "HP0001")
	res := httptest.NewRecorder()
	h.handleList(res, req)

	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestFilterStateFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/records?search=asha&delivery_area=North&order_date_from=2024-03-01&order_date_to=2024-03-31&sort_by=Order+Date", nil)

	state, err := filterStateFromQuery(req)
	require.NoError(t, err)
	require.Equal(t, "asha", state.Search)
	require.Equal(t, "North", state.DeliveryArea)
	require.Equal(t, FilterAll, state.OrderStatus, "untouched dropdowns stay at the sentinel")
	require.True(t, state.OrderDate.Active())
	require.False(t, state.CashMemoDate.Active())
	require.Equal(t, "Order Date", state.SortBy)
	require.False(t, state.SortDesc)
}

func TestFilterStateFromQueryBadDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/records?order_date_from=01-03-2024", nil)
	_, err := filterStateFromQuery(req)
	require.Error(t, err)
}
