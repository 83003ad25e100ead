package records

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestRecordsService() *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const serviceCSV = `Consumer No.,Consumer Name,Mobile No.,Order Status,Delivery Area
100001,Asha Traders,9876543210,Delivered,North
100002,Binod Stores,,Pending,South
100003,Chandra Gas,9812345678,Delivered,North
bad-no,Broken Row,123,Delivered,North
`

func ingestSample(t *testing.T, svc *Service, dealer string) *Snapshot {
	t.Helper()
	snap, err := svc.Ingest(dealer, "export.csv", strings.NewReader(serviceCSV))
	require.NoError(t, err)
	return snap
}

func TestServiceListWithoutSnapshot(t *testing.T) {
	svc := newTestRecordsService()
	_, _, err := svc.List("HP0001", DefaultFilterState(), 1, 25)
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestServiceListFiltersAndPaginates(t *testing.T) {
	svc := newTestRecordsService()
	ingestSample(t, svc, "HP0001")

	state := DefaultFilterState()
	state.OrderStatus = "Delivered"

	recs, meta, err := svc.List("HP0001", state, 1, 25)
	require.NoError(t, err)
	require.Len(t, recs, 2, "structurally invalid row never surfaces")
	require.Equal(t, 2, meta.Total)
	require.Equal(t, 1, meta.TotalPages)
}

func TestServiceListClampsPage(t *testing.T) {
	svc := newTestRecordsService()
	ingestSample(t, svc, "HP0001")

	recs, meta, err := svc.List("HP0001", DefaultFilterState(), 99, 25)
	require.NoError(t, err)
	require.Equal(t, 1, meta.Page)
	require.Len(t, recs, 3)
}

func TestServiceSnapshotIsolatedPerDealer(t *testing.T) {
	svc := newTestRecordsService()
	ingestSample(t, svc, "HP0001")

	_, err := svc.Snapshot("HP0002")
	require.ErrorIs(t, err, ErrNoSnapshot)
}

func TestServiceReuploadReplacesSnapshot(t *testing.T) {
	svc := newTestRecordsService()
	first := ingestSample(t, svc, "HP0001")

	second, err := svc.Ingest("HP0001", "export.csv",
		strings.NewReader("Consumer No.,Consumer Name\n100009,New Only\n"))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	recs, _, err := svc.List("HP0001", DefaultFilterState(), 1, 25)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, "100009", recs[0].Field(ColConsumerNo))
}

func TestServiceSelectByConsumerNo(t *testing.T) {
	svc := newTestRecordsService()
	ingestSample(t, svc, "HP0001")

	recs, err := svc.SelectByConsumerNo("HP0001", []string{"100003", "100001", "bad-no"})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Snapshot order wins over request order.
	require.Equal(t, "100001", recs[0].Field(ColConsumerNo))
	require.Equal(t, "100003", recs[1].Field(ColConsumerNo))
}

func TestServiceOptions(t *testing.T) {
	svc := newTestRecordsService()
	ingestSample(t, svc, "HP0001")

	opts, err := svc.Options("HP0001")
	require.NoError(t, err)
	require.Equal(t, []string{"Delivered", "Pending"}, opts.OrderStatuses)
	require.Equal(t, []string{"North", "South"}, opts.DeliveryAreas)
	require.Equal(t, []string{MobileAvailable, MobileNotAvailable}, opts.MobileStatuses)
}

func TestServiceOptionsRecomputedAfterReupload(t *testing.T) {
	svc := newTestRecordsService()
	ingestSample(t, svc, "HP0001")

	_, err := svc.Options("HP0001")
	require.NoError(t, err)

	_, err = svc.Ingest("HP0001", "export.csv",
		strings.NewReader("Consumer No.,Order Status\n100009,Cancelled\n"))
	require.NoError(t, err)

	opts, err := svc.Options("HP0001")
	require.NoError(t, err)
	require.Equal(t, []string{"Cancelled"}, opts.OrderStatuses)
}
