package records

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gasdesk/gasdesk/internal/shared"
)

// ErrNoSnapshot indicates the dealer has not uploaded a file yet.
var ErrNoSnapshot = errors.New("records: no uploaded data")

// FilterOptions are the unique observed values per filterable column,
// in first-seen order. Dropdowns are built from these plus the All
// sentinel; a stale selection after a re-upload simply matches nothing.
type FilterOptions struct {
	EKYCStatuses         []string `json:"ekyc_statuses"`
	DeliveryAreas        []string `json:"delivery_areas"`
	ConsumerNatures      []string `json:"consumer_natures"`
	MobileStatuses       []string `json:"mobile_statuses"`
	ConsumerTypes        []string `json:"consumer_types"`
	ConnectionTypes      []string `json:"connection_types"`
	OnlineRefillStatuses []string `json:"online_refill_statuses"`
	OrderStatuses        []string `json:"order_statuses"`
	OrderSources         []string `json:"order_sources"`
	OrderTypes           []string `json:"order_types"`
	CashMemoStatuses     []string `json:"cash_memo_statuses"`
	DeliveryMen          []string `json:"delivery_men"`
	RegMobileStatuses    []string `json:"reg_mobile_statuses"`
}

type cachedOptions struct {
	snapshotID string
	options    FilterOptions
}

// Service keeps each dealer's current snapshot in memory and answers
// filtered, paginated views over it. Snapshots are replaced atomically on
// upload and discarded on process restart; nothing here touches storage.
type Service struct {
	logger *slog.Logger

	mu        sync.RWMutex
	snapshots map[string]*Snapshot

	optionsGroup singleflight.Group
	optionsMu    sync.Mutex
	options      map[string]cachedOptions
}

// NewService constructs a Service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger:    logger,
		snapshots: make(map[string]*Snapshot),
		options:   make(map[string]cachedOptions),
	}
}

// Ingest parses an uploaded file and installs it as the dealer's snapshot,
// replacing any previous one.
func (s *Service) Ingest(dealerCode, filename string, r io.Reader) (*Snapshot, error) {
	snap, err := Parse(filename, r)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshots[dealerCode] = snap
	s.mu.Unlock()

	s.logger.Info("snapshot installed",
		slog.String("dealer", dealerCode),
		slog.String("file", filename),
		slog.Int("records", len(snap.Records)))
	return snap, nil
}

// Snapshot returns the dealer's current snapshot.
func (s *Service) Snapshot(dealerCode string) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.snapshots[dealerCode]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// List applies the filter pipeline and returns one page plus pagination
// metadata. The page number is clamped into the valid range so a filter
// change that shrinks the result set still renders a page.
func (s *Service) List(dealerCode string, state FilterState, page, perPage int) ([]Record, shared.Pagination, error) {
	snap, err := s.Snapshot(dealerCode)
	if err != nil {
		return nil, shared.Pagination{}, err
	}

	filtered := Apply(snap.Records, state)
	meta := shared.NewPagination(page, perPage, len(filtered))
	if meta.TotalPages > 0 && meta.Page > meta.TotalPages {
		meta.Page = meta.TotalPages
	}
	return Page(filtered, meta.PerPage, meta.Page), meta, nil
}

// SelectByConsumerNo returns the structurally valid records whose consumer
// numbers appear in nos, preserving snapshot order. Used when composing
// cash memos for printing.
func (s *Service) SelectByConsumerNo(dealerCode string, nos []string) ([]Record, error) {
	snap, err := s.Snapshot(dealerCode)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(nos))
	for _, no := range nos {
		wanted[no] = struct{}{}
	}
	var out []Record
	for _, r := range snap.Records {
		if !ValidConsumerNo(r) {
			continue
		}
		if _, ok := wanted[r.Field(ColConsumerNo)]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// Options returns the filter option sets for the dealer's snapshot.
// Concurrent requests for the same snapshot share one computation.
func (s *Service) Options(dealerCode string) (FilterOptions, error) {
	snap, err := s.Snapshot(dealerCode)
	if err != nil {
		return FilterOptions{}, err
	}

	s.optionsMu.Lock()
	if c, ok := s.options[dealerCode]; ok && c.snapshotID == snap.ID {
		s.optionsMu.Unlock()
		return c.options, nil
	}
	s.optionsMu.Unlock()

	v, err, _ := s.optionsGroup.Do(dealerCode+"/"+snap.ID, func() (any, error) {
		opts := collectOptions(snap.Records)
		s.optionsMu.Lock()
		s.options[dealerCode] = cachedOptions{snapshotID: snap.ID, options: opts}
		s.optionsMu.Unlock()
		return opts, nil
	})
	if err != nil {
		return FilterOptions{}, err
	}
	return v.(FilterOptions), nil
}

func collectOptions(recs []Record) FilterOptions {
	var opts FilterOptions
	opts.EKYCStatuses = uniqueValues(recs, ColEKYCStatus)
	opts.DeliveryAreas = uniqueValues(recs, ColDeliveryArea)
	opts.ConsumerNatures = uniqueValues(recs, ColConsumerNature)
	opts.ConsumerTypes = uniqueValues(recs, ColConsumerType)
	opts.ConnectionTypes = uniqueValues(recs, ColConsumerPackage)
	opts.OnlineRefillStatuses = uniqueValues(recs, ColOnlineRefillStatus)
	opts.OrderStatuses = uniqueValues(recs, ColOrderStatus)
	opts.OrderSources = uniqueValues(recs, ColOrderSource)
	opts.OrderTypes = uniqueValues(recs, ColOrderType)
	opts.CashMemoStatuses = uniqueValues(recs, ColCashMemoStatus)
	opts.DeliveryMen = uniqueValues(recs, ColDeliveryMan)
	opts.MobileStatuses = derivedValues(recs, ColMobileNo, MobileAvailable, MobileNotAvailable)
	opts.RegMobileStatuses = derivedValues(recs, ColIsRegMobile, RegMobileYes, RegMobileNo)
	return opts
}

func uniqueValues(recs []Record, col string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recs {
		v := r.Field(col)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func derivedValues(recs []Record, col, present, absent string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range recs {
		v := absent
		if r.Present(col) {
			v = present
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
