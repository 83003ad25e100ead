package records

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterAll is the sentinel meaning "do not restrict on this field".
const FilterAll = "All"

// Derived filter values.
const (
	MobileAvailable    = "Available"
	MobileNotAvailable = "Not Available"
	RegMobileYes       = "Yes"
	RegMobileNo        = "No"
)

// DateRange is an inclusive calendar-day range. It is active only when
// both bounds are set; a half-specified range matches everything.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Active reports whether the range restricts anything.
func (r DateRange) Active() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Contains reports whether t falls inside the range, all three values
// truncated to midnight first.
func (r DateRange) Contains(t time.Time) bool {
	day := DayOf(t)
	return !day.Before(DayOf(r.From)) && !day.After(DayOf(r.To))
}

// FilterState is the complete set of selections applied to a record set.
// The zero value is not useful; build one with DefaultFilterState so every
// dropdown starts at the All sentinel.
type FilterState struct {
	Search string

	EKYCStatus          string
	DeliveryArea        string
	ConsumerNature      string
	MobileStatus        string
	ConsumerType        string
	ConnectionType      string
	OnlineRefillPayment string
	OrderStatus         string
	OrderSource         string
	OrderType           string
	CashMemoStatus      string
	DeliveryMan         string
	RegMobile           string

	OrderDate    DateRange
	CashMemoDate DateRange

	SortBy   string
	SortDesc bool
}

// DefaultFilterState returns a state that matches every structurally valid
// record: all dropdowns at the sentinel, no search, no ranges, no sort.
func DefaultFilterState() FilterState {
	return FilterState{
		EKYCStatus:          FilterAll,
		DeliveryArea:        FilterAll,
		ConsumerNature:      FilterAll,
		MobileStatus:        FilterAll,
		ConsumerType:        FilterAll,
		ConnectionType:      FilterAll,
		OnlineRefillPayment: FilterAll,
		OrderStatus:         FilterAll,
		OrderSource:         FilterAll,
		OrderType:           FilterAll,
		CashMemoStatus:      FilterAll,
		DeliveryMan:         FilterAll,
		RegMobile:           FilterAll,
	}
}

var consumerNoPattern = regexp.MustCompile(`^\d{6}$`)

// ValidConsumerNo reports whether a record passes the structural gate:
// a Consumer No. of exactly six digits. Records failing it are excluded
// from every downstream view, including select-all and printing.
func ValidConsumerNo(r Record) bool {
	return consumerNoPattern.MatchString(r.Field(ColConsumerNo))
}

// Apply runs the filter pipeline over records and returns the surviving
// rows, sorted when a sort field is set. The input slice is never
// mutated; relative order is preserved except by the final stable sort.
func Apply(records []Record, state FilterState) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if ValidConsumerNo(r) {
			out = append(out, r)
		}
	}

	if term := strings.ToLower(strings.TrimSpace(state.Search)); term != "" {
		out = keep(out, func(r Record) bool {
			for col := range r {
				if strings.Contains(strings.ToLower(r.Field(col)), term) {
					return true
				}
			}
			return false
		})
	}

	for _, eq := range []struct {
		col   string
		value string
	}{
		{ColEKYCStatus, state.EKYCStatus},
		{ColDeliveryArea, state.DeliveryArea},
		{ColConsumerNature, state.ConsumerNature},
		{ColConsumerType, state.ConsumerType},
		{ColConsumerPackage, state.ConnectionType},
		{ColOnlineRefillStatus, state.OnlineRefillPayment},
		{ColOrderStatus, state.OrderStatus},
		{ColOrderSource, state.OrderSource},
		{ColOrderType, state.OrderType},
		{ColCashMemoStatus, state.CashMemoStatus},
		{ColDeliveryMan, state.DeliveryMan},
	} {
		if eq.value == FilterAll || eq.value == "" {
			continue
		}
		col, want := eq.col, eq.value
		out = keep(out, func(r Record) bool { return r.Field(col) == want })
	}

	if state.MobileStatus != FilterAll && state.MobileStatus != "" {
		wantPresent := state.MobileStatus == MobileAvailable
		out = keep(out, func(r Record) bool { return r.Present(ColMobileNo) == wantPresent })
	}
	if state.RegMobile != FilterAll && state.RegMobile != "" {
		wantPresent := state.RegMobile == RegMobileYes
		out = keep(out, func(r Record) bool { return r.Present(ColIsRegMobile) == wantPresent })
	}

	if state.OrderDate.Active() {
		out = keep(out, func(r Record) bool {
			t, ok := r.Date(ColOrderDate)
			return ok && state.OrderDate.Contains(t)
		})
	}
	if state.CashMemoDate.Active() {
		out = keep(out, func(r Record) bool {
			t, ok := r.Date(ColCashMemoDate)
			return ok && state.CashMemoDate.Contains(t)
		})
	}

	if state.SortBy != "" {
		sortRecords(out, state.SortBy, state.SortDesc)
	}
	return out
}

func keep(records []Record, pred func(Record) bool) []Record {
	out := records[:0]
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// sortRecords sorts in place, stably. Missing values go last ascending and
// first descending. Columns with "Date" in the name compare by parsed
// timestamp; strings use locale-aware collation; numbers compare
// numerically; mixed or incomparable pairs keep their relative order.
func sortRecords(records []Record, col string, desc bool) {
	coll := collate.New(language.English)
	byDate := strings.Contains(col, "Date")

	sort.SliceStable(records, func(i, j int) bool {
		a, aOK := records[i][col]
		b, bOK := records[j][col]
		if !aOK || a == nil || !bOK || b == nil {
			if (aOK && a != nil) == (bOK && b != nil) {
				return false
			}
			// The record with a value wins ascending order.
			less := aOK && a != nil
			if desc {
				return !less
			}
			return less
		}

		cmp := 0
		switch {
		case byDate:
			at, aok := ParseCell(a)
			bt, bok := ParseCell(b)
			if aok && bok {
				switch {
				case at.Before(bt):
					cmp = -1
				case at.After(bt):
					cmp = 1
				}
			}
		default:
			as, aIsStr := a.(string)
			bs, bIsStr := b.(string)
			an, aIsNum := a.(float64)
			bn, bIsNum := b.(float64)
			switch {
			case aIsStr && bIsStr:
				cmp = coll.CompareString(as, bs)
			case aIsNum && bIsNum:
				switch {
				case an < bn:
					cmp = -1
				case an > bn:
					cmp = 1
				}
			}
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
