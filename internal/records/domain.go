package records

import (
	"strconv"
	"time"
)

// Column names recognised by the filter pipeline. Uploaded files may carry
// any number of additional columns; those are searchable and sortable but
// have no dedicated filter.
const (
	ColConsumerNo         = "Consumer No."
	ColConsumerName       = "Consumer Name"
	ColOrderDate          = "Order Date"
	ColCashMemoDate       = "Cash Memo Date"
	ColEKYCStatus         = "EKYC Status"
	ColDeliveryArea       = "Delivery Area"
	ColConsumerNature     = "Consumer Nature"
	ColMobileNo           = "Mobile No."
	ColConsumerType       = "Consumer Type"
	ColConsumerPackage    = "Consumer Package"
	ColOnlineRefillStatus = "Online Refill Payment status"
	ColOrderStatus        = "Order Status"
	ColOrderSource        = "Order Source"
	ColOrderType          = "Order Type"
	ColCashMemoStatus     = "Cash Memo Status"
	ColDeliveryMan        = "Delivery Man"
	ColIsRegMobile        = "Is Reg Mobile"
)

// Record is one uploaded row: a mapping from column name to a string or
// float64 value. Absent columns are simply missing keys. Records are
// created in bulk by the ingest step and never mutated afterwards.
type Record map[string]any

// Field returns the string form of a cell. Numbers are rendered without
// an exponent so consumer numbers and mobile numbers survive intact.
func (r Record) Field(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// Present reports whether a cell holds a usable value. Empty strings and
// zero numbers count as absent, matching the derived Available/Not
// Available and Yes/No filters.
func (r Record) Present(col string) bool {
	v, ok := r[col]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return false
	}
}

// Date returns the normalised calendar date held in a cell, if any.
func (r Record) Date(col string) (time.Time, bool) {
	v, ok := r[col]
	if !ok {
		return time.Time{}, false
	}
	return ParseCell(v)
}

// DisplayField renders a cell the way the record table does: date columns
// are normalised to DD-MM-YYYY and the online refill payment column
// collapses to PAID or COD.
func (r Record) DisplayField(col string) string {
	switch col {
	case ColOrderDate, ColCashMemoDate:
		if t, ok := r.Date(col); ok {
			return FormatDDMMYYYY(t)
		}
		return ""
	case ColOnlineRefillStatus:
		if r.Field(col) == "PAID" {
			return "PAID"
		}
		return "COD"
	default:
		return r.Field(col)
	}
}

// DefaultVisibleColumns is the column set shown after an upload, in order,
// restricted to columns actually present in the file.
var DefaultVisibleColumns = []string{
	ColConsumerNo,
	ColConsumerName,
	ColDeliveryArea,
	ColMobileNo,
	ColOrderDate,
	ColCashMemoDate,
	ColOnlineRefillStatus,
	ColEKYCStatus,
}
