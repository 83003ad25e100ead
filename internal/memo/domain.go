package memo

import (
	"errors"
	"strconv"

	"github.com/gasdesk/gasdesk/internal/records"
)

// PageType selects the print layout: how many memos share one sheet.
type PageType string

const (
	PageA4Three   PageType = "A4 3 Cashmemo/Page"
	PageLegalFour PageType = "Legal 4 Cashmemo/Page"
)

// ErrUnknownPageType is returned for page types outside the two layouts.
var ErrUnknownPageType = errors.New("memo: unknown page type")

// GroupSize returns how many memos fit on one printed page.
func (p PageType) GroupSize() (int, error) {
	switch p {
	case PageA4Three:
		return 3, nil
	case PageLegalFour:
		return 4, nil
	default:
		return 0, ErrUnknownPageType
	}
}

// DealerHeader is the distributor block printed on every memo.
type DealerHeader struct {
	Name      string
	GSTN      string
	Address   string
	Email     string
	Telephone string
}

// Memo is one cash memo: a distributor copy and a tax invoice composed
// from a single uploaded record.
type Memo struct {
	Dealer DealerHeader

	ConsumerName     string
	ConsumerNo       string
	LPGID            string
	Address          string
	MobileNo         string
	DeliveryArea     string
	DeliveryStaff    string
	ProductName      string
	HSN              string
	Quantity         string
	OrderNo          string
	OrderRefNo       string
	OrderDate        string
	OrderSource      string
	OrderStatus      string
	CashMemoNo       string
	CashMemoDate     string
	DeliveryDate     string
	LastDeliveryDate string
	ConsumerCategory string
	ConnectionType   string
	CTCStatus        string
	RefillType       string
	SubsidyConsumed  string
	HoseExpiry       string
	SafetyCheck      string
	EKYC             string
	PaymentType      string
	SalesType        string

	BasePrice       string
	DeliveryCharges string
	CashCarryRebate string
	TaxableAmount   string
	CGST            string
	SGST            string
	TotalAmount     string
	AdvancePaid     string
	NetPayable      string
}

// Document is a print run: memos grouped into pages by the layout.
type Document struct {
	PageType PageType
	Pages    [][]Memo
}

// Count returns the number of memos across all pages.
func (d *Document) Count() int {
	n := 0
	for _, page := range d.Pages {
		n += len(page)
	}
	return n
}

// Compose builds one memo from an uploaded record and the dealer header.
func Compose(header DealerHeader, rec records.Record) Memo {
	return Memo{
		Dealer: header,

		ConsumerName:     rec.Field("Consumer Name"),
		ConsumerNo:       rec.Field("Consumer No."),
		LPGID:            rec.Field("LPG ID"),
		Address:          rec.Field("Address"),
		MobileNo:         rec.Field("Mobile No."),
		DeliveryArea:     rec.Field("Delivery Area"),
		DeliveryStaff:    rec.Field("Delivery Staff"),
		ProductName:      rec.Field("Product Name"),
		HSN:              rec.Field("HSN"),
		Quantity:         rec.Field("Quantity"),
		OrderNo:          rec.Field("Order No."),
		OrderRefNo:       rec.Field("Order Ref No."),
		OrderDate:        dateField(rec, "Order Date"),
		OrderSource:      rec.Field("Order Source"),
		OrderStatus:      rec.Field("Order Status"),
		CashMemoNo:       rec.Field("Cash Memo No."),
		CashMemoDate:     dateField(rec, "Cash Memo Date"),
		DeliveryDate:     dateField(rec, "Delivery Date"),
		LastDeliveryDate: dateField(rec, "Last Delivery Date"),
		ConsumerCategory: rec.Field("Consumer Category"),
		ConnectionType:   rec.Field("Connection Type"),
		CTCStatus:        rec.Field("CTC Status"),
		RefillType:       rec.Field("Refill Type"),
		SubsidyConsumed:  rec.Field("Subsidy Consumed"),
		HoseExpiry:       dateField(rec, "Hose Expiry"),
		SafetyCheck:      rec.Field("Safety Check"),
		EKYC:             rec.Field("E-KYC"),
		PaymentType:      rec.Field("Payment Type"),
		SalesType:        rec.Field("Sales Type"),

		BasePrice:       moneyField(rec, "Base Price (₹)"),
		DeliveryCharges: moneyField(rec, "Delivery Charges (₹)"),
		CashCarryRebate: moneyField(rec, "Cash & Carry Rebate (₹)"),
		TaxableAmount:   moneyField(rec, "Taxable Amount (₹)"),
		CGST:            moneyField(rec, "CGST (2.50%) (₹)"),
		SGST:            moneyField(rec, "SGST (2.50%) (₹)"),
		TotalAmount:     moneyField(rec, "Total Amount (₹)"),
		AdvancePaid:     moneyField(rec, "Advance Paid (Online) (₹)"),
		NetPayable:      moneyField(rec, "Net Payable (₹)"),
	}
}

// dateField prints a date cell as DD-MM-YYYY when it parses, otherwise
// the raw cell text.
func dateField(rec records.Record, col string) string {
	if t, ok := rec.Date(col); ok {
		return records.FormatDDMMYYYY(t)
	}
	return rec.Field(col)
}

// moneyField formats a money column to two decimals; missing or
// non-numeric cells print as 0.00, matching the memo layout.
func moneyField(rec records.Record, col string) string {
	f, err := strconv.ParseFloat(rec.Field(col), 64)
	if err != nil {
		return "0.00"
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Paginate splits memos into print pages of the layout's group size.
func Paginate(memos []Memo, pageType PageType) (*Document, error) {
	size, err := pageType.GroupSize()
	if err != nil {
		return nil, err
	}
	doc := &Document{PageType: pageType}
	for start := 0; start < len(memos); start += size {
		end := start + size
		if end > len(memos) {
			end = len(memos)
		}
		doc.Pages = append(doc.Pages, memos[start:end])
	}
	return doc, nil
}
