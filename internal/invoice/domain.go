package invoice

import (
	"github.com/shopspring/decimal"
)

// RateEntry is one row of a dealer's price list. RSP is the tax-inclusive
// retail selling price; BasicPrice is derived from it and never accepted
// from callers.
type RateEntry struct {
	Code        string          `json:"code"`
	HSNCode     string          `json:"hsn_code"`
	Item        string          `json:"item"`
	BasicPrice  decimal.Decimal `json:"basic_price"`
	SGSTPercent decimal.Decimal `json:"sgst_percent"`
	CGSTPercent decimal.Decimal `json:"cgst_percent"`
	RSP         decimal.Decimal `json:"rsp"`
}

// WithDerivedBasic returns the entry with BasicPrice recomputed as
// RSP / (1 + (SGST+CGST)/100), rounded to two places. A non-positive GST
// factor yields a zero basic price.
func (r RateEntry) WithDerivedBasic() RateEntry {
	factor := gstFactor(r.SGSTPercent, r.CGSTPercent)
	if factor.IsPositive() {
		r.BasicPrice = r.RSP.Div(factor).Round(2)
	} else {
		r.BasicPrice = decimal.Zero
	}
	return r
}

func gstFactor(sgst, cgst decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(sgst.Add(cgst).Div(decimal.NewFromInt(100)))
}

// Line is one operator-entered invoice line draft. CustomRate, when set,
// can override the rate table for retroactive invoices.
type Line struct {
	Item       string           `json:"item"`
	Quantity   decimal.Decimal  `json:"quantity"`
	CustomRate *decimal.Decimal `json:"custom_rate,omitempty"`
	Discount   decimal.Decimal  `json:"discount"`
}

// ComputedLine carries a line's derived amounts. RateMatched is false when
// the item had no rate entry; such lines compute as zero but still count
// toward the invoice totals, and the flag lets callers tell "legitimately
// free" apart from "lookup failed".
type ComputedLine struct {
	Item          string          `json:"item"`
	HSNCode       string          `json:"hsn_code"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitRate      decimal.Decimal `json:"unit_rate"`
	Discount      decimal.Decimal `json:"discount"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	SGSTPercent   decimal.Decimal `json:"sgst_percent"`
	CGSTPercent   decimal.Decimal `json:"cgst_percent"`
	SGSTAmount    decimal.Decimal `json:"sgst_amount"`
	CGSTAmount    decimal.Decimal `json:"cgst_amount"`
	Total         decimal.Decimal `json:"total"`
	RateMatched   bool            `json:"rate_matched"`
}

// Totals aggregates an invoice's computed lines.
type Totals struct {
	Lines         []ComputedLine  `json:"lines"`
	TaxableTotal  decimal.Decimal `json:"taxable_total"`
	SGSTTotal     decimal.Decimal `json:"sgst_total"`
	CGSTTotal     decimal.Decimal `json:"cgst_total"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	RoundOff      decimal.Decimal `json:"round_off"`
	PayableTotal  decimal.Decimal `json:"payable_total"`
	AmountInWords string          `json:"amount_in_words"`
}
