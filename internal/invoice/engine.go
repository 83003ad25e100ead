package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputeLine derives the amounts for a single draft line against a rate
// list. The unit rate is the matched entry's RSP; a custom rate overrides
// it only when the invoice is dated strictly before today, since historic
// rates are not tracked and retroactive invoices need the rate that was in
// effect back then. The function is total: unmatched items compute as zero
// with RateMatched false.
func ComputeLine(rates []RateEntry, line Line, invoiceDate, today time.Time) ComputedLine {
	out := ComputedLine{
		Item:     line.Item,
		Quantity: line.Quantity,
	}

	var rate RateEntry
	for _, r := range rates {
		if r.Item == line.Item {
			rate = r
			out.RateMatched = true
			break
		}
	}
	out.HSNCode = rate.HSNCode
	out.SGSTPercent = rate.SGSTPercent
	out.CGSTPercent = rate.CGSTPercent

	out.UnitRate = rate.RSP
	if line.CustomRate != nil && beforeDay(invoiceDate, today) {
		out.UnitRate = *line.CustomRate
	}

	gross := out.UnitRate.Mul(line.Quantity)
	discount := line.Discount
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(gross) {
		discount = gross
	}
	out.Discount = discount

	discounted := gross.Sub(discount)
	factor := gstFactor(rate.SGSTPercent, rate.CGSTPercent)
	if factor.IsZero() {
		out.TaxableAmount = discounted.Round(2)
	} else {
		out.TaxableAmount = discounted.Div(factor).Round(2)
	}
	hundred := decimal.NewFromInt(100)
	out.SGSTAmount = out.TaxableAmount.Mul(rate.SGSTPercent).Div(hundred).Round(2)
	out.CGSTAmount = out.TaxableAmount.Mul(rate.CGSTPercent).Div(hundred).Round(2)
	out.Total = discounted.Round(2)
	return out
}

// ComputeInvoice runs every draft line through ComputeLine and aggregates.
// The payable total is the line-total sum rounded to the nearest whole
// rupee, with the adjustment surfaced as RoundOff.
func ComputeInvoice(rates []RateEntry, lines []Line, invoiceDate, today time.Time) Totals {
	t := Totals{Lines: make([]ComputedLine, 0, len(lines))}
	for _, line := range lines {
		cl := ComputeLine(rates, line, invoiceDate, today)
		t.Lines = append(t.Lines, cl)
		t.TaxableTotal = t.TaxableTotal.Add(cl.TaxableAmount)
		t.SGSTTotal = t.SGSTTotal.Add(cl.SGSTAmount)
		t.CGSTTotal = t.CGSTTotal.Add(cl.CGSTAmount)
		t.SubTotal = t.SubTotal.Add(cl.Total)
	}
	t.RoundOff = t.SubTotal.Round(0).Sub(t.SubTotal)
	t.PayableTotal = t.SubTotal.Add(t.RoundOff)
	t.AmountInWords = AmountInWords(t.PayableTotal)
	return t
}

func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	aDay := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bDay := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return aDay.Before(bDay)
}
