package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testRates() []RateEntry {
	return []RateEntry{
		RateEntry{Code: "36", HSNCode: "36", Item: "14.2 KG NON-SUBSIDIZED CYLINDER",
			SGSTPercent: decimal.RequireFromString("2.5"),
			CGSTPercent: decimal.RequireFromString("2.5"),
			RSP:         decimal.NewFromInt(950)}.WithDerivedBasic(),
		RateEntry{Code: "64", HSNCode: "64", Item: "19 KG FILLED LPG CYLINDER",
			SGSTPercent: decimal.NewFromInt(9),
			CGSTPercent: decimal.NewFromInt(9),
			RSP:         decimal.NewFromInt(2007)}.WithDerivedBasic(),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeLineTaxBackCalculation(t *testing.T) {
	line := Line{
		Item:     "14.2 KG NON-SUBSIDIZED CYLINDER",
		Quantity: decimal.NewFromInt(1),
	}
	got := ComputeLine(testRates(), line, day(2024, 3, 15), day(2024, 3, 15))

	require.True(t, got.RateMatched)
	require.Equal(t, "904.76", got.TaxableAmount.StringFixed(2))
	require.Equal(t, "22.62", got.SGSTAmount.StringFixed(2))
	require.Equal(t, "22.62", got.CGSTAmount.StringFixed(2))
	require.Equal(t, "950.00", got.Total.StringFixed(2))
}

func TestComputeLineDiscountClamped(t *testing.T) {
	line := Line{
		Item:     "14.2 KG NON-SUBSIDIZED CYLINDER",
		Quantity: decimal.NewFromInt(1),
		Discount: decimal.NewFromInt(5000),
	}
	got := ComputeLine(testRates(), line, day(2024, 3, 15), day(2024, 3, 15))
	require.Equal(t, "950.00", got.Discount.StringFixed(2))
	require.True(t, got.Total.IsZero())

	line.Discount = decimal.NewFromInt(-10)
	got = ComputeLine(testRates(), line, day(2024, 3, 15), day(2024, 3, 15))
	require.True(t, got.Discount.IsZero())
	require.Equal(t, "950.00", got.Total.StringFixed(2))
}

func TestComputeLineCustomRateOnlyForBackdatedInvoices(t *testing.T) {
	custom := decimal.NewFromInt(920)
	line := Line{
		Item:       "14.2 KG NON-SUBSIDIZED CYLINDER",
		Quantity:   decimal.NewFromInt(1),
		CustomRate: &custom,
	}

	today := day(2024, 3, 15)
	sameDay := ComputeLine(testRates(), line, today, today)
	require.Equal(t, "950.00", sameDay.UnitRate.StringFixed(2))

	backdated := ComputeLine(testRates(), line, day(2024, 3, 10), today)
	require.Equal(t, "920.00", backdated.UnitRate.StringFixed(2))
}

func TestComputeLineUnmatchedItemIsTaggedZero(t *testing.T) {
	line := Line{Item: "NO SUCH ITEM", Quantity: decimal.NewFromInt(2)}
	got := ComputeLine(testRates(), line, day(2024, 3, 15), day(2024, 3, 15))
	require.False(t, got.RateMatched)
	require.True(t, got.UnitRate.IsZero())
	require.True(t, got.Total.IsZero())
}

func TestComputeInvoiceRoundOff(t *testing.T) {
	lines := []Line{
		{Item: "14.2 KG NON-SUBSIDIZED CYLINDER", Quantity: decimal.NewFromInt(1),
			Discount: decimal.RequireFromString("0.60")},
	}
	got := ComputeInvoice(testRates(), lines, day(2024, 3, 15), day(2024, 3, 15))

	require.Equal(t, "949.40", got.SubTotal.StringFixed(2))
	require.Equal(t, "-0.40", got.RoundOff.StringFixed(2))
	require.Equal(t, "949.00", got.PayableTotal.StringFixed(2))
	require.Equal(t, "Rupees Nine Hundred Forty Nine Only", got.AmountInWords)
}

func TestComputeInvoiceIncludesUnmatchedLines(t *testing.T) {
	lines := []Line{
		{Item: "14.2 KG NON-SUBSIDIZED CYLINDER", Quantity: decimal.NewFromInt(1)},
		{Item: "GHOST", Quantity: decimal.NewFromInt(3)},
	}
	got := ComputeInvoice(testRates(), lines, day(2024, 3, 15), day(2024, 3, 15))
	require.Len(t, got.Lines, 2)
	require.Equal(t, "950.00", got.PayableTotal.StringFixed(2))
}

func TestWithDerivedBasic(t *testing.T) {
	entry := RateEntry{
		Item:        "19 KG FILLED LPG CYLINDER",
		SGSTPercent: decimal.NewFromInt(9),
		CGSTPercent: decimal.NewFromInt(9),
		RSP:         decimal.NewFromInt(2007),
	}.WithDerivedBasic()
	require.Equal(t, "1700.85", entry.BasicPrice.StringFixed(2))

	free := RateEntry{
		Item:        "FREE",
		SGSTPercent: decimal.NewFromInt(-50),
		CGSTPercent: decimal.NewFromInt(-50),
		RSP:         decimal.NewFromInt(100),
	}.WithDerivedBasic()
	require.True(t, free.BasicPrice.IsZero())
}
