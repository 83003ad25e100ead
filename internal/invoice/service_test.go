package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryRateRepo struct {
	rates map[string][]RateEntry
}

func newMemoryRateRepo() *memoryRateRepo {
	return &memoryRateRepo{rates: make(map[string][]RateEntry)}
}

func (r *memoryRateRepo) ListRates(ctx context.Context, dealerCode string) ([]RateEntry, error) {
	return r.rates[dealerCode], nil
}

func (r *memoryRateRepo) ReplaceRates(ctx context.Context, dealerCode string, rates []RateEntry) error {
	r.rates[dealerCode] = rates
	return nil
}

func TestRatesFallBackToDefaults(t *testing.T) {
	svc := NewService(newMemoryRateRepo())
	rates, err := svc.Rates(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.Equal(t, DefaultRates(), rates)
}

func TestSaveRatesDerivesBasicPrice(t *testing.T) {
	svc := NewService(newMemoryRateRepo())
	saved, err := svc.SaveRates(context.Background(), "AB12CD", []RateInput{
		{Code: "36", Item: "14.2 KG NON-SUBSIDIZED CYLINDER",
			SGSTPercent: decimal.RequireFromString("2.5"),
			CGSTPercent: decimal.RequireFromString("2.5"),
			RSP:         decimal.NewFromInt(950)},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Equal(t, "904.76", saved[0].BasicPrice.StringFixed(2))

	rates, err := svc.Rates(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.Equal(t, saved, rates)
}

func TestSaveRatesRejectsDuplicatesAndNegatives(t *testing.T) {
	svc := NewService(newMemoryRateRepo())

	_, err := svc.SaveRates(context.Background(), "AB12CD", []RateInput{
		{Code: "1", Item: "X", RSP: decimal.NewFromInt(100)},
		{Code: "2", Item: "X", RSP: decimal.NewFromInt(200)},
	})
	require.Error(t, err)

	_, err = svc.SaveRates(context.Background(), "AB12CD", []RateInput{
		{Code: "1", Item: "Y", RSP: decimal.NewFromInt(-5)},
	})
	require.Error(t, err)

	_, err = svc.SaveRates(context.Background(), "AB12CD", nil)
	require.Error(t, err)
}

func TestPreviewUsesSavedRates(t *testing.T) {
	repo := newMemoryRateRepo()
	svc := NewService(repo)
	_, err := svc.SaveRates(context.Background(), "AB12CD", []RateInput{
		{Code: "36", Item: "14.2 KG NON-SUBSIDIZED CYLINDER",
			SGSTPercent: decimal.RequireFromString("2.5"),
			CGSTPercent: decimal.RequireFromString("2.5"),
			RSP:         decimal.NewFromInt(950)},
	})
	require.NoError(t, err)

	totals, err := svc.Preview(context.Background(), "AB12CD", []Line{
		{Item: "14.2 KG NON-SUBSIDIZED CYLINDER", Quantity: decimal.NewFromInt(1)},
	}, time.Now())
	require.NoError(t, err)
	require.Equal(t, "950.00", totals.PayableTotal.StringFixed(2))
	require.Equal(t, "Rupees Nine Hundred Fifty Only", totals.AmountInWords)
}

func TestCommitRatesPayload(t *testing.T) {
	repo := newMemoryRateRepo()
	svc := NewService(repo)

	payload := []byte(`[{"code":"64","item":"19 KG FILLED LPG CYLINDER","sgst_percent":"9","cgst_percent":"9","rsp":"2007"}]`)
	require.NoError(t, svc.CommitRatesPayload(context.Background(), "AB12CD", payload))

	rates, err := svc.Rates(context.Background(), "AB12CD")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	require.Equal(t, "1700.85", rates[0].BasicPrice.StringFixed(2))

	require.Error(t, svc.CommitRatesPayload(context.Background(), "AB12CD", []byte("not json")))
}
