package invoice

import "github.com/shopspring/decimal"

// DefaultRates is the stock HP Gas cylinder price list a dealer starts
// from before saving their own. Basic prices are derived, not stored.
func DefaultRates() []RateEntry {
	entries := []struct {
		code, item string
		sgst, cgst string
		rsp        string
	}{
		{"36", "14.2 KG NON-SUBSIDIZED CYLINDER", "2.5", "2.5", "950"},
		{"36", "14.2 KG NON-SUBSIDIZED CYLINDER-LD(DBTL CTC)", "2.5", "2.5", "950"},
		{"64", "19 KG FILLED LPG CYLINDER", "9", "9", "2007"},
		{"109", "5 KG NON-SUBSIDIZED CYLINDER", "2.5", "2.5", "353.5"},
		{"109", "5 KG NON-SUBSIDIZED CYLINDER-LD(DBTL CTC)", "2.5", "2.5", "353.5"},
		{"122", "35 KG FILLED LPG CYLINDER", "9", "9", "3699"},
		{"42", "47.5 KG FILLED LPG CYLINDER (NDNE)", "9", "9", "5012.5"},
		{"149", "5 KG FILLED LPG CYLINDER (NDNE)", "9", "9", "598.5"},
		{"27", "5 KG FILLED LPG CYLINDER (FTL)", "9", "9", "1473"},
		{"450", "425 KG (SUMO) FILLED LPG CYLINDER", "9", "9", "44908"},
		{"102", "2 KG LPG CYLINDER REFILL - FILLED", "9", "9", "280"},
		{"66", "19KG FILLED HP GAS FLAME PLUS", "9", "9", "2027.5"},
		{"43", "47.5KG FILLED HP GAS FLAME PLUS", "9", "9", "5062.5"},
	}

	out := make([]RateEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, RateEntry{
			Code:        e.code,
			HSNCode:     e.code,
			Item:        e.item,
			SGSTPercent: decimal.RequireFromString(e.sgst),
			CGSTPercent: decimal.RequireFromString(e.cgst),
			RSP:         decimal.RequireFromString(e.rsp),
		}.WithDerivedBasic())
	}
	return out
}
