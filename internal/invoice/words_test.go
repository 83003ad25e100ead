package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"928.50", "Rupees Nine Hundred Twenty Eight and Fifty Paise Only"},
		{"0", "Rupees Zero Only"},
		{"0.05", "Rupees Zero and Five Paise Only"},
		{"950", "Rupees Nine Hundred Fifty Only"},
		{"123456", "Rupees One Lakh Twenty Three Thousand Four Hundred Fifty Six Only"},
		{"10000000", "Rupees One Crore Only"},
		{"25500075.10", "Rupees Two Crore Fifty Five Lakh Seventy Five and Ten Paise Only"},
		{"19", "Rupees Nineteen Only"},
		{"20", "Rupees Twenty Only"},
	}
	for _, tc := range cases {
		got := AmountInWords(decimal.RequireFromString(tc.in))
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestNumberInWordsGroupings(t *testing.T) {
	require.Equal(t, "Zero", numberInWords(0))
	require.Equal(t, "One Thousand One", numberInWords(1001))
	require.Equal(t, "Ninety Nine Lakh Ninety Nine Thousand Nine Hundred Ninety Nine", numberInWords(9999999))
}
