package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy",
	"Eighty", "Ninety",
}

// AmountInWords renders a rupee amount as an Indian-numbering phrase:
// "Rupees Nine Hundred Twenty Eight and Fifty Paise Only". Rupee and paise
// parts are converted independently; paise beyond two places are rounded.
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	rupees := amount.IntPart()
	paise := amount.Sub(decimal.NewFromInt(rupees)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if paise < 0 {
		paise = -paise
	}
	if rupees < 0 {
		rupees = -rupees
	}

	var b strings.Builder
	b.WriteString("Rupees ")
	b.WriteString(numberInWords(rupees))
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(numberInWords(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// numberInWords spells a non-negative integer using lakh/crore groupings.
func numberInWords(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	appendScale := func(value int64, scale string) {
		if value > 0 {
			parts = append(parts, numberInWords(value), scale)
		}
	}

	appendScale(n/10000000, "Crore")
	n %= 10000000
	appendScale(n/100000, "Lakh")
	n %= 100000
	appendScale(n/1000, "Thousand")
	n %= 1000
	appendScale(n/100, "Hundred")
	n %= 100

	if n >= 20 {
		word := tensWords[n/10]
		if n%10 > 0 {
			word += " " + onesWords[n%10]
		}
		parts = append(parts, word)
	} else if n > 0 {
		parts = append(parts, onesWords[n])
	}
	return strings.Join(parts, " ")
}
