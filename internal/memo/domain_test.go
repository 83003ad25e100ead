package memo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gasdesk/gasdesk/internal/records"
)

func TestPageTypeGroupSize(t *testing.T) {
	n, err := PageA4Three.GroupSize()
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = PageLegalFour.GroupSize()
	require.NoError(t, err)
	require.Equal(t, 4, n)

	_, err = PageType("A3 Poster").GroupSize()
	require.ErrorIs(t, err, ErrUnknownPageType)
}

func TestComposeFromRecord(t *testing.T) {
	rec := records.Record{
		"Consumer Name":                "Asha Traders",
		"Consumer No.":                 "100001",
		"Mobile No.":                   "9876543210",
		"Order Date":                   float64(45365),
		"Base Price (₹)":               "904.76",
		"CGST (2.50%) (₹)":             22.62,
		"Total Amount (₹)":             "950",
		"Online Refill Payment status": "PAID",
	}
	header := DealerHeader{Name: "Shree Gas Agency (ABC123)", GSTN: "27AAAAA0000A1Z5"}

	m := Compose(header, rec)
	require.Equal(t, "Asha Traders", m.ConsumerName)
	require.Equal(t, "14-03-2024", m.OrderDate, "spreadsheet serial prints as DD-MM-YYYY")
	require.Equal(t, "904.76", m.BasePrice)
	require.Equal(t, "22.62", m.CGST)
	require.Equal(t, "950.00", m.TotalAmount, "money always shows two decimals")
	require.Equal(t, "0.00", m.NetPayable, "missing money column prints as zero")
	require.Empty(t, m.LPGID)
	require.Equal(t, header, m.Dealer)
}

func TestPaginate(t *testing.T) {
	memos := make([]Memo, 7)

	doc, err := Paginate(memos, PageA4Three)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 3)
	require.Len(t, doc.Pages[0], 3)
	require.Len(t, doc.Pages[2], 1)
	require.Equal(t, 7, doc.Count())

	doc, err = Paginate(memos, PageLegalFour)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)
	require.Len(t, doc.Pages[1], 3)
}

func TestPaginateEmpty(t *testing.T) {
	doc, err := Paginate(nil, PageA4Three)
	require.NoError(t, err)
	require.Empty(t, doc.Pages)
	require.Zero(t, doc.Count())
}
