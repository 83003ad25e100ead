package dealer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPackageDays(t *testing.T) {
	cases := map[string]int{
		"Demo Package":       1,
		"BASIC":              7,
		"Premium Plan":       30,
		"enterprise edition": 365,
		"gold":               0,
		"":                   0,
	}
	for name, want := range cases {
		require.Equal(t, want, PackageDays(name), "package %q", name)
	}
}

func TestPackageDaysFirstMatchWins(t *testing.T) {
	// Both fragments appear; the table order decides.
	require.Equal(t, 1, PackageDays("demo of the premium plan"))
}

func TestComputeValidity(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	v := ComputeValidity("Demo Package", base)
	require.Equal(t, 1, v.PackageDays)
	require.Equal(t, base, v.ValidFrom)
	require.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), v.ValidTill)

	v = ComputeValidity("enterprise", base)
	require.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), v.ValidTill)
}

func TestComputeValidityUnknownPackage(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	v := ComputeValidity("gold", base)
	require.Zero(t, v.PackageDays)
	require.True(t, v.ValidTill.IsZero())
	require.False(t, IsExpired(v.ValidTill, base.AddDate(10, 0, 0)))
}

func TestIsExpired(t *testing.T) {
	till := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	require.False(t, IsExpired(till, till))
	require.False(t, IsExpired(till, till.Add(-time.Second)))
	require.True(t, IsExpired(till, till.Add(time.Second)))
}
