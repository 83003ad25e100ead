package dealer

import (
	"strings"
	"time"
)

// Validity is a package validity window.
type Validity struct {
	PackageDays int
	ValidFrom   time.Time
	ValidTill   time.Time
}

// packageDayTable maps package-name fragments to validity days, checked in
// order with the first match winning.
var packageDayTable = []struct {
	fragment string
	days     int
}{
	{"demo", 1},
	{"basic", 7},
	{"premium", 30},
	{"enterprise", 365},
}

// PackageDays looks up validity days by case-insensitive substring match
// of the package name. Unknown packages get zero days.
func PackageDays(packageName string) int {
	name := strings.ToLower(packageName)
	for _, entry := range packageDayTable {
		if strings.Contains(name, entry.fragment) {
			return entry.days
		}
	}
	return 0
}

// ComputeValidity derives the validity window for a package starting at
// baseDate. An unmatched package gets zero days and no ValidTill at all,
// so such an account never expires by this rule alone.
func ComputeValidity(packageName string, baseDate time.Time) Validity {
	days := PackageDays(packageName)
	v := Validity{PackageDays: days, ValidFrom: baseDate}
	if days > 0 {
		v.ValidTill = baseDate.AddDate(0, 0, days)
	}
	return v
}

// IsExpired reports whether now has passed validTill. A zero validTill
// (never set, or unparseable upstream) counts as not expired.
func IsExpired(validTill, now time.Time) bool {
	if validTill.IsZero() {
		return false
	}
	return now.After(validTill)
}
