package stats

import (
	"sort"
	"strings"
)

// NaturalLess compares labels treating embedded digit runs as numbers, so
// "100" sorts before "20" lexically would but after here, and "a2" sorts
// before "a10".
func NaturalLess(a, b string) bool {
	for a != "" && b != "" {
		aTok, aNum, aRest := nextToken(a)
		bTok, bNum, bRest := nextToken(b)

		if aNum && bNum {
			if c := compareNumeric(aTok, bTok); c != 0 {
				return c < 0
			}
		} else if aTok != bTok {
			return aTok < bTok
		}
		a, b = aRest, bRest
	}
	return a == "" && b != ""
}

// SortNatural sorts labels in place using NaturalLess.
func SortNatural(labels []string) {
	sort.Slice(labels, func(i, j int) bool {
		return NaturalLess(labels[i], labels[j])
	})
}

// nextToken splits off the leading run of digits or non-digits.
func nextToken(s string) (tok string, numeric bool, rest string) {
	numeric = isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == numeric {
		i++
	}
	return s[:i], numeric, s[i:]
}

// compareNumeric compares two digit runs by value without overflow:
// stripped of leading zeros, a longer run is always larger.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
