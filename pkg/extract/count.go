package extract

import (
	"math/big"
	"regexp"
	"strings"
	"unicode"
)

var countMultipliers = map[rune]int64{
	'K': 1_000,
	'M': 1_000_000,
	'B': 1_000_000_000,
}

// decimal accepts plain decimals with an optional short exponent. Signs,
// fractions and base prefixes are rejected before the value reaches big.Rat.
var decimal = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)([eE][+-]?\d{1,3})?$`)

// ParseCount converts a human-readable count such as "1.2M", "2,345" or "15k"
// into an integer, truncating toward zero. Anything it cannot read yields 0,
// so callers must treat 0 as "unknown" rather than a confirmed zero.
func ParseCount(text string) int64 {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if s == "" {
		return 0
	}

	multiplier := int64(1)
	last := rune(s[len(s)-1])
	if m, ok := countMultipliers[unicode.ToUpper(last)]; ok {
		multiplier = m
		s = strings.TrimSpace(s[:len(s)-1])
	}

	if !decimal.MatchString(s) {
		return 0
	}
	value, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0
	}

	value.Mul(value, new(big.Rat).SetInt64(multiplier))
	n := new(big.Int).Quo(value.Num(), value.Denom())
	if !n.IsInt64() {
		return 0
	}
	return n.Int64()
}
