package common

import (
	"fmt"
	"math/big"
	"strings"
)

// TokenDecimals is the fixed scale of the faucet token.
const TokenDecimals uint64 = 18

func pow10(decimal uint64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), new(big.Int).SetUint64(decimal), nil)
}

// FormatUnits converts a raw integer amount into its decimal text form
// without going through floats. The fraction keeps at least one digit.
// Example:
// - FormatUnits(1000000000000000000, 18) = "1.0"
// - FormatUnits(1500000000000000000, 18) = "1.5"
// - FormatUnits(1, 18) = "0.000000000000000001"
func FormatUnits(amount *big.Int, decimal uint64) string {
	if amount == nil {
		return "0.0"
	}
	abs := new(big.Int).Abs(amount)
	whole, rem := new(big.Int).QuoRem(abs, pow10(decimal), new(big.Int))

	frac := rem.String()
	if decimal > 0 {
		frac = strings.Repeat("0", int(decimal)-len(frac)) + frac
		frac = strings.TrimRight(frac, "0")
	}
	if frac == "" || decimal == 0 {
		frac = "0"
	}

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + frac
}

// ParseUnits is the exact inverse of FormatUnits. It rejects inputs
// carrying more fractional digits than decimal.
func ParseUnits(value string, decimal uint64) (*big.Int, error) {
	s := strings.TrimSpace(value)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("couldn't parse %q as a decimal amount", value)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("couldn't parse %q as a decimal amount", value)
	}
	if uint64(len(frac)) > decimal {
		return nil, fmt.Errorf("%q has more than %d decimals", value, decimal)
	}
	if whole == "" {
		whole = "0"
	}
	digits := whole + frac + strings.Repeat("0", int(decimal)-len(frac))
	result, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("couldn't parse %q as a decimal amount", value)
	}
	if neg {
		result.Neg(result)
	}
	return result, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
