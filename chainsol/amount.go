package chainsol

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const LamportsPerSOL uint64 = 1_000_000_000

// ParseSOL converts a decimal SOL amount to lamports. Sub-lamport fractions
// are floored since the on-chain fields are unsigned integers.
func ParseSOL(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q is not a number", s)
	}
	if r.Sign() < 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q is negative", s)
	}

	r.Mul(r, new(big.Rat).SetUint64(LamportsPerSOL))
	lamports := new(big.Int).Quo(r.Num(), r.Denom())
	if !lamports.IsUint64() {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q overflows u64 lamports", s)
	}
	return lamports.Uint64(), nil
}

// FormatSOL renders lamports as a SOL amount without trailing zeros.
func FormatSOL(lamports uint64) string {
	whole := lamports / LamportsPerSOL
	frac := lamports % LamportsPerSOL
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fracStr := strings.TrimRight(strconv.FormatUint(frac+LamportsPerSOL, 10)[1:], "0")
	return strconv.FormatUint(whole, 10) + "." + fracStr
}
