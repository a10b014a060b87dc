package pricing

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/noah-isme/toko-checkout/internal/common"
)

// ErrUnsupportedDiscountKind indicates malformed promotion data carrying an unknown discount kind.
var ErrUnsupportedDiscountKind = errors.New("unsupported discount kind")

// Kind enumerates how a discount magnitude is interpreted.
type Kind int

const (
	// Rate discounts are a percentage of the base amount.
	Rate Kind = iota + 1
	// Amount discounts are a flat value regardless of the base amount.
	Amount
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Rate:
		return "rate"
	case Amount:
		return "amount"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case Rate, Amount:
		return []byte(k.String()), nil
	default:
		return nil, unsupportedKind(k)
	}
}

// UnmarshalText accepts "rate"/"amount" (any case) and the numeric codes 1/2.
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "rate", "percent", "1":
		*k = Rate
	case "amount", "fixed", "2":
		*k = Amount
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDiscountKind, string(text))
	}
	return nil
}

// Discount pairs a kind with its magnitude.
type Discount struct {
	Kind      Kind  `json:"kind" yaml:"kind"`
	Magnitude Money `json:"magnitude" yaml:"magnitude"`
}

// RateOf builds a percentage discount.
func RateOf(percent Money) Discount {
	return Discount{Kind: Rate, Magnitude: percent}
}

// AmountOf builds a flat discount.
func AmountOf(value Money) Discount {
	return Discount{Kind: Amount, Magnitude: value}
}

// Resolve computes the discount for the given base amount.
// Amount discounts are not capped at the base.
func Resolve(d Discount, base Money) (Money, error) {
	switch d.Kind {
	case Rate:
		return base.Mul(d.Magnitude).Div(hundred), nil
	case Amount:
		return d.Magnitude, nil
	default:
		return Zero, unsupportedKind(d.Kind)
	}
}

func unsupportedKind(k Kind) *common.AppError {
	return &common.AppError{
		Code:       "UNSUPPORTED_DISCOUNT_KIND",
		Message:    fmt.Sprintf("unsupported discount kind: %s", k),
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        ErrUnsupportedDiscountKind,
	}
}
