package engine

import (
	"clobcore/domain"

	"github.com/shopspring/decimal"
)

// validate performs every structural check required before a spec reaches
// the book: unknown symbol is checked by the caller (lookup already
// failed), so this only covers quantity, price, and scale rules. Returns ""
// when spec is acceptable.
func validate(spec OrderSpec, sc SymbolConfig) string {
	if spec.Quantity.Sign() <= 0 {
		return domain.ReasonNonPositiveQty
	}

	switch spec.Type {
	case domain.OrderTypeMarket:
		// price absent/ignored; nothing further to check.
	case domain.OrderTypeLimit, domain.OrderTypeIOC, domain.OrderTypeFOK:
		if spec.Price.Sign() <= 0 {
			if spec.Price.Sign() == 0 {
				return domain.ReasonMissingPrice
			}
			return domain.ReasonNegativePrice
		}
	default:
		return domain.ReasonOrderTypeUnknown
	}

	if !withinScale(spec.Quantity, sc.QtyScale) {
		return domain.ReasonScaleViolation
	}
	if spec.Type != domain.OrderTypeMarket && !withinScale(spec.Price, sc.PriceScale) {
		return domain.ReasonScaleViolation
	}

	return ""
}

// withinScale reports whether v has no significant digits past scale
// decimal places — i.e. rounding to scale doesn't change its value.
func withinScale(v decimal.Decimal, scale int32) bool {
	return v.Round(scale).Equal(v)
}
