package services

import (
	"regexp"
	"strings"

	"github.com/amirfagh/justeat/entity"
	"github.com/shopspring/decimal"
)

// DeliverySurcharge is added to the displayed total of Delivery orders only.
var DeliverySurcharge = decimal.NewFromInt(10)

// Amounts of 10^12 and above, or below 10^-12, are treated as unparseable.
// Checked on digit count and exponent so no oversized value is ever materialized.
const (
	maxAmountIntDigits = 12
	minAmountExponent  = -12
)

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads the leading decimal number of s. Blank, non-numeric or
// out-of-range input is 0.
func ParseAmount(s string) decimal.Decimal {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil || d.IsZero() {
		return decimal.Zero
	}
	magnitude := d.NumDigits() + int(d.Exponent())
	if magnitude > maxAmountIntDigits || magnitude < minAmountExponent {
		return decimal.Zero
	}
	if d.Exponent() < minAmountExponent {
		// bounded: the coefficient has at least as many digits as are dropped
		d = d.Truncate(-minAmountExponent)
	}
	return d
}

// FormatAmount renders money with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// LineTotal is the line price plus every selected option's additional price.
func LineTotal(line CartLine) decimal.Decimal {
	total := ParseAmount(line.Price)
	for _, o := range line.Options {
		total = total.Add(ParseAmount(o.AdditionalPrice))
	}
	return total
}

func ItemsTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l))
	}
	return total
}

func DeliveryFee(t entity.OrderType) decimal.Decimal {
	if t == entity.OrderTypeDelivery {
		return DeliverySurcharge
	}
	return decimal.Zero
}

// Quote keeps the persisted figure (ItemsTotal) apart from what the customer is shown (DisplayedTotal).
type Quote struct {
	ItemsTotal     string `json:"itemsTotal"`
	DeliveryFee    string `json:"deliveryFee"`
	DisplayedTotal string `json:"displayedTotal"`
}

func QuoteFor(lines []CartLine, t entity.OrderType) Quote {
	items := ItemsTotal(lines)
	fee := DeliveryFee(t)
	return Quote{
		ItemsTotal:     FormatAmount(items),
		DeliveryFee:    FormatAmount(fee),
		DisplayedTotal: FormatAmount(items.Add(fee)),
	}
}
