package bookstore

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Price is a book price. It keeps the literal text it was decoded from
// so the two fractional digits rule is checked against what the client
// sent and not against a re-rendered float.
type Price struct {
	amount decimal.Decimal
	raw    string
}

// NewPrice builds a Price from its textual form.
func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{amount: d, raw: s}, nil
}

// MustPrice is like NewPrice but panics on malformed input.
func MustPrice(s string) Price {
	p, err := NewPrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Raw returns the literal text the price was decoded from. It is empty
// when the JSON value was neither a number nor a string.
func (p Price) Raw() string {
	return p.raw
}

// String renders the price with two fractional digits.
func (p Price) String() string {
	return p.amount.StringFixed(2)
}

// Equal reports whether both prices hold the same amount.
func (p Price) Equal(o Price) bool {
	return p.amount.Equal(o.amount)
}

// UnmarshalJSON accepts a JSON number or a JSON string. Other kinds
// decode to a price without raw text, which the validator rejects.
func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*p = Price{}
	if len(b) == 0 {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		p.raw = s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		p.raw = string(b)
	default:
		return nil
	}

	if d, err := decimal.NewFromString(p.raw); err == nil {
		p.amount = d
	}
	return nil
}

// MarshalJSON renders the price as a JSON number with two fractional digits.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.amount.StringFixed(2)), nil
}

// Value implements driver.Valuer.
func (p Price) Value() (driver.Value, error) {
	return p.amount.StringFixed(2), nil
}

// Scan implements sql.Scanner.
func (p *Price) Scan(src interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan price: %w", err)
	}
	p.amount = d
	p.raw = d.StringFixed(2)
	return nil
}
