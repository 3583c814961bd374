package model

import (
	"strconv"
	"strings"
	"unicode"
)

// MenuItem is a single menu entry. Name is required; everything else is
// best-effort. Price carries the parsed numeric value when the raw string
// contains one.
type MenuItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	PriceRaw    string   `json:"price_raw,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// NewMenuItem builds a MenuItem, parsing the numeric price from the raw
// string. Items without a name are not valid menu entries; callers should
// check Name before retaining the item.
func NewMenuItem(name, description, priceRaw, category string) MenuItem {
	return MenuItem{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		PriceRaw:    strings.TrimSpace(priceRaw),
		Price:       ParsePrice(priceRaw),
		Category:    strings.TrimSpace(category),
	}
}

// ParsePrice extracts a numeric price from a raw string, ignoring currency
// symbols and surrounding whitespace. "$15.99", "15.99", and "$ 15.99" all
// parse to 15.99. Returns nil when no number is present.
func ParsePrice(raw string) *float64 {
	var b strings.Builder
	seenDot := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.' && !seenDot && b.Len() > 0:
			seenDot = true
			b.WriteRune(r)
		case b.Len() > 0 && r != ',':
			// Number already collected; stop at the first non-numeric rune
			// so ranges like "12.99 - 15.99" keep the first price.
			if v, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64); err == nil {
				return &v
			}
			return nil
		}
	}
	if b.Len() == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
	if err != nil {
		return nil
	}
	return &v
}
