// Package hotels decodes structured hotel search payloads attached to tool
// results and prepares them for display.
//
// Payloads come from an opaque backend tool, so decoding is lenient: missing
// or mistyped fields fall back to display defaults, and a payload that cannot
// be used at all yields a Result in a visible error state instead of an error
// the caller has to handle.
package hotels

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultDescription = "No description available"
	PlaceholderImage   = "https://via.placeholder.com/300x200?text=Hotel+Image"
	NotAvailable       = "N/A"
)

type State int

const (
	StateOK State = iota
	// StateNoData means the payload decoded but is not a hotel search result.
	StateNoData
	// StateParseError means the payload could not be decoded.
	StateParseError
)

func (s State) String() string {
	switch s {
	case StateOK:
		return "ok"
	case StateNoData:
		return "no-data"
	case StateParseError:
		return "parse-error"
	default:
		return "unknown"
	}
}

// Message is the user visible text for the degraded states.
func (s State) Message() string {
	switch s {
	case StateNoData:
		return "No hotels found or invalid data format"
	case StateParseError:
		return "Error parsing hotel data"
	default:
		return ""
	}
}

type Result struct {
	State  State
	Hotels []Hotel
	// Err is set for StateParseError.
	Err error
}

type Hotel struct {
	Name        string
	StarRating  float64
	Price       Price
	Address     Address
	Description string
	Amenities   []string
	Image       string
}

// Price is either a plain value ("120", "€99") or an amount/currency pair.
type Price struct {
	Present    bool
	Structured bool
	Text       string
	Amount     string
	Currency   string
}

func (p Price) String() string {
	if !p.Present {
		return NotAvailable
	}
	if !p.Structured {
		return p.Text
	}
	currency := p.Currency
	if currency == "" {
		currency = "$"
	}
	amount := p.Amount
	if amount == "" {
		amount = NotAvailable
	}
	return currency + amount
}

// Number returns the numeric value of the price when it has one.
func (p Price) Number() (float64, bool) {
	s := p.Text
	if p.Structured {
		s = p.Amount
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

type Address struct {
	Street  string
	City    string
	Country string
}

// String joins the present parts with ", ".
func (a Address) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.Street, a.City, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Decode interprets a tool result payload. The payload is either a JSON
// object or a JSON string holding encoded JSON, which is decoded first.
func Decode(raw json.RawMessage) Result {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return Result{State: StateNoData}
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Result{State: StateParseError, Err: errors.Wrap(err, "decode hotel payload string")}
		}
		raw = bytes.TrimSpace([]byte(s))
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return Result{State: StateParseError, Err: errors.Wrap(err, "decode hotel payload")}
	}
	if dec.More() {
		return Result{State: StateParseError, Err: errors.New("trailing data after hotel payload")}
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return Result{State: StateNoData}
	}
	list, ok := obj["hotels"].([]interface{})
	if !ok {
		return Result{State: StateNoData}
	}

	ret := Result{State: StateOK, Hotels: make([]Hotel, 0, len(list))}
	for _, item := range list {
		m, _ := item.(map[string]interface{})
		ret.Hotels = append(ret.Hotels, decodeHotel(m))
	}
	return ret
}

func decodeHotel(m map[string]interface{}) Hotel {
	h := Hotel{
		Name:        scalarString(m["name"]),
		StarRating:  rating(m["starRating"]),
		Price:       price(m["pricePerNight"]),
		Address:     address(m["address"]),
		Description: scalarString(m["description"]),
		Image:       scalarString(m["image"]),
	}
	if h.Description == "" {
		h.Description = DefaultDescription
	}
	if h.Image == "" {
		h.Image = PlaceholderImage
	}
	if tags, ok := m["amenities"].([]interface{}); ok {
		for _, t := range tags {
			if s := scalarString(t); s != "" {
				h.Amenities = append(h.Amenities, s)
			}
		}
	}
	return h
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func rating(v interface{}) float64 {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if f < 0 || f != f {
		return 0
	}
	return f
}

func price(v interface{}) Price {
	switch t := v.(type) {
	case nil:
		return Price{}
	case map[string]interface{}:
		return Price{
			Present:    true,
			Structured: true,
			Amount:     scalarString(t["amount"]),
			Currency:   scalarString(t["currency"]),
		}
	default:
		s := scalarString(t)
		if s == "" {
			return Price{}
		}
		return Price{Present: true, Text: s}
	}
}

func address(v interface{}) Address {
	switch t := v.(type) {
	case map[string]interface{}:
		return Address{
			Street:  scalarString(t["street"]),
			City:    scalarString(t["city"]),
			Country: scalarString(t["country"]),
		}
	case string:
		return Address{Street: t}
	default:
		return Address{}
	}
}
