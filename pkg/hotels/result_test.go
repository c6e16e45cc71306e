package hotels

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeMinimalHotel(t *testing.T) {
	res := Decode(json.RawMessage(`{"hotels":[{"name":"A","starRating":4,"pricePerNight":120}]}`))
	require.Equal(t, StateOK, res.State)
	require.Len(t, res.Hotels, 1)

	h := res.Hotels[0]
	require.Equal(t, "A", h.Name)
	require.Equal(t, 4.0, h.StarRating)
	require.Equal(t, "120", h.Price.String())
	n, ok := h.Price.Number()
	require.True(t, ok)
	require.Equal(t, 120.0, n)

	require.Equal(t, DefaultDescription, h.Description)
	require.Equal(t, PlaceholderImage, h.Image)
	require.Empty(t, h.Amenities)
	require.Equal(t, "", h.Address.String())
}

func TestDecodeEncodedString(t *testing.T) {
	inner := `{"hotels":[{"name":"B","starRating":"3.5","pricePerNight":{"amount":99,"currency":"€"}}]}`
	encoded, err := json.Marshal(inner)
	require.NoError(t, err)

	res := Decode(encoded)
	require.Equal(t, StateOK, res.State)
	require.Equal(t, 3.5, res.Hotels[0].StarRating)
	require.Equal(t, "€99", res.Hotels[0].Price.String())
}

func TestDecodeMalformedPayloads(t *testing.T) {
	res := Decode(json.RawMessage(`"not json"`))
	require.Equal(t, StateParseError, res.State)
	require.Error(t, res.Err)
	require.Equal(t, "Error parsing hotel data", res.State.Message())

	res = Decode(json.RawMessage(`{"hotels":`))
	require.Equal(t, StateParseError, res.State)

	for _, raw := range []string{`[1,2]`, `42`, `{"hotels":"many"}`, `{"results":[]}`, `null`, ``} {
		res = Decode(json.RawMessage(raw))
		require.Equal(t, StateNoData, res.State, raw)
		require.Equal(t, "No hotels found or invalid data format", res.State.Message())
	}
}

func TestDecodeDefaultsAndLenientFields(t *testing.T) {
	res := Decode(json.RawMessage(`{"hotels":[
		{"name":"C","starRating":"great","pricePerNight":{"currency":"£"},
		 "address":{"city":"Paris","country":"France"},
		 "amenities":["WiFi",7,null,"Pool"],"image":"http://img"},
		{"name":"D","starRating":-2,"address":{"street":"1 Main St","country":"UK"}},
		null
	]}`))
	require.Equal(t, StateOK, res.State)
	require.Len(t, res.Hotels, 3)

	c := res.Hotels[0]
	require.Equal(t, 0.0, c.StarRating)
	require.Equal(t, "£N/A", c.Price.String())
	_, ok := c.Price.Number()
	require.False(t, ok)
	require.Equal(t, "Paris, France", c.Address.String())
	require.Equal(t, []string{"WiFi", "7", "Pool"}, c.Amenities)
	require.Equal(t, "http://img", c.Image)

	d := res.Hotels[1]
	require.Equal(t, 0.0, d.StarRating)
	require.Equal(t, NotAvailable, d.Price.String())
	require.Equal(t, "1 Main St, UK", d.Address.String())

	require.Equal(t, "", res.Hotels[2].Name)
	require.Equal(t, DefaultDescription, res.Hotels[2].Description)
}

func TestDecodeKeepsOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"hotels":[`)
	for i, n := range []string{"e", "a", "d", "b"} {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"name":"` + n + `"}`)
	}
	b.WriteString(`]}`)
	res := Decode(json.RawMessage(b.String()))
	names := []string{}
	for _, h := range res.Hotels {
		names = append(names, h.Name)
	}
	require.Equal(t, []string{"e", "a", "d", "b"}, names)
}
