package mockbackend

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/go-go-golems/hotel-chat/pkg/protocol"
	"github.com/pkg/errors"
)

// MessagePlaceholder in a scripted frame's content is replaced by the
// message the client sent.
const MessagePlaceholder = "{{message}}"

const sampleHotels = `{"hotels":[
 {"name":"Hotel Lumière","starRating":4.5,"pricePerNight":{"amount":189,"currency":"€"},
  "address":{"street":"12 Rue Cler","city":"Paris","country":"France"},
  "description":"Boutique hotel steps from the Eiffel Tower with a quiet courtyard garden and a rooftop terrace.",
  "amenities":["WiFi","Air conditioning","Breakfast","Bar","Concierge","Parking"]},
 {"name":"Canal House","starRating":4,"pricePerNight":145,
  "address":{"city":"Amsterdam","country":"Netherlands"},
  "amenities":["WiFi","Restaurant"]},
 {"name":"Alfama Rooms","starRating":3,"pricePerNight":"€79",
  "address":"Rua de São Miguel 5, Lisbon",
  "description":"Simple rooms in the old quarter."},
 {"name":"Harbour View Inn","starRating":3.5,"pricePerNight":{"amount":110},
  "address":{"street":"4 Quay Street","city":"Galway","country":"Ireland"},
  "amenities":["Pool","WiFi"]}
]}`

// Script is the frame sequence sent back for every client message.
type Script struct {
	Frames []protocol.Inbound
}

// DefaultScript mimics one assistant turn that searches for hotels.
func DefaultScript() Script {
	return Script{Frames: []protocol.Inbound{
		{Type: protocol.TypeUserMessage},
		{Type: protocol.TypeToolStart, Name: "find_hotels"},
		{Type: protocol.TypeToolResult, Name: "find_hotels", Result: json.RawMessage(sampleHotels)},
		{Type: protocol.TypeAIMessage, Content: "Here are a few hotels that match **" + MessagePlaceholder + "**."},
	}}
}

// LoadScript reads a YAML list of frames from path.
func LoadScript(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return Script{}, errors.Wrapf(err, "open script %s", path)
	}
	defer func() { _ = f.Close() }()

	frames, err := protocol.DecodeFrames(f)
	if err != nil {
		return Script{}, errors.Wrapf(err, "load script %s", path)
	}
	if len(frames) == 0 {
		return Script{}, errors.Errorf("script %s has no frames", path)
	}
	return Script{Frames: frames}, nil
}

// Reply encodes the scripted frames for one client message. A user_message
// frame without content echoes the message.
func (s Script) Reply(message string) ([][]byte, error) {
	ret := make([][]byte, 0, len(s.Frames))
	for _, f := range s.Frames {
		if f.Type == protocol.TypeUserMessage && f.Content == "" {
			f.Content = message
		}
		f.Content = strings.ReplaceAll(f.Content, MessagePlaceholder, message)
		b, err := protocol.EncodeInbound(f)
		if err != nil {
			return nil, err
		}
		ret = append(ret, b)
	}
	return ret, nil
}
