package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/hotel-chat/pkg/hotels"
	"github.com/go-go-golems/hotel-chat/pkg/transcript"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultHotelMarker is the content substring that marks a record as a
// hotel search result.
const DefaultHotelMarker = "find_hotels"

// HasHotelPayload reports whether rec renders its structured payload. Both
// conditions are required: a payload must be present and the content must
// mention the marker.
func HasHotelPayload(rec transcript.Record, marker string) bool {
	if marker == "" {
		marker = DefaultHotelMarker
	}
	return rec.HasData() && strings.Contains(rec.Content, marker)
}

type RendererOption func(*Renderer)

func WithMarker(marker string) RendererOption {
	return func(r *Renderer) {
		if marker != "" {
			r.marker = marker
		}
	}
}

func WithWidth(width int) RendererOption {
	return func(r *Renderer) {
		r.width = width
	}
}

// WithMarkdown turns on glamour rendering of assistant replies.
func WithMarkdown(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.markdown = enabled
	}
}

func WithExpandAll(expand bool) RendererOption {
	return func(r *Renderer) {
		r.expandAll = expand
	}
}

// Renderer turns transcript records into terminal text. It keeps the expand
// state of every hotel list it has drawn, keyed by record ID. It is not safe
// for concurrent use.
type Renderer struct {
	marker    string
	width     int
	markdown  bool
	expandAll bool

	views   map[string]hotels.ListView
	decoded map[string]hotels.Result

	md      *glamour.TermRenderer
	mdWidth int

	logger zerolog.Logger
}

func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		marker:  DefaultHotelMarker,
		views:   map[string]hotels.ListView{},
		decoded: map[string]hotels.Result{},
		logger:  log.With().Str("component", "renderer").Logger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) Marker() string { return r.marker }

func (r *Renderer) SetWidth(width int) {
	r.width = width
}

// View returns the expand state of the hotel list in the given record.
func (r *Renderer) View(id string) hotels.ListView {
	if v, ok := r.views[id]; ok {
		return v
	}
	return hotels.ListView{Expanded: r.expandAll}
}

// Toggle flips the expand state of one record's hotel list.
func (r *Renderer) Toggle(id string) hotels.ListView {
	v := r.View(id).Toggle()
	r.views[id] = v
	return v
}

// Hotels decodes the payload of rec, caching the result per record.
func (r *Renderer) Hotels(rec transcript.Record) hotels.Result {
	if res, ok := r.decoded[rec.ID]; ok && rec.ID != "" {
		return res
	}
	res := hotels.Decode(rec.Data)
	if res.State == hotels.StateParseError {
		r.logger.Warn().Err(res.Err).Str("record", rec.ID).Msg("could not parse hotel payload")
	}
	if rec.ID != "" {
		r.decoded[rec.ID] = res
	}
	return res
}

// RenderTranscript renders every record, separated by blank lines. The record
// with focusedID gets a highlighted hotel list.
func (r *Renderer) RenderTranscript(recs []transcript.Record, focusedID string) string {
	parts := make([]string, 0, len(recs))
	for _, rec := range recs {
		parts = append(parts, r.RenderRecord(rec, focusedID != "" && rec.ID == focusedID))
	}
	return strings.Join(parts, "\n\n")
}

func (r *Renderer) RenderRecord(rec transcript.Record, focused bool) string {
	st := styleFor(rec.Role)

	var body string
	switch {
	case HasHotelPayload(rec, r.marker):
		body = rec.Content + "\n" + r.RenderHotels(r.Hotels(rec), r.View(rec.ID), focused)
	case rec.Role == transcript.RoleAssistant && r.markdown:
		body = r.renderMarkdown(rec.Content)
	default:
		body = r.wrap(rec.Content)
	}

	return st.bubble.Render(st.label.Render(roleLabel(rec.Role)) + "\n" + body)
}

func roleLabel(role transcript.Role) string {
	switch role {
	case transcript.RoleUser:
		return "You"
	case transcript.RoleSystem:
		return "System"
	case transcript.RoleAssistant:
		return "Assistant"
	default:
		if role == "" {
			return "Assistant"
		}
		return string(role)
	}
}

// RenderHotels draws a decoded hotel result with the given view state.
func (r *Renderer) RenderHotels(res hotels.Result, view hotels.ListView, focused bool) string {
	switch res.State {
	case hotels.StateParseError:
		return errorStyle.Render(res.State.Message())
	case hotels.StateNoData:
		return hotelMutedStyle.Render(res.State.Message())
	}

	total := len(res.Hotels)
	var sb strings.Builder
	sb.WriteString(hotelHeaderStyle.Render("🏨 " + hotels.Summary(total)))

	card := hotelCardStyle
	if focused {
		card = focusedCardStyle
	}
	if w := r.cardWidth(); w > 0 {
		card = card.Width(w)
	}
	for _, h := range view.Visible(res.Hotels) {
		sb.WriteString("\n")
		sb.WriteString(card.Render(renderHotel(h)))
	}

	if label := view.ToggleLabel(total); label != "" {
		sb.WriteString("\n")
		sb.WriteString(toggleStyle.Render(label))
		if focused {
			sb.WriteString(hotelMutedStyle.Render("  (ctrl+e)"))
		}
	}
	return sb.String()
}

func renderHotel(h hotels.Hotel) string {
	lines := []string{
		hotelNameStyle.Render(h.Name) + "  " + hotelStarsStyle.Render(hotels.Stars(h.StarRating)),
	}
	if addr := h.Address.String(); addr != "" {
		lines = append(lines, hotelMutedStyle.Render("📍 "+addr))
	}
	lines = append(lines, hotels.TruncateDescription(h.Description))

	if len(h.Amenities) > 0 {
		tags, rest := hotels.VisibleAmenities(h.Amenities)
		chips := make([]string, 0, len(tags)+1)
		for _, t := range tags {
			label := t
			if icon := hotels.AmenityIcon(t); icon != "" {
				label = icon + " " + t
			}
			chips = append(chips, amenityStyle.Render("["+label+"]"))
		}
		if rest > 0 {
			chips = append(chips, hotelMutedStyle.Render(fmt.Sprintf("[+%d more]", rest)))
		}
		lines = append(lines, strings.Join(chips, " "))
	}

	lines = append(lines, hotelPriceStyle.Render(h.Price.String())+hotelMutedStyle.Render(" / night"))
	lines = append(lines, hotelMutedStyle.Render("🖼 "+h.Image))
	return strings.Join(lines, "\n")
}

func (r *Renderer) cardWidth() int {
	if r.width <= 0 {
		return 0
	}
	// bubble border and padding plus the card's own frame
	w := r.width - 3 - hotelCardStyle.GetHorizontalFrameSize()
	if w < 20 {
		return 0
	}
	return w
}

func (r *Renderer) wrap(s string) string {
	if r.width <= 3 {
		return s
	}
	return lipgloss.NewStyle().Width(r.width - 3).Render(s)
}

func (r *Renderer) renderMarkdown(s string) string {
	if r.md == nil || r.mdWidth != r.width {
		opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
		if r.width > 3 {
			opts = append(opts, glamour.WithWordWrap(r.width-3))
		}
		md, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			r.logger.Warn().Err(err).Msg("markdown renderer unavailable, using plain text")
			r.markdown = false
			return r.wrap(s)
		}
		r.md, r.mdWidth = md, r.width
	}
	out, err := r.md.Render(s)
	if err != nil {
		r.logger.Debug().Err(err).Msg("markdown render failed")
		return r.wrap(s)
	}
	return strings.Trim(out, "\n")
}
