package hotels

import (
	"fmt"
	"math"
	"strings"
)

const (
	CollapsedLimit   = 3
	DescriptionLimit = 150
	AmenityLimit     = 5
)

// ListView is the local view state of one rendered hotel list. It never
// touches the hotels it is applied to.
type ListView struct {
	Expanded bool
}

func (v ListView) Toggle() ListView {
	return ListView{Expanded: !v.Expanded}
}

// CanExpand reports whether a list of n hotels gets an expand affordance.
func CanExpand(n int) bool {
	return n > CollapsedLimit
}

// Visible returns the hotels to display, as a fresh slice.
func (v ListView) Visible(hotels []Hotel) []Hotel {
	n := len(hotels)
	if !v.Expanded && n > CollapsedLimit {
		n = CollapsedLimit
	}
	ret := make([]Hotel, n)
	copy(ret, hotels[:n])
	return ret
}

// ToggleLabel is the expand/collapse affordance text, empty when there is
// nothing to expand.
func (v ListView) ToggleLabel(total int) string {
	if !CanExpand(total) {
		return ""
	}
	if v.Expanded {
		return "Show Less"
	}
	return fmt.Sprintf("Show %d More Hotels", total-CollapsedLimit)
}

func Summary(total int) string {
	return fmt.Sprintf("Found %d hotels matching your criteria", total)
}

// TruncateDescription shortens s to DescriptionLimit runes plus an ellipsis.
func TruncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= DescriptionLimit {
		return s
	}
	return string(r[:DescriptionLimit]) + "..."
}

// VisibleAmenities returns the tags to show and how many were left out.
func VisibleAmenities(tags []string) ([]string, int) {
	if len(tags) <= AmenityLimit {
		return tags, 0
	}
	return tags[:AmenityLimit], len(tags) - AmenityLimit
}

// Stars renders a rating out of five with half-star precision.
func Stars(rating float64) string {
	if rating > 5 {
		rating = 5
	}
	if rating < 0 {
		rating = 0
	}
	halves := int(math.Round(rating * 2))
	full := halves / 2
	half := halves%2 == 1
	empty := 5 - full
	var b strings.Builder
	b.WriteString(strings.Repeat("★", full))
	if half {
		b.WriteString("½")
		empty--
	}
	b.WriteString(strings.Repeat("☆", empty))
	return b.String()
}

// AmenityIcon returns a small glyph for well-known amenity tags.
func AmenityIcon(tag string) string {
	t := strings.ToLower(tag)
	switch {
	case strings.Contains(t, "wifi") || strings.Contains(t, "internet"):
		return "📶"
	case strings.Contains(t, "parking"):
		return "🅿"
	case strings.Contains(t, "ac") || strings.Contains(t, "air") || strings.Contains(t, "climate"):
		return "❄"
	case strings.Contains(t, "restaurant") || strings.Contains(t, "breakfast") || strings.Contains(t, "food"):
		return "🍽"
	case strings.Contains(t, "pool") || strings.Contains(t, "swim"):
		return "🏊"
	default:
		return ""
	}
}
