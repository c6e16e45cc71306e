package hotels

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func hotelList(names ...string) []Hotel {
	ret := make([]Hotel, 0, len(names))
	for _, n := range names {
		ret = append(ret, Hotel{Name: n})
	}
	return ret
}

func TestExactlyThreeHasNoToggle(t *testing.T) {
	hs := hotelList("a", "b", "c")
	v := ListView{}
	require.False(t, CanExpand(len(hs)))
	require.Equal(t, "", v.ToggleLabel(len(hs)))
	require.Len(t, v.Visible(hs), 3)
}

func TestFourShowsOneMore(t *testing.T) {
	hs := hotelList("a", "b", "c", "d")
	v := ListView{}
	require.True(t, CanExpand(len(hs)))
	require.Contains(t, v.ToggleLabel(len(hs)), "Show 1 More")
	require.Len(t, v.Visible(hs), 3)

	v = v.Toggle()
	require.Equal(t, "Show Less", v.ToggleLabel(len(hs)))
	require.Len(t, v.Visible(hs), 4)
}

func TestToggleDoesNotMutateHotels(t *testing.T) {
	hs := hotelList("a", "b", "c", "d", "e")
	before := append([]Hotel(nil), hs...)

	v := ListView{}
	for i := 0; i < 4; i++ {
		vis := v.Visible(hs)
		if len(vis) > 0 {
			vis[0].Name = "changed"
		}
		v = v.Toggle()
	}
	require.Equal(t, before, hs)
}

func TestTruncateDescription(t *testing.T) {
	short := strings.Repeat("x", DescriptionLimit)
	require.Equal(t, short, TruncateDescription(short))

	long := strings.Repeat("é", DescriptionLimit+10)
	got := TruncateDescription(long)
	require.True(t, strings.HasSuffix(got, "..."))
	require.Equal(t, DescriptionLimit+3, len([]rune(got)))
}

func TestVisibleAmenities(t *testing.T) {
	tags, rest := VisibleAmenities([]string{"a", "b"})
	require.Equal(t, []string{"a", "b"}, tags)
	require.Equal(t, 0, rest)

	tags, rest = VisibleAmenities([]string{"1", "2", "3", "4", "5", "6", "7"})
	require.Len(t, tags, 5)
	require.Equal(t, 2, rest)
}

func TestStars(t *testing.T) {
	require.Equal(t, "☆☆☆☆☆", Stars(0))
	require.Equal(t, "★★★★☆", Stars(4))
	require.Equal(t, "★★★½☆", Stars(3.5))
	require.Equal(t, "★★★★★", Stars(7))
}

func TestSummaryAndIcons(t *testing.T) {
	require.Equal(t, "Found 2 hotels matching your criteria", Summary(2))
	require.NotEmpty(t, AmenityIcon("Free WiFi"))
	require.NotEmpty(t, AmenityIcon("Swimming pool"))
	require.Empty(t, AmenityIcon("Spa"))
}
