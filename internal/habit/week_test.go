package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 15, 30, 0, 0, time.UTC)
}

func TestWeekOf_WednesdayMapsToMonday(t *testing.T) {
	// 2026-10-21 is a Wednesday.
	assert.Equal(t, WeekKey("2026-10-19"), WeekOf(date(2026, time.October, 21)))
}

func TestWeekOf_SameWeekSameKey(t *testing.T) {
	monday := date(2026, time.October, 19)
	want := WeekOf(monday)
	for i := 0; i < 7; i++ {
		assert.Equal(t, want, WeekOf(monday.AddDate(0, 0, i)), "day offset %d", i)
	}
	assert.NotEqual(t, want, WeekOf(monday.AddDate(0, 0, 7)))
	assert.NotEqual(t, want, WeekOf(monday.AddDate(0, 0, -1)))
}

func TestWeekOf_SundayBelongsToPrecedingMonday(t *testing.T) {
	assert.Equal(t, WeekKey("2026-10-19"), WeekOf(date(2026, time.October, 25)))
}

func TestWeekOf_AcrossYearBoundary(t *testing.T) {
	// 2027-01-01 is a Friday; its week starts on Monday 2026-12-28.
	assert.Equal(t, WeekKey("2026-12-28"), WeekOf(date(2027, time.January, 1)))
}

func TestWeekOf_UsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// Monday 00:30 local is still Sunday in UTC.
	ref := time.Date(2026, time.October, 26, 0, 30, 0, 0, loc)
	assert.Equal(t, WeekKey("2026-10-26"), WeekOf(ref))
	assert.Equal(t, WeekKey("2026-10-19"), WeekOf(ref.UTC()))
}

func TestStartOfWeek_Midnight(t *testing.T) {
	got := StartOfWeek(date(2026, time.October, 22))
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), got)
}

func TestParseWeekKey(t *testing.T) {
	k, err := ParseWeekKey("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, WeekKey("2026-10-19"), k)

	_, err = ParseWeekKey("2026-10-20")
	assert.ErrorContains(t, err, "not a Monday")

	_, err = ParseWeekKey("19/10/2026")
	assert.Error(t, err)
}

func TestDaysAndRange(t *testing.T) {
	monday := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	days := Days(monday)
	assert.Equal(t, 19, days[0].Day())
	assert.Equal(t, 25, days[6].Day())
	assert.Equal(t, time.Sunday, days[6].Weekday())

	assert.Equal(t, "Oct 19 – Oct 25, 2026", FormatRange(monday))
	assert.Equal(t, "Dec 28, 2026 – Jan 3, 2027",
		FormatRange(time.Date(2026, time.December, 28, 0, 0, 0, 0, time.UTC)))
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"6", 6},
		{"mon", 0},
		{"Wed", 2},
		{"wednesday", 2},
		{"tu", 1},
		{"th", 3},
		{"su", 6},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"7", "-1", "t", "s", "funday", ""} {
		_, err := ParseDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestWeekDone(t *testing.T) {
	assert.Equal(t, 0, Week{}.Done())
	assert.Equal(t, 2, Week{true, false, true}.Done())
}
