package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse(DateLayout, value)
	require.NoError(t, err)
	return date
}

func weekdaySchedule() WeeklySchedule {
	var s WeeklySchedule
	s[0] = &DaySchedule{Open: "09:00", Close: "12:00", Interval: 30}
	s[2] = &DaySchedule{Open: "14:00", Close: "17:00", Interval: 45}
	s[6] = &DaySchedule{Open: "10:00", Close: "11:00", Interval: 20}
	return s
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"9:05", 545, false},
		{"23:59", 1439, false},
		{"14:00:00", 840, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12:5", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidClock, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestISOWeekday_SundayIsLast(t *testing.T) {
	assert.Equal(t, 1, ISOWeekday(mustDate(t, "2024-06-03")))
	assert.Equal(t, 6, ISOWeekday(mustDate(t, "2024-06-08")))
	assert.Equal(t, 7, ISOWeekday(mustDate(t, "2024-06-09")))
}

func TestDaySchedule_Slots(t *testing.T) {
	day := &DaySchedule{Open: "09:00", Close: "10:30", Interval: 30}
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, day.Slots())

	uneven := &DaySchedule{Open: "14:00", Close: "15:00", Interval: 45}
	assert.Equal(t, []string{"14:00", "14:45"}, uneven.Slots())

	var closed *DaySchedule
	assert.Empty(t, closed.Slots())

	assert.Empty(t, (&DaySchedule{Open: "09:00", Close: "10:00", Interval: 0}).Slots())
}

func TestWeeklySchedule_IsSlotValid(t *testing.T) {
	s := weekdaySchedule()
	monday := mustDate(t, "2024-06-03")
	tuesday := mustDate(t, "2024-06-04")
	wednesday := mustDate(t, "2024-06-05")
	sunday := mustDate(t, "2024-06-09")

	assert.True(t, s.IsSlotValid(monday, "09:00"))
	assert.True(t, s.IsSlotValid(monday, "11:30"))
	assert.True(t, s.IsSlotValid(monday, "10:30:00"))
	assert.False(t, s.IsSlotValid(monday, "12:00"), "closing time is exclusive")
	assert.False(t, s.IsSlotValid(monday, "08:30"), "before opening")
	assert.False(t, s.IsSlotValid(monday, "09:15"), "off boundary")
	assert.False(t, s.IsSlotValid(monday, "bad"))

	assert.False(t, s.IsSlotValid(tuesday, "09:00"), "closed day")

	assert.True(t, s.IsSlotValid(wednesday, "14:45"))
	assert.True(t, s.IsSlotValid(wednesday, "16:15"))
	assert.False(t, s.IsSlotValid(wednesday, "14:30"))

	assert.True(t, s.IsSlotValid(sunday, "10:40"))
	assert.False(t, s.IsSlotValid(sunday, "11:00"))
}

func TestWeeklySchedule_IsSlotValidMatchesSlots(t *testing.T) {
	s := weekdaySchedule()
	start := mustDate(t, "2024-06-03")

	for d := 0; d < 7; d++ {
		date := start.AddDate(0, 0, d)
		valid := map[string]bool{}
		for _, slot := range s.SlotsFor(date) {
			valid[slot] = true
		}
		for minute := 0; minute < minutesADay; minute++ {
			clock := FormatClock(minute)
			assert.Equal(t, valid[clock], s.IsSlotValid(date, clock), "%s %s", date.Format(DateLayout), clock)
		}
	}
}

func TestWeeklySchedule_Validate(t *testing.T) {
	assert.NoError(t, weekdaySchedule().Validate())

	var reversed WeeklySchedule
	reversed[1] = &DaySchedule{Open: "18:00", Close: "09:00", Interval: 30}
	assert.ErrorIs(t, reversed.Validate(), ErrInvalidSchedule)

	var noInterval WeeklySchedule
	noInterval[4] = &DaySchedule{Open: "09:00", Close: "18:00"}
	assert.ErrorIs(t, noInterval.Validate(), ErrInvalidSchedule)

	var badClock WeeklySchedule
	badClock[3] = &DaySchedule{Open: "9h", Close: "18:00", Interval: 15}
	assert.ErrorIs(t, badClock.Validate(), ErrInvalidSchedule)
}

func TestWeeklySchedule_ValueScan(t *testing.T) {
	s := weekdaySchedule()
	value, err := s.Value()
	require.NoError(t, err)

	var scanned WeeklySchedule
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, s, scanned)
	assert.Nil(t, scanned[1])

	var short WeeklySchedule
	require.NoError(t, short.Scan(`[{"open":"08:00","close":"09:00","interval":15}]`))
	assert.Equal(t, "08:00", short[0].Open)
	assert.Nil(t, short[6])

	var empty WeeklySchedule
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, WeeklySchedule{}, empty)
}

func TestWeeklySchedule_JSONShape(t *testing.T) {
	var s WeeklySchedule
	s[0] = &DaySchedule{Open: "09:00", Close: "10:00", Interval: 60}

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"open":"09:00","close":"10:00","interval":60},null,null,null,null,null,null]`, string(raw))
}
