package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	daysInWeek  = 7
	minutesADay = 24 * 60
)

var (
	ErrInvalidClock    = errors.New("time must be formatted as HH:MM")
	ErrInvalidSchedule = errors.New("invalid schedule")
)

// DaySchedule holds the opening hours of a single weekday.
type DaySchedule struct {
	Open     string `json:"open"`
	Close    string `json:"close"`
	Interval int    `json:"interval"`
}

// WeeklySchedule is indexed by ISO weekday minus one: Monday at 0, Sunday at 6.
// A nil entry marks a closed day.
type WeeklySchedule [daysInWeek]*DaySchedule

// ParseClock converts "HH:MM" or "HH:MM:SS" to minutes since midnight. Seconds are ignored.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, ErrInvalidClock
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, ErrInvalidClock
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 || len(parts[1]) != 2 {
		return 0, ErrInvalidClock
	}
	if len(parts) == 3 {
		seconds, err := strconv.Atoi(parts[2])
		if err != nil || seconds < 0 || seconds > 59 {
			return 0, ErrInvalidClock
		}
	}

	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ISOWeekday returns 1 for Monday through 7 for Sunday.
func ISOWeekday(date time.Time) int {
	weekday := int(date.Weekday())
	if weekday == 0 {
		return daysInWeek
	}
	return weekday
}

// Validate checks open < close and interval > 0.
func (d *DaySchedule) Validate() error {
	open, err := ParseClock(d.Open)
	if err != nil {
		return fmt.Errorf("%w: open: %v", ErrInvalidSchedule, err)
	}
	closing, err := ParseClock(d.Close)
	if err != nil {
		return fmt.Errorf("%w: close: %v", ErrInvalidSchedule, err)
	}
	if open >= closing {
		return fmt.Errorf("%w: open must be before close", ErrInvalidSchedule)
	}
	if d.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidSchedule)
	}
	return nil
}

// Slots lists every slot start from open up to, but excluding, close.
func (d *DaySchedule) Slots() []string {
	if d == nil || d.Interval <= 0 {
		return []string{}
	}
	open, err := ParseClock(d.Open)
	if err != nil {
		return []string{}
	}
	closing, err := ParseClock(d.Close)
	if err != nil {
		return []string{}
	}

	slots := make([]string, 0, (closing-open)/d.Interval+1)
	for t := open; t < closing && t < minutesADay; t += d.Interval {
		slots = append(slots, FormatClock(t))
	}
	return slots
}

// Accepts reports whether the clock time falls on a slot boundary inside opening hours.
func (d *DaySchedule) Accepts(clock string) bool {
	if d == nil || d.Interval <= 0 {
		return false
	}
	t, err := ParseClock(clock)
	if err != nil {
		return false
	}
	open, err := ParseClock(d.Open)
	if err != nil {
		return false
	}
	closing, err := ParseClock(d.Close)
	if err != nil {
		return false
	}
	return t >= open && t < closing && (t-open)%d.Interval == 0
}

// DayFor returns the entry that applies to the date, nil when the professional is closed.
func (s WeeklySchedule) DayFor(date time.Time) *DaySchedule {
	return s[ISOWeekday(date)-1]
}

// SlotsFor lists the slots of the date's weekday.
func (s WeeklySchedule) SlotsFor(date time.Time) []string {
	return s.DayFor(date).Slots()
}

// IsSlotValid reports whether a booking at date/clock matches the schedule.
func (s WeeklySchedule) IsSlotValid(date time.Time, clock string) bool {
	return s.DayFor(date).Accepts(clock)
}

// Validate checks every configured day.
func (s WeeklySchedule) Validate() error {
	for i, day := range s {
		if day == nil {
			continue
		}
		if err := day.Validate(); err != nil {
			return fmt.Errorf("day %d: %w", i+1, err)
		}
	}
	return nil
}

// Value implements driver.Valuer for the jsonb column.
func (s WeeklySchedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for the jsonb column.
func (s *WeeklySchedule) Scan(value interface{}) error {
	if value == nil {
		*s = WeeklySchedule{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal schedule value: %v", value)
	}

	var days []*DaySchedule
	if err := json.Unmarshal(bytes, &days); err != nil {
		return err
	}
	*s = WeeklySchedule{}
	for i := 0; i < len(days) && i < daysInWeek; i++ {
		s[i] = days[i]
	}
	return nil
}
