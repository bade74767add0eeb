package config

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock hour and minute without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns the instant at this time of day on the date of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, day.Location())
}

// Before reports whether t is earlier in the day than o.
func (t TimeOfDay) Before(o TimeOfDay) bool {
	if t.Hour != o.Hour {
		return t.Hour < o.Hour
	}
	return t.Minute < o.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Slot is one configured meeting: join and leave times plus the meeting link.
// Within a day a slot is identified by its link.
type Slot struct {
	Join  TimeOfDay
	Leave TimeOfDay
	Link  string
}

// Markers locates the reference images matched on screen.
type Markers struct {
	JoinImage       string
	LeaveImage      string
	JoinConfidence  float64
	LeaveConfidence float64
}

// Retry holds attempt budgets and spacing for screen actions.
type Retry struct {
	ForegroundAttempts int
	ForegroundInterval time.Duration
	JoinAttempts       int
	JoinInterval       time.Duration
	LeaveAttempts      int
	LeaveInterval      time.Duration
}

// Timing holds schedule offsets and loop cadences.
type Timing struct {
	ReminderLead     time.Duration
	ManualCheckDelay time.Duration
	PollInterval     time.Duration
	HealthInterval   time.Duration
	SleepStep        time.Duration
	Morning          TimeOfDay
}

// Recovery bounds crash restarts.
type Recovery struct {
	MaxRestarts  int
	RestartDelay time.Duration
}

// Notify configures the outbound notification channel.
type Notify struct {
	TelegramToken  string
	TelegramChatID string
	Proxy          string
}

// Drivers are the helper command templates used for external capabilities.
// Placeholders: {url}, {app}, {image}, {confidence}, {x}, {y}.
type Drivers struct {
	OpenURL      []string
	BringToFront []string
	Locate       []string
	Click        []string
}

// RPC configures the optional status endpoint. It is disabled when Secret is empty.
type RPC struct {
	Listen string
	Secret string
}

// Config is the static configuration loaded once at startup.
type Config struct {
	Calendar    map[time.Weekday][]Slot
	Holidays    map[string]struct{}
	SemesterEnd time.Time
	HostApp     string
	Markers     Markers
	Retry       Retry
	Timing      Timing
	Recovery    Recovery
	Notify      Notify
	Drivers     Drivers
	JournalPath string
	LogFile     string
	RPC         RPC
	Debug       bool
}

// IsHoliday reports whether day's date (YYYY-MM-DD) is in the holiday set.
func (c *Config) IsHoliday(day time.Time) bool {
	_, ok := c.Holidays[day.Format(DateLayout)]
	return ok
}

// DateLayout is the format of holiday and semester-end dates.
const DateLayout = "2006-01-02"
