package config

import "time"

// Default values, matching the behavior the daemon was tuned for.
const (
	DefaultHostApp         = "Microsoft Teams"
	DefaultJoinImage       = "assets/join_button.png"
	DefaultLeaveImage      = "assets/leave_button.png"
	DefaultJoinConfidence  = 0.8
	DefaultLeaveConfidence = 0.7

	DefaultForegroundAttempts = 4
	DefaultJoinAttempts       = 3
	DefaultLeaveAttempts      = 12
	DefaultActionInterval     = 5 * time.Second

	DefaultReminderLead     = 10 * time.Minute
	DefaultManualCheckDelay = 20 * time.Minute
	DefaultPollInterval     = 30 * time.Second
	DefaultHealthInterval   = time.Hour
	DefaultSleepStep        = 60 * time.Second

	DefaultMaxRestarts  = 5
	DefaultRestartDelay = 10 * time.Second
)

// DefaultMorning is when a day without classes ends its sleep.
var DefaultMorning = TimeOfDay{Hour: 6}

// Default returns a Config with every tunable set to its default and an
// empty calendar.
func Default() *Config {
	return &Config{
		Calendar: make(map[time.Weekday][]Slot),
		Holidays: make(map[string]struct{}),
		HostApp:  DefaultHostApp,
		Markers: Markers{
			JoinImage:       DefaultJoinImage,
			LeaveImage:      DefaultLeaveImage,
			JoinConfidence:  DefaultJoinConfidence,
			LeaveConfidence: DefaultLeaveConfidence,
		},
		Retry: Retry{
			ForegroundAttempts: DefaultForegroundAttempts,
			ForegroundInterval: DefaultActionInterval,
			JoinAttempts:       DefaultJoinAttempts,
			JoinInterval:       DefaultActionInterval,
			LeaveAttempts:      DefaultLeaveAttempts,
			LeaveInterval:      DefaultActionInterval,
		},
		Timing: Timing{
			ReminderLead:     DefaultReminderLead,
			ManualCheckDelay: DefaultManualCheckDelay,
			PollInterval:     DefaultPollInterval,
			HealthInterval:   DefaultHealthInterval,
			SleepStep:        DefaultSleepStep,
			Morning:          DefaultMorning,
		},
		Recovery: Recovery{
			MaxRestarts:  DefaultMaxRestarts,
			RestartDelay: DefaultRestartDelay,
		},
		Drivers: Drivers{
			OpenURL:      []string{"xdg-open", "{url}"},
			BringToFront: []string{"wmctrl", "-a", "{app}"},
			Locate:       []string{"autoattend-locate", "{image}", "{confidence}"},
			Click:        []string{"xdotool", "mousemove", "{x}", "{y}", "click", "1"},
		},
	}
}
