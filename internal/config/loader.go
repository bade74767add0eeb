// Package config loads the static autoattend configuration: the weekly meeting
// calendar, holidays, semester end, screen markers, retry budgets and the
// notification and RPC settings.
//
// The file is YAML, read through an afero.Fs so callers (and tests) decide
// where it lives. Environment variables override secrets after the file is read.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/autoattend/common"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when the configuration file does not exist.
var ErrNotFound = errors.New("config: file not found")

type fileSlot struct {
	Join  string `yaml:"join"`
	Leave string `yaml:"leave"`
	Link  string `yaml:"link"`
}

type fileConfig struct {
	Calendar    map[string][]fileSlot `yaml:"calendar"`
	Holidays    []string              `yaml:"holidays"`
	SemesterEnd string                `yaml:"semester_end"`
	HostApp     string                `yaml:"host_app"`
	Markers     struct {
		Join            string   `yaml:"join"`
		Leave           string   `yaml:"leave"`
		JoinConfidence  *float64 `yaml:"join_confidence"`
		LeaveConfidence *float64 `yaml:"leave_confidence"`
	} `yaml:"markers"`
	Retry struct {
		ForegroundAttempts int           `yaml:"foreground_attempts"`
		ForegroundInterval time.Duration `yaml:"foreground_interval"`
		JoinAttempts       int           `yaml:"join_attempts"`
		JoinInterval       time.Duration `yaml:"join_interval"`
		LeaveAttempts      int           `yaml:"leave_attempts"`
		LeaveInterval      time.Duration `yaml:"leave_interval"`
	} `yaml:"retry"`
	Timing struct {
		ReminderLead     time.Duration `yaml:"reminder_lead"`
		ManualCheckDelay time.Duration `yaml:"manual_check_delay"`
		PollInterval     time.Duration `yaml:"poll_interval"`
		HealthInterval   time.Duration `yaml:"health_interval"`
		SleepStep        time.Duration `yaml:"sleep_step"`
		Morning          string        `yaml:"morning"`
	} `yaml:"timing"`
	Recovery struct {
		MaxRestarts  int           `yaml:"max_restarts"`
		RestartDelay time.Duration `yaml:"restart_delay"`
	} `yaml:"recovery"`
	Notify struct {
		TelegramChatID string `yaml:"telegram_chat_id"`
		Proxy          string `yaml:"proxy"`
	} `yaml:"notify"`
	Drivers struct {
		OpenURL      []string `yaml:"open_url"`
		BringToFront []string `yaml:"bring_to_front"`
		Locate       []string `yaml:"locate"`
		Click        []string `yaml:"click"`
	} `yaml:"drivers"`
	Journal string `yaml:"journal"`
	LogFile string `yaml:"log_file"`
	RPC     struct {
		Listen string `yaml:"listen"`
	} `yaml:"rpc"`
}

// DefaultDir returns the configuration directory: $AUTOATTEND_CONFIG_DIR when
// set, otherwise "autoattend" under the user config directory.
func DefaultDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(common.ConfigDirEnv)); dir != "" {
		return filepath.Abs(dir)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(base, "autoattend"), nil
}

// ResolvePath picks the configuration file: explicit path, then
// $AUTOATTEND_CONFIG, then config.yaml inside dir.
func ResolvePath(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	if env := strings.TrimSpace(os.Getenv(common.ConfigFileEnv)); env != "" {
		return env
	}
	return filepath.Join(dir, common.ConfigFileName)
}

// Load reads and validates the configuration file at path. Relative marker,
// journal and log paths are resolved against the file's directory.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Parse decodes YAML bytes into a validated Config. baseDir anchors relative paths.
func Parse(data []byte, baseDir string) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg := Default()
	var invalid []string
	bad := func(format string, args ...interface{}) {
		invalid = append(invalid, fmt.Sprintf(format, args...))
	}

	names := make([]string, 0, len(fc.Calendar))
	for name := range fc.Calendar {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		slots := fc.Calendar[name]
		day, ok := parseWeekday(name)
		if !ok {
			bad("calendar: unknown weekday %q", name)
			continue
		}
		for i, fs := range slots {
			slot, err := parseSlot(fs)
			if err != nil {
				bad("calendar.%s[%d]: %v", name, i, err)
				continue
			}
			cfg.Calendar[day] = append(cfg.Calendar[day], slot)
		}
	}
	for day := range cfg.Calendar {
		slots := cfg.Calendar[day]
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].Join.Before(slots[j].Join) })
	}

	for _, h := range fc.Holidays {
		d, err := time.Parse(DateLayout, strings.TrimSpace(h))
		if err != nil {
			bad("holidays: invalid date %q", h)
			continue
		}
		cfg.Holidays[d.Format(DateLayout)] = struct{}{}
	}

	if s := strings.TrimSpace(fc.SemesterEnd); s != "" {
		d, err := time.ParseInLocation(DateLayout, s, time.Local)
		if err != nil {
			bad("semester_end: invalid date %q", s)
		} else {
			cfg.SemesterEnd = d
		}
	}

	if fc.HostApp != "" {
		cfg.HostApp = fc.HostApp
	}
	if fc.Markers.Join != "" {
		cfg.Markers.JoinImage = fc.Markers.Join
	}
	if fc.Markers.Leave != "" {
		cfg.Markers.LeaveImage = fc.Markers.Leave
	}
	cfg.Markers.JoinImage = anchor(baseDir, cfg.Markers.JoinImage)
	cfg.Markers.LeaveImage = anchor(baseDir, cfg.Markers.LeaveImage)
	setConfidence(&cfg.Markers.JoinConfidence, fc.Markers.JoinConfidence, "markers.join_confidence", bad)
	setConfidence(&cfg.Markers.LeaveConfidence, fc.Markers.LeaveConfidence, "markers.leave_confidence", bad)

	setCount(&cfg.Retry.ForegroundAttempts, fc.Retry.ForegroundAttempts, "retry.foreground_attempts", bad)
	setCount(&cfg.Retry.JoinAttempts, fc.Retry.JoinAttempts, "retry.join_attempts", bad)
	setCount(&cfg.Retry.LeaveAttempts, fc.Retry.LeaveAttempts, "retry.leave_attempts", bad)
	setDuration(&cfg.Retry.ForegroundInterval, fc.Retry.ForegroundInterval, "retry.foreground_interval", bad)
	setDuration(&cfg.Retry.JoinInterval, fc.Retry.JoinInterval, "retry.join_interval", bad)
	setDuration(&cfg.Retry.LeaveInterval, fc.Retry.LeaveInterval, "retry.leave_interval", bad)

	setDuration(&cfg.Timing.ReminderLead, fc.Timing.ReminderLead, "timing.reminder_lead", bad)
	setDuration(&cfg.Timing.ManualCheckDelay, fc.Timing.ManualCheckDelay, "timing.manual_check_delay", bad)
	setDuration(&cfg.Timing.PollInterval, fc.Timing.PollInterval, "timing.poll_interval", bad)
	setDuration(&cfg.Timing.HealthInterval, fc.Timing.HealthInterval, "timing.health_interval", bad)
	setDuration(&cfg.Timing.SleepStep, fc.Timing.SleepStep, "timing.sleep_step", bad)
	if fc.Timing.Morning != "" {
		t, err := ParseTimeOfDay(fc.Timing.Morning)
		if err != nil {
			bad("timing.morning: %v", err)
		} else {
			cfg.Timing.Morning = t
		}
	}

	setCount(&cfg.Recovery.MaxRestarts, fc.Recovery.MaxRestarts, "recovery.max_restarts", bad)
	setDuration(&cfg.Recovery.RestartDelay, fc.Recovery.RestartDelay, "recovery.restart_delay", bad)

	cfg.Notify.TelegramChatID = fc.Notify.TelegramChatID
	cfg.Notify.Proxy = fc.Notify.Proxy

	setCommand(&cfg.Drivers.OpenURL, fc.Drivers.OpenURL)
	setCommand(&cfg.Drivers.BringToFront, fc.Drivers.BringToFront)
	setCommand(&cfg.Drivers.Locate, fc.Drivers.Locate)
	setCommand(&cfg.Drivers.Click, fc.Drivers.Click)

	cfg.JournalPath = anchor(baseDir, fc.Journal)
	if cfg.JournalPath == "" {
		cfg.JournalPath = filepath.Join(baseDir, common.JournalFileName)
	}
	cfg.LogFile = anchor(baseDir, fc.LogFile)
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(baseDir, common.LogFileName)
	}
	cfg.RPC.Listen = common.DefaultRPCListen
	if fc.RPC.Listen != "" {
		cfg.RPC.Listen = fc.RPC.Listen
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("config: invalid values: %s", strings.Join(invalid, "; "))
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(common.TelegramTokenEnv)); v != "" {
		cfg.Notify.TelegramToken = v
	}
	if v := strings.TrimSpace(os.Getenv(common.TelegramChatEnv)); v != "" {
		cfg.Notify.TelegramChatID = v
	}
	if v := strings.TrimSpace(os.Getenv(common.RPCSecretEnv)); v != "" {
		cfg.RPC.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv(common.DebugEnv)); v != "" && v != "0" {
		cfg.Debug = true
	}
}

func parseSlot(fs fileSlot) (Slot, error) {
	join, err := ParseTimeOfDay(fs.Join)
	if err != nil {
		return Slot{}, fmt.Errorf("join: %w", err)
	}
	leave, err := ParseTimeOfDay(fs.Leave)
	if err != nil {
		return Slot{}, fmt.Errorf("leave: %w", err)
	}
	if !join.Before(leave) {
		return Slot{}, fmt.Errorf("join %s is not before leave %s", join, leave)
	}
	link := strings.TrimSpace(fs.Link)
	if link == "" {
		return Slot{}, errors.New("empty link")
	}
	return Slot{Join: join, Leave: leave, Link: link}, nil
}

func parseWeekday(name string) (time.Weekday, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || (len(n) == 3 && strings.HasPrefix(full, n)) {
			return d, true
		}
	}
	return 0, false
}

func anchor(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}

// setConfidence leaves dst alone when the key is absent; an explicit 0 is kept.
func setConfidence(dst *float64, v *float64, key string, bad func(string, ...interface{})) {
	if v == nil {
		return
	}
	if *v < 0 || *v > 1 {
		bad("%s: %v outside [0,1]", key, *v)
		return
	}
	*dst = *v
}

func setCount(dst *int, v int, key string, bad func(string, ...interface{})) {
	if v == 0 {
		return
	}
	if v < 0 {
		bad("%s: must be positive, got %d", key, v)
		return
	}
	*dst = v
}

func setDuration(dst *time.Duration, v time.Duration, key string, bad func(string, ...interface{})) {
	if v == 0 {
		return
	}
	if v < 0 {
		bad("%s: must be positive, got %s", key, v)
		return
	}
	*dst = v
}

func setCommand(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = v
	}
}
