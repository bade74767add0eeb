// Package daemon assembles the autoattend components (notifier, journal,
// screen executor, lifecycle machine, schedule builder, supervisor and the
// optional status RPC) and runs them for the lifetime of one process.
package daemon

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/warpdl/autoattend/internal/config"
	"github.com/warpdl/autoattend/internal/journal"
	"github.com/warpdl/autoattend/internal/lifecycle"
	"github.com/warpdl/autoattend/internal/notify"
	"github.com/warpdl/autoattend/internal/scheduler"
	"github.com/warpdl/autoattend/internal/screen"
	"github.com/warpdl/autoattend/internal/server"
	"github.com/warpdl/autoattend/internal/supervisor"
	"github.com/warpdl/autoattend/internal/timetable"
	"github.com/warpdl/autoattend/pkg/credman/keyring"
	"github.com/warpdl/autoattend/pkg/logger"
)

// Sentinel errors for the daemon runner.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNoConfig is returned by New without an application config.
	ErrNoConfig = errors.New("daemon: configuration is required")
)

// ShutdownTimeout bounds the RPC server shutdown.
const ShutdownTimeout = 5 * time.Second

// Config holds the configuration for the daemon runner.
type Config struct {
	// App is the loaded static configuration.
	App *config.Config

	// Args are the original invocation arguments, used for relaunching.
	Args []string

	// Version, Commit and BuildType are reported by system.getVersion.
	Version   string
	Commit    string
	BuildType string
}

// Dependencies holds the external dependencies for the daemon runner.
// This enables dependency injection for testing.
type Dependencies struct {
	// Logger receives local logs. If nil, logs are discarded.
	Logger logger.Logger

	// Driver performs screen actions. If nil, an ExecDriver over the
	// configured helper commands is used.
	Driver screen.Driver

	// Secrets holds the telegram bot token. Optional; the environment
	// override in the config wins.
	Secrets keyring.Store

	// Sinks are extra notification channels (besides telegram and RPC pushes).
	Sinks []notify.Sink

	// Relauncher restarts the process after a crash. If nil, the process
	// re-executes itself with Config.Args.
	Relauncher supervisor.Relauncher

	// Counter is the crash counter. If nil, it is read from the environment.
	Counter *supervisor.Counter

	// Observer follows the sleep until morning. Optional.
	Observer supervisor.SleepObserver

	// Now and Sleep replace the wall clock (tests).
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error

	// ListenerFactory creates the RPC listener. If nil, net.Listen is used.
	ListenerFactory func(network, address string) (net.Listener, error)
}

// Runner owns every component of one daemon process.
type Runner struct {
	config *Config
	deps   *Dependencies
	log    logger.Logger

	notifier *notify.Notifier
	journal  *journal.Journal
	sched    *scheduler.Scheduler
	tracker  *lifecycle.Tracker
	machine  *lifecycle.Machine
	builder  *timetable.Builder
	counter  *supervisor.Counter
	store    *server.SnapshotStore
	pushes   *server.RPCNotifier
	rpc      *server.RPCServer
	sup      *supervisor.Supervisor

	mu      sync.Mutex
	running bool
}

// New wires the components. Failures of optional parts (journal, telegram)
// are logged and the daemon continues without them.
func New(cfg *Config, deps *Dependencies) (*Runner, error) {
	if cfg == nil || cfg.App == nil {
		return nil, ErrNoConfig
	}
	d := applyDependencyDefaults(cfg, deps)
	app := cfg.App
	r := &Runner{config: cfg, deps: d, log: d.Logger}

	r.pushes = server.NewRPCNotifier(d.Logger)
	r.notifier = notify.New(d.Logger, d.Sinks...)
	if sink := r.telegramSink(); sink != nil {
		r.notifier.AddSink(sink)
	}
	r.notifier.AddSink(r.pushes)

	var recorder lifecycle.Recorder
	if app.JournalPath != "" {
		j, err := journal.Open(app.JournalPath)
		if err != nil {
			d.Logger.Warning("attendance journal disabled: %v", err)
		} else {
			r.journal = j
			recorder = j
		}
	}

	r.sched = scheduler.New(d.Now)
	r.tracker = lifecycle.NewTracker()
	exec := screen.NewExecutor(d.Driver, r.notifier, screen.Options{
		HostApp: app.HostApp,
		Markers: app.Markers,
		Retry:   app.Retry,
		Sleep:   d.Sleep,
		Log:     d.Logger,
	})
	r.machine = lifecycle.New(r.tracker, exec, r.sched, r.notifier, lifecycle.Options{
		ManualCheckDelay: app.Timing.ManualCheckDelay,
		Now:              d.Now,
		Recorder:         recorder,
		Log:              d.Logger,
	})
	r.builder = timetable.NewBuilder(app, r.sched, r.machine, r.notifier)

	r.counter = d.Counter
	r.store = &server.SnapshotStore{}
	loop := supervisor.NewLoop(r.builder, r.sched, r.notifier, r.counter, supervisor.LoopOptions{
		Timing:   app.Timing,
		Now:      d.Now,
		Sleep:    d.Sleep,
		OnTick:   r.publish,
		OnNewDay: r.tracker.Reset,
		Observer: d.Observer,
		Log:      d.Logger,
	})
	recovery := supervisor.NewRecovery(r.counter, r.notifier, d.Relauncher,
		app.Recovery.RestartDelay, d.Sleep, d.Logger)
	r.sup = supervisor.New(loop, recovery, d.Logger)

	if app.RPC.Secret != "" {
		r.rpc = server.NewRPCServer(server.RPCConfig{
			Listen:    app.RPC.Listen,
			Secret:    app.RPC.Secret,
			Version:   cfg.Version,
			Commit:    cfg.Commit,
			BuildType: cfg.BuildType,
		}, r.store, r.pushes, d.Logger).WithListener(d.ListenerFactory)
	}
	return r, nil
}

// applyDependencyDefaults returns Dependencies with default values applied.
func applyDependencyDefaults(cfg *Config, deps *Dependencies) *Dependencies {
	d := Dependencies{}
	if deps != nil {
		d = *deps
	}
	if d.Logger == nil {
		d.Logger = logger.NewNopLogger()
	}
	if d.Driver == nil {
		d.Driver = screen.NewExecDriver(cfg.App.Drivers)
	}
	if d.Relauncher == nil {
		d.Relauncher = supervisor.NewProcessRelauncher(cfg.Args)
	}
	if d.Counter == nil {
		d.Counter = supervisor.CounterFromEnv(cfg.App.Recovery.MaxRestarts)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Sleep == nil {
		d.Sleep = screen.SleepContext
	}
	if d.ListenerFactory == nil {
		d.ListenerFactory = net.Listen
	}
	return &d
}

func (r *Runner) telegramSink() notify.Sink {
	n := r.config.App.Notify
	token := n.TelegramToken
	if token == "" && r.deps.Secrets != nil {
		t, err := r.deps.Secrets.Get()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			r.log.Warning("read telegram token: %v", err)
		}
		token = t
	}
	if token == "" || n.TelegramChatID == "" {
		r.log.Info("telegram notifications disabled (no token or chat id)")
		return nil
	}
	client, err := notify.NewHTTPClient(n.Proxy, notify.DefaultSendTimeout)
	if err != nil {
		r.log.Warning("telegram proxy %q: %v, sending directly", n.Proxy, err)
		client = nil
	}
	sink, err := notify.NewTelegramSink(client, token, n.TelegramChatID)
	if err != nil {
		r.log.Warning("telegram notifications disabled: %v", err)
		return nil
	}
	return sink
}

// Start runs the daemon until ctx is canceled or the supervisor gives up.
// A nil return after a crash means a replacement process was started.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	if r.rpc != nil {
		if err := r.rpc.Start(); err != nil {
			r.log.Error("status RPC not started: %v", err)
		} else {
			defer r.stopRPC()
		}
	}

	if n := r.counter.Value(); n > 0 {
		r.notifier.Info("Scheduler restarted after crash (%d/%d)", n, r.counter.Max())
	} else {
		r.notifier.Info("Smart Scheduler started with enhanced reliability")
	}
	return r.sup.Run(ctx)
}

func (r *Runner) stopRPC() {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := r.rpc.Shutdown(ctx); err != nil {
		r.log.Warning("status RPC shutdown: %v", err)
	}
}

// Close releases the journal. The logger belongs to the caller.
func (r *Runner) Close() error {
	if r.journal != nil {
		return r.journal.Close()
	}
	return nil
}

// IsRunning returns true if the daemon is currently running.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Snapshot returns the state published after the last tick.
func (r *Runner) Snapshot() server.Snapshot {
	return r.store.Load()
}

// RPCAddr returns the bound RPC address, nil when the endpoint is off.
func (r *Runner) RPCAddr() net.Addr {
	if r.rpc == nil {
		return nil
	}
	return r.rpc.Addr()
}

// publish runs on the control loop after every tick.
func (r *Runner) publish(ds timetable.DaySchedule) {
	r.store.Publish(server.Snapshot{
		Day:         ds.Date.Format(config.DateLayout),
		IsClassDay:  ds.IsClassDay,
		Reason:      string(ds.Reason),
		Slots:       server.NewSlotViews(ds.Slots),
		Meetings:    r.tracker.Snapshot(),
		Tasks:       r.sched.Pending(),
		Restarts:    r.counter.Value(),
		MaxRestarts: r.counter.Max(),
		UpdatedAt:   r.deps.Now(),
	})
}
