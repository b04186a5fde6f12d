// Copyright (C) 2026 hades-rt.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package app wires the Current Value Table, Data Logger, Alarm Manager,
// FSM scheduler, Store, and Notification Sink into one explicit value —
// the Supervisor from spec §4.9 — rather than a collection of process
// singletons (spec §9's Design Note).
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/gops/agent"

	"github.com/hades-rt/hades-core/internal/alarm"
	"github.com/hades-rt/hades-core/internal/config"
	"github.com/hades-rt/hades-core/internal/cvt"
	"github.com/hades-rt/hades-core/internal/datalogger"
	"github.com/hades-rt/hades-core/internal/fsm"
	"github.com/hades-rt/hades-core/internal/notify"
	"github.com/hades-rt/hades-core/internal/scheduler"
	"github.com/hades-rt/hades-core/internal/store"
	"github.com/hades-rt/hades-core/pkg/log"
	"github.com/hades-rt/hades-core/pkg/units"
)

// Mode selects which of the config file's db.dev_mode/db.prod_mode
// sections SetDBFromConfigFile uses.
type Mode int

const (
	Development Mode = iota
	Production
)

// MachineMode selects which scheduling discipline DefineMachine uses
// (spec §4.8).
type MachineMode int

const (
	Sync MachineMode = iota
	Async
)

// App is the Supervisor: an explicit value wiring every component, with
// a package-level convenience constructor below for callers that want
// the old singleton ergonomics.
type App struct {
	mode Mode

	mu       sync.Mutex
	repo     *cvt.Repository
	units    *units.Table
	store    store.Store
	notifier notify.Sink
	logger   *datalogger.Logger
	manager  *alarm.Manager
	sync         *scheduler.SyncScheduler
	async        *scheduler.AsyncScheduler
	tasks        *scheduler.TaskPool
	machines     map[string]*fsm.StateMachine
	automations  map[string]*fsm.AutomationStateMachine
	pendingAsync []pendingAsyncMachine
	runCtx       context.Context

	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// pendingAsyncMachine is an Async-mode machine defined before Run gave the
// Supervisor a context to spawn it against.
type pendingAsyncMachine struct {
	name     string
	machine  *fsm.StateMachine
	interval time.Duration
}

// New constructs an App with an empty CVT, a no-op notification sink,
// and no Store attached yet — SetDB/SetDBFromConfigFile must be called
// before Run for persistence to take effect.
func New() *App {
	unitTable := units.Default()
	a := &App{
		units:       unitTable,
		notifier:    notify.Noop{},
		machines:    make(map[string]*fsm.StateMachine),
		automations: make(map[string]*fsm.AutomationStateMachine),
		sync:        scheduler.NewSyncScheduler(),
		async:       &scheduler.AsyncScheduler{},
	}
	a.repo = cvt.New(unitTable, nil)
	a.manager = alarm.NewManager(a.repo, alarmSink{notify: a.notifier}, 0)
	pool, err := scheduler.NewTaskPool(scheduler.DefaultPoolSize)
	if err != nil {
		// NewTaskPool only fails if gocron itself cannot construct a
		// scheduler, which indicates a broken runtime environment.
		log.Fatalf("app: constructing task pool: %v", err)
	}
	a.tasks = pool
	return a
}

var (
	defaultOnce sync.Once
	defaultApp  *App
)

// Default returns a process-wide App, constructing it on first use. It
// exists only for CLI/test callers that want singleton ergonomics; new
// code should prefer New() and pass the App explicitly.
func Default() *App {
	defaultOnce.Do(func() { defaultApp = New() })
	return defaultApp
}

// SetMode selects Development or Production for SetDBFromConfigFile.
func (a *App) SetMode(m Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = m
}

// SetNotifier replaces the notification Sink every future alarm
// transition and other runtime event is published through. It rebuilds the
// Alarm Manager's sink around the current Store, so it may be called before
// or after SetDB.
func (a *App) SetNotifier(n notify.Sink) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notifier = n
	a.manager.SetSink(alarmSink{store: a.store, notify: n})
	if a.logger != nil {
		a.logger.SetNotifier(n)
	}
	for _, am := range a.automations {
		am.SetNotifier(n)
	}
}

// SetDB opens a Store over driver/dsn and attaches it to the Data
// Logger and Alarm Manager's persistence path.
func (a *App) SetDB(driver, dsn string) error {
	s, err := store.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("app: opening store: %w", err)
	}
	a.mu.Lock()
	a.store = s
	a.manager.SetSink(alarmSink{store: s, notify: a.notifier})
	a.mu.Unlock()
	return nil
}

// SetDBFromConfigFile reads path (spec §6's YAML shape) and calls SetDB
// using whichever of dev_mode/prod_mode matches the current Mode.
func (a *App) SetDBFromConfigFile(path string) error {
	cfg, err := config.Load(path, "")
	if err != nil {
		return err
	}

	a.mu.Lock()
	mode := a.mode
	a.mu.Unlock()

	if mode == Production {
		p := cfg.DB.ProdMode
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			p.DBHost, p.DBPort, p.DBUser, p.DBPassword, p.DBName)
		return a.SetDB(store.DriverPostgres, dsn)
	}
	return a.SetDB(store.DriverSQLite3, cfg.DB.DevMode.DBName)
}

// SetDBTags registers every tag definition and (re)builds the Data
// Logger around period/delay (spec §6's db.sample_time/db.init_delay).
func (a *App) SetDBTags(tags map[string]config.TagDef, period, delay time.Duration) error {
	for key, t := range tags {
		dataType, err := cvt.ParseDataType(t.DataType)
		if err != nil {
			return fmt.Errorf("app: tag %q: %w", key, err)
		}
		if _, err := a.repo.RegisterTag(t.Name, t.Unit, dataType, t.Description, t.MinValue, t.MaxValue, t.TCPSourceAddress, t.NodeNamespace); err != nil {
			return fmt.Errorf("app: registering tag %q: %w", t.Name, err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store == nil {
		return fmt.Errorf("app: SetDBTags requires SetDB to have been called first")
	}
	a.logger = datalogger.New(a.store, delay, period)
	a.logger.SetNotifier(a.notifier)
	a.repo.SetSampler(a.logger)
	return nil
}

// DefineMachine constructs a StateMachine bound to the CVT and schedules
// it under the requested discipline (spec §4.8). An Async machine defined
// before the Supervisor is running is queued and spawned as soon as Run
// starts; one defined while already running is spawned immediately.
func (a *App) DefineMachine(name string, interval time.Duration, mode MachineMode) *fsm.StateMachine {
	m := fsm.New(name, a.repo, "")

	a.mu.Lock()
	a.machines[name] = m
	switch mode {
	case Async:
		if a.runCtx != nil {
			a.async.Spawn(a.runCtx, name, m, interval)
		} else {
			a.pendingAsync = append(a.pendingAsync, pendingAsyncMachine{name: name, machine: m, interval: interval})
		}
	default:
		a.sync.AddMachine(name, m, interval)
	}
	a.mu.Unlock()

	return m
}

// DefineAutomationMachine builds an AutomationStateMachine preloaded with
// the operator workflow (spec §4.7), wires its transition events to the
// Supervisor's notifier, and schedules it under the requested discipline
// exactly like DefineMachine.
func (a *App) DefineAutomationMachine(name string, interval time.Duration, mode MachineMode) (*fsm.AutomationStateMachine, error) {
	am, err := fsm.NewAutomationStateMachine(name, a.repo)
	if err != nil {
		return nil, fmt.Errorf("app: defining automation machine %q: %w", name, err)
	}

	a.mu.Lock()
	am.SetNotifier(a.notifier)
	a.automations[name] = am
	a.machines[name] = am.StateMachine
	switch mode {
	case Async:
		if a.runCtx != nil {
			a.async.Spawn(a.runCtx, name, am.StateMachine, interval)
		} else {
			a.pendingAsync = append(a.pendingAsync, pendingAsyncMachine{name: name, machine: am.StateMachine, interval: interval})
		}
	default:
		a.sync.AddMachine(name, am.StateMachine, interval)
	}
	a.mu.Unlock()

	return am, nil
}

// GetAutomationMachine returns a previously-defined AutomationStateMachine
// by name.
func (a *App) GetAutomationMachine(name string) (*fsm.AutomationStateMachine, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	am, ok := a.automations[name]
	return am, ok
}

// AppendAlarm registers a with the Alarm Manager. It does not write the
// alarm's definition to the Store; the Store looks an alarm up by name in
// its alarms table when persisting a transition, so transitions of an
// alarm with no row there are logged as persistence errors.
func (a *App) AppendAlarm(al *alarm.Alarm) error {
	return a.manager.Append(al)
}

// DefineAlarmFromConfigFile reads path and appends every alarm it
// defines (spec §6's modules.alarms / modules.engine.alarms).
func (a *App) DefineAlarmFromConfigFile(path string) error {
	cfg, err := config.Load(path, "")
	if err != nil {
		return err
	}
	for key, def := range cfg.Modules.Alarms {
		trig, err := alarm.ParseTriggerType(def.Type)
		if err != nil {
			return fmt.Errorf("app: alarm %q: %w", key, err)
		}
		al := alarm.New(def.Name, def.Tag, def.Description, alarm.Trigger{Type: trig, Value: def.Trigger}, 0)
		if err := a.AppendAlarm(al); err != nil {
			return fmt.Errorf("app: alarm %q: %w", key, err)
		}
	}
	return nil
}

// GetMachine returns a previously-defined machine by name.
func (a *App) GetMachine(name string) (*fsm.StateMachine, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.machines[name]
	return m, ok
}

// GetAlarm returns a previously-registered alarm by name.
func (a *App) GetAlarm(name string) (*alarm.Alarm, bool) {
	return a.manager.Get(name)
}

// Repository exposes the CVT for callers that need direct tag I/O
// outside a state machine (manual writes, probes, tests).
func (a *App) Repository() *cvt.Repository { return a.repo }

// Run blocks, starting every worker and the Supervisor's own schedulers,
// until ctx is cancelled, then waits for an orderly drain (spec §4.9).
func (a *App) Run(ctx context.Context) error {
	if err := agent.Listen(agent.Options{}); err != nil {
		log.Warnf("app: gops/agent.Listen failed: %v", err)
	}

	a.mu.Lock()
	a.startedAt = time.Now()
	logger := a.logger
	a.runCtx = ctx
	pending := a.pendingAsync
	a.pendingAsync = nil
	a.mu.Unlock()

	for _, p := range pending {
		a.async.Spawn(ctx, p.name, p.machine, p.interval)
	}

	var wg sync.WaitGroup

	if logger != nil {
		wg.Add(1)
		go func() { defer wg.Done(); logger.Run(ctx) }()
	}

	wg.Add(1)
	go func() { defer wg.Done(); a.manager.Run(ctx) }()

	wg.Add(1)
	go func() { defer wg.Done(); a.sync.Run(ctx) }()

	a.tasks.Start()

	<-ctx.Done()
	wg.Wait()
	a.async.Wait()
	if err := a.tasks.Shutdown(); err != nil {
		log.Warnf("app: task pool shutdown: %v", err)
	}

	a.mu.Lock()
	a.runCtx = nil
	a.mu.Unlock()

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("app: closing store: %w", err)
		}
	}
	return nil
}

// SafeStart runs the Supervisor in the background and returns
// immediately; call SafeStop to shut it down.
func (a *App) SafeStart() {
	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.Run(ctx); err != nil {
			log.Errorf("app: run: %v", err)
		}
	}()
}

// SafeStop signals the background Supervisor started by SafeStart and
// waits for it to drain.
func (a *App) SafeStop() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	a.wg.Wait()
}
