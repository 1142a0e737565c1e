package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aristath/todograph/internal/config"
	"github.com/aristath/todograph/internal/engine"
	"github.com/aristath/todograph/internal/events"
	"github.com/aristath/todograph/internal/persistence"
	"github.com/aristath/todograph/internal/reldate"
	"github.com/aristath/todograph/internal/todolist"
	"github.com/aristath/todograph/internal/tui"
)

// app holds what every command needs: configuration, a store, and the
// terminal streams.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	configPath string // --config, replaces the project config file
	cfg        *config.Config
	logger     *log.Logger
	store      persistence.Store
	bus        *events.EventBus
	eventsDone chan struct{}
}

// setup loads configuration and opens the store.
func (a *app) setup(ctx context.Context) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(config.GlobalPath(), a.configPath)
	} else {
		a.cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	a.logger = newLogger(a.errOut, a.cfg.Log)

	a.store, err = openStore(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}

	a.bus = events.NewEventBus()
	if level := a.logger.GetLevel(); level <= log.InfoLevel {
		a.eventsDone = make(chan struct{})
		go logEvents(a.bus.Subscribe(0, loggedEvents(level)...), a.logger, a.eventsDone)
	}

	return nil
}

// teardown flushes pending event logs and closes the store.
func (a *app) teardown() error {
	if a.bus != nil {
		a.bus.Close()
		if a.eventsDone != nil {
			<-a.eventsDone
		}
		if n := a.bus.Dropped(); n > 0 {
			a.logger.Warn("event log fell behind", "dropped", n)
		}
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *log.Logger {
	// Validate has already rejected unknown levels
	level, _ := log.ParseLevel(cfg.Level)

	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	return log.NewWithOptions(w, log.Options{
		Level:     level,
		Formatter: formatter,
		Prefix:    "todograph",
	})
}

func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (persistence.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		store, err := persistence.NewSQLiteStore(ctx, cfg.DatabaseFile, persistence.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("opening database %s: %w", cfg.DatabaseFile, err)
		}
		return store, nil
	default:
		return persistence.NewFileStore(filepath.Clean(cfg.TodoFile), filepath.Clean(cfg.ArchiveFile)), nil
	}
}

// loggedEvents returns the event types worth logging at level: all of them
// at debug, recurrences and unlocks at info.
func loggedEvents(level log.Level) []string {
	if level <= log.DebugLevel {
		return nil
	}
	return []string{events.EventTypeTodoRecurred, events.EventTypeTodoUnlocked}
}

// logEvents writes lifecycle events until the bus closes.
func logEvents(sub <-chan events.Event, logger *log.Logger, done chan<- struct{}) {
	defer close(done)
	for ev := range sub {
		switch ev := ev.(type) {
		case events.TodoRecurredEvent:
			logger.Info("todo recurred", "number", ev.Number, "line", ev.Line)
		case events.TodoUnlockedEvent:
			logger.Info("todo unlocked", "number", ev.Number, "line", ev.Line)
		case events.ListChangedEvent:
			logger.Debug("list changed", "total", ev.Total, "completed", ev.Completed, "blocked", ev.Blocked, "active", ev.Active)
		default:
			logger.Debug(ev.EventType(), "todo", ev.TodoID())
		}
	}
}

// session is one loaded list and the engine working on it.
type session struct {
	list        *todolist.TodoList
	engine      *engine.Engine
	printer     *tui.Printer
	fingerprint uint64
}

// load reads the list and remembers its fingerprint for commit.
func (a *app) load(ctx context.Context) (*session, error) {
	list, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading todos: %w", err)
	}

	fp, err := persistence.Fingerprint(list)
	if err != nil {
		return nil, err
	}

	// Dated after fingerprinting so the next commit writes the dates out
	for _, t := range list.DateCompletions(a.now()) {
		a.logger.Debug("dating completed todo", "number", list.Number(t))
	}

	opts := engine.Options{
		StartTag:         a.cfg.Tags.Start,
		DueTag:           a.cfg.Tags.Due,
		RecurrenceTag:    a.cfg.Tags.Recurrence,
		StrictRecurrence: a.cfg.StrictRecurrence,
	}

	return &session{
		list: list,
		engine: engine.New(list, opts,
			engine.WithClock(a.now),
			engine.WithLogger(a.logger),
			engine.WithEventBus(a.bus),
		),
		printer:     tui.NewPrinter(a.out, list, a.cfg.Tags.Due, reldate.Day(a.now())),
		fingerprint: fp,
	}, nil
}

// commit saves the list unless the command left it unchanged.
func (a *app) commit(ctx context.Context, s *session) error {
	fp, err := persistence.Fingerprint(s.list)
	if err != nil {
		return err
	}
	if fp == s.fingerprint {
		a.logger.Debug("nothing to save")
		return nil
	}

	if err := a.store.Save(ctx, s.list); err != nil {
		return fmt.Errorf("saving todos: %w", err)
	}
	return nil
}
