// Package app wires the services together and hosts the Bubble Tea shell.
package app

import (
	"context"
	"encoding/json"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"codemate/internal/achievements"
	"codemate/internal/auth"
	"codemate/internal/bus"
	"codemate/internal/chat"
	"codemate/internal/config"
	"codemate/internal/content"
	"codemate/internal/llm"
	"codemate/internal/meta"
	"codemate/internal/practice"
	"codemate/internal/progress"
	"codemate/internal/router"
	"codemate/internal/screen"
	"codemate/internal/storage"
	"codemate/internal/tui"
	"codemate/internal/ui/layout"
)

// App is the composition root: every service built once, sharing one codec
// and one bus.
type App struct {
	Config       config.Config
	Log          *zap.Logger
	Backend      storage.Backend
	Codec        *storage.Codec
	Bus          *bus.Bus
	Catalog      *content.Catalog
	Auth         *auth.Service
	Progress     *progress.Store
	Achievements *achievements.Engine
	Practice     *practice.Tracker
	Meta         *meta.Service
	Chat         chat.Responder
}

// New builds the full service graph from configuration.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	log, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "sqlite":
		backend, err = storage.OpenSQLite(cfg.SQLitePath())
	default:
		backend, err = storage.NewFileBackend(cfg.Storage.Dir, log)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Storage.Backend, err)
	}

	codec := storage.NewCodec(backend, log)
	transport := bus.Connect(cfg.Storage.Dir, codec, log)
	b := bus.New(transport, log)

	catalog, err := content.Load()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	prog := progress.NewStore(codec, b, log)
	engine := achievements.NewEngine(codec, b, prog, catalog, log)

	tracker := practice.NewTracker(codec, b, log)
	tracker.OnMutation(engine.EnsureAndNotify)

	return &App{
		Config:       cfg,
		Log:          log,
		Backend:      backend,
		Codec:        codec,
		Bus:          b,
		Catalog:      catalog,
		Auth:         auth.NewService(codec, log),
		Progress:     prog,
		Achievements: engine,
		Practice:     tracker,
		Meta:         meta.NewService(codec, catalog, prog, log),
		Chat:         chat.NewResponder(ctx, llm.ConfigFromEnv(), log),
	}, nil
}

// Close releases the bus, the backend and the log in that order.
func (a *App) Close() error {
	var first error
	if err := a.Bus.Close(); err != nil {
		first = err
	}
	if err := a.Backend.Close(); err != nil && first == nil {
		first = err
	}
	_ = a.Log.Sync()
	return first
}

// newLogger writes structured logs to the configured file. The TUI owns the
// terminal, so nothing may print to stderr while it runs.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if err := storage.EnsureDir(cfg.File); err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{cfg.File}
	zcfg.ErrorOutputPaths = []string{cfg.File}
	return zcfg.Build()
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	app     *App
	session auth.Session
	router  *router.Router
	notify  chan tea.Msg
	width   int
	height  int
}

func newAppModel(a *App, session auth.Session, notify chan tea.Msg) AppModel {
	deps := tui.Deps{
		User:         session,
		Catalog:      a.Catalog,
		Progress:     a.Progress,
		Achievements: a.Achievements,
		Practice:     a.Practice,
		Meta:         a.Meta,
		Chat:         a.Chat,
		Log:          a.Log,
	}
	return AppModel{
		app:     a,
		session: session,
		router:  router.New(tui.NewDashboard(deps)),
		notify:  notify,
	}
}

// waitForNotify turns bus arrivals into Bubble Tea messages.
func waitForNotify(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m AppModel) Init() tea.Cmd {
	return waitForNotify(m.notify)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tui.RefreshMsg:
		// Forward to the active screen and re-arm the listener.
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, waitForNotify(m.notify))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	streak := m.app.Meta.Streak(m.session.Email)
	header := layout.RenderHeader(title, m.session.Name, streak, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program for the signed-in user. Bus events,
// including broadcasts from other processes, repaint the active screen.
func Run(a *App, session auth.Session) error {
	notify := make(chan tea.Msg, 16)
	forward := func(event string) bus.Handler {
		return func(json.RawMessage) {
			select {
			case notify <- tui.RefreshMsg{Event: event}:
			default:
			}
		}
	}
	unsubProgress := a.Bus.Subscribe(bus.EventProgressUpdated, forward(bus.EventProgressUpdated))
	defer unsubProgress()
	unsubAchievements := a.Bus.Subscribe(bus.EventAchievementsUpdated, forward(bus.EventAchievementsUpdated))
	defer unsubAchievements()

	p := tea.NewProgram(newAppModel(a, session, notify))
	_, err := p.Run()
	return err
}
