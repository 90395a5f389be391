package app

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "aquaview/internal/modules/auth/dto"
	distdto "aquaview/internal/modules/distribution/dto"
	qualitydto "aquaview/internal/modules/quality/dto"
	statsdto "aquaview/internal/modules/stats/dto"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/ui/components"
	"aquaview/internal/ui/theme"
	distributionview "aquaview/internal/ui/views/distribution"
	loginview "aquaview/internal/ui/views/login"
	monitorview "aquaview/internal/ui/views/monitor"
	overviewview "aquaview/internal/ui/views/overview"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type authPort interface {
	Login(ctx context.Context, username, password, mcCode string) (authdto.SessionOutput, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (authdto.SessionOutput, error)
	Municipals(ctx context.Context) ([]authdto.MunicipalOutput, error)
}

type qualityPort interface {
	Hubs(ctx context.Context, mcCode string) ([]qualitydto.HubOutput, error)
	Trend(ctx context.Context, mcCode, hubID string) (qualitydto.TrendOutput, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (qualitydto.YearlyTrendOutput, error)
	Anomalies(ctx context.Context, mcCode, hubID string) (qualitydto.AnomaliesOutput, error)
	Records(ctx context.Context, mcCode, hubID string) (qualitydto.RecordsOutput, error)
	Predict(ctx context.Context, mcCode string, input qualitydto.PredictionInput) (qualitydto.PredictionOutput, error)
}

type distributionPort interface {
	Trend(ctx context.Context, mcCode, hubID string) (distdto.TrendOutput, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (distdto.YearlyTrendOutput, error)
	CriticalSummary(ctx context.Context, mcCode string) (distdto.CriticalSummaryOutput, error)
	Latest(ctx context.Context, mcCode string) (distdto.LatestOutput, error)
	Summary(ctx context.Context, mcCode string) (distdto.SummaryOutput, error)
	Forecast(ctx context.Context, mcCode string, input distdto.ForecastInput) (distdto.ForecastOutput, error)
}

type statsPort interface {
	Overview(ctx context.Context) (statsdto.OverviewOutput, error)
	StateTrends(ctx context.Context) (statsdto.StateTrendsOutput, error)
	Dashboard(ctx context.Context, mcCode string) (statsdto.DashboardOutput, error)
}

// ─── screens ─────────────────────────────────────────────────────────────────

type screenID int

const (
	screenLogin screenID = iota
	screenMonitor
	screenDistribution
	screenOverview
)

// authedScreens participate in tab cycling; login sits outside it.
var authedScreens = []struct {
	id    screenID
	label string
}{
	{screenMonitor, "Monitor"},
	{screenDistribution, "Distribution"},
	{screenOverview, "Overview"},
}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionLoadedMsg struct {
	session authdto.SessionOutput
	err     error
}

type sessionClearedMsg struct{ err error }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Logout  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Logout:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Logout},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns screen routing and the
// session guard: no authenticated screen is ever mounted without a stored
// session, and any unauthorized response tears the session down before the
// next request can reuse its token.
type Model struct {
	auth authPort

	loginView    loginview.Model
	monitorView  monitorview.Model
	distView     distributionview.Model
	overviewView overviewview.Model

	activeScreen screenID
	session      authdto.SessionOutput
	hasSession   bool
	keys         keyMap
	help         help.Model
	showHelp     bool
	palette      components.Palette
	status       string
	width        int
	height       int
}

func NewModel(auth authPort, quality qualityPort, dist distributionPort, stats statsPort) Model {
	return Model{
		auth:         auth,
		loginView:    loginview.New(authPortBridge{p: auth}),
		monitorView:  monitorview.New(quality),
		distView:     distributionview.New(supplyPortBridge{q: quality, d: dist}),
		overviewView: overviewview.New(stats),
		activeScreen: screenLogin,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "checking session…",
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadSessionCmd()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case sessionLoadedMsg:
		if msg.err != nil || !activeSession(msg.session) {
			// No stored session: stay on login, issue no protected calls.
			m.hasSession = false
			m.activeScreen = screenLogin
			m.status = "sign in to continue"
			return m, m.loginView.Init()
		}
		return m.enterSession(msg.session)

	case sessionClearedMsg:
		m.status = "signed out"

	case loginview.DoneMsg:
		if msg.Err == nil && activeSession(msg.Session) {
			return m.enterSession(msg.Session)
		}
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		return m, cmd

	case monitorview.ResultMsg:
		if errors.Is(msg.Err, apperrors.ErrUnauthorized) {
			return m.expireSession()
		}
		var cmd tea.Cmd
		m.monitorView, cmd = m.monitorView.Update(msg)
		return m, cmd

	case distributionview.ResultMsg:
		if errors.Is(msg.Err, apperrors.ErrUnauthorized) {
			return m.expireSession()
		}
		var cmd tea.Cmd
		m.distView, cmd = m.distView.Update(msg)
		return m, cmd

	case overviewview.ResultMsg:
		if errors.Is(msg.Err, apperrors.ErrUnauthorized) {
			return m.expireSession()
		}
		var cmd tea.Cmd
		m.overviewView, cmd = m.overviewView.Update(msg)
		return m, cmd

	case monitorview.HubsMsg:
		if errors.Is(msg.Err, apperrors.ErrUnauthorized) {
			return m.expireSession()
		}
		var cmd tea.Cmd
		m.monitorView, cmd = m.monitorView.Update(msg)
		return m, cmd

	case distributionview.HubsMsg:
		if errors.Is(msg.Err, apperrors.ErrUnauthorized) {
			return m.expireSession()
		}
		var cmd tea.Cmd
		m.distView, cmd = m.distView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter or a form is active.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "shift+tab":
			if m.hasSession {
				m.cycleScreen(msg.String() == "shift+tab")
			}
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			if m.hasSession {
				cmds = append(cmds, m.palette.Open())
				return m, tea.Batch(cmds...)
			}
		case "ctrl+l":
			if m.hasSession {
				return m.signOut()
			}
		}
	}

	// Propagate the message to the active screen.
	var cmd tea.Cmd
	switch m.activeScreen {
	case screenLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case screenMonitor:
		m.monitorView, cmd = m.monitorView.Update(msg)
	case screenDistribution:
		m.distView, cmd = m.distView.Update(msg)
	case screenOverview:
		m.overviewView, cmd = m.overviewView.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeScreen {
	case screenLogin:
		return m.loginView.View()
	case screenMonitor:
		return m.monitorView.View()
	case screenDistribution:
		return m.distView.View()
	case screenOverview:
		return m.overviewView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	if !m.hasSession {
		bar := "aquaview  " + theme.Hot.Render(" Sign In ")
		return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
	}
	parts := make([]string, len(authedScreens))
	for i, s := range authedScreens {
		if s.id == m.activeScreen {
			parts[i] = theme.Hot.Render(" " + s.label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + s.label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "aquaview  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasSession {
		left = theme.Hot.Render("● "+m.session.MCName) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── session transitions ─────────────────────────────────────────────────────

func (m Model) enterSession(session authdto.SessionOutput) (tea.Model, tea.Cmd) {
	m.session = session
	m.hasSession = true
	m.activeScreen = screenMonitor
	m.status = "signed in as " + session.MCName
	return m, tea.Batch(
		m.monitorView.SetSession(session.MCCode),
		m.distView.SetSession(session.MCCode),
		m.overviewView.SetSession(session.MCCode),
	)
}

// expireSession handles an unauthorized response: the stored triple is
// cleared before any further request could carry the stale token, and all
// screen state is dropped.
func (m Model) expireSession() (tea.Model, tea.Cmd) {
	m.status = "session expired, sign in again"
	return m.tearDownSession()
}

func (m Model) signOut() (tea.Model, tea.Cmd) {
	m.status = "signing out…"
	return m.tearDownSession()
}

func (m Model) tearDownSession() (tea.Model, tea.Cmd) {
	m.hasSession = false
	m.session = authdto.SessionOutput{}
	m.activeScreen = screenLogin
	m.monitorView.Reset()
	m.distView.Reset()
	m.overviewView.Reset()
	return m, tea.Batch(m.clearSessionCmd(), m.loginView.Init())
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "auth:logout":
		return m.signOut()

	case "auth:whoami":
		m.status = m.session.MCName + " (" + m.session.MCCode + ")"
		return m, nil

	case "quality:trend", "quality:yearly", "quality:anomalies", "quality:records":
		m.activeScreen = screenMonitor
		m.status = "switched to Monitor"
		return m, nil

	case "dist:trend", "dist:yearly", "dist:critical", "dist:latest", "dist:summary":
		m.activeScreen = screenDistribution
		m.status = "switched to Distribution"
		return m, nil

	case "stats:overview", "stats:state-trends", "stats:dashboard":
		m.activeScreen = screenOverview
		m.status = "switched to Overview"
		return m, nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func activeSession(s authdto.SessionOutput) bool {
	return s.Token != "" && s.MCCode != ""
}

func (m *Model) cycleScreen(backwards bool) {
	idx := 0
	for i, s := range authedScreens {
		if s.id == m.activeScreen {
			idx = i
			break
		}
	}
	if backwards {
		idx = (idx + len(authedScreens) - 1) % len(authedScreens)
	} else {
		idx = (idx + 1) % len(authedScreens)
	}
	m.activeScreen = authedScreens[idx].id
}

// subViewCapturing reports whether the active screen needs raw key input,
// in which case global key bindings must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeScreen {
	case screenLogin:
		return m.loginView.Filtering()
	case screenMonitor:
		return m.monitorView.Filtering()
	case screenDistribution:
		return m.distView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.loginView, _ = m.loginView.Update(sz)
	m.monitorView, _ = m.monitorView.Update(sz)
	m.distView, _ = m.distView.Update(sz)
	m.overviewView, _ = m.overviewView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadSessionCmd() tea.Cmd {
	return func() tea.Msg {
		session, err := m.auth.Current(context.Background())
		return sessionLoadedMsg{session: session, err: err}
	}
}

func (m Model) clearSessionCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionClearedMsg{err: m.auth.Logout(context.Background())}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed
// by a specific sub-view.

type authPortBridge struct{ p authPort }

func (b authPortBridge) Login(ctx context.Context, input authdto.LoginInput) (authdto.SessionOutput, error) {
	return b.p.Login(ctx, input.Username, input.Password, input.MCCode)
}
func (b authPortBridge) Municipals(ctx context.Context) ([]authdto.MunicipalOutput, error) {
	return b.p.Municipals(ctx)
}

// supplyPortBridge joins the distribution operations with the shared hub
// listing that lives in the quality module.
type supplyPortBridge struct {
	q qualityPort
	d distributionPort
}

func (b supplyPortBridge) Hubs(ctx context.Context, mcCode string) ([]qualitydto.HubOutput, error) {
	return b.q.Hubs(ctx, mcCode)
}
func (b supplyPortBridge) Trend(ctx context.Context, mcCode, hubID string) (distdto.TrendOutput, error) {
	return b.d.Trend(ctx, mcCode, hubID)
}
func (b supplyPortBridge) YearlyTrend(ctx context.Context, mcCode, hubID string) (distdto.YearlyTrendOutput, error) {
	return b.d.YearlyTrend(ctx, mcCode, hubID)
}
func (b supplyPortBridge) CriticalSummary(ctx context.Context, mcCode string) (distdto.CriticalSummaryOutput, error) {
	return b.d.CriticalSummary(ctx, mcCode)
}
func (b supplyPortBridge) Latest(ctx context.Context, mcCode string) (distdto.LatestOutput, error) {
	return b.d.Latest(ctx, mcCode)
}
func (b supplyPortBridge) Summary(ctx context.Context, mcCode string) (distdto.SummaryOutput, error) {
	return b.d.Summary(ctx, mcCode)
}
func (b supplyPortBridge) Forecast(ctx context.Context, mcCode string, input distdto.ForecastInput) (distdto.ForecastOutput, error) {
	return b.d.Forecast(ctx, mcCode, input)
}
