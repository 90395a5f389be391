package overview

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "aquaview/internal/modules/stats/dto"
	"aquaview/internal/ui/flow"
	"aquaview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Overview(ctx context.Context) (statsdto.OverviewOutput, error)
	StateTrends(ctx context.Context) (statsdto.StateTrendsOutput, error)
	Dashboard(ctx context.Context, mcCode string) (statsdto.DashboardOutput, error)
}

// ─── views ───────────────────────────────────────────────────────────────────

const (
	viewOverview  flow.View = "overview"
	viewTrends    flow.View = "state-trends"
	viewDashboard flow.View = "dashboard"
)

var viewLabels = []struct {
	key   string
	label string
	view  flow.View
}{
	{"1", "State Overview", viewOverview},
	{"2", "State Trends", viewTrends},
	{"3", "My Corporation", viewDashboard},
}

// ─── messages ────────────────────────────────────────────────────────────────

// ResultMsg carries a fetch outcome back to the coordinator. The app
// inspects Err for session expiry before forwarding it here.
type ResultMsg struct {
	Ticket  flow.Ticket
	Payload any
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    StatsPort
	mcCode  string
	coord   *flow.Coordinator
	spinner spinner.Model
	width   int
	height  int
}

func New(port StatsPort) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)

	return Model{
		port:    port,
		coord:   flow.New(),
		spinner: sp,
	}
}

// SetSession scopes the dashboard sub-view to the session's MC and loads
// the state overview.
func (m *Model) SetSession(mcCode string) tea.Cmd {
	m.mcCode = mcCode
	ticket := m.coord.Begin(viewOverview)
	return tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
}

// Reset drops all session-scoped state; in-flight fetches become stale.
func (m *Model) Reset() {
	m.mcCode = ""
	m.coord.Reset()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ResultMsg:
		m.coord.Resolve(msg.Ticket, msg.Payload, msg.Err)

	case spinner.TickMsg:
		if m.coord.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "1", "2", "3":
			for _, v := range viewLabels {
				if v.key == msg.String() {
					ticket := m.coord.Begin(v.view)
					return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
				}
			}
		case "r":
			if view := m.coord.View(); view != "" {
				ticket := m.coord.Begin(view)
				return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// Filtering is part of the shared sub-view contract; this screen has no
// list filter.
func (m Model) Filtering() bool { return false }

func (m Model) View() string {
	tabs := m.renderSubTabs()
	tabH := lipgloss.Height(tabs)
	bodyH := m.height - tabH
	if bodyH < 1 {
		bodyH = 1
	}

	var detail string
	switch {
	case m.coord.Loading():
		detail = m.spinner.View() + " Loading " + string(m.coord.View()) + "…"
	case m.coord.State() == flow.StateNoData:
		detail = theme.Muted.Render("no aggregate data available yet")
	case m.coord.State() == flow.StateFailed:
		detail = theme.Alert.Render(m.coord.Message()) + "\n\n" + theme.Muted.Render("r:retry")
	case m.coord.State() == flow.StateLoaded:
		detail = m.renderPayload()
	default:
		detail = theme.Muted.Render("pick a view: 1-3")
	}

	pane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(m.width - 2).
		Height(bodyH - 2).
		Padding(1).
		Render(detail)

	return lipgloss.JoinVertical(lipgloss.Left, tabs, pane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) renderSubTabs() string {
	var parts []string
	for _, v := range viewLabels {
		label := v.key + ":" + v.label
		if v.view == m.coord.View() {
			parts = append(parts, theme.Hot.Render(" "+label+" "))
		} else {
			parts = append(parts, theme.Muted.Render(" "+label+" "))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...) + "\n"
}

func (m Model) renderPayload() string {
	switch payload := m.coord.Payload().(type) {
	case statsdto.OverviewOutput:
		return renderOverview(payload)
	case statsdto.StateTrendsOutput:
		return renderTrends(payload)
	case statsdto.DashboardOutput:
		return renderDashboard(payload)
	}
	return ""
}

func renderOverview(o statsdto.OverviewOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("State Water Statistics") + "\n\n")
	sb.WriteString(fmt.Sprintf("municipal corporations:  %d\n", o.TotalMunicipals))
	sb.WriteString(fmt.Sprintf("population covered:      %d\n", o.TotalPopulation))
	sb.WriteString(fmt.Sprintf("average WQI:             %.1f\n", o.AverageWQI))
	sb.WriteString(fmt.Sprintf("average efficiency:      %.1f%%\n", o.AverageEfficiency))
	sb.WriteString(theme.Alert.Render(fmt.Sprintf("anomalies:               %d\n", o.TotalAnomalies)))
	sb.WriteString(theme.Alert.Render(fmt.Sprintf("critical hubs:           %d\n", o.TotalCriticalHubs)))
	if o.LastUpdated != "" {
		sb.WriteString("\n" + theme.Muted.Render("last updated: "+o.LastUpdated) + "\n")
	}
	return sb.String()
}

func renderTrends(t statsdto.StateTrendsOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("State Yearly Trends") + "\n\n")
	for _, y := range t.Years {
		sb.WriteString(fmt.Sprintf("%d  WQI %.1f  efficiency %.1f%%\n", y.Year, y.AvgWQI, y.AvgEfficiency))
	}
	return sb.String()
}

func renderDashboard(d statsdto.DashboardOutput) string {
	var sb strings.Builder
	name, _ := d.MunicipalInfo["MC_Name"].(string)
	sb.WriteString(theme.Title.Render("Corporation — "+name) + "\n\n")
	for _, key := range sortedKeys(d.MunicipalInfo) {
		sb.WriteString(fmt.Sprintf("%-24s %v\n", key, d.MunicipalInfo[key]))
	}
	sb.WriteString("\n" + theme.Hot.Render("connected hubs") + "\n")
	for _, h := range d.ConnectedHubs {
		sb.WriteString("  " + h.Name + "  " + theme.Muted.Render(h.ID) + "\n")
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Model) fetchCmd(ticket flow.Ticket) tea.Cmd {
	mcCode := m.mcCode
	return func() tea.Msg {
		var payload any
		var err error
		switch ticket.View {
		case viewOverview:
			payload, err = m.port.Overview(context.Background())
		case viewTrends:
			payload, err = m.port.StateTrends(context.Background())
		case viewDashboard:
			payload, err = m.port.Dashboard(context.Background(), mcCode)
		}
		return ResultMsg{Ticket: ticket, Payload: payload, Err: err}
	}
}
