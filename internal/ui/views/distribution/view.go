package distribution

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	distdto "aquaview/internal/modules/distribution/dto"
	qualitydto "aquaview/internal/modules/quality/dto"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/ui/flow"
	"aquaview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

// SupplyPort includes the hub listing so the screen can offer the same
// hub picker as the monitor screen; hubs are shared reference data.
type SupplyPort interface {
	Hubs(ctx context.Context, mcCode string) ([]qualitydto.HubOutput, error)
	Trend(ctx context.Context, mcCode, hubID string) (distdto.TrendOutput, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (distdto.YearlyTrendOutput, error)
	CriticalSummary(ctx context.Context, mcCode string) (distdto.CriticalSummaryOutput, error)
	Latest(ctx context.Context, mcCode string) (distdto.LatestOutput, error)
	Summary(ctx context.Context, mcCode string) (distdto.SummaryOutput, error)
	Forecast(ctx context.Context, mcCode string, input distdto.ForecastInput) (distdto.ForecastOutput, error)
}

// ─── views ───────────────────────────────────────────────────────────────────

const (
	viewTrend    flow.View = "dist-trend"
	viewYearly   flow.View = "dist-yearly"
	viewCritical flow.View = "dist-critical"
	viewLatest   flow.View = "dist-latest"
	viewSummary  flow.View = "dist-summary"
	viewForecast flow.View = "dist-forecast"
)

var viewLabels = []struct {
	key   string
	label string
	view  flow.View
}{
	{"1", "Trend", viewTrend},
	{"2", "Yearly", viewYearly},
	{"3", "Critical", viewCritical},
	{"4", "Latest", viewLatest},
	{"5", "Summary", viewSummary},
}

// ─── messages ────────────────────────────────────────────────────────────────

type HubsMsg struct {
	Hubs []qualitydto.HubOutput
	Err  error
}

// ResultMsg carries a fetch outcome back to the coordinator. The app
// inspects Err for session expiry before forwarding it here.
type ResultMsg struct {
	Ticket  flow.Ticket
	Payload any
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type hubItem struct{ h qualitydto.HubOutput }

func (i hubItem) Title() string       { return i.h.Name }
func (i hubItem) Description() string { return i.h.ID }
func (i hubItem) FilterValue() string { return i.h.ID + " " + i.h.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    SupplyPort
	mcCode  string
	coord   *flow.Coordinator
	hubs    list.Model
	hubsErr string
	spinner spinner.Model
	form    forecastForm
	hubID   string
	width   int
	height  int
}

func New(port SupplyPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Peach).BorderForeground(theme.Peach)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Peach)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Hubs"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)

	return Model{
		port:    port,
		coord:   flow.New(),
		hubs:    l,
		spinner: sp,
		form:    newForecastForm(),
	}
}

// SetSession scopes the screen to a municipal corporation and kicks off
// the first fetch.
func (m *Model) SetSession(mcCode string) tea.Cmd {
	m.mcCode = mcCode
	m.hubID = ""
	m.hubsErr = ""
	ticket := m.coord.Begin(viewSummary)
	return tea.Batch(m.loadHubsCmd(), m.fetchCmd(ticket), m.spinner.Tick)
}

// Reset drops all session-scoped state; in-flight fetches become stale.
func (m *Model) Reset() {
	m.mcCode = ""
	m.hubID = ""
	m.hubsErr = ""
	m.coord.Reset()
	m.form.close()
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
		m.resize()

	case HubsMsg:
		if msg.Err != nil {
			m.hubsErr = hubListFailMessage(msg.Err)
			return m, nil
		}
		m.hubsErr = ""
		cmds = append(cmds, m.hubs.SetItems(hubsToItems(msg.Hubs)))

	case ResultMsg:
		m.coord.Resolve(msg.Ticket, msg.Payload, msg.Err)

	case spinner.TickMsg:
		if m.coord.Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if m.hubs.FilterState() == list.Filtering {
			break
		}
		if m.form.open {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "1", "2", "3", "4", "5":
			for _, v := range viewLabels {
				if v.key == msg.String() {
					ticket := m.coord.Begin(v.view)
					return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
				}
			}
		case "f":
			m.form.openFor(m.selectedHubID())
			return m, nil
		case "h":
			if m.mcCode != "" {
				m.hubsErr = ""
				return m, m.loadHubsCmd()
			}
		case "r":
			if view := m.coord.View(); view != "" && view != viewForecast {
				ticket := m.coord.Begin(view)
				return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
			}
		case "enter":
			if item, ok := m.hubs.SelectedItem().(hubItem); ok {
				m.hubID = item.h.ID
				if view := m.coord.View(); view == viewTrend || view == viewYearly {
					ticket := m.coord.Begin(view)
					return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
				}
			}
		case "a":
			m.hubID = ""
			if view := m.coord.View(); view == viewTrend || view == viewYearly {
				ticket := m.coord.Begin(view)
				return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
			}
		}
	}

	if !m.form.open {
		var cmd tea.Cmd
		m.hubs, cmd = m.hubs.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// Filtering reports whether the hub list's search filter is active.
func (m Model) Filtering() bool {
	return m.hubs.FilterState() == list.Filtering || m.form.open
}

func (m Model) View() string {
	tabs := m.renderSubTabs()
	tabH := lipgloss.Height(tabs)
	bodyH := m.height - tabH
	if bodyH < 1 {
		bodyH = 1
	}

	listW := m.width * 3 / 10
	detailW := m.width - listW

	var detail string
	switch {
	case m.form.open:
		detail = m.form.render()
	case m.coord.Loading():
		detail = m.spinner.View() + " Loading " + string(m.coord.View()) + "…"
	case m.coord.State() == flow.StateNoData:
		detail = theme.Muted.Render("no distribution records for this selection yet")
	case m.coord.State() == flow.StateFailed:
		detail = theme.Alert.Render(m.coord.Message()) + "\n\n" + theme.Muted.Render("r:retry")
	case m.coord.State() == flow.StateLoaded:
		detail = m.renderPayload()
	default:
		detail = theme.Muted.Render("pick a view: 1-5, f:forecast")
	}

	hubPane := m.hubs.View()
	if m.hubsErr != "" {
		hubPane = theme.Alert.Render(m.hubsErr) + "\n\n" + theme.Muted.Render("h:reload hubs")
	}
	listPane := lipgloss.NewStyle().Width(listW).Height(bodyH).Render(hubPane)
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(bodyH - 2).
		Padding(1).
		Render(detail)

	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
	return lipgloss.JoinVertical(lipgloss.Left, tabs, body)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 3 / 10
	contentH := m.height - 4
	if contentH < 1 {
		contentH = 1
	}
	m.hubs.SetSize(listW, contentH)
}

func (m Model) selectedHubID() string {
	if item, ok := m.hubs.SelectedItem().(hubItem); ok {
		return item.h.ID
	}
	return m.hubID
}

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
	scope := "all hubs"
	if m.hubID != "" {
		scope = m.hubID
	}
	hint := theme.Muted.Render("  f:forecast  [" + scope + "]")
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...) + hint + "\n"
}

func (m Model) renderPayload() string {
	switch payload := m.coord.Payload().(type) {
	case distdto.TrendOutput:
		return renderTrend(payload)
	case distdto.YearlyTrendOutput:
		return renderYearly(payload)
	case distdto.CriticalSummaryOutput:
		return renderCritical(payload)
	case distdto.LatestOutput:
		return renderLatest(payload)
	case distdto.SummaryOutput:
		return renderSummary(payload)
	case distdto.ForecastOutput:
		return renderForecast(payload)
	}
	return ""
}

func staleBanner(stale bool) string {
	if !stale {
		return ""
	}
	return theme.Stale.Render("⚠ showing cached data, backend unreachable") + "\n\n"
}

func hubListFailMessage(err error) string {
	if errors.Is(err, apperrors.ErrServerUnavailable) {
		return "hub list unavailable, backend unreachable"
	}
	return "hub list failed: " + err.Error()
}

func effStyle(eff float64) lipgloss.Style {
	if eff >= 70 {
		return theme.Good
	}
	if eff >= 55 {
		return theme.Hot
	}
	return theme.Alert
}

func renderTrend(t distdto.TrendOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(t.Stale))
	sb.WriteString(theme.Title.Render("Supply Trend — "+t.MCCode) + "\n\n")
	for _, hub := range sortedKeys(t.Hubs) {
		h := t.Hubs[hub]
		avg := effStyle(h.AverageEfficiency).Render(fmt.Sprintf("%.1f%%", h.AverageEfficiency))
		sb.WriteString(fmt.Sprintf("%s  avg efficiency %s  %d records  %d critical\n",
			theme.Hot.Render(hub), avg, h.TotalRecords, h.CriticalCount))
	}
	return sb.String()
}

func renderYearly(t distdto.YearlyTrendOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(t.Stale))
	sb.WriteString(theme.Title.Render("Yearly Supply Trend — "+t.MCCode) + "\n\n")
	for _, hub := range sortedKeys(t.Hubs) {
		yearly := t.Hubs[hub]
		sb.WriteString(theme.Hot.Render(hub) + "  " + yearly.LongTermTrend + "\n")
		for _, year := range sortedKeys(yearly.Years) {
			y := yearly.Years[year]
			avg := "–"
			if y.AverageEfficiency != nil {
				avg = fmt.Sprintf("%.1f%%", *y.AverageEfficiency)
			}
			delta := "–"
			if y.YearlyDelta != nil {
				delta = fmt.Sprintf("%+.1f", *y.YearlyDelta)
			}
			sb.WriteString(fmt.Sprintf("  %s  avg %s  Δ %s  %s  %s\n",
				year, avg, delta, y.Trend, y.PerformanceGrade))
		}
		if yearly.Commentary != "" {
			sb.WriteString(theme.Muted.Render("  "+yearly.Commentary) + "\n")
		}
	}
	return sb.String()
}

func renderCritical(c distdto.CriticalSummaryOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(c.Stale))
	sb.WriteString(theme.Title.Render("Critical Risk — "+c.MCCode) + "\n\n")
	if c.Total == 0 {
		sb.WriteString(theme.Good.Render("no critical risk hubs detected") + "\n")
		return sb.String()
	}
	sb.WriteString(theme.Alert.Render(fmt.Sprintf("%d critical events", c.Total)) + "\n\n")
	for _, r := range tail(c.Records, 10) {
		sb.WriteString(fmt.Sprintf("%s  %s  %.1f%%\n", r.CreatedAt, r.HubID, r.Efficiency))
		if r.RecommendedAction != "" {
			sb.WriteString(theme.Muted.Render("   "+r.RecommendedAction) + "\n")
		}
	}
	return sb.String()
}

func renderLatest(l distdto.LatestOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(l.Stale))
	sb.WriteString(theme.Title.Render("Latest Snapshot — "+l.MCCode) + "\n\n")
	for _, r := range l.Records {
		risk := theme.Good.Render("stable")
		if r.CriticalRisk {
			risk = theme.Alert.Render("critical")
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n",
			theme.Hot.Render(r.HubID), effStyle(r.Efficiency).Render(fmt.Sprintf("%.1f%%", r.Efficiency)), risk))
	}
	return sb.String()
}

func renderSummary(s distdto.SummaryOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(s.Stale))
	sb.WriteString(theme.Title.Render("Distribution Summary — "+s.MCCode) + "\n\n")
	sb.WriteString("average efficiency:  " + effStyle(s.AverageEfficiency).Render(fmt.Sprintf("%.1f%%", s.AverageEfficiency)) + "\n")
	sb.WriteString(fmt.Sprintf("critical hubs:       %d\n", s.TotalCriticalHubs))
	sb.WriteString(fmt.Sprintf("records:             %d\n", s.TotalRecords))
	sb.WriteString(fmt.Sprintf("total deficit:       %.1f MLD\n", s.TotalDeficitMLD))
	return sb.String()
}

func renderForecast(f distdto.ForecastOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Supply Forecast — "+f.HubID) + "\n\n")
	sb.WriteString("efficiency:  " + effStyle(f.FinalEfficiency).Render(fmt.Sprintf("%.1f%%", f.FinalEfficiency)) + "  " + f.PerformanceGrade + "\n")
	sb.WriteString("status:      " + f.Status + "\n")
	sb.WriteString(fmt.Sprintf("deficit:     %.1f MLD\n", f.DeficitMLD))
	sb.WriteString(fmt.Sprintf("per capita:  %.1f LPCD\n\n", f.PerCapitaLPCD))
	sb.WriteString(f.Interpretation + "\n\n")
	sb.WriteString(theme.Hot.Render("action: ") + f.RecommendedAction + "\n")
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

func tail[T any](items []T, n int) []T {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

func hubsToItems(hubs []qualitydto.HubOutput) []list.Item {
	items := make([]list.Item, len(hubs))
	for i, h := range hubs {
		items[i] = hubItem{h: h}
	}
	return items
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadHubsCmd() tea.Cmd {
	mcCode := m.mcCode
	return func() tea.Msg {
		hubs, err := m.port.Hubs(context.Background(), mcCode)
		return HubsMsg{Hubs: hubs, Err: err}
	}
}

func (m Model) fetchCmd(ticket flow.Ticket) tea.Cmd {
	mcCode, hubID := m.mcCode, m.hubID
	return func() tea.Msg {
		var payload any
		var err error
		switch ticket.View {
		case viewTrend:
			payload, err = m.port.Trend(context.Background(), mcCode, hubID)
		case viewYearly:
			payload, err = m.port.YearlyTrend(context.Background(), mcCode, hubID)
		case viewCritical:
			payload, err = m.port.CriticalSummary(context.Background(), mcCode)
		case viewLatest:
			payload, err = m.port.Latest(context.Background(), mcCode)
		case viewSummary:
			payload, err = m.port.Summary(context.Background(), mcCode)
		}
		return ResultMsg{Ticket: ticket, Payload: payload, Err: err}
	}
}

func (m Model) forecastCmd(ticket flow.Ticket, input distdto.ForecastInput) tea.Cmd {
	mcCode := m.mcCode
	return func() tea.Msg {
		payload, err := m.port.Forecast(context.Background(), mcCode, input)
		return ResultMsg{Ticket: ticket, Payload: payload, Err: err}
	}
}

// ─── forecast form ────────────────────────────────────────────────────────────

type forecastForm struct {
	open   bool
	hubID  string
	inputs []textinput.Model
	labels []string
	focus  int
}

func newForecastForm() forecastForm {
	labels := []string{"total demand (MLD)", "current supply (MLD)", "population"}
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 12
		ti.Width = 12
		inputs[i] = ti
	}
	return forecastForm{inputs: inputs, labels: labels}
}

func (f *forecastForm) openFor(hubID string) {
	f.open = true
	f.hubID = hubID
	f.focus = 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.inputs[0].Focus()
}

func (f *forecastForm) close() {
	f.open = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *forecastForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (m Model) updateForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.form.close()
		return m, nil
	case "tab", "down":
		m.form.moveFocus(1)
		return m, nil
	case "shift+tab", "up":
		m.form.moveFocus(-1)
		return m, nil
	case "enter":
		if m.form.focus < len(m.form.inputs)-1 {
			m.form.moveFocus(1)
			return m, nil
		}
		return m.submitForm()
	}
	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) submitForm() (Model, tea.Cmd) {
	if m.form.hubID == "" {
		m.form.close()
		m.coord.RejectLocal(viewForecast, "a target hub must be selected")
		return m, nil
	}
	demand, err1 := strconv.ParseFloat(strings.TrimSpace(m.form.inputs[0].Value()), 64)
	supply, err2 := strconv.ParseFloat(strings.TrimSpace(m.form.inputs[1].Value()), 64)
	population, err3 := strconv.Atoi(strings.TrimSpace(m.form.inputs[2].Value()))
	if err1 != nil || err2 != nil || err3 != nil {
		m.form.close()
		m.coord.RejectLocal(viewForecast, "demand, supply and population must be numbers")
		return m, nil
	}
	input := distdto.ForecastInput{
		HubID:            m.form.hubID,
		TotalDemandMLD:   demand,
		CurrentSupplyMLD: supply,
		Population:       population,
	}
	m.form.close()
	ticket := m.coord.Begin(viewForecast)
	return m, tea.Batch(m.forecastCmd(ticket, input), m.spinner.Tick)
}

func (f forecastForm) render() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Forecast Supply — "+f.hubID) + "\n\n")
	for i, label := range f.labels {
		prefix := "  "
		if i == f.focus {
			prefix = theme.Hot.Render("> ")
		}
		sb.WriteString(fmt.Sprintf("%s%-22s %s\n", prefix, label, f.inputs[i].View()))
	}
	sb.WriteString("\n" + theme.Muted.Render("tab:next  enter on last field:submit  esc:cancel"))
	return sb.String()
}
