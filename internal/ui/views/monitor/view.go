package monitor

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

	qualitydto "aquaview/internal/modules/quality/dto"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/ui/flow"
	"aquaview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type QualityPort interface {
	Hubs(ctx context.Context, mcCode string) ([]qualitydto.HubOutput, error)
	Trend(ctx context.Context, mcCode, hubID string) (qualitydto.TrendOutput, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (qualitydto.YearlyTrendOutput, error)
	Anomalies(ctx context.Context, mcCode, hubID string) (qualitydto.AnomaliesOutput, error)
	Records(ctx context.Context, mcCode, hubID string) (qualitydto.RecordsOutput, error)
	Predict(ctx context.Context, mcCode string, input qualitydto.PredictionInput) (qualitydto.PredictionOutput, error)
}

// ─── views ───────────────────────────────────────────────────────────────────

const (
	viewTrend     flow.View = "trend"
	viewYearly    flow.View = "yearly"
	viewAnomalies flow.View = "anomalies"
	viewRecords   flow.View = "records"
	viewPredict   flow.View = "predict"
)

var viewLabels = []struct {
	key   string
	label string
	view  flow.View
}{
	{"1", "Trend", viewTrend},
	{"2", "Yearly", viewYearly},
	{"3", "Anomalies", viewAnomalies},
	{"4", "Records", viewRecords},
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
	port    QualityPort
	mcCode  string
	coord   *flow.Coordinator
	hubs    list.Model
	hubsErr string
	spinner spinner.Model
	form    predictForm
	hubID   string
	width   int
	height  int
}

func New(port QualityPort) Model {
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
		form:    newPredictForm(),
	}
}

// SetSession scopes the screen to a municipal corporation and kicks off
// the first fetch. Called by the app after login or session recovery.
func (m *Model) SetSession(mcCode string) tea.Cmd {
	m.mcCode = mcCode
	m.hubID = ""
	m.hubsErr = ""
	ticket := m.coord.Begin(viewTrend)
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
		case "1", "2", "3", "4":
			for _, v := range viewLabels {
				if v.key == msg.String() {
					ticket := m.coord.Begin(v.view)
					return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
				}
			}
		case "p":
			m.form.openFor(m.selectedHubID())
			return m, nil
		case "h":
			if m.mcCode != "" {
				m.hubsErr = ""
				return m, m.loadHubsCmd()
			}
		case "r":
			if view := m.coord.View(); view != "" && view != viewPredict {
				ticket := m.coord.Begin(view)
				return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
			}
		case "enter":
			if item, ok := m.hubs.SelectedItem().(hubItem); ok {
				m.hubID = item.h.ID
				if view := m.coord.View(); view != "" && view != viewPredict {
					ticket := m.coord.Begin(view)
					return m, tea.Batch(m.fetchCmd(ticket), m.spinner.Tick)
				}
			}
		case "a":
			m.hubID = ""
			if view := m.coord.View(); view != "" && view != viewPredict {
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
		detail = theme.Muted.Render("no records for this selection yet")
	case m.coord.State() == flow.StateFailed:
		detail = theme.Alert.Render(m.coord.Message()) + "\n\n" + theme.Muted.Render("r:retry")
	case m.coord.State() == flow.StateLoaded:
		detail = m.renderPayload()
	default:
		detail = theme.Muted.Render("pick a view: 1-4, p:predict")
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
	hint := theme.Muted.Render("  p:predict  enter:focus hub  a:all  [" + scope + "]")
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...) + hint + "\n"
}

func (m Model) renderPayload() string {
	switch payload := m.coord.Payload().(type) {
	case qualitydto.TrendOutput:
		return renderTrend(payload)
	case qualitydto.YearlyTrendOutput:
		return renderYearly(payload)
	case qualitydto.AnomaliesOutput:
		return renderAnomalies(payload)
	case qualitydto.RecordsOutput:
		return renderRecords(payload)
	case qualitydto.PredictionOutput:
		return renderPrediction(payload)
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

func wqiStyle(wqi float64) lipgloss.Style {
	if wqi >= 63 {
		return theme.Good
	}
	if wqi >= 38 {
		return theme.Hot
	}
	return theme.Alert
}

func renderTrend(t qualitydto.TrendOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(t.Stale))
	sb.WriteString(theme.Title.Render("Quality Trend — "+t.MCCode) + "\n\n")
	for _, hub := range sortedKeys(t.Hubs) {
		h := t.Hubs[hub]
		avg := wqiStyle(h.AverageWQI).Render(fmt.Sprintf("%.1f", h.AverageWQI))
		sb.WriteString(fmt.Sprintf("%s  avg WQI %s  %d records  %d anomalies\n",
			theme.Hot.Render(hub), avg, h.TotalRecords, h.AnomalyCount))
		for _, r := range tail(h.Records, 5) {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("   %s  WQI %.1f  %s\n", r.CreatedAt, r.WQI, r.AnomalyStatus)))
		}
	}
	return sb.String()
}

func renderYearly(t qualitydto.YearlyTrendOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(t.Stale))
	sb.WriteString(theme.Title.Render("Yearly Quality Trend — "+t.MCCode) + "\n\n")
	for _, hub := range sortedKeys(t.Hubs) {
		sb.WriteString(theme.Hot.Render(hub) + "\n")
		years := t.Hubs[hub]
		for _, year := range sortedKeys(years) {
			y := years[year]
			delta := "–"
			if y.YearlyDelta != nil {
				delta = fmt.Sprintf("%+.1f", *y.YearlyDelta)
			}
			sb.WriteString(fmt.Sprintf("  %s  avg %.1f  min %.1f  max %.1f  Δ %s  %s\n",
				year, y.AverageWQI, y.MinWQI, y.MaxWQI, delta, y.Trend))
		}
	}
	return sb.String()
}

func renderAnomalies(a qualitydto.AnomaliesOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(a.Stale))
	sb.WriteString(theme.Title.Render("Anomalies — "+a.MCCode) + "\n\n")
	if a.Total == 0 {
		sb.WriteString(theme.Good.Render("no anomalies recorded") + "\n")
		return sb.String()
	}
	sb.WriteString(theme.Alert.Render(fmt.Sprintf("%d anomalies", a.Total)) + "\n\n")
	for _, r := range tail(a.Records, 15) {
		sb.WriteString(fmt.Sprintf("%s  %s  WQI %.1f  %s\n", r.CreatedAt, r.HubID, r.WQI, r.AnomalyStatus))
	}
	return sb.String()
}

func renderRecords(r qualitydto.RecordsOutput) string {
	var sb strings.Builder
	sb.WriteString(staleBanner(r.Stale))
	sb.WriteString(theme.Title.Render("Quality Records — "+r.MCCode) + "\n\n")
	sb.WriteString(fmt.Sprintf("%d records (%s)\n\n", r.Total, r.HubFilter))
	for i, rec := range r.Records {
		if i == 15 {
			sb.WriteString(theme.Muted.Render(fmt.Sprintf("… and %d more\n", r.Total-15)))
			break
		}
		hub, _ := rec["Hub_ID"].(string)
		created, _ := rec["Created_At"].(string)
		wqi, _ := rec["WQI"].(float64)
		sb.WriteString(fmt.Sprintf("%s  %s  WQI %.1f\n", created, hub, wqi))
	}
	return sb.String()
}

func renderPrediction(p qualitydto.PredictionOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("WQI Prediction — "+p.HubID) + "\n\n")
	sb.WriteString("final WQI:  " + wqiStyle(p.FinalWQI).Render(fmt.Sprintf("%.1f", p.FinalWQI)) + "\n")
	sb.WriteString("category:   " + p.Category + "\n")
	sb.WriteString("anomaly:    " + p.AnomalyStatus + "\n\n")
	sb.WriteString(p.Interpretation + "\n\n")
	sb.WriteString(theme.Hot.Render("action: ") + p.RecommendedAction + "\n")
	if p.Summary != "" {
		sb.WriteString("\n" + theme.Muted.Render(p.Summary) + "\n")
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
		case viewAnomalies:
			payload, err = m.port.Anomalies(context.Background(), mcCode, hubID)
		case viewRecords:
			payload, err = m.port.Records(context.Background(), mcCode, hubID)
		}
		return ResultMsg{Ticket: ticket, Payload: payload, Err: err}
	}
}

func (m Model) predictCmd(ticket flow.Ticket, input qualitydto.PredictionInput) tea.Cmd {
	mcCode := m.mcCode
	return func() tea.Msg {
		payload, err := m.port.Predict(context.Background(), mcCode, input)
		return ResultMsg{Ticket: ticket, Payload: payload, Err: err}
	}
}

// ─── predict form ─────────────────────────────────────────────────────────────

type predictForm struct {
	open   bool
	hubID  string
	inputs []textinput.Model
	labels []string
	focus  int
}

func newPredictForm() predictForm {
	labels := []string{
		"temperature min", "temperature max",
		"pH min", "pH max",
		"conductivity min", "conductivity max",
		"BOD min", "BOD max",
		"faecal coliform min", "faecal coliform max",
		"total coliform min", "total coliform max",
		"nitrate-N min", "nitrate-N max",
	}
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 10
		ti.Width = 10
		inputs[i] = ti
	}
	return predictForm{inputs: inputs, labels: labels}
}

func (f *predictForm) openFor(hubID string) {
	f.open = true
	f.hubID = hubID
	f.focus = 0
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.inputs[0].Focus()
}

func (f *predictForm) close() {
	f.open = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *predictForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// values parses every field; empty fields read as zero.
func (f predictForm) values() ([]float64, error) {
	out := make([]float64, len(f.inputs))
	for i, ti := range f.inputs {
		raw := strings.TrimSpace(ti.Value())
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s is not a number", f.labels[i])
		}
		out[i] = v
	}
	return out, nil
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
		m.coord.RejectLocal(viewPredict, "a target hub must be selected")
		return m, nil
	}
	v, err := m.form.values()
	if err != nil {
		m.form.close()
		m.coord.RejectLocal(viewPredict, err.Error())
		return m, nil
	}
	input := qualitydto.PredictionInput{
		HubID:             m.form.hubID,
		TemperatureMin:    v[0],
		TemperatureMax:    v[1],
		PHMin:             v[2],
		PHMax:             v[3],
		ConductivityMin:   v[4],
		ConductivityMax:   v[5],
		BODMin:            v[6],
		BODMax:            v[7],
		FaecalColiformMin: v[8],
		FaecalColiformMax: v[9],
		TotalColiformMin:  v[10],
		TotalColiformMax:  v[11],
		NitrateNMin:       v[12],
		NitrateNMax:       v[13],
	}
	m.form.close()
	ticket := m.coord.Begin(viewPredict)
	return m, tea.Batch(m.predictCmd(ticket, input), m.spinner.Tick)
}

func (f predictForm) render() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Predict WQI — "+f.hubID) + "\n\n")
	for i, label := range f.labels {
		prefix := "  "
		if i == f.focus {
			prefix = theme.Hot.Render("> ")
		}
		sb.WriteString(fmt.Sprintf("%s%-20s %s\n", prefix, label, f.inputs[i].View()))
	}
	sb.WriteString("\n" + theme.Muted.Render("tab:next  enter on last field:submit  esc:cancel"))
	return sb.String()
}
