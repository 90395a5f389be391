package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	authdto "aquaview/internal/modules/auth/dto"
	"aquaview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AuthPort interface {
	Login(ctx context.Context, input authdto.LoginInput) (authdto.SessionOutput, error)
	Municipals(ctx context.Context) ([]authdto.MunicipalOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type MunicipalsMsg struct {
	Municipals []authdto.MunicipalOutput
	Err        error
}

// DoneMsg bubbles up to the app so it can leave the login screen.
type DoneMsg struct {
	Session authdto.SessionOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type municipalItem struct{ m authdto.MunicipalOutput }

func (i municipalItem) Title() string       { return i.m.Name }
func (i municipalItem) Description() string { return i.m.Code }
func (i municipalItem) FilterValue() string { return i.m.Code + " " + i.m.Name }

// ─── model ───────────────────────────────────────────────────────────────────

type focusZone int

const (
	focusMunicipals focusZone = iota
	focusUsername
	focusPassword
)

type Model struct {
	port       AuthPort
	municipals list.Model
	username   textinput.Model
	password   textinput.Model
	spinner    spinner.Model
	focus      focusZone
	selected   authdto.MunicipalOutput
	loading    bool
	submitting bool
	statusLine string
	width      int
	height     int
}

func New(port AuthPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Peach).BorderForeground(theme.Peach)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Peach)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Municipal Corporations"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)

	return Model{
		port:       port,
		municipals: l,
		username:   user,
		password:   pass,
		spinner:    sp,
		loading:    true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadMunicipalsCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case MunicipalsMsg:
		m.loading = false
		if msg.Err != nil {
			m.statusLine = "municipal list failed: " + msg.Err.Error()
			return m, nil
		}
		cmds = append(cmds, m.municipals.SetItems(municipalsToItems(msg.Municipals)))

	case DoneMsg:
		m.submitting = false
		if msg.Err != nil {
			m.statusLine = "login failed: " + msg.Err.Error()
			m.password.SetValue("")
		}
		// Success is handled by the app, which leaves this screen.

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.municipals.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "tab", "shift+tab":
			m.cycleFocus(msg.String() == "shift+tab")
			return m, nil
		case "enter":
			if m.focus == focusMunicipals {
				if item, ok := m.municipals.SelectedItem().(municipalItem); ok {
					m.selected = item.m
					m.cycleFocus(false)
				}
				return m, nil
			}
			if m.focus == focusPassword {
				return m, m.submit()
			}
			m.cycleFocus(false)
			return m, nil
		}
	}

	switch m.focus {
	case focusMunicipals:
		if !m.loading {
			var cmd tea.Cmd
			m.municipals, cmd = m.municipals.Update(msg)
			cmds = append(cmds, cmd)
		}
	case focusUsername:
		var cmd tea.Cmd
		m.username, cmd = m.username.Update(msg)
		cmds = append(cmds, cmd)
	case focusPassword:
		var cmd tea.Cmd
		m.password, cmd = m.password.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// Filtering reports whether the municipal list's search filter is active.
func (m Model) Filtering() bool {
	return m.municipals.FilterState() == list.Filtering
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading municipal list…")
	}

	listW := m.width * 4 / 10
	formW := m.width - listW
	bodyH := m.height
	if bodyH < 1 {
		bodyH = 1
	}

	listPane := lipgloss.NewStyle().Width(listW).Height(bodyH).Render(m.municipals.View())

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Sign In") + "\n\n")
	mc := theme.Muted.Render("select a corporation on the left")
	if m.selected.Code != "" {
		mc = theme.Hot.Render(m.selected.Name + " (" + m.selected.Code + ")")
	}
	sb.WriteString("corporation: " + mc + "\n\n")
	sb.WriteString(m.renderField("username", m.username.View(), m.focus == focusUsername))
	sb.WriteString(m.renderField("password", m.password.View(), m.focus == focusPassword))
	if m.submitting {
		sb.WriteString("\n" + m.spinner.View() + " signing in…\n")
	}
	if m.statusLine != "" {
		sb.WriteString("\n" + theme.Alert.Render(m.statusLine) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("tab:next field  enter:submit"))

	formPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(formW - 2).
		Height(bodyH - 2).
		Padding(1).
		Render(sb.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, formPane)
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	contentH := m.height - 2
	if contentH < 1 {
		contentH = 1
	}
	m.municipals.SetSize(listW, contentH)
	m.username.Width = m.width - listW - 16
	m.password.Width = m.width - listW - 16
}

func (m *Model) cycleFocus(backwards bool) {
	m.username.Blur()
	m.password.Blur()
	if backwards {
		m.focus = (m.focus + 2) % 3
	} else {
		m.focus = (m.focus + 1) % 3
	}
	switch m.focus {
	case focusUsername:
		m.username.Focus()
	case focusPassword:
		m.password.Focus()
	}
}

func (m *Model) submit() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if m.selected.Code == "" {
		m.statusLine = "select a municipal corporation first"
		return nil
	}
	if username == "" || password == "" {
		m.statusLine = "username and password are required"
		return nil
	}
	m.submitting = true
	m.statusLine = ""
	input := authdto.LoginInput{Username: username, Password: password, MCCode: m.selected.Code}
	return tea.Batch(m.loginCmd(input), m.spinner.Tick)
}

func (m Model) renderField(label, field string, focused bool) string {
	prefix := "  "
	if focused {
		prefix = theme.Hot.Render("> ")
	}
	return prefix + label + ": " + field + "\n"
}

func municipalsToItems(municipals []authdto.MunicipalOutput) []list.Item {
	items := make([]list.Item, len(municipals))
	for i, mc := range municipals {
		items[i] = municipalItem{m: mc}
	}
	return items
}

func (m Model) loadMunicipalsCmd() tea.Cmd {
	return func() tea.Msg {
		municipals, err := m.port.Municipals(context.Background())
		return MunicipalsMsg{Municipals: municipals, Err: err}
	}
}

func (m Model) loginCmd(input authdto.LoginInput) tea.Cmd {
	return func() tea.Msg {
		session, err := m.port.Login(context.Background(), input)
		return DoneMsg{Session: session, Err: err}
	}
}
