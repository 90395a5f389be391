package app_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	authdto "aquaview/internal/modules/auth/dto"
	distdto "aquaview/internal/modules/distribution/dto"
	qualitydto "aquaview/internal/modules/quality/dto"
	statsdto "aquaview/internal/modules/stats/dto"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/ui/app"
	monitorview "aquaview/internal/ui/views/monitor"
)

// ─── counting fakes ──────────────────────────────────────────────────────────

type fakeAuth struct {
	session     authdto.SessionOutput
	currentErr  error
	logoutCalls int
}

func (f *fakeAuth) Login(_ context.Context, _, _, _ string) (authdto.SessionOutput, error) {
	return f.session, nil
}

func (f *fakeAuth) Logout(_ context.Context) error {
	f.logoutCalls++
	return nil
}

func (f *fakeAuth) Current(_ context.Context) (authdto.SessionOutput, error) {
	return f.session, f.currentErr
}

func (f *fakeAuth) Municipals(_ context.Context) ([]authdto.MunicipalOutput, error) {
	return []authdto.MunicipalOutput{{Code: "MC01", Name: "Riverton"}}, nil
}

type fakeQuality struct{ calls int }

func (f *fakeQuality) Hubs(_ context.Context, _ string) ([]qualitydto.HubOutput, error) {
	f.calls++
	return nil, nil
}

func (f *fakeQuality) Trend(_ context.Context, _, _ string) (qualitydto.TrendOutput, error) {
	f.calls++
	return qualitydto.TrendOutput{}, nil
}

func (f *fakeQuality) YearlyTrend(_ context.Context, _, _ string) (qualitydto.YearlyTrendOutput, error) {
	f.calls++
	return qualitydto.YearlyTrendOutput{}, nil
}

func (f *fakeQuality) Anomalies(_ context.Context, _, _ string) (qualitydto.AnomaliesOutput, error) {
	f.calls++
	return qualitydto.AnomaliesOutput{}, nil
}

func (f *fakeQuality) Records(_ context.Context, _, _ string) (qualitydto.RecordsOutput, error) {
	f.calls++
	return qualitydto.RecordsOutput{}, nil
}

func (f *fakeQuality) Predict(_ context.Context, _ string, _ qualitydto.PredictionInput) (qualitydto.PredictionOutput, error) {
	f.calls++
	return qualitydto.PredictionOutput{}, nil
}

type fakeDist struct{ calls int }

func (f *fakeDist) Trend(_ context.Context, _, _ string) (distdto.TrendOutput, error) {
	f.calls++
	return distdto.TrendOutput{}, nil
}

func (f *fakeDist) YearlyTrend(_ context.Context, _, _ string) (distdto.YearlyTrendOutput, error) {
	f.calls++
	return distdto.YearlyTrendOutput{}, nil
}

func (f *fakeDist) CriticalSummary(_ context.Context, _ string) (distdto.CriticalSummaryOutput, error) {
	f.calls++
	return distdto.CriticalSummaryOutput{}, nil
}

func (f *fakeDist) Latest(_ context.Context, _ string) (distdto.LatestOutput, error) {
	f.calls++
	return distdto.LatestOutput{}, nil
}

func (f *fakeDist) Summary(_ context.Context, _ string) (distdto.SummaryOutput, error) {
	f.calls++
	return distdto.SummaryOutput{}, nil
}

func (f *fakeDist) Forecast(_ context.Context, _ string, _ distdto.ForecastInput) (distdto.ForecastOutput, error) {
	f.calls++
	return distdto.ForecastOutput{}, nil
}

type fakeStats struct{ calls int }

func (f *fakeStats) Overview(_ context.Context) (statsdto.OverviewOutput, error) {
	f.calls++
	return statsdto.OverviewOutput{}, nil
}

func (f *fakeStats) StateTrends(_ context.Context) (statsdto.StateTrendsOutput, error) {
	f.calls++
	return statsdto.StateTrendsOutput{}, nil
}

func (f *fakeStats) Dashboard(_ context.Context, _ string) (statsdto.DashboardOutput, error) {
	f.calls++
	return statsdto.DashboardOutput{}, nil
}

// ─── message pump ────────────────────────────────────────────────────────────

// collect executes a command tree and flattens every resulting message.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range msg {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	default:
		return []tea.Msg{msg}
	}
}

// pump feeds a command's messages back into the model until the exchange
// settles, the way the runtime's event loop would.
func pump(t *testing.T, model tea.Model, cmd tea.Cmd) tea.Model {
	t.Helper()
	queue := collect(cmd)
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("message exchange did not settle")
		}
		msg := queue[0]
		queue = queue[1:]
		var next tea.Cmd
		model, next = model.Update(msg)
		queue = append(queue, collect(next)...)
	}
	return model
}

// ─── tests ───────────────────────────────────────────────────────────────────

func TestStartWithoutSessionMountsLoginAndIssuesNoProtectedCalls(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{currentErr: apperrors.ErrNoSession}
	quality := &fakeQuality{}
	dist := &fakeDist{}
	stats := &fakeStats{}

	m := app.NewModel(auth, quality, dist, stats)
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = pump(t, model, m.Init())

	out := model.View()
	if !strings.Contains(out, "Sign In") {
		t.Fatalf("start without a stored session did not land on login:\n%s", out)
	}
	if total := quality.calls + dist.calls + stats.calls; total != 0 {
		t.Fatalf("protected calls before sign-in = %d, want 0", total)
	}
}

func TestStartWithStoredSessionMountsMonitor(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{session: authdto.SessionOutput{Token: "tok-1", MCCode: "MC01", MCName: "Riverton"}}
	quality := &fakeQuality{}

	m := app.NewModel(auth, quality, &fakeDist{}, &fakeStats{})
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = pump(t, model, m.Init())

	if out := model.View(); !strings.Contains(out, "Monitor") {
		t.Fatalf("stored session did not mount the monitor screen:\n%s", out)
	}
	if quality.calls == 0 {
		t.Fatal("session recovery never kicked off the first fetch")
	}
}

func TestUnauthorizedResponseTearsDownSession(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{session: authdto.SessionOutput{Token: "tok-1", MCCode: "MC01", MCName: "Riverton"}}
	quality := &fakeQuality{}
	dist := &fakeDist{}
	stats := &fakeStats{}

	m := app.NewModel(auth, quality, dist, stats)
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = pump(t, model, m.Init())

	authedCalls := quality.calls + dist.calls + stats.calls

	var cmd tea.Cmd
	model, cmd = model.Update(monitorview.ResultMsg{Err: fmt.Errorf("%w: token rejected", apperrors.ErrUnauthorized)})

	out := model.View()
	if !strings.Contains(out, "Sign In") {
		t.Fatalf("expired session did not return to login:\n%s", out)
	}
	if !strings.Contains(out, "session expired") {
		t.Fatalf("expiry not explained to the operator:\n%s", out)
	}

	model = pump(t, model, cmd)
	if auth.logoutCalls != 1 {
		t.Fatalf("stored session clears = %d, want 1", auth.logoutCalls)
	}
	if total := quality.calls + dist.calls + stats.calls; total != authedCalls {
		t.Fatalf("requests after teardown = %d, want none beyond the %d made while signed in", total-authedCalls, authedCalls)
	}
}
