package monitor_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	qualitydto "aquaview/internal/modules/quality/dto"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/ui/views/monitor"
)

type stubQuality struct {
	hubs     []qualitydto.HubOutput
	hubCalls int
}

func (s *stubQuality) Hubs(_ context.Context, _ string) ([]qualitydto.HubOutput, error) {
	s.hubCalls++
	return s.hubs, nil
}

func (s *stubQuality) Trend(_ context.Context, _, _ string) (qualitydto.TrendOutput, error) {
	return qualitydto.TrendOutput{}, nil
}

func (s *stubQuality) YearlyTrend(_ context.Context, _, _ string) (qualitydto.YearlyTrendOutput, error) {
	return qualitydto.YearlyTrendOutput{}, nil
}

func (s *stubQuality) Anomalies(_ context.Context, _, _ string) (qualitydto.AnomaliesOutput, error) {
	return qualitydto.AnomaliesOutput{}, nil
}

func (s *stubQuality) Records(_ context.Context, _, _ string) (qualitydto.RecordsOutput, error) {
	return qualitydto.RecordsOutput{}, nil
}

func (s *stubQuality) Predict(_ context.Context, _ string, _ qualitydto.PredictionInput) (qualitydto.PredictionOutput, error) {
	return qualitydto.PredictionOutput{}, nil
}

func newSessionModel(t *testing.T, port *stubQuality) monitor.Model {
	t.Helper()
	m := monitor.New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	_ = m.SetSession("MC01")
	return m
}

func TestHubListFailureIsVisible(t *testing.T) {
	t.Parallel()

	m := newSessionModel(t, &stubQuality{})
	m, _ = m.Update(monitor.HubsMsg{Err: fmt.Errorf("%w: connection refused", apperrors.ErrServerUnavailable)})

	out := m.View()
	if !strings.Contains(out, "backend unreachable") {
		t.Fatalf("view does not surface the hub list failure:\n%s", out)
	}
	if !strings.Contains(out, "h:reload") {
		t.Fatalf("view does not offer a reload hint:\n%s", out)
	}
}

func TestHubListFailureKeepsErrorText(t *testing.T) {
	t.Parallel()

	m := newSessionModel(t, &stubQuality{})
	m, _ = m.Update(monitor.HubsMsg{Err: fmt.Errorf("decode hubs: truncated payload")})

	if out := m.View(); !strings.Contains(out, "hub list failed") {
		t.Fatalf("non-availability failure not surfaced:\n%s", out)
	}
}

func TestHubReloadKeyRefetches(t *testing.T) {
	t.Parallel()

	port := &stubQuality{hubs: []qualitydto.HubOutput{{ID: "HUB01", Name: "North Plant"}}}
	m := newSessionModel(t, port)
	m, _ = m.Update(monitor.HubsMsg{Err: fmt.Errorf("%w: connection refused", apperrors.ErrServerUnavailable)})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if cmd == nil {
		t.Fatal("reload key produced no fetch")
	}
	msg, ok := cmd().(monitor.HubsMsg)
	if !ok {
		t.Fatalf("reload produced %T, want HubsMsg", cmd())
	}
	if port.hubCalls != 1 {
		t.Fatalf("hub fetches = %d, want 1", port.hubCalls)
	}

	m, _ = m.Update(msg)
	out := m.View()
	if strings.Contains(out, "backend unreachable") {
		t.Fatalf("failure banner survived a successful reload:\n%s", out)
	}
	if !strings.Contains(out, "North Plant") {
		t.Fatalf("reloaded hubs not rendered:\n%s", out)
	}
}

func TestResetClearsHubListFailure(t *testing.T) {
	t.Parallel()

	m := newSessionModel(t, &stubQuality{})
	m, _ = m.Update(monitor.HubsMsg{Err: fmt.Errorf("%w: connection refused", apperrors.ErrServerUnavailable)})
	m.Reset()

	if out := m.View(); strings.Contains(out, "backend unreachable") {
		t.Fatalf("failure banner survived a reset:\n%s", out)
	}
}
