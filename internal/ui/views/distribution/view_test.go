package distribution_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	distdto "aquaview/internal/modules/distribution/dto"
	qualitydto "aquaview/internal/modules/quality/dto"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/ui/views/distribution"
)

type stubSupply struct {
	hubs     []qualitydto.HubOutput
	hubCalls int
}

func (s *stubSupply) Hubs(_ context.Context, _ string) ([]qualitydto.HubOutput, error) {
	s.hubCalls++
	return s.hubs, nil
}

func (s *stubSupply) Trend(_ context.Context, _, _ string) (distdto.TrendOutput, error) {
	return distdto.TrendOutput{}, nil
}

func (s *stubSupply) YearlyTrend(_ context.Context, _, _ string) (distdto.YearlyTrendOutput, error) {
	return distdto.YearlyTrendOutput{}, nil
}

func (s *stubSupply) CriticalSummary(_ context.Context, _ string) (distdto.CriticalSummaryOutput, error) {
	return distdto.CriticalSummaryOutput{}, nil
}

func (s *stubSupply) Latest(_ context.Context, _ string) (distdto.LatestOutput, error) {
	return distdto.LatestOutput{}, nil
}

func (s *stubSupply) Summary(_ context.Context, _ string) (distdto.SummaryOutput, error) {
	return distdto.SummaryOutput{}, nil
}

func (s *stubSupply) Forecast(_ context.Context, _ string, _ distdto.ForecastInput) (distdto.ForecastOutput, error) {
	return distdto.ForecastOutput{}, nil
}

func TestHubListFailureIsVisible(t *testing.T) {
	t.Parallel()

	m := distribution.New(&stubSupply{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	_ = m.SetSession("MC01")
	m, _ = m.Update(distribution.HubsMsg{Err: fmt.Errorf("%w: connection refused", apperrors.ErrServerUnavailable)})

	out := m.View()
	if !strings.Contains(out, "backend unreachable") {
		t.Fatalf("view does not surface the hub list failure:\n%s", out)
	}
	if !strings.Contains(out, "h:reload") {
		t.Fatalf("view does not offer a reload hint:\n%s", out)
	}
}

func TestHubReloadKeyRefetches(t *testing.T) {
	t.Parallel()

	port := &stubSupply{hubs: []qualitydto.HubOutput{{ID: "HUB02", Name: "South Plant"}}}
	m := distribution.New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	_ = m.SetSession("MC01")
	m, _ = m.Update(distribution.HubsMsg{Err: fmt.Errorf("%w: connection refused", apperrors.ErrServerUnavailable)})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if cmd == nil {
		t.Fatal("reload key produced no fetch")
	}
	msg, ok := cmd().(distribution.HubsMsg)
	if !ok {
		t.Fatal("reload did not produce a hub listing")
	}
	if port.hubCalls != 1 {
		t.Fatalf("hub fetches = %d, want 1", port.hubCalls)
	}

	m, _ = m.Update(msg)
	out := m.View()
	if strings.Contains(out, "backend unreachable") {
		t.Fatalf("failure banner survived a successful reload:\n%s", out)
	}
	if !strings.Contains(out, "South Plant") {
		t.Fatalf("reloaded hubs not rendered:\n%s", out)
	}
}
