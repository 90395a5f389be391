package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"aquaview/internal/modules/quality/domain"
	"aquaview/internal/modules/quality/dto"
	"aquaview/internal/modules/quality/service"
	apperrors "aquaview/internal/platform/errors"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeAnalyticsGateway struct {
	err          error
	trend        domain.TrendSummary
	prediction   domain.Prediction
	trendCalls   int
	predictCalls int
	lastPredict  domain.PredictionInput
}

func (g *fakeAnalyticsGateway) Hubs(ctx context.Context, mcCode string) ([]domain.Hub, error) {
	return nil, g.err
}

func (g *fakeAnalyticsGateway) Trend(ctx context.Context, mcCode, hubID string) (domain.TrendSummary, error) {
	g.trendCalls++
	if g.err != nil {
		return domain.TrendSummary{}, g.err
	}
	return g.trend, nil
}

func (g *fakeAnalyticsGateway) YearlyTrend(ctx context.Context, mcCode, hubID string) (domain.YearlyTrend, error) {
	return domain.YearlyTrend{}, g.err
}

func (g *fakeAnalyticsGateway) Anomalies(ctx context.Context, mcCode, hubID string) (domain.AnomalySummary, error) {
	return domain.AnomalySummary{}, g.err
}

func (g *fakeAnalyticsGateway) Records(ctx context.Context, mcCode, hubID string) (domain.RecordSet, error) {
	return domain.RecordSet{}, g.err
}

func (g *fakeAnalyticsGateway) Predict(ctx context.Context, input domain.PredictionInput) (domain.Prediction, error) {
	g.predictCalls++
	g.lastPredict = input
	if g.err != nil {
		return domain.Prediction{}, g.err
	}
	return g.prediction, nil
}

func (g *fakeAnalyticsGateway) HubImage(ctx context.Context, hubID string) ([]byte, error) {
	return nil, g.err
}

type snapshot struct {
	payload   []byte
	fetchedAt time.Time
}

type memorySnapshotCache struct {
	entries map[string]snapshot
}

func newMemorySnapshotCache() *memorySnapshotCache {
	return &memorySnapshotCache{entries: map[string]snapshot{}}
}

func (c *memorySnapshotCache) key(mcCode, view, hubID string) string {
	return mcCode + "/" + view + "/" + hubID
}

func (c *memorySnapshotCache) Put(ctx context.Context, mcCode, view, hubID string, payload []byte, fetchedAt time.Time) error {
	c.entries[c.key(mcCode, view, hubID)] = snapshot{payload: payload, fetchedAt: fetchedAt}
	return nil
}

func (c *memorySnapshotCache) Get(ctx context.Context, mcCode, view, hubID string) ([]byte, time.Time, error) {
	entry, ok := c.entries[c.key(mcCode, view, hubID)]
	if !ok {
		return nil, time.Time{}, apperrors.ErrNoData
	}
	return entry.payload, entry.fetchedAt, nil
}

func validPrediction() dto.PredictionInput {
	return dto.PredictionInput{
		HubID:             "HUB01",
		TemperatureMin:    18,
		TemperatureMax:    26,
		PHMin:             6.8,
		PHMax:             7.6,
		ConductivityMin:   200,
		ConductivityMax:   450,
		BODMin:            1,
		BODMax:            3,
		FaecalColiformMin: 10,
		FaecalColiformMax: 80,
		TotalColiformMin:  40,
		TotalColiformMax:  300,
		NitrateNMin:       0.5,
		NitrateNMax:       2,
	}
}

func TestTrendStoresSnapshotOnSuccess(t *testing.T) {
	t.Parallel()

	gw := &fakeAnalyticsGateway{trend: domain.TrendSummary{
		MCCode: "MC01",
		Hubs:   map[string]domain.HubTrend{"HUB01": {TotalRecords: 4, AverageWQI: 71.5}},
	}}
	cache := newMemorySnapshotCache()
	clk := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	uc := NewInteractor(service.NewQualityService(clk, gw, cache))

	out, err := uc.Trend(context.Background(), "MC01", "HUB01")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	if out.Stale {
		t.Fatal("live fetch reported as stale")
	}
	if !out.FetchedAt.Equal(clk.now) {
		t.Fatalf("fetched at %v, want %v", out.FetchedAt, clk.now)
	}
	if _, _, err := cache.Get(context.Background(), "MC01", "trend", "HUB01"); err != nil {
		t.Fatalf("snapshot not stored: %v", err)
	}
}

func TestTrendServesSnapshotWhenBackendDown(t *testing.T) {
	t.Parallel()

	gw := &fakeAnalyticsGateway{trend: domain.TrendSummary{
		MCCode: "MC01",
		Hubs:   map[string]domain.HubTrend{"HUB01": {TotalRecords: 4, AverageWQI: 71.5}},
	}}
	cache := newMemorySnapshotCache()
	clk := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	uc := NewInteractor(service.NewQualityService(clk, gw, cache))

	if _, err := uc.Trend(context.Background(), "MC01", "HUB01"); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	firstFetch := clk.now
	clk.now = clk.now.Add(2 * time.Hour)
	gw.err = apperrors.ErrServerUnavailable

	out, err := uc.Trend(context.Background(), "MC01", "HUB01")
	if err != nil {
		t.Fatalf("expected stale fallback, got error: %v", err)
	}
	if !out.Stale {
		t.Fatal("fallback payload not flagged stale")
	}
	if !out.FetchedAt.Equal(firstFetch) {
		t.Fatalf("stale fetched at %v, want original %v", out.FetchedAt, firstFetch)
	}
	if got := out.Hubs["HUB01"].AverageWQI; got != 71.5 {
		t.Fatalf("stale payload average WQI = %v, want 71.5", got)
	}
}

func TestUnauthorizedIsNeverServedFromCache(t *testing.T) {
	t.Parallel()

	gw := &fakeAnalyticsGateway{trend: domain.TrendSummary{MCCode: "MC01"}}
	cache := newMemorySnapshotCache()
	uc := NewInteractor(service.NewQualityService(&fakeClock{now: time.Now()}, gw, cache))

	if _, err := uc.Trend(context.Background(), "MC01", ""); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}

	gw.err = apperrors.ErrUnauthorized
	if _, err := uc.Trend(context.Background(), "MC01", ""); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPredictOutOfRangeIssuesNoRequest(t *testing.T) {
	t.Parallel()

	gw := &fakeAnalyticsGateway{}
	uc := NewInteractor(service.NewQualityService(&fakeClock{now: time.Now()}, gw, nil))

	input := validPrediction()
	input.PHMax = 15

	_, err := uc.Predict(context.Background(), "MC01", input)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if gw.predictCalls != 0 {
		t.Fatalf("gateway called %d times for invalid input", gw.predictCalls)
	}
}

func TestPredictMinAboveMaxIssuesNoRequest(t *testing.T) {
	t.Parallel()

	gw := &fakeAnalyticsGateway{}
	uc := NewInteractor(service.NewQualityService(&fakeClock{now: time.Now()}, gw, nil))

	input := validPrediction()
	input.TemperatureMin = 30
	input.TemperatureMax = 20

	_, err := uc.Predict(context.Background(), "MC01", input)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if gw.predictCalls != 0 {
		t.Fatalf("gateway called %d times for invalid input", gw.predictCalls)
	}
}

func TestPredictWithoutHubIssuesNoRequest(t *testing.T) {
	t.Parallel()

	gw := &fakeAnalyticsGateway{}
	uc := NewInteractor(service.NewQualityService(&fakeClock{now: time.Now()}, gw, nil))

	input := validPrediction()
	input.HubID = "  "

	_, err := uc.Predict(context.Background(), "MC01", input)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if gw.predictCalls != 0 {
		t.Fatalf("gateway called %d times without a hub", gw.predictCalls)
	}
}

func TestPredictCarriesMunicipalScope(t *testing.T) {
	t.Parallel()

	gw := &fakeAnalyticsGateway{prediction: domain.Prediction{HubID: "HUB01", FinalWQI: 82.3, Category: "Good"}}
	uc := NewInteractor(service.NewQualityService(&fakeClock{now: time.Now()}, gw, nil))

	out, err := uc.Predict(context.Background(), "MC01", validPrediction())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if gw.lastPredict.MCCode != "MC01" {
		t.Fatalf("gateway saw MC code %q, want MC01", gw.lastPredict.MCCode)
	}
	if out.FinalWQI != 82.3 || out.Category != "Good" {
		t.Fatalf("unexpected prediction output: %+v", out)
	}
}
