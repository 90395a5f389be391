package out

import (
	"context"
	"time"

	"aquaview/internal/modules/distribution/domain"
)

// SupplyGateway covers the backend's distribution routes. Methods taking
// hubID treat "" as "all hubs".
type SupplyGateway interface {
	Trend(ctx context.Context, mcCode, hubID string) (domain.Trend, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (domain.YearlyTrend, error)
	CriticalSummary(ctx context.Context, mcCode string) (domain.CriticalSummary, error)
	Latest(ctx context.Context, mcCode string) (domain.Latest, error)
	Summary(ctx context.Context, mcCode string) (domain.Summary, error)
	Forecast(ctx context.Context, input domain.ForecastInput) (domain.Forecast, error)
}

// SnapshotCache keeps the last successful payload per (mc, view, hub) so
// screens can show last-known data when the backend is unreachable.
type SnapshotCache interface {
	Put(ctx context.Context, mcCode, view, hubID string, payload []byte, fetchedAt time.Time) error
	Get(ctx context.Context, mcCode, view, hubID string) ([]byte, time.Time, error)
}
