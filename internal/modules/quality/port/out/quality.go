package out

import (
	"context"
	"time"

	"aquaview/internal/modules/quality/domain"
)

// AnalyticsGateway covers the backend's quality routes. Every method is
// scoped by the session's MC code; hubID "" means "all hubs".
type AnalyticsGateway interface {
	Hubs(ctx context.Context, mcCode string) ([]domain.Hub, error)
	Trend(ctx context.Context, mcCode, hubID string) (domain.TrendSummary, error)
	YearlyTrend(ctx context.Context, mcCode, hubID string) (domain.YearlyTrend, error)
	Anomalies(ctx context.Context, mcCode, hubID string) (domain.AnomalySummary, error)
	Records(ctx context.Context, mcCode, hubID string) (domain.RecordSet, error)
	Predict(ctx context.Context, input domain.PredictionInput) (domain.Prediction, error)
	HubImage(ctx context.Context, hubID string) ([]byte, error)
}

// SnapshotCache keeps the last successful payload per (mc, view, hub) so
// screens can show last-known data when the backend is unreachable.
type SnapshotCache interface {
	Put(ctx context.Context, mcCode, view, hubID string, payload []byte, fetchedAt time.Time) error
	Get(ctx context.Context, mcCode, view, hubID string) ([]byte, time.Time, error)
}
