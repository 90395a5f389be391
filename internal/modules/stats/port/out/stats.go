package out

import (
	"context"

	"aquaview/internal/modules/stats/domain"
)

// StatsGateway covers the backend's state-level and per-MC dashboard
// routes. PublicOverview is the only operation served without a session.
type StatsGateway interface {
	PublicOverview(ctx context.Context) (domain.PublicOverview, error)
	Overview(ctx context.Context) (domain.Overview, error)
	StateTrends(ctx context.Context) (domain.StateTrends, error)
	Dashboard(ctx context.Context, mcCode string) (domain.Dashboard, error)
}
