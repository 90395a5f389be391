package out

import (
	"context"
	"net/url"

	"aquaview/internal/modules/stats/domain"
	statsout "aquaview/internal/modules/stats/port/out"
	"aquaview/internal/platform/gateway"
)

type HTTPStatsGateway struct {
	client *gateway.Client
}

func NewHTTPStatsGateway(client *gateway.Client) *HTTPStatsGateway {
	return &HTTPStatsGateway{client: client}
}

func (g *HTTPStatsGateway) PublicOverview(ctx context.Context) (domain.PublicOverview, error) {
	payload := struct {
		TotalMC           int     `json:"Total_Municipal_Corporations"`
		TotalPopulation   int64   `json:"Total_Population"`
		AverageWQI        float64 `json:"Average_WQI"`
		AverageEfficiency float64 `json:"Average_Distribution_Efficiency"`
		Message           string  `json:"Message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/public-overall-stats", nil, &payload); err != nil {
		return domain.PublicOverview{}, err
	}
	return domain.PublicOverview{
		TotalMunicipals:   payload.TotalMC,
		TotalPopulation:   payload.TotalPopulation,
		AverageWQI:        payload.AverageWQI,
		AverageEfficiency: payload.AverageEfficiency,
		Message:           payload.Message,
	}, nil
}

func (g *HTTPStatsGateway) Overview(ctx context.Context) (domain.Overview, error) {
	payload := struct {
		TotalMC           int     `json:"Total_Municipal_Corporations"`
		TotalPopulation   int64   `json:"Total_Population"`
		AverageWQI        float64 `json:"Average_WQI"`
		AverageEfficiency float64 `json:"Average_Distribution_Efficiency"`
		TotalAnomalies    int     `json:"Total_Anomalies"`
		TotalCriticalHubs int     `json:"Total_Critical_Hubs"`
		LastUpdated       string  `json:"Last_Updated"`
		RequestedBy       string  `json:"Requested_By"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/overall-stats", nil, &payload); err != nil {
		return domain.Overview{}, err
	}
	return domain.Overview{
		TotalMunicipals:   payload.TotalMC,
		TotalPopulation:   payload.TotalPopulation,
		AverageWQI:        payload.AverageWQI,
		AverageEfficiency: payload.AverageEfficiency,
		TotalAnomalies:    payload.TotalAnomalies,
		TotalCriticalHubs: payload.TotalCriticalHubs,
		LastUpdated:       payload.LastUpdated,
		RequestedBy:       payload.RequestedBy,
	}, nil
}

func (g *HTTPStatsGateway) StateTrends(ctx context.Context) (domain.StateTrends, error) {
	payload := struct {
		TrendData []struct {
			Year          int     `json:"Year"`
			AvgWQI        float64 `json:"Avg_WQI"`
			AvgEfficiency float64 `json:"Avg_Efficiency"`
		} `json:"Trend_Data"`
		RequestedBy string `json:"Requested_By"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/state-trends", nil, &payload); err != nil {
		return domain.StateTrends{}, err
	}
	trends := domain.StateTrends{
		Years:       make([]domain.YearTrend, 0, len(payload.TrendData)),
		RequestedBy: payload.RequestedBy,
	}
	for _, row := range payload.TrendData {
		trends.Years = append(trends.Years, domain.YearTrend{
			Year:          row.Year,
			AvgWQI:        row.AvgWQI,
			AvgEfficiency: row.AvgEfficiency,
		})
	}
	return trends, nil
}

func (g *HTTPStatsGateway) Dashboard(ctx context.Context, mcCode string) (domain.Dashboard, error) {
	payload := struct {
		MunicipalInfo map[string]any `json:"municipal_info"`
		ConnectedHubs []struct {
			HubID   string `json:"Hub_ID"`
			HubName string `json:"Hub_Name"`
		} `json:"connected_hubs"`
		Message string `json:"message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/dashboard/"+url.PathEscape(mcCode), nil, &payload); err != nil {
		return domain.Dashboard{}, err
	}
	dashboard := domain.Dashboard{
		MunicipalInfo: payload.MunicipalInfo,
		ConnectedHubs: make([]domain.ConnectedHub, 0, len(payload.ConnectedHubs)),
		Message:       payload.Message,
	}
	for _, h := range payload.ConnectedHubs {
		dashboard.ConnectedHubs = append(dashboard.ConnectedHubs, domain.ConnectedHub{ID: h.HubID, Name: h.HubName})
	}
	return dashboard, nil
}

var _ statsout.StatsGateway = (*HTTPStatsGateway)(nil)
