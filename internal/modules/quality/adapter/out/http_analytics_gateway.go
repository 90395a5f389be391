package out

import (
	"context"
	_ "embed"
	"errors"
	"net/url"

	"aquaview/internal/modules/quality/domain"
	qualityout "aquaview/internal/modules/quality/port/out"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/platform/gateway"
)

//go:embed assets/hub_placeholder.svg
var hubPlaceholder []byte

// HTTPAnalyticsGateway maps the backend's water-quality routes onto the
// quality ports, translating the backend's field naming into domain types.
type HTTPAnalyticsGateway struct {
	client *gateway.Client
}

func NewHTTPAnalyticsGateway(client *gateway.Client) *HTTPAnalyticsGateway {
	return &HTTPAnalyticsGateway{client: client}
}

type wireRecord struct {
	HubID         string  `json:"Hub_ID"`
	WQI           float64 `json:"WQI"`
	AnomalyStatus string  `json:"Anomaly_Status"`
	CreatedAt     string  `json:"Created_At"`
}

func (g *HTTPAnalyticsGateway) Hubs(ctx context.Context, mcCode string) ([]domain.Hub, error) {
	payload := struct {
		Hubs []struct {
			HubID   string `json:"Hub_ID"`
			HubName string `json:"Hub_Name"`
		} `json:"Hubs"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/hubs", nil, &payload); err != nil {
		return nil, err
	}
	hubs := make([]domain.Hub, 0, len(payload.Hubs))
	for _, h := range payload.Hubs {
		hubs = append(hubs, domain.Hub{ID: h.HubID, Name: h.HubName})
	}
	return hubs, nil
}

func (g *HTTPAnalyticsGateway) Trend(ctx context.Context, mcCode, hubID string) (domain.TrendSummary, error) {
	payload := struct {
		MCCode       string `json:"MC_Code"`
		HubFilter    string `json:"Hub_Filter"`
		TrendSummary map[string]struct {
			TotalRecords int          `json:"Total_Records"`
			AverageWQI   float64      `json:"Average_WQI"`
			AnomalyCount int          `json:"Anomaly_Count"`
			Records      []wireRecord `json:"Records"`
		} `json:"Trend_Summary"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/trend", hubQuery("Hub_ID", hubID), &payload); err != nil {
		return domain.TrendSummary{}, err
	}
	summary := domain.TrendSummary{
		MCCode:    payload.MCCode,
		HubFilter: payload.HubFilter,
		Hubs:      make(map[string]domain.HubTrend, len(payload.TrendSummary)),
	}
	for hub, t := range payload.TrendSummary {
		summary.Hubs[hub] = domain.HubTrend{
			TotalRecords: t.TotalRecords,
			AverageWQI:   t.AverageWQI,
			AnomalyCount: t.AnomalyCount,
			Records:      toDomainRecords(t.Records),
		}
	}
	return summary, nil
}

func (g *HTTPAnalyticsGateway) YearlyTrend(ctx context.Context, mcCode, hubID string) (domain.YearlyTrend, error) {
	payload := struct {
		MCCode    string `json:"MC_Code"`
		HubFilter string `json:"Hub_Filter"`
		Summary   map[string]map[string]struct {
			AverageWQI   float64 `json:"Average_WQI"`
			MaxWQI       float64 `json:"Max_WQI"`
			MinWQI       float64 `json:"Min_WQI"`
			TotalRecords int     `json:"Total_Records"`
			AnomalyCount int     `json:"Anomaly_Count"`
			Trend        string  `json:"Trend"`
			YearlyDelta  any     `json:"Yearly_Delta"`
		} `json:"Yearly_Trend_Summary"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/yearly-trend", hubQuery("Hub_ID", hubID), &payload); err != nil {
		return domain.YearlyTrend{}, err
	}
	trend := domain.YearlyTrend{
		MCCode:    payload.MCCode,
		HubFilter: payload.HubFilter,
		Hubs:      make(map[string]map[string]domain.YearStat, len(payload.Summary)),
	}
	for hub, years := range payload.Summary {
		stats := make(map[string]domain.YearStat, len(years))
		for year, y := range years {
			stats[year] = domain.YearStat{
				AverageWQI:   y.AverageWQI,
				MaxWQI:       y.MaxWQI,
				MinWQI:       y.MinWQI,
				TotalRecords: y.TotalRecords,
				AnomalyCount: y.AnomalyCount,
				Trend:        y.Trend,
				YearlyDelta:  numericDelta(y.YearlyDelta),
			}
		}
		trend.Hubs[hub] = stats
	}
	return trend, nil
}

func (g *HTTPAnalyticsGateway) Anomalies(ctx context.Context, mcCode, hubID string) (domain.AnomalySummary, error) {
	payload := struct {
		MCCode    string       `json:"MC_Code"`
		HubFilter string       `json:"Hub_Filter"`
		Total     int          `json:"Total_Anomalies"`
		Records   []wireRecord `json:"Records"`
		Message   string       `json:"Message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/anomalies", hubQuery("Hub_ID", hubID), &payload); err != nil {
		return domain.AnomalySummary{}, err
	}
	return domain.AnomalySummary{
		MCCode:    payload.MCCode,
		HubFilter: payload.HubFilter,
		Total:     payload.Total,
		Records:   toDomainRecords(payload.Records),
		Message:   payload.Message,
	}, nil
}

func (g *HTTPAnalyticsGateway) Records(ctx context.Context, mcCode, hubID string) (domain.RecordSet, error) {
	payload := struct {
		MCCode    string           `json:"MC_Code"`
		HubFilter string           `json:"Hub_Filter"`
		Total     int              `json:"Total_Records"`
		Records   []map[string]any `json:"Records"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/quality-records", hubQuery("hub_id", hubID), &payload); err != nil {
		return domain.RecordSet{}, err
	}
	return domain.RecordSet{
		MCCode:    payload.MCCode,
		HubFilter: payload.HubFilter,
		Total:     payload.Total,
		Records:   payload.Records,
	}, nil
}

func (g *HTTPAnalyticsGateway) Predict(ctx context.Context, input domain.PredictionInput) (domain.Prediction, error) {
	payload := struct {
		HubID             string  `json:"Hub_ID"`
		FinalWQI          float64 `json:"Final_WQI"`
		Category          string  `json:"Category"`
		AnomalyStatus     string  `json:"Anomaly_Status"`
		Interpretation    string  `json:"Interpretation"`
		RecommendedAction string  `json:"Recommended_Action"`
		AISummary         string  `json:"AI_Summary"`
	}{}
	if err := g.client.PostJSON(ctx, "/api/predict-quality", input, &payload); err != nil {
		return domain.Prediction{}, err
	}
	return domain.Prediction{
		HubID:             payload.HubID,
		FinalWQI:          payload.FinalWQI,
		Category:          payload.Category,
		AnomalyStatus:     payload.AnomalyStatus,
		Interpretation:    payload.Interpretation,
		RecommendedAction: payload.RecommendedAction,
		Summary:           payload.AISummary,
	}, nil
}

// HubImage falls back to the bundled placeholder when the backend has no
// image for the hub.
func (g *HTTPAnalyticsGateway) HubImage(ctx context.Context, hubID string) ([]byte, error) {
	blob, err := g.client.GetBlob(ctx, "/get_hub_image/"+url.PathEscape(hubID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNoData) {
			return hubPlaceholder, nil
		}
		return nil, err
	}
	return blob, nil
}

func hubQuery(param, hubID string) url.Values {
	if hubID == "" {
		return nil
	}
	query := url.Values{}
	query.Set(param, hubID)
	return query
}

func toDomainRecords(records []wireRecord) []domain.QualityRecord {
	out := make([]domain.QualityRecord, 0, len(records))
	for _, r := range records {
		out = append(out, domain.QualityRecord{
			HubID:         r.HubID,
			WQI:           r.WQI,
			AnomalyStatus: r.AnomalyStatus,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out
}

// numericDelta tolerates the backend's habit of sending "N/A" for the
// first observed year.
func numericDelta(v any) *float64 {
	if f, ok := v.(float64); ok {
		return &f
	}
	return nil
}

var _ qualityout.AnalyticsGateway = (*HTTPAnalyticsGateway)(nil)
