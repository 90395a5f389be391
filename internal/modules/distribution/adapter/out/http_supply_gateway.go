package out

import (
	"context"
	"net/url"

	"aquaview/internal/modules/distribution/domain"
	distributionout "aquaview/internal/modules/distribution/port/out"
	"aquaview/internal/platform/gateway"
)

// HTTPSupplyGateway maps the backend's distribution routes onto the
// distribution ports.
type HTTPSupplyGateway struct {
	client *gateway.Client
}

func NewHTTPSupplyGateway(client *gateway.Client) *HTTPSupplyGateway {
	return &HTTPSupplyGateway{client: client}
}

// wireRecord tolerates Critical_Risk arriving as 0/1; the backend stores
// the flag as an integer column.
type wireRecord struct {
	HubID             string  `json:"Hub_ID"`
	Efficiency        float64 `json:"Predicted_Supply_Efficiency"`
	CriticalRisk      int     `json:"Critical_Risk"`
	RecommendedAction string  `json:"Recommended_Action"`
	CreatedAt         string  `json:"Created_At"`
}

func (g *HTTPSupplyGateway) Trend(ctx context.Context, mcCode, hubID string) (domain.Trend, error) {
	payload := struct {
		MCCode       string `json:"MC_Code"`
		HubFilter    string `json:"Hub_Filter"`
		TrendSummary map[string]struct {
			TotalRecords      int          `json:"Total_Records"`
			AverageEfficiency float64      `json:"Average_Efficiency"`
			CriticalCount     int          `json:"Critical_Count"`
			Records           []wireRecord `json:"Records"`
		} `json:"Trend_Summary"`
		Message string `json:"Message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/distribution-trend", hubQuery(hubID), &payload); err != nil {
		return domain.Trend{}, err
	}
	trend := domain.Trend{
		MCCode:    payload.MCCode,
		HubFilter: payload.HubFilter,
		Hubs:      make(map[string]domain.HubTrend, len(payload.TrendSummary)),
		Message:   payload.Message,
	}
	for hub, t := range payload.TrendSummary {
		trend.Hubs[hub] = domain.HubTrend{
			TotalRecords:      t.TotalRecords,
			AverageEfficiency: t.AverageEfficiency,
			CriticalCount:     t.CriticalCount,
			Records:           toDomainRecords(t.Records),
		}
	}
	return trend, nil
}

func (g *HTTPSupplyGateway) YearlyTrend(ctx context.Context, mcCode, hubID string) (domain.YearlyTrend, error) {
	payload := struct {
		MCCode    string `json:"MC_Code"`
		HubFilter string `json:"Hub_Filter"`
		Summary   map[string]struct {
			RecordsPerYear map[string]struct {
				AverageEfficiency *float64 `json:"Average_Efficiency"`
				CriticalCount     int      `json:"Critical_Count"`
				Rolling3yrAvg     *float64 `json:"Rolling_3yr_Avg"`
				YearlyDelta       *float64 `json:"Yearly_Delta"`
				Trend             string   `json:"Trend"`
				PerformanceGrade  string   `json:"Performance_Grade"`
				VolatilityIndex   *float64 `json:"Volatility_Index"`
			} `json:"Records_Per_Year"`
			LongTermTrend string `json:"Long_Term_Trend"`
			Commentary    string `json:"AI_Commentary"`
		} `json:"Yearly_Distribution_Trend"`
		Message string `json:"Message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/yearly-distribution-trend", hubQuery(hubID), &payload); err != nil {
		return domain.YearlyTrend{}, err
	}
	trend := domain.YearlyTrend{
		MCCode:    payload.MCCode,
		HubFilter: payload.HubFilter,
		Hubs:      make(map[string]domain.HubYearly, len(payload.Summary)),
		Message:   payload.Message,
	}
	for hub, yearly := range payload.Summary {
		years := make(map[string]domain.YearStat, len(yearly.RecordsPerYear))
		for year, y := range yearly.RecordsPerYear {
			years[year] = domain.YearStat{
				AverageEfficiency: y.AverageEfficiency,
				CriticalCount:     y.CriticalCount,
				Rolling3yrAvg:     y.Rolling3yrAvg,
				YearlyDelta:       y.YearlyDelta,
				Trend:             y.Trend,
				PerformanceGrade:  y.PerformanceGrade,
				VolatilityIndex:   y.VolatilityIndex,
			}
		}
		trend.Hubs[hub] = domain.HubYearly{
			Years:         years,
			LongTermTrend: yearly.LongTermTrend,
			Commentary:    yearly.Commentary,
		}
	}
	return trend, nil
}

func (g *HTTPSupplyGateway) CriticalSummary(ctx context.Context, mcCode string) (domain.CriticalSummary, error) {
	payload := struct {
		MCCode  string       `json:"MC_Code"`
		Total   int          `json:"Total_Critical_Instances"`
		Records []wireRecord `json:"Records"`
		Message string       `json:"Message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/critical-summary", nil, &payload); err != nil {
		return domain.CriticalSummary{}, err
	}
	return domain.CriticalSummary{
		MCCode:  payload.MCCode,
		Total:   payload.Total,
		Records: toDomainRecords(payload.Records),
		Message: payload.Message,
	}, nil
}

func (g *HTTPSupplyGateway) Latest(ctx context.Context, mcCode string) (domain.Latest, error) {
	payload := struct {
		MCCode  string       `json:"MC_Code"`
		Records []wireRecord `json:"Latest_Records"`
		Message string       `json:"Message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/distribution-latest", nil, &payload); err != nil {
		return domain.Latest{}, err
	}
	return domain.Latest{
		MCCode:  payload.MCCode,
		Records: toDomainRecords(payload.Records),
		Message: payload.Message,
	}, nil
}

func (g *HTTPSupplyGateway) Summary(ctx context.Context, mcCode string) (domain.Summary, error) {
	payload := struct {
		MCCode            string  `json:"MC_Code"`
		AverageEfficiency float64 `json:"Average_Supply_Efficiency"`
		TotalCriticalHubs int     `json:"Total_Critical_Hubs"`
		TotalRecords      int     `json:"Total_Records"`
		TotalDeficitMLD   float64 `json:"Total_Deficit_MLD"`
		Message           string  `json:"Message"`
	}{}
	if err := g.client.GetJSON(ctx, "/api/mc/"+url.PathEscape(mcCode)+"/distribution-summary", nil, &payload); err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{
		MCCode:            payload.MCCode,
		AverageEfficiency: payload.AverageEfficiency,
		TotalCriticalHubs: payload.TotalCriticalHubs,
		TotalRecords:      payload.TotalRecords,
		TotalDeficitMLD:   payload.TotalDeficitMLD,
		Message:           payload.Message,
	}, nil
}

func (g *HTTPSupplyGateway) Forecast(ctx context.Context, input domain.ForecastInput) (domain.Forecast, error) {
	payload := struct {
		MCCode            string  `json:"MC_Code"`
		HubID             string  `json:"Hub_ID"`
		FinalEfficiency   float64 `json:"Final_Efficiency"`
		PerformanceGrade  string  `json:"Performance_Grade"`
		Status            string  `json:"Status"`
		CriticalRisk      bool    `json:"Critical_Risk"`
		DeficitMLD        float64 `json:"Deficit_MLD"`
		PerCapitaLPCD     float64 `json:"PerCapita_LPCD"`
		Interpretation    string  `json:"Interpretation"`
		Commentary        string  `json:"AI_Commentary"`
		RecommendedAction string  `json:"Recommended_Action"`
		Summary           string  `json:"Summary"`
	}{}
	if err := g.client.PostJSON(ctx, "/api/predict-distribution", input, &payload); err != nil {
		return domain.Forecast{}, err
	}
	return domain.Forecast{
		MCCode:            payload.MCCode,
		HubID:             payload.HubID,
		FinalEfficiency:   payload.FinalEfficiency,
		PerformanceGrade:  payload.PerformanceGrade,
		Status:            payload.Status,
		CriticalRisk:      payload.CriticalRisk,
		DeficitMLD:        payload.DeficitMLD,
		PerCapitaLPCD:     payload.PerCapitaLPCD,
		Interpretation:    payload.Interpretation,
		Commentary:        payload.Commentary,
		RecommendedAction: payload.RecommendedAction,
		Summary:           payload.Summary,
	}, nil
}

func hubQuery(hubID string) url.Values {
	if hubID == "" {
		return nil
	}
	query := url.Values{}
	query.Set("hub_id", hubID)
	return query
}

func toDomainRecords(records []wireRecord) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		out = append(out, domain.Record{
			HubID:             r.HubID,
			Efficiency:        r.Efficiency,
			CriticalRisk:      r.CriticalRisk != 0,
			RecommendedAction: r.RecommendedAction,
			CreatedAt:         r.CreatedAt,
		})
	}
	return out
}

var _ distributionout.SupplyGateway = (*HTTPSupplyGateway)(nil)
