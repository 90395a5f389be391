package out

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aquaview/internal/platform/config"
	apperrors "aquaview/internal/platform/errors"
	"aquaview/internal/platform/gateway"
)

func newGateway(t *testing.T, handler http.Handler) *HTTPStatsGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := gateway.New(config.Config{BaseURL: srv.URL, Timeout: time.Second}, nil, nil)
	return NewHTTPStatsGateway(client)
}

func TestPublicOverviewNeedsNoSession(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/public-overall-stats" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization header sent without a session: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Total_Municipal_Corporations": 27,
			"Total_Population": 61800000,
			"Average_WQI": 68.4,
			"Average_Distribution_Efficiency": 74.1,
			"Message": "ok"
		}`))
	}))

	overview, err := gw.PublicOverview(context.Background())
	if err != nil {
		t.Fatalf("public overview: %v", err)
	}
	if overview.TotalMunicipals != 27 || overview.TotalPopulation != 61800000 {
		t.Fatalf("unexpected overview: %+v", overview)
	}
	if overview.AverageWQI != 68.4 || overview.AverageEfficiency != 74.1 {
		t.Fatalf("unexpected averages: %+v", overview)
	}
}

func TestStateTrendsOrderedByYear(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Trend_Data": [
				{"Year": 2023, "Avg_WQI": 66.1, "Avg_Efficiency": 71.0},
				{"Year": 2024, "Avg_WQI": 69.3, "Avg_Efficiency": 75.6}
			],
			"Requested_By": "operator1"
		}`))
	}))

	trends, err := gw.StateTrends(context.Background())
	if err != nil {
		t.Fatalf("state trends: %v", err)
	}
	if len(trends.Years) != 2 || trends.Years[0].Year != 2023 || trends.Years[1].Year != 2024 {
		t.Fatalf("unexpected year order: %+v", trends.Years)
	}
	if trends.RequestedBy != "operator1" {
		t.Fatalf("requested by = %q, want operator1", trends.RequestedBy)
	}
}

func TestStateTrendsWithoutDataIsNoData(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "No trend data found"}`, http.StatusNotFound)
	}))

	_, err := gw.StateTrends(context.Background())
	if !errors.Is(err, apperrors.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestDashboardDecodesMunicipalInfoAndHubs(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dashboard/MC01" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"municipal_info": {"MC_Code": "MC01", "MC_Name": "Test City", "Population": 400000},
			"connected_hubs": [
				{"Hub_ID": "HUB01", "Hub_Name": "North Plant"},
				{"Hub_ID": "HUB02", "Hub_Name": "South Plant"}
			],
			"message": "Dashboard data for Test City"
		}`))
	}))

	dashboard, err := gw.Dashboard(context.Background(), "MC01")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dashboard.MunicipalInfo["MC_Name"] != "Test City" {
		t.Fatalf("municipal info = %+v", dashboard.MunicipalInfo)
	}
	if len(dashboard.ConnectedHubs) != 2 || dashboard.ConnectedHubs[1].Name != "South Plant" {
		t.Fatalf("connected hubs = %+v", dashboard.ConnectedHubs)
	}
}
