package out

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aquaview/internal/platform/config"
	"aquaview/internal/platform/gateway"
)

func newGateway(t *testing.T, handler http.Handler) *HTTPAnalyticsGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := gateway.New(config.Config{BaseURL: srv.URL, Timeout: time.Second}, nil, nil)
	return NewHTTPAnalyticsGateway(client)
}

func TestYearlyDeltaAbsentForFirstObservedYear(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mc/MC01/yearly-trend" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"MC_Code": "MC01",
			"Hub_Filter": "All",
			"Yearly_Trend_Summary": {
				"HUB01": {
					"2023": {"Average_WQI": 68.2, "Max_WQI": 75, "Min_WQI": 60, "Total_Records": 12, "Anomaly_Count": 1, "Trend": "Base Year", "Yearly_Delta": "N/A"},
					"2024": {"Average_WQI": 71.9, "Max_WQI": 80, "Min_WQI": 63, "Total_Records": 14, "Anomaly_Count": 0, "Trend": "Improving", "Yearly_Delta": 3.7}
				}
			}
		}`))
	}))

	trend, err := gw.YearlyTrend(context.Background(), "MC01", "")
	if err != nil {
		t.Fatalf("yearly trend: %v", err)
	}
	first := trend.Hubs["HUB01"]["2023"]
	if first.YearlyDelta != nil {
		t.Fatalf("base year delta = %v, want nil", *first.YearlyDelta)
	}
	second := trend.Hubs["HUB01"]["2024"]
	if second.YearlyDelta == nil || *second.YearlyDelta != 3.7 {
		t.Fatalf("second year delta = %v, want 3.7", second.YearlyDelta)
	}
}

func TestTrendDecodesPerHubAggregates(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("Hub_ID"); got != "HUB02" {
			t.Errorf("Hub_ID query = %q, want HUB02", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"MC_Code": "MC01",
			"Hub_Filter": "HUB02",
			"Trend_Summary": {
				"HUB02": {
					"Total_Records": 2,
					"Average_WQI": 64.5,
					"Anomaly_Count": 1,
					"Records": [
						{"Hub_ID": "HUB02", "WQI": 61.0, "Anomaly_Status": "Anomaly", "Created_At": "2025-02-01T08:00:00"},
						{"Hub_ID": "HUB02", "WQI": 68.0, "Anomaly_Status": "Normal", "Created_At": "2025-02-02T08:00:00"}
					]
				}
			}
		}`))
	}))

	summary, err := gw.Trend(context.Background(), "MC01", "HUB02")
	if err != nil {
		t.Fatalf("trend: %v", err)
	}
	hub := summary.Hubs["HUB02"]
	if hub.AverageWQI != 64.5 || hub.AnomalyCount != 1 || len(hub.Records) != 2 {
		t.Fatalf("unexpected hub aggregate: %+v", hub)
	}
	if hub.Records[0].AnomalyStatus != "Anomaly" {
		t.Fatalf("record status = %q, want Anomaly", hub.Records[0].AnomalyStatus)
	}
}

func TestHubImageFallsBackToPlaceholder(t *testing.T) {
	t.Parallel()

	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	blob, err := gw.HubImage(context.Background(), "HUB01")
	if err != nil {
		t.Fatalf("hub image: %v", err)
	}
	if !bytes.Equal(blob, hubPlaceholder) {
		t.Fatal("missing image did not resolve to the bundled placeholder")
	}
}

func TestHubImageReturnsBackendBytesWhenPresent(t *testing.T) {
	t.Parallel()

	image := []byte{0x89, 'P', 'N', 'G'}
	gw := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_hub_image/HUB01" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(image)
	}))

	blob, err := gw.HubImage(context.Background(), "HUB01")
	if err != nil {
		t.Fatalf("hub image: %v", err)
	}
	if !bytes.Equal(blob, image) {
		t.Fatal("backend image bytes not returned verbatim")
	}
}
