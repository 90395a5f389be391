package domain

import (
	"fmt"

	apperrors "aquaview/internal/platform/errors"
)

// Record is one stored supply-efficiency observation for a hub.
type Record struct {
	HubID             string
	Efficiency        float64
	CriticalRisk      bool
	RecommendedAction string
	CreatedAt         string
}

// HubTrend aggregates a single hub's efficiency observations.
type HubTrend struct {
	TotalRecords      int
	AverageEfficiency float64
	CriticalCount     int
	Records           []Record
}

type Trend struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]HubTrend
	Message   string
}

// YearStat is one hub-year efficiency aggregate. Pointer fields are nil
// where the backend has too little history to compute the figure.
type YearStat struct {
	AverageEfficiency *float64
	CriticalCount     int
	Rolling3yrAvg     *float64
	YearlyDelta       *float64
	Trend             string
	PerformanceGrade  string
	VolatilityIndex   *float64
}

// HubYearly carries a hub's per-year stats plus the backend's long-term
// reading across the whole window.
type HubYearly struct {
	Years         map[string]YearStat
	LongTermTrend string
	Commentary    string
}

type YearlyTrend struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]HubYearly
	Message   string
}

type CriticalSummary struct {
	MCCode  string
	Total   int
	Records []Record
	Message string
}

// Latest is the most recent batch of distribution records for an MC, one
// row per hub that reported in the newest run.
type Latest struct {
	MCCode  string
	Records []Record
	Message string
}

type Summary struct {
	MCCode            string
	AverageEfficiency float64
	TotalCriticalHubs int
	TotalRecords      int
	TotalDeficitMLD   float64
	Message           string
}

// ForecastInput mirrors the backend schema for a distribution prediction.
type ForecastInput struct {
	MCCode           string  `json:"MC_Code" validate:"required"`
	HubID            string  `json:"Hub_ID" validate:"required"`
	TotalDemandMLD   float64 `json:"Total_Demand_MLD" validate:"gt=0"`
	CurrentSupplyMLD float64 `json:"Current_Supply_MLD" validate:"gt=0"`
	Population       int     `json:"Population" validate:"gte=1"`
}

// ValidateBalance rejects inputs the backend's simulation would turn into
// nonsense, such as supply wildly above demand.
func (f ForecastInput) ValidateBalance() error {
	if f.CurrentSupplyMLD > f.TotalDemandMLD*2 {
		return fmt.Errorf("%w: supply more than double the demand", apperrors.ErrInvalidInput)
	}
	return nil
}

// Forecast is the backend's efficiency and risk verdict for one hub.
type Forecast struct {
	MCCode            string
	HubID             string
	FinalEfficiency   float64
	PerformanceGrade  string
	Status            string
	CriticalRisk      bool
	DeficitMLD        float64
	PerCapitaLPCD     float64
	Interpretation    string
	Commentary        string
	RecommendedAction string
	Summary           string
}
