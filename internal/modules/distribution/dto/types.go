package dto

import "time"

type RecordOutput struct {
	HubID             string
	Efficiency        float64
	CriticalRisk      bool
	RecommendedAction string
	CreatedAt         string
}

type HubTrendOutput struct {
	TotalRecords      int
	AverageEfficiency float64
	CriticalCount     int
	Records           []RecordOutput
}

type TrendOutput struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]HubTrendOutput
	Message   string
	Stale     bool
	FetchedAt time.Time
}

type YearStatOutput struct {
	AverageEfficiency *float64
	CriticalCount     int
	Rolling3yrAvg     *float64
	YearlyDelta       *float64
	Trend             string
	PerformanceGrade  string
	VolatilityIndex   *float64
}

type HubYearlyOutput struct {
	Years         map[string]YearStatOutput
	LongTermTrend string
	Commentary    string
}

type YearlyTrendOutput struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]HubYearlyOutput
	Message   string
	Stale     bool
	FetchedAt time.Time
}

type CriticalSummaryOutput struct {
	MCCode    string
	Total     int
	Records   []RecordOutput
	Message   string
	Stale     bool
	FetchedAt time.Time
}

type LatestOutput struct {
	MCCode    string
	Records   []RecordOutput
	Message   string
	Stale     bool
	FetchedAt time.Time
}

type SummaryOutput struct {
	MCCode            string
	AverageEfficiency float64
	TotalCriticalHubs int
	TotalRecords      int
	TotalDeficitMLD   float64
	Message           string
	Stale             bool
	FetchedAt         time.Time
}

type ForecastInput struct {
	HubID            string
	TotalDemandMLD   float64
	CurrentSupplyMLD float64
	Population       int
}

type ForecastOutput struct {
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
