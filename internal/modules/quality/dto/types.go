package dto

import "time"

type HubOutput struct {
	ID   string
	Name string
}

type RecordOutput struct {
	HubID         string
	WQI           float64
	AnomalyStatus string
	CreatedAt     string
}

type HubTrendOutput struct {
	TotalRecords int
	AverageWQI   float64
	AnomalyCount int
	Records      []RecordOutput
}

type TrendOutput struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]HubTrendOutput
	Stale     bool
	FetchedAt time.Time
}

type YearStatOutput struct {
	AverageWQI   float64
	MaxWQI       float64
	MinWQI       float64
	TotalRecords int
	AnomalyCount int
	Trend        string
	YearlyDelta  *float64
}

type YearlyTrendOutput struct {
	MCCode    string
	HubFilter string
	Hubs      map[string]map[string]YearStatOutput
	Stale     bool
	FetchedAt time.Time
}

type AnomaliesOutput struct {
	MCCode    string
	HubFilter string
	Total     int
	Records   []RecordOutput
	Message   string
	Stale     bool
	FetchedAt time.Time
}

type RecordsOutput struct {
	MCCode    string
	HubFilter string
	Total     int
	Records   []map[string]any
	Stale     bool
	FetchedAt time.Time
}

type PredictionInput struct {
	HubID             string
	TemperatureMin    float64
	TemperatureMax    float64
	PHMin             float64
	PHMax             float64
	ConductivityMin   float64
	ConductivityMax   float64
	BODMin            float64
	BODMax            float64
	FaecalColiformMin float64
	FaecalColiformMax float64
	TotalColiformMin  float64
	TotalColiformMax  float64
	NitrateNMin       float64
	NitrateNMax       float64
}

type PredictionOutput struct {
	HubID             string
	FinalWQI          float64
	Category          string
	AnomalyStatus     string
	Interpretation    string
	RecommendedAction string
	Summary           string
}
